// Package event provides thread-safe event queues and a basic event
// dispatcher. The queues decouple the threads producing events or failures
// from the single thread consuming them, keeping the consuming side
// sequential: easier debugging, sequential tracing and deterministic tests.
package event
