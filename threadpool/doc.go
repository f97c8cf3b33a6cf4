// Package threadpool implements the main-loop contract with a thread per
// duty instead of a cooperative reactor: for every registered I/O handler a
// dedicated reader thread and a writer thread, plus one thread draining the
// event dispatcher. Duty threads never raise into their own stack; terminal
// failures are captured on a shared unbounded queue and surfaced by the
// supervising Loop.
//
// Cancellation is cooperative. Stop requests are observed between loop
// iterations, so a thread parked inside a handler's readiness-wait hook
// reacts only once that hook returns. Stop is eventually effective rather
// than immediate.
package threadpool
