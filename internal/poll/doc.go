// Package poll confirms OS-level readiness of a single file descriptor with
// a bounded wait. It is the narrow waist between the duty threads and the
// platform: duty threads never block on a descriptor for longer than the
// configured bound, so cooperative stop requests are observed regularly.
package poll
