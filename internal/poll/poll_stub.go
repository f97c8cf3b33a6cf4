//go:build !unix

package poll

import "time"

// Readable reports readiness optimistically on platforms without poll(2).
// The handler's own read path is then the arbiter of readiness.
func Readable(fd int, timeout time.Duration) (bool, error) {
	return true, nil
}

// Writable reports readiness optimistically on platforms without poll(2).
func Writable(fd int, timeout time.Duration) (bool, error) {
	return true, nil
}
