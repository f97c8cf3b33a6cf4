//go:build unix

package poll

import (
	"time"

	"golang.org/x/sys/unix"
)

// Readable blocks for at most timeout and reports whether fd became
// readable.
func Readable(fd int, timeout time.Duration) (bool, error) {
	return wait(fd, unix.POLLIN, timeout)
}

// Writable blocks for at most timeout and reports whether fd became
// writable.
func Writable(fd int, timeout time.Duration) (bool, error) {
	return wait(fd, unix.POLLOUT, timeout)
}

func wait(fd int, events int16, timeout time.Duration) (bool, error) {
	pfds := []unix.PollFd{{Fd: int32(fd), Events: events}}
	for {
		n, err := unix.Poll(pfds, int(timeout.Milliseconds()))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		// error and hangup conditions count as readiness so the handler
		// observes them on its next read or write
		return n > 0 && pfds[0].Revents&(events|unix.POLLHUP|unix.POLLERR) != 0, nil
	}
}
