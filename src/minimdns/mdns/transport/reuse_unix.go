//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd
// +build darwin dragonfly freebsd linux netbsd openbsd

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddress sets SO_REUSEADDR and SO_REUSEPORT on a socket before it is
// bound, so that the mDNS port can be shared with other responders on the
// same host.
func reuseAddress(network, address string, c syscall.RawConn) error {
	var opErr error

	err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if opErr == nil {
			opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		}
	})
	if err != nil {
		return err
	}

	return opErr
}
