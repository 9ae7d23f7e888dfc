//go:build !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd
// +build !darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd

package transport

import "syscall"

// reuseAddress is a no-op on platforms without SO_REUSEPORT.
func reuseAddress(network, address string, c syscall.RawConn) error {
	return nil
}
