package transport

import (
	"github.com/dogmatiq/dodeca/logging"
)

// DefaultMaxSockets is the default maximum number of sockets opened for a
// single operation.
const DefaultMaxSockets = 32

// OpenServiceSockets opens the sockets used to receive mDNS queries.
//
// Each service socket receives packets from all network interfaces, so at
// most one socket is opened for each address family, and at most max sockets
// are opened in total. The local interfaces are enumerated first in order to
// learn the host's addresses, but no per-interface sockets are opened.
func OpenServiceSockets(max int, logger logging.Logger) ([]*Socket, LocalAddresses) {
	_, local := OpenClientSockets(0, 0, logger)

	var sockets []*Socket

	if len(sockets) < max {
		if s, err := listenService4(logger); err == nil {
			sockets = append(sockets, s)
		}
	}

	if len(sockets) < max {
		if s, err := listenService6(logger); err == nil {
			sockets = append(sockets, s)
		}
	}

	return sockets, local
}

// OpenClientSockets opens the sockets used to send mDNS queries.
//
// A socket can only send via a single interface, so one socket is opened for
// each non-loopback interface address, bound to that address and the given
// port. If port is zero an ephemeral port is used.
//
// Once max sockets are open, no more are opened but the remaining addresses
// are still enumerated so that the host's local addresses are learned.
func OpenClientSockets(max, port int, logger logging.Logger) ([]*Socket, LocalAddresses) {
	var (
		sockets []*Socket
		local   LocalAddresses
		seen    = map[string]struct{}{}
	)

	for _, a := range Enumerate(logger) {
		if a.IsLoopback {
			continue
		}

		key := a.Interface.Name + "/" + a.IP.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		logAddr := local.observe(a)

		if len(sockets) < max {
			s, err := openClientSocket(a, port, logger)
			if err == nil {
				sockets = append(sockets, s)
			}
			logAddr = err == nil
		}

		if logAddr {
			logLocalAddress(logger, a)
		}
	}

	return sockets, local
}

// openClientSocket opens a client socket of a's family.
func openClientSocket(a InterfaceAddress, port int, logger logging.Logger) (*Socket, error) {
	if a.Family == IPv4 {
		return listenClient4(a, port, logger)
	}

	return listenClient6(a, port, logger)
}

// CloseAll closes each of the given sockets.
func CloseAll(sockets []*Socket, logger logging.Logger) {
	for _, s := range sockets {
		if err := s.Close(); err != nil {
			logging.Debug(logger, "unable to close %s: %s", s, err)
		}
	}
}
