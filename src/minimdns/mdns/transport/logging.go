package transport

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

func logListening(logger logging.Logger, s *Socket) {
	logging.Debug(
		logger,
		"listening for mDNS packets on %s (%s)",
		s.LocalAddress,
		s.Family,
	)
}

func logLocalAddress(logger logging.Logger, a InterfaceAddress) {
	logging.Log(
		logger,
		"local %s address: %s (%s)",
		a.Family,
		a.IP,
		a.Interface.Name,
	)
}

func logListenError(logger logging.Logger, addr *net.UDPAddr, err error) {
	logging.Log(
		logger,
		"unable to open mDNS socket on %s: %s",
		addr,
		err,
	)
}

func logReadError(logger logging.Logger, s *Socket, err error) {
	logging.Log(
		logger,
		"unable to read mDNS packet via %s: %s",
		s.LocalAddress,
		err,
	)
}

func logWriteError(logger logging.Logger, dest *net.UDPAddr, s *Socket, err error) {
	logging.Log(
		logger,
		"unable to send mDNS packet to %s via %s: %s",
		dest,
		s.LocalAddress,
		err,
	)
}

func logSocketOptionError(logger logging.Logger, opt string, s *Socket, err error) {
	logging.Debug(
		logger,
		"unable to set %s on mDNS socket %s: %s",
		opt,
		s.LocalAddress,
		err,
	)
}
