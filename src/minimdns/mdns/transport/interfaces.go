package transport

import (
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

// InterfaceAddress is an IP address assigned to a local network interface.
type InterfaceAddress struct {
	Family     Family
	IP         net.IP
	Interface  net.Interface
	IsLoopback bool
}

// zone returns the IPv6 zone required to bind to the address, if any.
func (a InterfaceAddress) zone() string {
	if a.Family == IPv6 && a.IP.IsLinkLocalUnicast() {
		return a.Interface.Name
	}

	return ""
}

// LocalAddresses is the first non-loopback IPv4 and IPv6 address observed
// during a single enumeration pass.
type LocalAddresses struct {
	IPv4 net.IP
	IPv6 net.IP
}

// observe records a as the local address of its family if no address of that
// family has been recorded yet. It returns true if a was recorded.
func (l *LocalAddresses) observe(a InterfaceAddress) bool {
	if a.IsLoopback {
		return false
	}

	switch a.Family {
	case IPv4:
		if l.IPv4 == nil {
			l.IPv4 = a.IP
			return true
		}
	case IPv6:
		if l.IPv6 == nil {
			l.IPv6 = a.IP
			return true
		}
	}

	return false
}

// interfaceAddrs is the source of interface addresses used by Enumerate.
var interfaceAddrs = systemInterfaceAddrs

// Enumerate returns the addresses assigned to the local network interfaces
// that are up.
//
// It never fails. If the addresses can not be obtained the error is logged and
// an empty set is returned.
func Enumerate(logger logging.Logger) []InterfaceAddress {
	addrs, err := interfaceAddrs()
	if err != nil {
		logging.Log(logger, "unable to get interface addresses: %s", err)
		return nil
	}

	for i := range addrs {
		addrs[i].IsLoopback = addrs[i].IsLoopback || isLoopback(addrs[i].IP)
	}

	return addrs
}

// systemInterfaceAddrs returns the addresses of the network interfaces that
// are up.
func systemInterfaceAddrs() ([]InterfaceAddress, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var result []InterfaceAddress

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipn, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			a := InterfaceAddress{
				Family:     IPv6,
				IP:         ipn.IP,
				Interface:  iface,
				IsLoopback: iface.Flags&net.FlagLoopback != 0,
			}

			if ip := ipn.IP.To4(); ip != nil {
				a.Family = IPv4
				a.IP = ip
			}

			result = append(result, a)
		}
	}

	return result, nil
}

// isLoopback returns true if ip is a loopback address. This includes the
// IPv4-mapped IPv6 form of the IPv4 loopback addresses.
func isLoopback(ip net.IP) bool {
	return ip.IsLoopback()
}

// multicastInterfaces returns the list of network interfaces that are up and
// support multicast.
func multicastInterfaces() []net.Interface {
	candidates, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var matches []net.Interface
	const flags = net.FlagUp | net.FlagMulticast

	for _, i := range candidates {
		if (i.Flags & flags) == flags {
			matches = append(matches, i)
		}
	}

	return matches
}
