package transport

import (
	"errors"
	"net"

	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/miekg/dns"
)

// ErrNoSockets is returned when no sockets could be opened for an operation.
var ErrNoSockets = errors.New("unable to open any mDNS sockets")

// Family is an IP address family.
type Family int

const (
	// IPv4 is the IPv4 address family.
	IPv4 Family = 4

	// IPv6 is the IPv6 address family.
	IPv6 Family = 6
)

func (f Family) String() string {
	if f == IPv4 {
		return "IPv4"
	}

	return "IPv6"
}

// network returns the network name used with the net package.
func (f Family) network() string {
	if f == IPv4 {
		return "udp4"
	}

	return "udp6"
}

// Group returns the mDNS multicast group address for the family.
func (f Family) Group() *net.UDPAddr {
	if f == IPv4 {
		return mdns.IPv4Address
	}

	return mdns.IPv6Address
}

// SendResponse sends a DNS message as a response to an inbound packet.
//
// It returns false if the message is empty and was not sent.
func SendResponse(in *InboundPacket, to *net.UDPAddr, m *dns.Msg) (bool, error) {
	if len(m.Question) == 0 &&
		len(m.Answer) == 0 &&
		len(m.Ns) == 0 &&
		len(m.Extra) == 0 {
		return false, nil
	}

	out, err := NewOutboundPacket(
		Endpoint{
			InterfaceIndex: in.Source.InterfaceIndex,
			Address:        to,
		},
		m,
	)
	if err != nil {
		return false, err
	}
	defer out.Close()

	return true, in.Socket.Write(out)
}

// SendUnicastResponse sends a DNS message as a unicast response to an inbound
// packet.
func SendUnicastResponse(in *InboundPacket, m *dns.Msg) (bool, error) {
	return SendResponse(in, in.Source.Address, m)
}

// SendMulticastResponse sends a DNS message as a multicast response to an
// inbound packet.
func SendMulticastResponse(in *InboundPacket, m *dns.Msg) (bool, error) {
	return SendResponse(in, in.Socket.Group(), m)
}

// SendQuery sends a DNS message to the multicast group of the socket's
// address family.
func SendQuery(s *Socket, m *dns.Msg) error {
	out, err := NewOutboundPacket(
		Endpoint{Address: s.Group()},
		m,
	)
	if err != nil {
		return err
	}
	defer out.Close()

	return s.Write(out)
}
