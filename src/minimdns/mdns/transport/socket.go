package transport

import (
	"fmt"
	"net"

	"github.com/dogmatiq/dodeca/logging"
)

// Kind is the role of a socket.
type Kind int

const (
	// ServiceSocket is a socket bound to the mDNS port on the wildcard address
	// of its family. It receives multicast traffic from all interfaces.
	ServiceSocket Kind = iota

	// ClientSocket is a socket bound to the address of a single interface. It
	// is used to send queries and receive unicast replies.
	ClientSocket
)

func (k Kind) String() string {
	if k == ServiceSocket {
		return "service"
	}

	return "client"
}

// packetConn abstracts the differences between UDP over IPv4 and IPv6.
type packetConn interface {
	ReadFrom(buf []byte) (n int, iface int, src *net.UDPAddr, err error)
	WriteTo(buf []byte, iface int, dest *net.UDPAddr) error
	Close() error
}

// Socket is an open UDP socket used for mDNS communication.
type Socket struct {
	Family       Family
	Kind         Kind
	LocalAddress *net.UDPAddr

	// Interface is the interface the socket is bound to. It is nil for
	// service sockets.
	Interface *net.Interface

	conn   packetConn
	logger logging.Logger
}

// Read reads the next packet from the socket.
//
// The caller must close the returned packet.
func (s *Socket) Read() (*InboundPacket, error) {
	buf := getBuffer()

	n, iface, src, err := s.conn.ReadFrom(*buf)
	if err != nil {
		putBuffer(buf)
		return nil, err
	}

	return &InboundPacket{
		Socket: s,
		Source: Endpoint{iface, src},
		Data:   (*buf)[:n],
		buf:    buf,
	}, nil
}

// Write sends a packet via the socket.
func (s *Socket) Write(p *OutboundPacket) error {
	if err := s.conn.WriteTo(
		p.Data,
		p.Destination.InterfaceIndex,
		p.Destination.Address,
	); err != nil {
		logWriteError(s.logger, p.Destination.Address, s, err)
		return err
	}

	return nil
}

// Group returns the multicast group address for this socket's family.
func (s *Socket) Group() *net.UDPAddr {
	return s.Family.Group()
}

// Close closes the socket, preventing further reads and writes.
func (s *Socket) Close() error {
	return s.conn.Close()
}

func (s *Socket) String() string {
	return fmt.Sprintf("%s %s socket %s", s.Family, s.Kind, s.LocalAddress)
}

// udpAddr returns the local address of c as a *net.UDPAddr.
func udpAddr(c net.PacketConn) *net.UDPAddr {
	if a, ok := c.LocalAddr().(*net.UDPAddr); ok {
		return a
	}

	return &net.UDPAddr{}
}
