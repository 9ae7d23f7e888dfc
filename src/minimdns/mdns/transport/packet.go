package transport

import (
	"github.com/miekg/dns"
)

// InboundPacket is a UDP packet received from a socket.
type InboundPacket struct {
	Socket *Socket
	Source Endpoint
	Data   []byte

	buf *[]byte
}

// Close releases the packet's data. Data must not be used afterwards.
func (p *InboundPacket) Close() {
	putBuffer(p.buf)
	p.buf = nil
	p.Data = nil
}

// OutboundPacket is a UDP packet to be sent by a socket.
type OutboundPacket struct {
	Destination Endpoint
	Data        []byte

	buf *[]byte
}

// Close releases the packet's data. Data must not be used afterwards.
func (p *OutboundPacket) Close() {
	putBuffer(p.buf)
	p.buf = nil
	p.Data = nil
}

// NewOutboundPacket packs the message m into a pooled buffer.
func NewOutboundPacket(dest Endpoint, m *dns.Msg) (*OutboundPacket, error) {
	buf := getBuffer()

	data, err := m.PackBuffer(*buf)
	if err != nil {
		putBuffer(buf)
		return nil, err
	}

	return &OutboundPacket{
		Destination: dest,
		Data:        data,
		buf:         buf,
	}, nil
}
