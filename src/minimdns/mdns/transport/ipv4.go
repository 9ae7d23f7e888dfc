package transport

import (
	"context"
	"net"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	ipvx "golang.org/x/net/ipv4"
)

// IPv4ListenAddress is the address to which IPv4 service sockets are bound.
var IPv4ListenAddress = &net.UDPAddr{IP: net.IPv4zero, Port: mdns.Port}

// conn4 is a packetConn that communicates using IPv4.
type conn4 struct {
	pc *ipvx.PacketConn
}

func (c *conn4) ReadFrom(buf []byte) (int, int, *net.UDPAddr, error) {
	n, cm, src, err := c.pc.ReadFrom(buf)
	if err != nil {
		return 0, 0, nil, err
	}

	iface := 0
	if cm != nil {
		iface = cm.IfIndex
	}

	addr, _ := src.(*net.UDPAddr)
	return n, iface, addr, nil
}

func (c *conn4) WriteTo(buf []byte, iface int, dest *net.UDPAddr) error {
	var cm *ipvx.ControlMessage
	if iface != 0 {
		cm = &ipvx.ControlMessage{IfIndex: iface}
	}

	_, err := c.pc.WriteTo(buf, cm, dest)
	return err
}

func (c *conn4) Close() error {
	return c.pc.Close()
}

// listenService4 opens an IPv4 service socket bound to the mDNS port on the
// wildcard address and joined to the mDNS multicast group.
func listenService4(logger logging.Logger) (*Socket, error) {
	addr := IPv4ListenAddress
	lc := net.ListenConfig{Control: reuseAddress}

	conn, err := lc.ListenPacket(context.Background(), IPv4.network(), addr.String())
	if err != nil {
		logListenError(logger, addr, err)
		return nil, err
	}

	pc := ipvx.NewPacketConn(conn)
	s := &Socket{
		Family:       IPv4,
		Kind:         ServiceSocket,
		LocalAddress: udpAddr(conn),
		conn:         &conn4{pc},
		logger:       logger,
	}

	if err := pc.SetControlMessage(ipvx.FlagInterface, true); err != nil {
		logSocketOptionError(logger, "interface control messages", s, err)
	}

	if err := pc.SetMulticastLoopback(true); err != nil {
		logSocketOptionError(logger, "multicast loopback", s, err)
	}

	if _, err := joinGroup(
		pc,
		mdns.IPv4Group,
		multicastInterfaces(),
		logger,
	); err != nil {
		pc.Close()
		logListenError(logger, addr, err)
		return nil, err
	}

	logListening(logger, s)

	return s, nil
}

// listenClient4 opens an IPv4 client socket bound to a and port.
func listenClient4(a InterfaceAddress, port int, logger logging.Logger) (*Socket, error) {
	addr := &net.UDPAddr{IP: a.IP, Port: port}

	lc := net.ListenConfig{}
	if port != 0 {
		lc.Control = reuseAddress
	}

	conn, err := lc.ListenPacket(context.Background(), IPv4.network(), addr.String())
	if err != nil {
		logListenError(logger, addr, err)
		return nil, err
	}

	iface := a.Interface
	pc := ipvx.NewPacketConn(conn)
	s := &Socket{
		Family:       IPv4,
		Kind:         ClientSocket,
		LocalAddress: udpAddr(conn),
		Interface:    &iface,
		conn:         &conn4{pc},
		logger:       logger,
	}

	if err := pc.SetMulticastInterface(&iface); err != nil {
		logSocketOptionError(logger, "multicast interface", s, err)
	}

	// https://tools.ietf.org/html/rfc6762#section-11
	if err := pc.SetMulticastTTL(255); err != nil {
		logSocketOptionError(logger, "multicast TTL", s, err)
	}

	if err := pc.SetMulticastLoopback(true); err != nil {
		logSocketOptionError(logger, "multicast loopback", s, err)
	}

	return s, nil
}
