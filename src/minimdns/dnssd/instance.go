package dnssd

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jmalloc/minimdns/src/minimdns/names"
	"github.com/miekg/dns"
)

// DefaultTTL is the default TTL for all DNS records.
const DefaultTTL = 120 * time.Second

// Instance is a DNS-SD service instance. It is the identity of the service
// that is advertised by a responder.
type Instance struct {
	// Service is the fully-qualified DNS-SD service name, such as
	// "_http._tcp.local.".
	Service names.FQDN

	// Host is the unqualified name of the host that provides the service. It
	// is used both as the instance name and as the first label of the SRV
	// target.
	Host names.Label

	// Port is the TCP/UDP port that the service instance listens on.
	Port uint16

	// Text contains the key/value pairs encoded in the instance's TXT record,
	// as per https://tools.ietf.org/html/rfc6763#section-6.3.
	Text Text

	// IPv4 and IPv6 are the addresses advertised for the target host. Either
	// may be nil.
	IPv4 net.IP
	IPv6 net.IP

	// TTL is the TTL of the instance's DNS records.
	TTL time.Duration
}

// Name returns the fully-qualified service instance name, such as
// "AirForce1._http._tcp.local.".
func (i *Instance) Name() names.FQDN {
	return i.Host.Qualify(i.Service)
}

// Domain returns the domain that the service is advertised within. It is the
// service name without its "_service._proto" labels.
func (i *Instance) Domain() names.FQDN {
	if d, ok := i.Service.Parent(2); ok {
		return d
	}

	return DefaultDomain
}

// TargetHost returns the fully-qualified name of the host that provides the
// service, such as "AirForce1.local.".
func (i *Instance) TargetHost() names.FQDN {
	return i.Host.Qualify(i.Domain())
}

// EnumerationPTR returns the PTR record that advertises the instance's service
// type in response to "service type enumeration" queries.
func (i *Instance) EnumerationPTR() *dns.PTR {
	return &dns.PTR{
		Hdr: dns.RR_Header{
			Name:   TypeEnumerationDomain(i.Domain()).String(),
			Rrtype: dns.TypePTR,
			Class:  dns.ClassINET,
			Ttl:    i.TTLInSeconds(),
		},
		Ptr: i.Service.String(),
	}
}

// PTR returns the instance's PTR record.
func (i *Instance) PTR() *dns.PTR {
	return &dns.PTR{
		Hdr: dns.RR_Header{
			Name:   i.Service.String(),
			Rrtype: dns.TypePTR,
			Class:  dns.ClassINET,
			Ttl:    i.TTLInSeconds(),
		},
		Ptr: i.Name().String(),
	}
}

// SRV returns the instance's SRV record.
func (i *Instance) SRV() *dns.SRV {
	return &dns.SRV{
		Hdr: dns.RR_Header{
			Name:   i.Name().String(),
			Rrtype: dns.TypeSRV,
			Class:  dns.ClassINET,
			Ttl:    i.TTLInSeconds(),
		},
		Priority: 0,
		Weight:   0,
		Target:   i.TargetHost().String(),
		Port:     i.Port,
	}
}

// TXT returns the instance's TXT record.
//
// A TXT record with no strings is encoded as a single empty string, as per
// https://tools.ietf.org/html/rfc6763#section-6.1.
func (i *Instance) TXT() *dns.TXT {
	r := &dns.TXT{
		Hdr: dns.RR_Header{
			Name:   i.Name().String(),
			Rrtype: dns.TypeTXT,
			Class:  dns.ClassINET,
			Ttl:    i.TTLInSeconds(),
		},
		Txt: i.Text.Pairs(),
	}

	if i.Text.Len() == 0 {
		r.Txt = []string{""}
	}

	return r
}

// A returns the A record for the instance's target host, or nil if the
// instance has no IPv4 address.
func (i *Instance) A() *dns.A {
	ip := i.IPv4.To4()
	if ip == nil {
		return nil
	}

	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   i.TargetHost().String(),
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    i.TTLInSeconds(),
		},
		A: ip,
	}
}

// AAAA returns the AAAA record for the instance's target host, or nil if the
// instance has no IPv6 address.
func (i *Instance) AAAA() *dns.AAAA {
	if len(i.IPv6) != net.IPv6len || i.IPv6.To4() != nil {
		return nil
	}

	return &dns.AAAA{
		Hdr: dns.RR_Header{
			Name:   i.TargetHost().String(),
			Rrtype: dns.TypeAAAA,
			Class:  dns.ClassINET,
			Ttl:    i.TTLInSeconds(),
		},
		AAAA: i.IPv6,
	}
}

// TTLInSeconds returns the instance's DNS record TTL in seconds.
// If i.TTL is 0, it uses DefaultTTL.
func (i *Instance) TTLInSeconds() uint32 {
	ttl := i.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return uint32(ttl.Seconds())
}

// Clone returns a deep copy of the instance.
func (i *Instance) Clone() *Instance {
	c := *i
	c.Text = ParseText(i.Text.Pairs())
	c.IPv4 = append(net.IP(nil), i.IPv4...)
	c.IPv6 = append(net.IP(nil), i.IPv6...)

	if len(c.IPv4) == 0 {
		c.IPv4 = nil
	}

	if len(c.IPv6) == 0 {
		c.IPv6 = nil
	}

	return &c
}

// Validate returns an error if the instance is configured incorrectly.
func (i *Instance) Validate() error {
	for _, n := range []names.Name{i.Service, i.Host} {
		if err := n.Validate(); err != nil {
			return err
		}
	}

	if len(i.Service.Labels()) < 3 {
		return fmt.Errorf("service name '%s' is invalid, expected '_service._proto.domain.'", string(i.Service))
	}

	if i.Port == 0 {
		return errors.New("port must not be zero")
	}

	for _, t := range i.Text.Pairs() {
		if len(t) > 255 {
			return fmt.Errorf("TXT record string '%.16s...' is longer than 255 bytes", t)
		}
	}

	return nil
}
