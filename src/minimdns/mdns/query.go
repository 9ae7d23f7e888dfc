package mdns

import (
	"errors"

	"github.com/miekg/dns"
)

// UnicastResponseBit is the bit in a question's class that is used to request
// a unicast response.
//
// See https://tools.ietf.org/html/rfc6762#section-18.12.
const UnicastResponseBit = 1 << 15

// NewQuery returns a new mDNS query containing a single question.
//
// If unicast is true the question requests a unicast response ("QU"
// question). The message ID is random, so that replies that echo it can be
// correlated with the query.
func NewQuery(name string, qtype uint16, unicast bool) *dns.Msg {
	m := &dns.Msg{}
	m.SetQuestion(name, qtype)

	// https://tools.ietf.org/html/rfc6762#section-18.6
	//
	// In both multicast query and multicast response messages, the
	// Recursion Desired bit SHOULD be zero on transmission.
	m.RecursionDesired = false

	if unicast {
		m.Question[0].Qclass |= UnicastResponseBit
	}

	return m
}

// ValidateQuery returns an error if m is not a valid mDNS query.
func ValidateQuery(m *dns.Msg) error {
	if m.Response {
		return errors.New("DNS message is a response")
	}

	// https://tools.ietf.org/html/rfc6762#section-18.3
	//
	// "In both multicast query and multicast response messages, the OPCODE MUST
	// be zero on transmission (only standard queries are currently supported
	// over multicast).  Multicast DNS messages received with an OPCODE other
	// than zero MUST be silently ignored."  Note: OpcodeQuery == 0
	if m.Opcode != dns.OpcodeQuery {
		return errors.New("OPCODE must be zero (query) in mDNS queries")
	}

	// https://tools.ietf.org/html/rfc6762#section-18.11
	//
	// "In both multicast query and multicast response messages, the Response
	// Code MUST be zero on transmission.  Multicast DNS messages received with
	// non-zero Response Codes MUST be silently ignored."
	if m.Rcode != 0 {
		return errors.New("RCODE must be zero in mDNS queries")
	}

	return nil
}

// WantsUnicastResponse returns true if the given question requested a unicast
// response.
//
// It returns a copy of the question with the "unicast response bit" cleared, to
// reflect the actual question class.
//
// See https://tools.ietf.org/html/rfc6762#section-18.12.
func WantsUnicastResponse(q dns.Question) (bool, dns.Question) {
	// In the Question Section of a Multicast DNS query, the top bit of the
	// qclass field is used to indicate that unicast responses are preferred
	// for this particular question.  (See Section 5.4.)
	u := q.Qclass & UnicastResponseBit // read top-bit
	q.Qclass &^= UnicastResponseBit    // clear top-bit

	return u != 0, q
}
