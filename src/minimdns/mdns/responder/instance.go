package responder

import (
	"context"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/minimdns/dnssd"
	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/miekg/dns"
)

// TypeEnumerationAnswerer answers "service type enumeration" queries with the
// service type of a single instance.
//
// See https://tools.ietf.org/html/rfc6763#section-9.
type TypeEnumerationAnswerer struct {
	Instance *dnssd.Instance
}

// Answer populates an answer to a single DNS question.
func (an *TypeEnumerationAnswerer) Answer(_ context.Context, q *Question, a *mdns.Answer) error {
	if !isPTR(q) {
		return nil
	}

	if q.Name != dnssd.TypeEnumerationDomain(an.Instance.Domain()).String() {
		return nil
	}

	a.Shared.Answer(an.Instance.EnumerationPTR())

	return nil
}

// InstanceAnswerer answers queries for a single DNS-SD service instance.
//
// A PTR question for the instance's service is answered with the PTR record
// of the instance, and its SRV, TXT and address records as additional
// records.
type InstanceAnswerer struct {
	Instance *dnssd.Instance

	// AnswerSRVQuestions enables answers to SRV questions for the instance
	// name. Otherwise SRV questions are only logged.
	AnswerSRVQuestions bool

	Logger logging.Logger
}

// Answer populates an answer to a single DNS question.
func (an *InstanceAnswerer) Answer(_ context.Context, q *Question, a *mdns.Answer) error {
	if q.Qtype == dns.TypeSRV {
		return an.answerSRV(q, a)
	}

	if !isPTR(q) {
		return nil
	}

	if q.Name != an.Instance.Service.String() {
		return nil
	}

	a.Shared.Answer(an.Instance.PTR())
	a.Unique.Additional(
		an.Instance.SRV(),
		an.Instance.TXT(),
	)
	an.addresses(&a.Unique)

	return nil
}

func (an *InstanceAnswerer) answerSRV(q *Question, a *mdns.Answer) error {
	logging.Log(an.Logger, "received SRV question for %s", q.Name)

	if !an.AnswerSRVQuestions || q.Name != an.Instance.Name().String() {
		return nil
	}

	a.Unique.Answer(
		an.Instance.SRV(),
		an.Instance.TXT(),
	)
	an.addresses(&a.Unique)

	return nil
}

// addresses adds the instance's address records to the additional section.
func (an *InstanceAnswerer) addresses(rs *mdns.ResponseSections) {
	if r := an.Instance.A(); r != nil {
		rs.Additional(r)
	}

	if r := an.Instance.AAAA(); r != nil {
		rs.Additional(r)
	}
}

// isPTR returns true if q asks for internet PTR records.
func isPTR(q *Question) bool {
	if q.Qclass != dns.ClassINET && q.Qclass != dns.ClassANY {
		return false
	}

	return q.Qtype == dns.TypePTR
}
