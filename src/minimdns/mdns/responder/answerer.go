package responder

import (
	"context"

	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/transport"
	"github.com/miekg/dns"
)

// Answerer is an interface that provides answers to DNS questions.
type Answerer interface {
	// Answer populates an answer to a single DNS question.
	// The implementation must allow concurrent calls.
	Answer(context.Context, *Question, *mdns.Answer) error
}

// Question encapsulates a DNS question.
//
// The embedded question has the "unicast response" bit cleared.
type Question struct {
	dns.Question

	Query  *dns.Msg
	Source transport.Endpoint
}

// UnionAnswerer is an answerer that combines answers from multiple answerers.
type UnionAnswerer []Answerer

// Answer populates an answer to a single DNS question.
// The implementation must allow concurrent calls.
func (an UnionAnswerer) Answer(ctx context.Context, q *Question, a *mdns.Answer) error {
	for _, x := range an {
		if err := x.Answer(ctx, q, a); err != nil {
			return err
		}
	}

	return nil
}
