package responder

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/minimdns/dnssd"
	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/transport"
	"github.com/miekg/dns"
)

// Responder is a multicast DNS responder that advertises a single DNS-SD
// service instance.
type Responder struct {
	instance   *dnssd.Instance
	answerer   Answerer
	answerers  []Answerer
	logger     logging.Logger
	maxSockets int
	answerSRV  bool

	sockets []*transport.Socket
}

// New returns a responder that advertises the service instance i.
//
// The responder keeps its own copy of i. Later changes to i have no effect
// on the responder.
func New(i *dnssd.Instance, options ...Option) (*Responder, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}

	r := &Responder{
		instance:   i.Clone(),
		maxSockets: transport.DefaultMaxSockets,
	}

	for _, opt := range options {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.logger == nil {
		r.logger = &logging.StandardLogger{
			Target: log.New(io.Discard, "", 0),
		}
	}

	r.answerer = append(
		UnionAnswerer{
			&TypeEnumerationAnswerer{
				Instance: r.instance,
			},
			&InstanceAnswerer{
				Instance:           r.instance,
				AnswerSRVQuestions: r.answerSRV,
				Logger:             r.logger,
			},
		},
		r.answerers...,
	)

	return r, nil
}

// Instance returns a copy of the service instance advertised by the
// responder.
func (r *Responder) Instance() *dnssd.Instance {
	return r.instance.Clone()
}

// Listen opens the sockets on which the responder receives queries.
//
// If the instance has no addresses, the first non-loopback IPv4 and IPv6
// addresses of the local interfaces are advertised instead. It returns
// transport.ErrNoSockets if no sockets could be opened.
func (r *Responder) Listen() error {
	if r.sockets != nil {
		return errors.New("responder is already listening")
	}

	sockets, local := transport.OpenServiceSockets(r.maxSockets, r.logger)
	if len(sockets) == 0 {
		return transport.ErrNoSockets
	}

	if r.instance.IPv4 == nil {
		r.instance.IPv4 = local.IPv4
	}

	if r.instance.IPv6 == nil {
		r.instance.IPv6 = local.IPv6
	}

	r.sockets = sockets

	return nil
}

// Serve responds to mDNS queries until ctx is canceled or all of the sockets
// fail. Listen() must be called first.
//
// It returns nil if ctx is canceled. The sockets are closed when Serve()
// returns.
func (r *Responder) Serve(ctx context.Context) error {
	if r.sockets == nil {
		return errors.New("responder is not listening")
	}

	mux := transport.NewMultiplexer(ctx, r.sockets, r.logger)
	defer mux.Close()
	r.sockets = nil

	for {
		packets, err := mux.Wait(ctx, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return err
		}

		for _, in := range packets {
			if err := r.handle(ctx, in); err != nil {
				logging.Log(r.logger, "error handling mDNS query: %s", err)
			}
		}
	}
}

// Run responds to mDNS queries until ctx is canceled or an error occurs.
func (r *Responder) Run(ctx context.Context) error {
	if err := r.Listen(); err != nil {
		return err
	}

	return r.Serve(ctx)
}

// Close closes any sockets opened by Listen() that are not yet being served.
func (r *Responder) Close() {
	transport.CloseAll(r.sockets, r.logger)
	r.sockets = nil
}

// Respond builds the responses to a query received from src.
//
// Answers to questions that request a unicast response, and all answers to
// legacy queriers, are added to the unicast response. All other answers are
// added to the multicast response. Either response may be empty.
func (r *Responder) Respond(
	ctx context.Context,
	query *dns.Msg,
	src transport.Endpoint,
) (unicast *dns.Msg, multicast *dns.Msg, err error) {
	if err := mdns.ValidateQuery(query); err != nil {
		return nil, nil, err
	}

	var (
		legacy = src.IsLegacy()
		uRes   = mdns.NewResponse(query, true)
		mRes   = mdns.NewResponse(query, false)
	)

	for _, rawQ := range query.Question {
		wantsUnicast, dnsQ := mdns.WantsUnicastResponse(rawQ)

		var (
			q = Question{
				Question: dnsQ,
				Query:    query,
				Source:   src,
			}
			a = mdns.Answer{}
		)

		if err := r.answerer.Answer(ctx, &q, &a); err != nil {
			return nil, nil, err
		}

		if a.IsEmpty() {
			continue
		}

		if legacy {
			// https://tools.ietf.org/html/rfc6762#section-6.7
			//
			// [The response] MUST repeat the question given in the query
			// message.
			uRes.Question = append(uRes.Question, dnsQ)
			a.AppendToMessage(uRes, true)
		} else if wantsUnicast {
			a.AppendToMessage(uRes, false)
		} else {
			a.AppendToMessage(mRes, false)
		}
	}

	return uRes, mRes, nil
}

// handle answers the query in the inbound packet in.
func (r *Responder) handle(ctx context.Context, in *transport.InboundPacket) error {
	defer in.Close()

	query, err := mdns.Decode(in.Data, func(e mdns.Entry) error {
		logging.Debug(
			r.logger,
			"received %s entry from %s: %s %s",
			e.Type,
			in.Source.Address,
			e.Name,
			dns.TypeToString[e.RecordType],
		)
		return nil
	})
	if err != nil {
		return err
	}

	if err := mdns.ValidateQuery(query); err != nil {
		// responses and non-standard queries are silently ignored
		return nil
	}

	uRes, mRes, err := r.Respond(ctx, query, in.Source)
	if err != nil {
		return err
	}

	if _, err := transport.SendUnicastResponse(in, uRes); err != nil {
		return err
	}

	if _, err := transport.SendMulticastResponse(in, mRes); err != nil {
		return err
	}

	// this is a no-op unless compiled with the 'debug' build tag
	dumpRequestResponse(in, query, uRes, mRes)

	return nil
}
