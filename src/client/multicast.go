package client

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/minimdns/dnssd"
	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/transport"
	"github.com/jmalloc/minimdns/src/minimdns/names"
	"github.com/miekg/dns"
)

// Multicast is an interface for performing multicast DNS queries.
type Multicast interface {
	// Query sends a PTR query for the given service name on every local
	// interface and collects the responses.
	Query(ctx context.Context, service string) ([]Result, error)

	// Discover sends a "service type enumeration" query on every local
	// interface and collects the responses.
	Discover(ctx context.Context) ([]Result, error)
}

// DefaultMulticastWait is the default quiet window. Collection of responses
// stops once no response has been received for this duration.
const DefaultMulticastWait = 5 * time.Second

// StandardMulticast is the standard multicast DNS client implementation.
type StandardMulticast struct {
	// Logger is the target for log messages. If it is nil, nothing is logged.
	Logger logging.Logger

	// MaxSockets is the maximum number of interface addresses that queries
	// are sent from. If it is zero, transport.DefaultMaxSockets is used.
	MaxSockets int

	// Port is the source port of queries. If it is zero, an ephemeral port is
	// used for each interface address.
	Port int

	// MulticastWait is the quiet window used if the context does not specify
	// one. If it is zero, DefaultMulticastWait is used.
	MulticastWait time.Duration
}

// Query sends a PTR query for the given service name on every local interface
// and collects the responses.
//
// Responses are collected until none has been received for the quiet window.
// Responses with a message ID other than that of the query sent via the
// receiving socket are ignored, unless the ID is zero. It returns
// transport.ErrNoSockets if no sockets could be opened.
func (c *StandardMulticast) Query(ctx context.Context, service string) ([]Result, error) {
	n := names.FQDN(dns.Fqdn(service))
	if err := n.Validate(); err != nil {
		return nil, err
	}

	return c.query(ctx, n.String())
}

// Discover sends a "service type enumeration" query on every local interface
// and collects the responses.
//
// Each result's Host is the service type advertised by a responder.
func (c *StandardMulticast) Discover(ctx context.Context) ([]Result, error) {
	n := dnssd.TypeEnumerationDomain(dnssd.DefaultDomain)
	return c.query(ctx, n.String())
}

// query sends a PTR query for name and collects the responses.
func (c *StandardMulticast) query(ctx context.Context, name string) ([]Result, error) {
	logger := c.logger()

	max := c.MaxSockets
	if max == 0 {
		max = transport.DefaultMaxSockets
	}

	sockets, _ := transport.OpenClientSockets(max, c.Port, logger)
	if len(sockets) == 0 {
		return nil, transport.ErrNoSockets
	}

	var (
		ids    = map[*transport.Socket]uint16{}
		active []*transport.Socket
		failed []*transport.Socket
	)

	for _, s := range sockets {
		q := mdns.NewQuery(name, dns.TypePTR, true)

		// the error is logged by the socket
		if err := transport.SendQuery(s, q); err != nil {
			failed = append(failed, s)
			continue
		}

		ids[s] = q.Id
		active = append(active, s)
	}

	defer transport.CloseAll(failed, logger)

	if len(active) == 0 {
		return nil, nil
	}

	mux := transport.NewMultiplexer(ctx, active, logger)
	defer mux.Close()

	col := &collector{
		Name:   name,
		Logger: logger,
	}

	w := c.MulticastWait
	if w == 0 {
		w = DefaultMulticastWait
	}

	var results []Result

	for {
		window := ResolveMulticastWait(ctx, w)
		if window <= 0 {
			return results, nil
		}

		packets, err := mux.Wait(ctx, window)
		if err != nil {
			logging.Debug(logger, "stopped waiting for mDNS responses: %s", err)
			return results, nil
		}

		if len(packets) == 0 {
			return results, nil
		}

		for _, in := range packets {
			res, ok, err := col.Collect(in.Data, ids[in.Socket])
			if err != nil {
				logging.Log(logger, "error parsing mDNS response from %s: %s", in.Source.Address, err)
			} else if ok {
				results = append(results, res)
			}

			in.Close()
		}
	}
}

func (c *StandardMulticast) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return &logging.StandardLogger{
		Target: log.New(io.Discard, "", 0),
	}
}
