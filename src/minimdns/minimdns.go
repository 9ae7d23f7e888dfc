// Package minimdns is a minimal mDNS endpoint. It advertises a single DNS-SD
// service and performs one-shot service queries and service type discovery.
package minimdns

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/client"
	"github.com/jmalloc/minimdns/src/minimdns/dnssd"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/responder"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/transport"
	"github.com/jmalloc/minimdns/src/minimdns/names"
	"github.com/miekg/dns"
)

const (
	// DefaultHostname is the hostname of the registered service if none is set.
	DefaultHostname = "dummy-host"

	// DefaultService is the name of the registered service if none is set.
	DefaultService = "_http._tcp.local."

	// DefaultPort is the port of the registered service if none is set.
	DefaultPort = 42424
)

// MDNS is an mDNS endpoint that advertises a single service.
//
// The service identity may be changed at any time, but changes only take
// effect the next time the service is started.
type MDNS struct {
	mu               sync.Mutex
	instance         dnssd.Instance
	logger           logging.Logger
	debug            bool
	maxSockets       int
	queryWait        time.Duration
	responderOptions []responder.Option

	running int32
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a new mDNS endpoint.
func New(options ...Option) (*MDNS, error) {
	m := &MDNS{
		instance: dnssd.Instance{
			Service: DefaultService,
			Host:    DefaultHostname,
			Port:    DefaultPort,
		},
		maxSockets: transport.DefaultMaxSockets,
		queryWait:  client.DefaultMulticastWait,
	}

	for _, opt := range options {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SetServiceHostname sets the hostname of the registered service. It is also
// used as the service instance name.
func (m *MDNS) SetServiceHostname(h string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.instance.Host = names.Label(h)
}

// SetServicePort sets the port of the registered service.
func (m *MDNS) SetServicePort(p uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.instance.Port = p
}

// SetServiceName sets the name of the registered service, such as
// "_http._tcp.local.". The trailing dot is optional.
func (m *MDNS) SetServiceName(n string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.instance.Service = names.FQDN(dns.Fqdn(n))
}

// SetServiceTxtRecord sets the content of the registered service's TXT
// record to a single "key=value" or "key" string. An empty string removes it.
func (m *MDNS) SetServiceTxtRecord(txt string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.instance.Text = dnssd.ParseText([]string{txt})
}

// Identity returns a copy of the registered service's identity, as it will be
// advertised the next time the service is started.
func (m *MDNS) Identity() *dnssd.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.instance.Clone()
}

// StartService starts responding to queries for the registered service.
//
// If the service is already running it is stopped first. It returns an error
// if the service identity is invalid or no sockets could be opened.
func (m *MDNS) StartService() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stop()

	logger := m.log()

	r, err := responder.New(
		&m.instance,
		append(
			[]responder.Option{
				responder.UseLogger(logger),
				responder.MaxSockets(m.maxSockets),
			},
			m.responderOptions...,
		)...,
	)
	if err != nil {
		return err
	}

	if err := r.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	m.cancel = cancel
	m.done = done
	atomic.StoreInt32(&m.running, 1)

	i := r.Instance()
	logging.Log(
		logger,
		"advertising %s on port %d (%s)",
		i.Name(),
		i.Port,
		i.TargetHost(),
	)

	go func() {
		defer close(done)

		if err := r.Serve(ctx); err != nil {
			atomic.StoreInt32(&m.running, 0)
			logging.Log(logger, "mDNS responder stopped: %s", err)
		}
	}()

	return nil
}

// StopService stops responding to queries. It blocks until the responder has
// stopped. It is a no-op if the service is not running.
func (m *MDNS) StopService() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stop()
}

// IsServiceRunning returns true if the service is running.
func (m *MDNS) IsServiceRunning() bool {
	return atomic.LoadInt32(&m.running) != 0
}

// ExecuteQuery sends a PTR query for the given service name on every local
// interface and returns the responses that are received before the query's
// quiet window passes.
//
// It may be called while the service is running.
func (m *MDNS) ExecuteQuery(service string) ([]client.Result, error) {
	c, logger := m.client()

	results, err := c.Query(context.Background(), service)
	if err != nil {
		return nil, err
	}

	logResults(logger, service, results)

	return results, nil
}

// ExecuteDiscovery sends a "service type enumeration" query on every local
// interface and returns the responses that are received before the query's
// quiet window passes.
//
// It may be called while the service is running.
func (m *MDNS) ExecuteDiscovery() ([]client.Result, error) {
	c, logger := m.client()

	results, err := c.Discover(context.Background())
	if err != nil {
		return nil, err
	}

	logResults(
		logger,
		dnssd.TypeEnumerationDomain(dnssd.DefaultDomain).String(),
		results,
	)

	return results, nil
}

// Close stops the service.
func (m *MDNS) Close() error {
	m.StopService()
	return nil
}

// stop stops the responder. m.mu must be held.
func (m *MDNS) stop() {
	if m.cancel == nil {
		return
	}

	m.cancel()
	<-m.done

	m.cancel = nil
	m.done = nil
	atomic.StoreInt32(&m.running, 0)
}

// client returns the multicast client used for queries.
func (m *MDNS) client() (client.Multicast, logging.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := m.log()

	return &client.StandardMulticast{
		Logger:        logger,
		MaxSockets:    m.maxSockets,
		MulticastWait: m.queryWait,
	}, logger
}

// log returns the logger to use. m.mu must be held.
func (m *MDNS) log() logging.Logger {
	if m.logger != nil {
		return m.logger
	}

	return sinkLogger(m.debug)
}

func logResults(logger logging.Logger, name string, results []client.Result) {
	logging.Log(logger, "%d response(s) to query for %s", len(results), name)

	for _, r := range results {
		logging.Log(
			logger,
			"host: %s, IPv4: %s, IPv6: %s, TXT: %v",
			r.Host,
			r.IPv4,
			r.IPv6,
			r.Text,
		)
	}
}
