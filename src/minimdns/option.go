package minimdns

import (
	"fmt"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/responder"
)

// Option is a function that applies an option to an endpoint created by New().
type Option func(*MDNS) error

// UseLogger returns an option that sets the logger used by the endpoint,
// instead of the process-wide sink installed by SetLogSink().
func UseLogger(l logging.Logger) Option {
	return func(m *MDNS) error {
		m.logger = l
		return nil
	}
}

// CaptureDebug returns an option that enables or disables debug messages in
// the process-wide log sink.
func CaptureDebug(enabled bool) Option {
	return func(m *MDNS) error {
		m.debug = enabled
		return nil
	}
}

// MaxSockets returns an option that limits the number of sockets opened by
// each operation.
func MaxSockets(n int) Option {
	return func(m *MDNS) error {
		if n < 1 {
			return fmt.Errorf("socket limit must be positive, got %d", n)
		}

		m.maxSockets = n
		return nil
	}
}

// QueryWait returns an option that sets the "quiet window" of queries. A query
// stops collecting responses once none has been received for this duration.
func QueryWait(d time.Duration) Option {
	return func(m *MDNS) error {
		if d <= 0 {
			return fmt.Errorf("query wait must be positive, got %s", d)
		}

		m.queryWait = d
		return nil
	}
}

// AnswerSRVQuestions is an option that makes the service responder answer SRV
// questions for the service instance name.
func AnswerSRVQuestions(m *MDNS) error {
	m.responderOptions = append(m.responderOptions, responder.AnswerSRVQuestions)
	return nil
}

// Service returns an option that sets the identity of the registered service.
func Service(hostname, service string, port uint16, txt string) Option {
	return func(m *MDNS) error {
		m.SetServiceHostname(hostname)
		m.SetServiceName(service)
		m.SetServicePort(port)
		m.SetServiceTxtRecord(txt)
		return nil
	}
}

// UseAnswerer returns an option that adds an answerer that the service
// responder consults after the answerers for the registered service.
func UseAnswerer(a responder.Answerer) Option {
	return func(m *MDNS) error {
		m.responderOptions = append(m.responderOptions, responder.UseAnswerer(a))
		return nil
	}
}
