package minimdns

import (
	"github.com/dogmatiq/dodeca/config"
	"github.com/jmalloc/minimdns/src/client"
)

// FromEnvironment returns an option that configures the endpoint from
// environment variables:
//
//	MDNS_HOSTNAME    hostname of the registered service
//	MDNS_SERVICE     name of the registered service
//	MDNS_PORT        port of the registered service
//	MDNS_TXT         content of the registered service's TXT record
//	MDNS_QUERY_WAIT  quiet window of queries, such as "5s"
//	MDNS_DEBUG       include debug messages in the log sink
//
// Variables that are not set leave the current value unchanged.
func FromEnvironment() Option {
	return FromConfig(config.Environment())
}

// FromConfig returns an option that configures the endpoint from the keys of
// b described by FromEnvironment().
func FromConfig(b config.Bucket) Option {
	return func(m *MDNS) error {
		m.mu.Lock()
		i := m.instance
		wait := m.queryWait
		debug := m.debug
		m.mu.Unlock()

		if wait == 0 {
			wait = client.DefaultMulticastWait
		}

		opts := []Option{
			Service(
				config.AsStringDefault(b, "MDNS_HOSTNAME", string(i.Host)),
				config.AsStringDefault(b, "MDNS_SERVICE", string(i.Service)),
				config.AsUint16Default(b, "MDNS_PORT", i.Port),
				config.AsStringDefault(b, "MDNS_TXT", firstText(i.Text.Pairs())),
			),
			QueryWait(config.AsDurationDefault(b, "MDNS_QUERY_WAIT", wait)),
			CaptureDebug(config.AsBoolDefault(b, "MDNS_DEBUG", debug)),
		}

		for _, opt := range opts {
			if err := opt(m); err != nil {
				return err
			}
		}

		return nil
	}
}

func firstText(txt []string) string {
	if len(txt) == 0 {
		return ""
	}

	return txt[0]
}
