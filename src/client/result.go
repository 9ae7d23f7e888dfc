package client

import (
	"errors"
	"strings"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/minimdns/dnssd"
	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/jmalloc/minimdns/src/minimdns/names"
	"github.com/miekg/dns"
)

// Result is the information collected from a single mDNS response.
type Result struct {
	// Host is the name of the host that responded. It is the instance label
	// if the response contains a PTR record for an instance of the queried
	// service, otherwise it is the PTR or SRV target.
	Host string

	// IPv4 and IPv6 are the addresses in the response's A and AAAA records.
	IPv4 string
	IPv6 string

	// Text is the content of the response's TXT record.
	Text map[string]string
}

// IsEmpty returns true if no information was collected.
func (r *Result) IsEmpty() bool {
	return r.Host == "" &&
		r.IPv4 == "" &&
		r.IPv6 == "" &&
		len(r.Text) == 0
}

// errIgnored stops the decoding of messages that are not replies to a query.
var errIgnored = errors.New("message ignored")

// collector decodes the responses to a single query into results.
type collector struct {
	// Name is the name that was queried.
	Name string

	// Logger is the target for log messages about received records.
	Logger logging.Logger
}

// Collect decodes the response in data into a result.
//
// Responses whose ID is neither id nor zero are ignored, unless the queried
// name is a "service type enumeration" name. ok is false if data is not a
// response or it contains no information.
func (c *collector) Collect(data []byte, id uint16) (res Result, ok bool, err error) {
	filter := !dnssd.IsTypeEnumerationDomain(c.Name)

	_, err = mdns.Decode(data, func(e mdns.Entry) error {
		m := e.Message

		if !m.Response {
			return errIgnored
		}

		if filter && m.Id != 0 && m.Id != id {
			return errIgnored
		}

		if e.Type == mdns.QuestionEntry {
			return nil
		}

		logging.Debug(
			c.Logger,
			"received %s record: %s",
			e.Type,
			e.Record,
		)

		switch r := e.Record.(type) {
		case *dns.PTR:
			res.Host = c.host(r.Ptr)
		case *dns.SRV:
			host := strings.TrimSuffix(r.Target, ".")
			res.Host = strings.TrimSuffix(host, ".local")
		case *dns.A:
			res.IPv4 = r.A.String()
		case *dns.AAAA:
			res.IPv6 = r.AAAA.String()
		case *dns.TXT:
			t := dnssd.ParseText(r.Txt)
			res.Text = t.Map()
		}

		return nil
	})

	if err == errIgnored {
		return Result{}, false, nil
	}

	if err != nil {
		return Result{}, false, err
	}

	return res, !res.IsEmpty(), nil
}

// host returns the instance label of the PTR target t if t is an instance of
// the queried service, otherwise it returns t unchanged.
func (c *collector) host(t string) string {
	n := names.FQDN(t)
	if n.Validate() != nil {
		return t
	}

	head, tail := n.Split()
	if strings.EqualFold(string(tail), c.Name) {
		return string(head)
	}

	return t
}
