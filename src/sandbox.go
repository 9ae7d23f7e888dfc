package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/dogmatiq/dodeca/config"
	"github.com/jmalloc/minimdns/src/minimdns"
	"github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/responder"
	"github.com/miekg/dns"
)

type answerer struct {
}

func (answerer) Answer(ctx context.Context, q *responder.Question, a *mdns.Answer) error {
	if q.Name == "foo.bar.local." && q.Qtype == dns.TypeA {
		a.Unique.Answer(&dns.A{
			Hdr: dns.RR_Header{
				Name:   q.Name,
				Rrtype: dns.TypeA,
				Class:  dns.ClassINET,
				Ttl:    120,
			},
			A: net.ParseIP("192.168.60.36"),
		})
	}

	return nil
}

func main() {
	minimdns.SetLogSink(func(line string) {
		log.Println(line)
	})

	env := config.Environment()

	m, err := minimdns.New(
		minimdns.FromEnvironment(),
		minimdns.UseAnswerer(answerer{}),
	)
	if err != nil {
		log.Fatal(err)
	}

	switch mode := config.AsStringDefault(env, "MINIMDNS_MODE", "service"); mode {
	case "service":
		if err := m.StartService(); err != nil {
			log.Fatal(err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		<-ctx.Done()

		m.StopService()

	case "query":
		service := config.AsStringDefault(env, "MINIMDNS_QUERY", minimdns.DefaultService)
		if _, err := m.ExecuteQuery(service); err != nil {
			log.Fatal(err)
		}

	case "discover":
		if _, err := m.ExecuteDiscovery(); err != nil {
			log.Fatal(err)
		}

	default:
		log.Fatalf("unknown mode %q, expected service, query or discover", mode)
	}
}
