package minimdns_test

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/dogmatiq/dodeca/logging"
	"github.com/jmalloc/minimdns/src/client"
	. "github.com/jmalloc/minimdns/src/minimdns"
	"github.com/jmalloc/minimdns/src/minimdns/mdns/transport"
	"github.com/jmalloc/minimdns/src/minimdns/names"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("MDNS", func() {
	var (
		endpoint *MDNS
		logger   logging.Logger
	)

	BeforeEach(func() {
		logger = &logging.StandardLogger{
			Target: log.New(GinkgoWriter, "", 0),
		}

		var err error
		endpoint, err = New(UseLogger(logger))
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		endpoint.Close()
	})

	// start starts the service, or skips the test if the mDNS port is not
	// available.
	start := func() {
		if err := endpoint.StartService(); err != nil {
			Skip("unable to start the service: " + err.Error())
		}
	}

	Describe("func New()", func() {
		It("uses the default service identity", func() {
			i := endpoint.Identity()

			Expect(i.Host).To(Equal(names.Label(DefaultHostname)))
			Expect(i.Service).To(Equal(names.FQDN(DefaultService)))
			Expect(i.Port).To(Equal(uint16(DefaultPort)))
			Expect(i.Text.Len()).To(BeZero())
		})

		It("returns an error if an option fails", func() {
			_, err := New(MaxSockets(0))
			Expect(err).Should(HaveOccurred())
		})
	})

	Describe("setters", func() {
		It("change the service identity", func() {
			endpoint.SetServiceHostname("AirForce1")
			endpoint.SetServiceName("_ipp._tcp.local")
			endpoint.SetServicePort(631)
			endpoint.SetServiceTxtRecord("rp=printers/1")

			i := endpoint.Identity()

			Expect(i.Host).To(Equal(names.Label("AirForce1")))
			Expect(i.Service).To(Equal(names.FQDN("_ipp._tcp.local.")))
			Expect(i.Port).To(Equal(uint16(631)))
			Expect(i.Text.Pairs()).To(Equal([]string{"rp=printers/1"}))
		})

		It("removes the TXT record when given an empty string", func() {
			endpoint.SetServiceTxtRecord("rp=printers/1")
			endpoint.SetServiceTxtRecord("")

			Expect(endpoint.Identity().Text.Len()).To(BeZero())
		})
	})

	Describe("func StartService()", func() {
		It("returns an error if the service identity is invalid", func() {
			endpoint.SetServicePort(0)

			Expect(endpoint.StartService()).Should(HaveOccurred())
			Expect(endpoint.IsServiceRunning()).To(BeFalse())
		})

		It("marks the service as running", func() {
			start()

			Expect(endpoint.IsServiceRunning()).To(BeTrue())
		})

		It("restarts the service if it is already running", func() {
			start()
			start()

			Expect(endpoint.IsServiceRunning()).To(BeTrue())

			endpoint.StopService()
			Expect(endpoint.IsServiceRunning()).To(BeFalse())
		})
	})

	Describe("func StopService()", func() {
		It("is a no-op if the service is not running", func() {
			endpoint.StopService()
			endpoint.StopService()

			Expect(endpoint.IsServiceRunning()).To(BeFalse())
		})

		It("stops the service promptly", func() {
			start()

			stopped := make(chan struct{})
			go func() {
				defer close(stopped)
				endpoint.StopService()
			}()

			Eventually(stopped, time.Second).Should(BeClosed())
			Expect(endpoint.IsServiceRunning()).To(BeFalse())
		})
	})
})

var _ = Describe("ExecuteQuery", func() {
	It("finds a service advertised by another endpoint", func() {
		logger := &logging.StandardLogger{
			Target: log.New(GinkgoWriter, "", 0),
		}

		_, local := transport.OpenClientSockets(0, 0, logger)
		if local.IPv4 == nil {
			Skip("no non-loopback IPv4 address")
		}

		service, err := New(
			UseLogger(logger),
			Service("AirForce1", "_http._tcp.local.", 42424, ""),
		)
		Expect(err).ShouldNot(HaveOccurred())
		defer service.Close()

		if err := service.StartService(); err != nil {
			Skip("unable to start the service: " + err.Error())
		}

		querier, err := New(
			UseLogger(logger),
			QueryWait(500*time.Millisecond),
		)
		Expect(err).ShouldNot(HaveOccurred())

		results, err := querier.ExecuteQuery("_http._tcp.local.")
		Expect(err).ShouldNot(HaveOccurred())

		var found []client.Result
		for _, r := range results {
			if r.Host == "AirForce1" {
				found = append(found, r)
			}
		}

		Expect(found).NotTo(BeEmpty())
		for _, r := range found {
			Expect(r.IPv4).NotTo(BeEmpty())
		}
	})
})

var _ = Describe("ExecuteDiscovery", func() {
	It("finds the service type advertised by another endpoint", func() {
		logger := &logging.StandardLogger{
			Target: log.New(GinkgoWriter, "", 0),
		}

		service, err := New(
			UseLogger(logger),
			Service("AirForce1", "_minimdns-test._tcp.local.", 42424, ""),
		)
		Expect(err).ShouldNot(HaveOccurred())
		defer service.Close()

		if err := service.StartService(); err != nil {
			Skip("unable to start the service: " + err.Error())
		}

		querier, err := New(
			UseLogger(logger),
			QueryWait(500*time.Millisecond),
		)
		Expect(err).ShouldNot(HaveOccurred())

		results, err := querier.ExecuteDiscovery()
		if err == transport.ErrNoSockets {
			Skip("no usable network interfaces")
		}
		Expect(err).ShouldNot(HaveOccurred())

		var hosts []string
		for _, r := range results {
			hosts = append(hosts, r.Host)
		}

		Expect(hosts).To(ContainElement("_minimdns-test._tcp.local."))
	})
})

var _ = Describe("FromEnvironment", func() {
	vars := map[string]string{
		"MDNS_HOSTNAME":   "AirForce1",
		"MDNS_SERVICE":    "_ipp._tcp.local.",
		"MDNS_PORT":       "631",
		"MDNS_TXT":        "rp=printers/1",
		"MDNS_QUERY_WAIT": "250ms",
		"MDNS_DEBUG":      "true",
	}

	AfterEach(func() {
		for k := range vars {
			os.Unsetenv(k)
		}
	})

	It("configures the service identity", func() {
		for k, v := range vars {
			os.Setenv(k, v)
		}

		endpoint, err := New(FromEnvironment())
		Expect(err).ShouldNot(HaveOccurred())

		i := endpoint.Identity()

		Expect(i.Host).To(Equal(names.Label("AirForce1")))
		Expect(i.Service).To(Equal(names.FQDN("_ipp._tcp.local.")))
		Expect(i.Port).To(Equal(uint16(631)))
		Expect(i.Text.Pairs()).To(Equal([]string{"rp=printers/1"}))
	})

	It("keeps the defaults if the variables are not set", func() {
		endpoint, err := New(FromEnvironment())
		Expect(err).ShouldNot(HaveOccurred())

		i := endpoint.Identity()

		Expect(i.Host).To(Equal(names.Label(DefaultHostname)))
		Expect(i.Service).To(Equal(names.FQDN(DefaultService)))
		Expect(i.Port).To(Equal(uint16(DefaultPort)))
	})

	It("defers validation of an invalid identity to StartService()", func() {
		endpoint, err := New(
			Service("bad.host", "_http._tcp.local.", 1, ""),
			FromEnvironment(),
		)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(endpoint.Identity().Host).To(Equal(names.Label("bad.host")))
		Expect(endpoint.StartService()).Should(HaveOccurred())
		Expect(endpoint.IsServiceRunning()).To(BeFalse())
	})

	It("keeps an invalid service name from the environment until StartService()", func() {
		os.Setenv("MDNS_SERVICE", "_http..local")

		endpoint, err := New(FromEnvironment())
		Expect(err).ShouldNot(HaveOccurred())

		Expect(endpoint.StartService()).Should(HaveOccurred())
	})

	It("returns an error if the query wait is not positive", func() {
		os.Setenv("MDNS_QUERY_WAIT", "0s")

		_, err := New(FromEnvironment())
		Expect(err).Should(HaveOccurred())
	})
})

var _ = Describe("SetLogSink", func() {
	AfterEach(func() {
		SetLogSink(nil)
	})

	It("receives log lines from endpoints without a logger", func() {
		var (
			m     sync.Mutex
			lines []string
		)

		SetLogSink(func(line string) {
			m.Lock()
			defer m.Unlock()
			lines = append(lines, line)
		})

		endpoint, err := New()
		Expect(err).ShouldNot(HaveOccurred())
		defer endpoint.Close()

		if err := endpoint.StartService(); err != nil {
			Skip("unable to start the service: " + err.Error())
		}

		m.Lock()
		defer m.Unlock()

		Expect(lines).To(ContainElement(ContainSubstring("advertising dummy-host._http._tcp.local.")))
	})
})
