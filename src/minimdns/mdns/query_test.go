package mdns_test

import (
	. "github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewQuery", func() {
	It("sets the unicast response bit when requested", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, true)

		Expect(m.Question).To(HaveLen(1))
		unicast, q := WantsUnicastResponse(m.Question[0])
		Expect(unicast).To(BeTrue())
		Expect(q.Qclass).To(Equal(uint16(dns.ClassINET)))
	})

	It("does not set the unicast response bit otherwise", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)

		unicast, _ := WantsUnicastResponse(m.Question[0])
		Expect(unicast).To(BeFalse())
	})

	It("clears the recursion desired bit", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		Expect(m.RecursionDesired).To(BeFalse())
	})
})

var _ = Describe("ValidateQuery", func() {
	It("accepts a standard query", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		Expect(ValidateQuery(m)).To(Succeed())
	})

	It("rejects responses", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		m.Response = true
		Expect(ValidateQuery(m)).To(HaveOccurred())
	})

	It("rejects non-zero opcodes", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		m.Opcode = dns.OpcodeUpdate
		Expect(ValidateQuery(m)).To(HaveOccurred())
	})

	It("rejects non-zero response codes", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		m.Rcode = dns.RcodeServerFailure
		Expect(ValidateQuery(m)).To(HaveOccurred())
	})
})

var _ = Describe("NewResponse", func() {
	var query *dns.Msg

	BeforeEach(func() {
		query = NewQuery("_http._tcp.local.", dns.TypePTR, true)
	})

	It("keeps the query ID for unicast responses", func() {
		m := NewResponse(query, true)

		Expect(m.Id).To(Equal(query.Id))
		Expect(m.Response).To(BeTrue())
		Expect(m.Authoritative).To(BeTrue())
		Expect(m.Question).To(BeEmpty())
	})

	It("zeroes the ID for multicast responses", func() {
		m := NewResponse(query, false)
		Expect(m.Id).To(BeEquivalentTo(0))
	})
})
