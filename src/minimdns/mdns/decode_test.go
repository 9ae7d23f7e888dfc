package mdns_test

import (
	"errors"
	"net"

	. "github.com/jmalloc/minimdns/src/minimdns/mdns"
	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func pack(m *dns.Msg) []byte {
	data, err := m.Pack()
	Expect(err).ShouldNot(HaveOccurred())
	return data
}

func decodeAll(data []byte) []Entry {
	var entries []Entry

	_, err := Decode(data, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	Expect(err).ShouldNot(HaveOccurred())

	return entries
}

var _ = Describe("Decode", func() {
	It("reproduces a query's question", func() {
		entries := decodeAll(pack(NewQuery("_http._tcp.local.", dns.TypePTR, true)))

		Expect(entries).To(HaveLen(1))
		e := entries[0]
		Expect(e.Type).To(Equal(QuestionEntry))
		Expect(e.Name).To(Equal("_http._tcp.local."))
		Expect(e.RecordType).To(Equal(dns.TypePTR))
		Expect(e.Class).To(Equal(uint16(dns.ClassINET)))
		Expect(e.Flagged).To(BeTrue())
		Expect(e.Record).To(BeNil())
	})

	It("reproduces an answer's records", func() {
		query := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		res := NewResponse(query, false)

		a := Answer{}
		a.Shared.Answer(&dns.PTR{
			Hdr: dns.RR_Header{Name: "_http._tcp.local.", Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 120},
			Ptr: "AirForce1._http._tcp.local.",
		})
		a.Unique.Additional(&dns.A{
			Hdr: dns.RR_Header{Name: "AirForce1.local.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 120},
			A:   net.ParseIP("192.168.60.30").To4(),
		})
		a.AppendToMessage(res, false)

		entries := decodeAll(pack(res))

		Expect(entries).To(HaveLen(2))

		Expect(entries[0].Type).To(Equal(AnswerEntry))
		Expect(entries[0].RecordType).To(Equal(dns.TypePTR))
		Expect(entries[0].Flagged).To(BeFalse())
		Expect(entries[0].Record.(*dns.PTR).Ptr).To(Equal("AirForce1._http._tcp.local."))

		Expect(entries[1].Type).To(Equal(AdditionalEntry))
		Expect(entries[1].Name).To(Equal("AirForce1.local."))
		Expect(entries[1].Flagged).To(BeTrue())
		Expect(entries[1].Class).To(Equal(uint16(dns.ClassINET)))
		Expect(entries[1].TTL).To(BeEquivalentTo(120))
		Expect(entries[1].Record.(*dns.A).A.String()).To(Equal("192.168.60.30"))
	})

	It("stops at the first error returned by the callback", func() {
		m := NewQuery("_http._tcp.local.", dns.TypePTR, false)
		m.Question = append(m.Question, m.Question[0])

		calls := 0
		_, err := Decode(pack(m), func(Entry) error {
			calls++
			return errors.New("<error>")
		})

		Expect(err).To(MatchError("<error>"))
		Expect(calls).To(Equal(1))
	})

	It("returns an error for malformed data", func() {
		_, err := Decode([]byte{0x01, 0x02, 0x03}, func(Entry) error { return nil })
		Expect(err).To(HaveOccurred())
	})
})
