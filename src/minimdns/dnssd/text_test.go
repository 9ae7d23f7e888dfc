package dnssd_test

import (
	. "github.com/jmalloc/minimdns/src/minimdns/dnssd"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseText", func() {
	It("parses key/value pairs and boolean keys", func() {
		t := ParseText([]string{"path=/index.html", "secure"})

		v, ok := t.Get("path")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("/index.html"))
		Expect(t.Has("secure")).To(BeTrue())
	})

	It("keeps the first occurrence of a key", func() {
		t := ParseText([]string{"a=1", "A=2"})

		v, _ := t.Get("a")
		Expect(v).To(Equal("1"))
	})

	It("skips strings without a key", func() {
		t := ParseText([]string{"", "=x"})
		Expect(t.Len()).To(Equal(0))
	})

	It("renders sorted pairs", func() {
		t := ParseText([]string{"b=2", "a"})
		Expect(t.Pairs()).To(Equal([]string{"a", "b=2"}))
	})
})
