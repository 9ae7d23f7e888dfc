package mdns

import (
	"fmt"

	"github.com/miekg/dns"
)

// EntryType is the section of a DNS message in which an entry appears.
type EntryType int

const (
	// QuestionEntry is an entry in the question section.
	QuestionEntry EntryType = iota

	// AnswerEntry is a record in the answer section.
	AnswerEntry

	// AuthorityEntry is a record in the authority section.
	AuthorityEntry

	// AdditionalEntry is a record in the additional section.
	AdditionalEntry
)

func (t EntryType) String() string {
	switch t {
	case QuestionEntry:
		return "question"
	case AnswerEntry:
		return "answer"
	case AuthorityEntry:
		return "authority"
	case AdditionalEntry:
		return "additional"
	default:
		return fmt.Sprintf("EntryType(%d)", int(t))
	}
}

// Entry is a single question or resource record within a DNS message.
type Entry struct {
	// Type is the message section that contains the entry.
	Type EntryType

	// Message is the message that contains the entry.
	Message *dns.Msg

	// Name is the owner name of the record, or the name in the question.
	Name string

	// RecordType is the record type, or the question type.
	RecordType uint16

	// Class is the record or question class, with the mDNS top bit cleared.
	Class uint16

	// Flagged is true if the top bit of the class is set. For questions this
	// is the "unicast response" bit, for records it is the "cache flush" bit.
	Flagged bool

	// TTL is the record's TTL. It is zero for questions.
	TTL uint32

	// Question is the raw question, including the "unicast response" bit. It
	// is only meaningful for question entries.
	Question dns.Question

	// Record is the resource record with the "cache flush" bit cleared. It is
	// nil for question entries.
	Record dns.RR
}

// EntryFunc is called once for each entry in a decoded message.
// Decoding stops if it returns an error.
type EntryFunc func(Entry) error

// Decode parses the DNS message in data and calls fn for each of its entries,
// in message order: questions, answers, authority and additional records.
//
// Messages with the TC bit set are decoded as normal. In mDNS queries the bit
// only indicates that more known-answer records may follow.
func Decode(data []byte, fn EntryFunc) (*dns.Msg, error) {
	m := &dns.Msg{}
	if err := m.Unpack(data); err != nil {
		return nil, fmt.Errorf("unable to parse mDNS message: %w", err)
	}

	for _, q := range m.Question {
		unicast, clean := WantsUnicastResponse(q)

		if err := fn(Entry{
			Type:       QuestionEntry,
			Message:    m,
			Name:       q.Name,
			RecordType: q.Qtype,
			Class:      clean.Qclass,
			Flagged:    unicast,
			Question:   q,
		}); err != nil {
			return m, err
		}
	}

	sections := []struct {
		t  EntryType
		rr []dns.RR
	}{
		{AnswerEntry, m.Answer},
		{AuthorityEntry, m.Ns},
		{AdditionalEntry, m.Extra},
	}

	for _, s := range sections {
		for _, r := range s.rr {
			// EDNS(0) OPT pseudo-records are not resource records.
			if _, ok := r.(*dns.OPT); ok {
				continue
			}

			unique, clean := IsUniqueRecord(r)
			h := clean.Header()

			if err := fn(Entry{
				Type:       s.t,
				Message:    m,
				Name:       h.Name,
				RecordType: h.Rrtype,
				Class:      h.Class,
				Flagged:    unique,
				TTL:        h.Ttl,
				Record:     clean,
			}); err != nil {
				return m, err
			}
		}
	}

	return m, nil
}
