package dnssd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Text is a map that represents the key/value pairs in
// a service instance's TXT record.
//
// Keys are case-insensitive. The specification states that keys SHOULD be no
// longer than 9 characters. However since this is not a strict requirement, no
// such limit is enforced by this implementation.
//
// See https://tools.ietf.org/html/rfc6763#section-6.1
type Text struct {
	m map[string]string
}

// ParseText parses the strings of a TXT record into a Text map.
//
// Strings that do not form a valid key are skipped. If a key appears more
// than once only the first occurrence is kept, as per
// https://tools.ietf.org/html/rfc6763#section-6.4.
func ParseText(strs []string) Text {
	var t Text

	for _, s := range strs {
		k, v := s, ""
		if i := strings.IndexByte(s, '='); i != -1 {
			k, v = s[:i], s[i+1:]
		}

		if ValidateTextKey(k) != nil || ValidateTextValue(v) != nil {
			continue
		}

		if t.Has(k) {
			continue
		}

		t.Set(k, v)
	}

	return t
}

// Get returns the value that is associated with the key k.
func (t *Text) Get(k string) (string, bool) {
	v, ok := t.m[strings.ToLower(k)]
	return v, ok
}

// Set associates the value v with the key k.
// It is recommended that keys be no longer than 9 characters.
func (t *Text) Set(k string, v string) {
	if err := ValidateTextKey(k); err != nil {
		panic(err)
	}

	if err := ValidateTextValue(v); err != nil {
		panic(err)
	}

	if t.m == nil {
		t.m = map[string]string{}
	}

	t.m[strings.ToLower(k)] = v
}

// Has returns true if all of the keys in k are present in the map.
func (t *Text) Has(k ...string) bool {
	for _, x := range k {
		if _, ok := t.m[strings.ToLower(x)]; !ok {
			return false
		}
	}

	return true
}

// Len returns the number of keys in the map.
func (t *Text) Len() int {
	return len(t.m)
}

// Map returns a copy of the key/value pairs.
func (t *Text) Map() map[string]string {
	m := make(map[string]string, len(t.m))
	for k, v := range t.m {
		m[k] = v
	}
	return m
}

// Pairs returns the string representation of each key/value pair, as they appear
// in the TXT record, sorted by key.
func (t *Text) Pairs() []string {
	pairs := make([]string, 0, len(t.m))

	for k, v := range t.m {
		if v == "" {
			pairs = append(pairs, k)
		} else {
			pairs = append(pairs, k+"="+v)
		}
	}

	sort.Strings(pairs)

	return pairs
}

// ValidateTextKey returns an error if k is not a valid TXT record key.
//
// See https://tools.ietf.org/html/rfc6763#section-6.4
func ValidateTextKey(k string) error {
	if k == "" {
		return errors.New("TXT record key must not be empty")
	}

	for _, c := range k {
		if c < 0x20 || c > 0x7e || c == '=' {
			return fmt.Errorf("TXT record key '%s' contains invalid character %q", k, c)
		}
	}

	return nil
}

// ValidateTextValue returns an error if v is not a valid TXT record value.
//
// See https://tools.ietf.org/html/rfc6763#section-6.5
func ValidateTextValue(v string) error {
	if len(v) > 254 {
		return errors.New("TXT record value must not be longer than 254 bytes")
	}

	return nil
}
