package names

import (
	"errors"
	"fmt"
	"strings"
)

// Label is the part of a DNS name contained within dots.
type Label string

// maxLabelLength is the maximum length of a single DNS label, in bytes.
//
// See https://tools.ietf.org/html/rfc1035#section-2.3.4.
const maxLabelLength = 63

// IsQualified returns false.
func (n Label) IsQualified() bool {
	return false
}

// Qualify returns a fully-qualified domain name produced by "qualifying"
// this name with f.
func (n Label) Qualify(f FQDN) FQDN {
	return FQDN(n.String() + "." + f.String())
}

// Validate returns nil if the name is valid.
func (n Label) Validate() error {
	if n == "" {
		return errors.New("label must not be empty")
	}

	if strings.Contains(string(n), ".") {
		return fmt.Errorf("label '%s' is invalid, contains unexpected dots", string(n))
	}

	if len(n) > maxLabelLength {
		return fmt.Errorf("label '%s' is invalid, longer than %d bytes", string(n), maxLabelLength)
	}

	return nil
}

// String returns a representation of the name as used by DNS systems.
// It panics if the name is not valid.
func (n Label) String() string {
	if err := n.Validate(); err != nil {
		panic(err)
	}

	return string(n)
}
