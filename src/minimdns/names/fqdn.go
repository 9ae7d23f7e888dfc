package names

import (
	"errors"
	"fmt"
	"strings"
)

// FQDN is a fully-qualified internet domain name.
type FQDN string

// IsQualified returns true.
func (n FQDN) IsQualified() bool {
	return true
}

// Qualify returns n unchanged.
func (n FQDN) Qualify(FQDN) FQDN {
	return n
}

// Labels returns the DNS labels that form this name.
// It panics if the name is not valid.
func (n FQDN) Labels() []Label {
	s := n.String()
	var labels []Label

	for {
		i := strings.Index(s, ".")
		if i == -1 {
			return labels
		}

		labels = append(labels, Label(s[:i]))
		s = s[i+1:]
	}
}

// Split splits the first label from the name.
// If the name only has a single label, tail is empty.
// It panics if the name is not valid.
func (n FQDN) Split() (head Label, tail FQDN) {
	s := n.String()
	i := strings.Index(s, ".")

	head = Label(s[:i])

	if i != len(s)-1 {
		tail = FQDN(s[i+1:])
	}

	return
}

// Parent returns the name produced by removing the first count labels from n.
// ok is false if n does not have more than count labels.
func (n FQDN) Parent(count int) (p FQDN, ok bool) {
	labels := n.Labels()
	if count >= len(labels) {
		return "", false
	}

	s := ""
	for _, l := range labels[count:] {
		s += string(l) + "."
	}

	return FQDN(s), true
}

// Validate returns nil if the name is valid.
func (n FQDN) Validate() error {
	if n == "" {
		return errors.New("fully-qualified name must not be empty")
	}

	if n[0] == '.' {
		return fmt.Errorf("fully-qualified name '%s' is invalid, unexpected leading dot", string(n))
	}

	if n[len(n)-1] != '.' {
		return fmt.Errorf("fully-qualified name '%s' is invalid, missing trailing dot", string(n))
	}

	if strings.Contains(string(n), "..") {
		return fmt.Errorf("fully-qualified name '%s' is invalid, contains an empty label", string(n))
	}

	return nil
}

// String returns a representation of the name as used by DNS systems.
// It panics if the name is not valid.
func (n FQDN) String() string {
	if err := n.Validate(); err != nil {
		panic(err)
	}

	return string(n)
}
