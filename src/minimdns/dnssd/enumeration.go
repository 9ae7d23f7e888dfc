package dnssd

import "github.com/jmalloc/minimdns/src/minimdns/names"

// DefaultDomain is the domain used for multicast DNS service discovery.
const DefaultDomain names.FQDN = "local."

// TypeEnumerationDomain returns the DNS name that is queried to perform
// "service type enumeration" for a single domain.
//
// See https://tools.ietf.org/html/rfc6763#section-9
func TypeEnumerationDomain(domain names.FQDN) names.FQDN {
	return names.FQDN("_services._dns-sd._udp." + domain.String())
}

// IsTypeEnumerationDomain returns true if n is the "service type enumeration"
// name of any domain.
func IsTypeEnumerationDomain(n string) bool {
	f := names.FQDN(n)
	if f.Validate() != nil {
		return false
	}

	d, ok := f.Parent(3)
	if !ok {
		return false
	}

	return n == string(TypeEnumerationDomain(d))
}
