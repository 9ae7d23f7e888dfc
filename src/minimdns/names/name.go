package names

// Name is an internet name of some kind.
type Name interface {
	// IsQualified returns true if the name is fully-qualified.
	IsQualified() bool

	// Qualify returns a fully-qualified domain name produced by "qualifying"
	// this name with f.
	//
	// If this name is already qualified, it is returned unchanged.
	Qualify(f FQDN) FQDN

	// Validate returns nil if the name is valid.
	Validate() error

	// String returns a human-readable string representation of the name.
	String() string
}
