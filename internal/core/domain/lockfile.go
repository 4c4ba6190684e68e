package domain

// LockfileVersion is the current lockfile format version.
const LockfileVersion = 1

// Lockfile is a reproducible snapshot of a resolution.
type Lockfile struct {
	// Version is the lockfile format version.
	// This allows for future schema migrations and backward compatibility.
	Version int `json:"version" yaml:"version"`

	// Fingerprint identifies the resolved output; equal inputs produce equal fingerprints.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	Options      map[string]string `json:"options" yaml:"options"`
	Dependencies []DependencySpec  `json:"dependencies" yaml:"dependencies"`
	Definitions  Definitions       `json:"definitions" yaml:"definitions"`
	Actions      []string          `json:"actions" yaml:"actions"`
}
