package domain

// Profile is the persisted input of an invocation: raw options, the environment
// descriptor, extra requirements and per-phase command overrides.
type Profile struct {
	Options     map[string]string
	Environment Environment
	Requires    []DependencySpec
	Commands    map[Phase][]string
	Imports     bool
}

// NewProfile returns an empty profile for the given platform.
func NewProfile(platform string) *Profile {
	return &Profile{
		Options:     make(map[string]string),
		Environment: DefaultEnvironment(platform),
		Commands:    make(map[Phase][]string),
	}
}
