package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// Scope is the phase in which a dependency is needed.
type Scope string

const (
	// ScopeRuntime marks a dependency linked into the built artifacts.
	ScopeRuntime Scope = "runtime"
	// ScopeBuild marks a dependency that runs on the host during the build.
	ScopeBuild Scope = "build-time"
	// ScopeTest marks a dependency only needed to run the test suite.
	ScopeTest Scope = "test-time"
)

// DependencySpec is one external requirement of a resolution.
type DependencySpec struct {
	// Name is the canonical package name (e.g., "expat").
	Name string `json:"name" yaml:"name"`

	// Reference is the full package reference including the version or
	// revision (e.g., "Expat/2.2.9@pix4d/stable").
	Reference string `json:"reference" yaml:"reference"`

	Scope Scope `json:"scope" yaml:"scope"`
}

// Dependencies is an ordered, growth-only list of dependency specs.
// At most one entry exists per (name, scope) pair.
type Dependencies struct {
	items []DependencySpec
}

// Require adds a dependency. Requesting a name already present under a different
// reference is a configuration conflict; re-requesting an identical spec is a no-op.
func (d *Dependencies) Require(dep DependencySpec) error {
	for _, existing := range d.items {
		if existing.Name != dep.Name {
			continue
		}
		if existing.Reference != dep.Reference {
			err := zerr.With(zerr.Wrap(ErrConfigurationConflict, "dependency requested with different versions"),
				"dependency", dep.Name)
			err = zerr.With(err, "existing", existing.Reference)
			return zerr.With(err, "requested", dep.Reference)
		}
		if existing.Scope == dep.Scope {
			return nil
		}
	}
	d.items = append(d.items, dep)
	return nil
}

// Lookup returns the dependency registered under name and scope.
func (d *Dependencies) Lookup(name string, scope Scope) (DependencySpec, bool) {
	for _, dep := range d.items {
		if dep.Name == name && dep.Scope == scope {
			return dep, true
		}
	}
	return DependencySpec{}, false
}

// Contains reports whether any scope of the named dependency is present.
func (d *Dependencies) Contains(name string) bool {
	return slices.ContainsFunc(d.items, func(dep DependencySpec) bool { return dep.Name == name })
}

// Len returns the number of specs.
func (d *Dependencies) Len() int {
	return len(d.items)
}

// List returns a copy of the specs in insertion order.
func (d *Dependencies) List() []DependencySpec {
	return slices.Clone(d.items)
}

// References returns the distinct references in insertion order.
func (d *Dependencies) References() []string {
	refs := make([]string, 0, len(d.items))
	for _, dep := range d.items {
		if !slices.Contains(refs, dep.Reference) {
			refs = append(refs, dep.Reference)
		}
	}
	return refs
}
