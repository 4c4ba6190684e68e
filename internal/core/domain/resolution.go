package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Resolution is the output of one resolver run.
type Resolution struct {
	Options      OptionSet
	Dependencies Dependencies
	Definitions  Definitions
	Actions      []LifecycleAction
}

// NewResolution creates an empty resolution bound to an option set.
func NewResolution(opts OptionSet) *Resolution {
	return &Resolution{
		Options:     opts,
		Definitions: make(Definitions),
	}
}

// Runnable returns the actions whose guards hold for env, in phase order.
func (r *Resolution) Runnable(env Environment) ([]LifecycleAction, error) {
	out := make([]LifecycleAction, 0, len(r.Actions))
	for _, action := range r.Actions {
		ok, err := action.Guard.Evaluate(env, r.Options)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, action)
		}
	}
	return out, nil
}

// Fingerprint returns a stable hash over dependencies, definitions and actions.
func (r *Resolution) Fingerprint() string {
	hasher := xxhash.New()

	for _, dep := range r.Dependencies.List() {
		_, _ = hasher.WriteString(dep.Name)
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(dep.Reference)
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(string(dep.Scope))
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, key := range r.Definitions.Keys() {
		value := r.Definitions[key]
		_, _ = hasher.WriteString(key)
		_, _ = hasher.Write([]byte{0})
		_, _ = fmt.Fprintf(hasher, "%t:%s", value.IsBool(), value.String())
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	for _, action := range r.Actions {
		_, _ = hasher.WriteString(string(action.Phase))
		_, _ = hasher.Write([]byte{0})
		_, _ = hasher.WriteString(action.Guard.String())
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// Lockfile builds the persisted snapshot of the resolution.
func (r *Resolution) Lockfile() Lockfile {
	phases := make([]string, 0, len(r.Actions))
	for _, action := range r.Actions {
		phases = append(phases, string(action.Phase)+" if "+action.Guard.String())
	}
	return Lockfile{
		Version:      LockfileVersion,
		Fingerprint:  r.Fingerprint(),
		Options:      r.Options.Map(),
		Dependencies: r.Dependencies.List(),
		Definitions:  r.Definitions,
		Actions:      phases,
	}
}

// String renders the resolution as a human-readable report.
func (r *Resolution) String() string {
	var b strings.Builder
	b.WriteString("dependencies:\n")
	for _, dep := range r.Dependencies.List() {
		fmt.Fprintf(&b, "  %s (%s)\n", dep.Reference, dep.Scope)
	}
	b.WriteString("definitions:\n")
	for _, key := range r.Definitions.Keys() {
		fmt.Fprintf(&b, "  %s=%s\n", key, r.Definitions[key])
	}
	b.WriteString("actions:\n")
	for _, action := range r.Actions {
		fmt.Fprintf(&b, "  %s if %s\n", action.Phase, action.Guard)
	}
	fmt.Fprintf(&b, "fingerprint: %s\n", r.Fingerprint())
	return b.String()
}
