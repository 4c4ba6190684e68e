// Package resolver turns a validated option set and an environment descriptor into
// dependencies, build definitions and lifecycle actions.
package resolver

import (
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Rule is one step of the ordered resolution. Rules may add dependencies and
// overwrite definitions; they cannot remove what an earlier rule added.
type Rule struct {
	// Name identifies the rule in error metadata.
	Name string

	// Options lists the option names the rule reads. Resolution fails with a
	// schema error if any of them is not declared in the option set.
	Options []string

	Apply func(res *domain.Resolution, env domain.Environment) error
}

// Resolver evaluates an ordered rule list.
type Resolver struct {
	rules []Rule
}

// New creates a Resolver over the given rules, evaluated in order.
func New(rules ...Rule) *Resolver {
	return &Resolver{rules: rules}
}

// NewGamaResolver creates a Resolver for the GaMa recipe using the default catalog.
func NewGamaResolver() *Resolver {
	return New(GamaRules(DefaultCatalog())...)
}

// Rules returns the names of the configured rules in evaluation order.
func (r *Resolver) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// Resolve evaluates every rule, followed by any extra rules, against a fresh resolution.
// On error no partial resolution is returned.
func (r *Resolver) Resolve(opts domain.OptionSet, env domain.Environment, extra ...Rule) (*domain.Resolution, error) {
	res := domain.NewResolution(opts)

	rules := make([]Rule, 0, len(r.rules)+len(extra))
	rules = append(rules, r.rules...)
	rules = append(rules, extra...)

	for _, rule := range rules {
		for _, name := range rule.Options {
			if !opts.Has(name) {
				err := zerr.With(zerr.Wrap(domain.ErrSchema, "rule references undeclared option"), "option", name)
				return nil, zerr.With(err, "rule", rule.Name)
			}
		}

		if err := rule.Apply(res, env); err != nil {
			return nil, zerr.With(err, "rule", rule.Name)
		}
	}

	return res, nil
}
