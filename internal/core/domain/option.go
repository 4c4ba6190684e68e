package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// OptionKind is the value type of a declared option.
type OptionKind string

const (
	// OptionBool accepts boolean values, normalized to "true" or "false".
	OptionBool OptionKind = "boolean"
	// OptionEnum accepts one value out of a fixed allowed set.
	OptionEnum OptionKind = "enum"
	// OptionText accepts any string.
	OptionText OptionKind = "free-text"
)

// OptionSpec declares a single option of the configuration surface.
type OptionSpec struct {
	Name        string
	Kind        OptionKind
	Allowed     []string
	Default     string
	Description string
}

// Schema is the declared configuration surface.
type Schema struct {
	specs map[string]OptionSpec
}

// NewSchema creates a Schema from the given option declarations.
// It returns an error if an option is declared twice or an enum default is not allowed.
func NewSchema(specs ...OptionSpec) (*Schema, error) {
	s := &Schema{specs: make(map[string]OptionSpec, len(specs))}
	for _, spec := range specs {
		if _, exists := s.specs[spec.Name]; exists {
			return nil, zerr.With(zerr.Wrap(ErrSchema, "option declared twice"), "option", spec.Name)
		}
		if spec.Kind == OptionBool {
			spec.Allowed = []string{"false", "true"}
		}
		if spec.Default != "" && spec.Kind != OptionText && !slices.Contains(spec.Allowed, spec.Default) {
			err := zerr.With(zerr.Wrap(ErrSchema, "default value not allowed"), "option", spec.Name)
			return nil, zerr.With(err, "value", spec.Default)
		}
		s.specs[spec.Name] = spec
	}
	return s, nil
}

// Lookup returns the declaration of the named option.
func (s *Schema) Lookup(name string) (OptionSpec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

// Specs returns all declarations sorted by name.
func (s *Schema) Specs() []OptionSpec {
	out := make([]OptionSpec, 0, len(s.specs))
	for _, name := range slices.Sorted(maps.Keys(s.specs)) {
		out = append(out, s.specs[name])
	}
	return out
}

// Validate checks raw key/value pairs against the schema and merges in defaults.
// Keys are checked in sorted order so the reported error is stable.
func (s *Schema) Validate(raw map[string]string) (OptionSet, error) {
	values := make(map[string]string, len(s.specs))
	for name, spec := range s.specs {
		values[name] = spec.Default
	}

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		spec, ok := s.specs[name]
		if !ok {
			err := zerr.With(zerr.Wrap(ErrSchema, "unknown option"), "option", name)
			return OptionSet{}, zerr.With(err, "known", strings.Join(slices.Sorted(maps.Keys(s.specs)), ","))
		}

		value, err := normalize(spec, raw[name])
		if err != nil {
			return OptionSet{}, err
		}
		values[name] = value
	}

	return OptionSet{schema: s, values: values}, nil
}

func normalize(spec OptionSpec, value string) (string, error) {
	switch spec.Kind {
	case OptionBool:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return "true", nil
		case "false", "0", "no", "off":
			return "false", nil
		}
	case OptionEnum:
		if value == "" || slices.Contains(spec.Allowed, value) {
			return value, nil
		}
	default:
		return value, nil
	}

	err := zerr.With(zerr.Wrap(ErrSchema, "invalid option value"), "option", spec.Name)
	err = zerr.With(err, "value", value)
	return "", zerr.With(err, "allowed", strings.Join(spec.Allowed, ","))
}

// OptionSet is a validated, immutable set of option values.
// Every declared option is present, holding either its supplied value or its default.
type OptionSet struct {
	schema *Schema
	values map[string]string
}

// Get returns the value of the named option and whether it is declared.
func (o OptionSet) Get(name string) (string, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Enabled reports whether the named boolean option is true.
// Undeclared options are never enabled.
func (o OptionSet) Enabled(name string) bool {
	return o.values[name] == "true"
}

// Value returns the value of the named option, or "" when unset or undeclared.
func (o OptionSet) Value(name string) string {
	return o.values[name]
}

// Has reports whether the option set declares the named option.
func (o OptionSet) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Map returns a copy of all option values.
func (o OptionSet) Map() map[string]string {
	return maps.Clone(o.values)
}

// Names returns the declared option names in sorted order.
func (o OptionSet) Names() []string {
	return slices.Sorted(maps.Keys(o.values))
}
