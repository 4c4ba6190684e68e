package domain

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
)

// DefinitionValue is a build-system definition value: either a string or a boolean.
type DefinitionValue struct {
	str    string
	b      bool
	isBool bool
}

// StringValue returns a string definition value.
func StringValue(s string) DefinitionValue {
	return DefinitionValue{str: s}
}

// BoolValue returns a boolean definition value.
func BoolValue(b bool) DefinitionValue {
	return DefinitionValue{b: b, isBool: true}
}

// IsBool reports whether the value is a boolean.
func (v DefinitionValue) IsBool() bool {
	return v.isBool
}

// Bool returns the boolean value; false for string values.
func (v DefinitionValue) Bool() bool {
	return v.isBool && v.b
}

// String renders the value the way CMake expects it on the command line.
func (v DefinitionValue) String() string {
	if !v.isBool {
		return v.str
	}
	if v.b {
		return "ON"
	}
	return "OFF"
}

// MarshalJSON encodes booleans as JSON booleans and strings as JSON strings.
func (v DefinitionValue) MarshalJSON() ([]byte, error) {
	if v.isBool {
		return []byte(strconv.FormatBool(v.b)), nil
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON decodes a JSON boolean or string.
func (v *DefinitionValue) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*v = BoolValue(true)
		return nil
	case "false":
		*v = BoolValue(false)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = StringValue(s)
	return nil
}

// MarshalYAML encodes the value as a YAML scalar of its own type.
func (v DefinitionValue) MarshalYAML() (any, error) {
	if v.isBool {
		return v.b, nil
	}
	return v.str, nil
}

// Definitions maps build-system flag names to values. Setting a key twice keeps the last value.
type Definitions map[string]DefinitionValue

// Set assigns a value, overwriting any earlier one.
func (d Definitions) Set(key string, value DefinitionValue) {
	d[key] = value
}

// Keys returns the definition names in sorted order.
func (d Definitions) Keys() []string {
	return slices.Sorted(maps.Keys(d))
}

// Flags renders the definitions as sorted "-DKEY=VALUE" arguments.
func (d Definitions) Flags() []string {
	flags := make([]string, 0, len(d))
	for _, key := range d.Keys() {
		flags = append(flags, "-D"+key+"="+d[key].String())
	}
	return flags
}
