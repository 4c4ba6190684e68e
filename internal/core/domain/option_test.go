package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestSchema_Validate_Defaults(t *testing.T) {
	opts, err := domain.GamaSchema().Validate(nil)
	require.NoError(t, err)

	assert.False(t, opts.Enabled(domain.OptionSQLite3))
	assert.False(t, opts.Enabled(domain.OptionLibXML2))
	assert.Empty(t, opts.Value(domain.OptionNativeCompiler))
	assert.Empty(t, opts.Value(domain.OptionBuildType))
	assert.Equal(t, []string{"build_type", "cppstd", "libxml2", "native_compiler", "sqlite3"}, opts.Names())
}

func TestSchema_Validate_NormalizesBooleans(t *testing.T) {
	for _, raw := range []string{"true", "True", "1", "yes", "ON"} {
		opts, err := domain.GamaSchema().Validate(map[string]string{"sqlite3": raw})
		require.NoError(t, err, raw)
		assert.Equal(t, "true", opts.Value("sqlite3"), raw)
	}
	for _, raw := range []string{"false", "0", "no", "Off"} {
		opts, err := domain.GamaSchema().Validate(map[string]string{"sqlite3": raw})
		require.NoError(t, err, raw)
		assert.Equal(t, "false", opts.Value("sqlite3"), raw)
	}
}

func TestSchema_Validate_UnknownOption(t *testing.T) {
	_, err := domain.GamaSchema().Validate(map[string]string{"shared": "true"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchema))
	assert.Equal(t, "SchemaError", domain.Classify(err))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "shared", zErr.Metadata()["option"])
}

func TestSchema_Validate_InvalidValue(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bool", "libxml2", "maybe"},
		{"enum", "build_type", "Fast"},
		{"cppstd below 17", "cppstd", "14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.GamaSchema().Validate(map[string]string{tt.key: tt.value})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrSchema))

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok)
			meta := zErr.Metadata()
			assert.Equal(t, tt.key, meta["option"])
			assert.Equal(t, tt.value, meta["value"])
		})
	}
}

func TestSchema_Validate_FreeText(t *testing.T) {
	opts, err := domain.GamaSchema().Validate(map[string]string{"native_compiler": "/usr/bin/g++-12"})
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/g++-12", opts.Value("native_compiler"))
}

func TestSchema_Validate_DoesNotAliasInput(t *testing.T) {
	raw := map[string]string{"sqlite3": "true"}
	opts, err := domain.GamaSchema().Validate(raw)
	require.NoError(t, err)

	raw["sqlite3"] = "false"
	m := opts.Map()
	m["sqlite3"] = "false"

	assert.True(t, opts.Enabled("sqlite3"))
}

func TestNewSchema_Errors(t *testing.T) {
	_, err := domain.NewSchema(
		domain.OptionSpec{Name: "a", Kind: domain.OptionBool},
		domain.OptionSpec{Name: "a", Kind: domain.OptionBool},
	)
	assert.True(t, errors.Is(err, domain.ErrSchema))

	_, err = domain.NewSchema(domain.OptionSpec{
		Name:    "mode",
		Kind:    domain.OptionEnum,
		Allowed: []string{"x"},
		Default: "y",
	})
	assert.True(t, errors.Is(err, domain.ErrSchema))
}

func TestSchema_Specs_Sorted(t *testing.T) {
	specs := domain.GamaSchema().Specs()
	require.Len(t, specs, 5)
	assert.Equal(t, "build_type", specs[0].Name)
	assert.Equal(t, "sqlite3", specs[4].Name)
	assert.Equal(t, []string{"false", "true"}, specs[4].Allowed)
}
