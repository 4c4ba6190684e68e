package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestDependencies_Require(t *testing.T) {
	var deps domain.Dependencies
	expat := domain.DependencySpec{Name: "expat", Reference: "Expat/2.2.9@pix4d/stable", Scope: domain.ScopeRuntime}

	require.NoError(t, deps.Require(expat))
	require.NoError(t, deps.Require(expat))
	assert.Equal(t, 1, deps.Len(), "identical spec must not be added twice")

	build := expat
	build.Scope = domain.ScopeBuild
	require.NoError(t, deps.Require(build))
	assert.Equal(t, 2, deps.Len())

	_, ok := deps.Lookup("expat", domain.ScopeBuild)
	assert.True(t, ok)
	assert.True(t, deps.Contains("expat"))
	assert.False(t, deps.Contains("sqlite3"))
	assert.Equal(t, []string{"Expat/2.2.9@pix4d/stable"}, deps.References())
}

func TestDependencies_Require_Conflict(t *testing.T) {
	var deps domain.Dependencies
	require.NoError(t, deps.Require(domain.DependencySpec{
		Name: "expat", Reference: "Expat/2.2.9@pix4d/stable", Scope: domain.ScopeRuntime,
	}))

	err := deps.Require(domain.DependencySpec{
		Name: "expat", Reference: "expat/2.4.1", Scope: domain.ScopeBuild,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigurationConflict))
	assert.Equal(t, "ConfigurationConflictError", domain.Classify(err))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	meta := zErr.Metadata()
	assert.Equal(t, "expat", meta["dependency"])
	assert.Equal(t, "Expat/2.2.9@pix4d/stable", meta["existing"])
	assert.Equal(t, "expat/2.4.1", meta["requested"])

	assert.Equal(t, 1, deps.Len(), "a rejected requirement must not be recorded")
}

func TestDependencies_List_IsCopy(t *testing.T) {
	var deps domain.Dependencies
	require.NoError(t, deps.Require(domain.DependencySpec{Name: "a", Reference: "a/1", Scope: domain.ScopeRuntime}))

	list := deps.List()
	list[0].Name = "changed"

	got, ok := deps.Lookup("a", domain.ScopeRuntime)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestDefinitions(t *testing.T) {
	defs := make(domain.Definitions)
	defs.Set("USE_SQLITE3", domain.StringValue("OFF"))
	defs.Set("USE_SQLITE3", domain.StringValue("ON"))
	defs.Set("CONAN_EXPORTED", domain.BoolValue(true))
	defs.Set("BUILD_DOCS", domain.BoolValue(false))

	assert.Equal(t, domain.StringValue("ON"), defs["USE_SQLITE3"], "last write wins")
	assert.True(t, defs["CONAN_EXPORTED"].Bool())
	assert.Equal(t, []string{"BUILD_DOCS", "CONAN_EXPORTED", "USE_SQLITE3"}, defs.Keys())
	assert.Equal(t, []string{
		"-DBUILD_DOCS=OFF",
		"-DCONAN_EXPORTED=ON",
		"-DUSE_SQLITE3=ON",
	}, defs.Flags())
}

func TestDefinitionValue_JSON(t *testing.T) {
	data, err := domain.BoolValue(true).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	data, err = domain.StringValue("ON").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"ON"`, string(data))

	var v domain.DefinitionValue
	require.NoError(t, v.UnmarshalJSON([]byte("false")))
	assert.Equal(t, domain.BoolValue(false), v)
	require.NoError(t, v.UnmarshalJSON([]byte(`"Release"`)))
	assert.Equal(t, domain.StringValue("Release"), v)
}
