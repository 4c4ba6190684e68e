package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/engine/resolver"
	"go.trai.ch/zerr"
)

func mustOptions(t *testing.T, raw map[string]string) domain.OptionSet {
	t.Helper()
	opts, err := domain.GamaSchema().Validate(raw)
	require.NoError(t, err)
	return opts
}

func nativeEnv() domain.Environment {
	return domain.DefaultEnvironment("Linux-x86_64")
}

func phases(actions []domain.LifecycleAction) []domain.Phase {
	out := make([]domain.Phase, len(actions))
	for i, a := range actions {
		out[i] = a.Phase
	}
	return out
}

func TestResolve_Scenario(t *testing.T) {
	opts := mustOptions(t, map[string]string{"sqlite3": "true", "libxml2": "false"})
	env := nativeEnv()
	env.ShouldTest = true
	env.ShouldBuild = true
	env.ShouldInstall = false

	res, err := resolver.NewGamaResolver().Resolve(opts, env)
	require.NoError(t, err)

	assert.Equal(t, []domain.DependencySpec{
		{Name: "expat", Reference: "Expat/2.2.9@pix4d/stable", Scope: domain.ScopeRuntime},
		{Name: "gmatvec", Reference: "gmatvec/2.0@gnu/stable", Scope: domain.ScopeRuntime},
		{Name: "sqlite3", Reference: "sqlite3/3.29.0@bincrafters/stable", Scope: domain.ScopeRuntime},
		{Name: "libxml2", Reference: "libxml2/2.9.9@bincrafters/stable", Scope: domain.ScopeTest},
	}, res.Dependencies.List())

	assert.Equal(t, domain.Definitions{
		"CONAN_EXPORTED": domain.BoolValue(true),
		"USE_SQLITE3":    domain.StringValue("ON"),
		"BUILD_TESTING":  domain.StringValue("ON"),
	}, res.Definitions)

	runnable, err := res.Runnable(env)
	require.NoError(t, err)
	assert.Equal(t, []domain.Phase{domain.PhaseConfigure, domain.PhaseBuild, domain.PhaseTest}, phases(runnable))
	assert.Equal(t, domain.Phases, phases(res.Actions), "every phase is listed; guards decide at run time")
}

func TestResolve_SQLite3Toggle(t *testing.T) {
	r := resolver.NewGamaResolver()

	on, err := r.Resolve(mustOptions(t, map[string]string{"sqlite3": "true"}), nativeEnv())
	require.NoError(t, err)
	assert.True(t, on.Dependencies.Contains("sqlite3"))
	assert.Equal(t, "ON", on.Definitions[resolver.DefUseSQLite3].String())

	off, err := r.Resolve(mustOptions(t, map[string]string{"sqlite3": "false"}), nativeEnv())
	require.NoError(t, err)
	assert.False(t, off.Dependencies.Contains("sqlite3"))
	_, ok := off.Definitions[resolver.DefUseSQLite3]
	assert.False(t, ok)
}

func TestResolve_XMLValidation(t *testing.T) {
	tests := []struct {
		name        string
		libxml2     string
		shouldTest  bool
		cross       bool
		wantXML     bool
		wantTesting bool
	}{
		{"nothing requested", "false", false, false, false, false},
		{"tests native", "false", true, false, true, true},
		{"tests cross", "false", true, true, false, false},
		{"option native", "true", false, false, true, true},
		{"option cross", "true", true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := nativeEnv()
			env.ShouldTest = tt.shouldTest
			env.CrossBuilding = tt.cross
			env.Target = "Linux-armv8"

			res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, map[string]string{"libxml2": tt.libxml2}), env)
			require.NoError(t, err)

			dep, ok := res.Dependencies.Lookup("libxml2", domain.ScopeTest)
			assert.Equal(t, tt.wantXML, ok)
			if ok {
				assert.Equal(t, domain.ScopeTest, dep.Scope)
			}
			assert.False(t, res.Dependencies.Contains("libxml2") && !ok, "libxml2 only ever appears test-scoped")

			_, ok = res.Definitions[resolver.DefBuildTesting]
			assert.Equal(t, tt.wantTesting, ok)
		})
	}
}

func TestResolve_CrossBuild(t *testing.T) {
	env := nativeEnv()
	env.CrossBuilding = true
	env.Target = "Linux-armv8"

	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, nil), env)
	require.NoError(t, err)

	_, runtime := res.Dependencies.Lookup("expat", domain.ScopeRuntime)
	_, build := res.Dependencies.Lookup("expat", domain.ScopeBuild)
	assert.True(t, runtime)
	assert.True(t, build, "cross builds need the parser on the host")
	_, ok := res.Definitions[resolver.DefNativeCxxCompiler]
	assert.False(t, ok)
}

func TestResolve_CrossBuild_NativeCompilerPinned(t *testing.T) {
	env := nativeEnv()
	env.CrossBuilding = true
	env.Target = "Emscripten-wasm"

	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, map[string]string{"native_compiler": "g++"}), env)
	require.NoError(t, err)
	assert.Equal(t, domain.StringValue("g++"), res.Definitions[resolver.DefNativeCxxCompiler])
}

func TestResolve_MissingToolchain(t *testing.T) {
	env := nativeEnv()
	env.CrossBuilding = true
	env.Target = "Emscripten-wasm"

	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, nil), env)
	require.Error(t, err)
	assert.Nil(t, res, "no partial output on failure")
	assert.True(t, errors.Is(err, domain.ErrMissingToolchain))
	assert.Equal(t, "MissingToolchainError", domain.Classify(err))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	meta := zErr.Metadata()
	assert.Equal(t, "cross-build", meta["rule"])
	assert.Equal(t, "Emscripten-wasm", meta["target"])
}

func TestResolve_TestGuardFalseWhenCross(t *testing.T) {
	for _, raw := range []map[string]string{
		nil,
		{"libxml2": "true"},
		{"sqlite3": "true", "native_compiler": "clang++"},
	} {
		env := nativeEnv()
		env.CrossBuilding = true
		env.ShouldTest = true
		env.Target = "Linux-armv8"

		res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, raw), env)
		require.NoError(t, err)

		for _, action := range res.Actions {
			if action.Phase != domain.PhaseTest {
				continue
			}
			ok, err := action.Guard.Evaluate(env, res.Options)
			require.NoError(t, err)
			assert.False(t, ok)
		}
	}
}

func TestResolve_GuardsReevaluated(t *testing.T) {
	env := nativeEnv()
	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, nil), env)
	require.NoError(t, err)

	runnable, err := res.Runnable(env)
	require.NoError(t, err)
	assert.Equal(t, []domain.Phase{domain.PhaseConfigure, domain.PhaseBuild}, phases(runnable))

	env.ShouldTest = true
	env.ShouldInstall = true
	runnable, err = res.Runnable(env)
	require.NoError(t, err)
	assert.Equal(t, domain.Phases, phases(runnable))
}

func TestResolve_Deterministic(t *testing.T) {
	opts := mustOptions(t, map[string]string{"sqlite3": "true", "build_type": "Release", "cppstd": "17"})
	env := nativeEnv()
	env.ShouldTest = true

	r := resolver.NewGamaResolver()
	first, err := r.Resolve(opts, env)
	require.NoError(t, err)

	for range 10 {
		again, err := r.Resolve(opts, env)
		require.NoError(t, err)
		assert.Equal(t, first.Dependencies.List(), again.Dependencies.List())
		assert.Equal(t, first.Definitions, again.Definitions)
		assert.Equal(t, phases(first.Actions), phases(again.Actions))
		assert.Equal(t, first.Fingerprint(), again.Fingerprint())
	}

	assert.Equal(t, domain.StringValue("Release"), first.Definitions[resolver.DefCMakeBuildType])
	assert.Equal(t, domain.StringValue("17"), first.Definitions[resolver.DefCMakeCxxStandard])
}

func TestResolve_ParsingVersionConflict(t *testing.T) {
	extra := resolver.RequirementsRule([]domain.DependencySpec{
		{Name: "expat", Reference: "expat/2.4.1"},
	})

	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, nil), nativeEnv(), extra)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrConfigurationConflict))

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "profile-requirements", zErr.Metadata()["rule"])
}

func TestResolve_ConflictBetweenCatalogRules(t *testing.T) {
	pinned := resolver.DefaultCatalog()
	loose := pinned
	loose.Parsing.Reference = "expat/[>=2.2]"

	rules := append(resolver.GamaRules(pinned)[:1], resolver.GamaRules(loose)[0])
	_, err := resolver.New(rules...).Resolve(mustOptions(t, nil), nativeEnv())
	assert.True(t, errors.Is(err, domain.ErrConfigurationConflict))
}

func TestResolve_ProfileRequirements(t *testing.T) {
	extra := resolver.RequirementsRule([]domain.DependencySpec{
		{Name: "expat", Reference: "Expat/2.2.9@pix4d/stable", Scope: domain.ScopeRuntime},
		{Name: "zlib", Reference: "zlib/1.2.11"},
	})

	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, nil), nativeEnv(), extra)
	require.NoError(t, err)

	dep, ok := res.Dependencies.Lookup("zlib", domain.ScopeRuntime)
	require.True(t, ok)
	assert.Equal(t, "zlib/1.2.11", dep.Reference)
	assert.Equal(t, 3, res.Dependencies.Len())
}

func TestResolve_UndeclaredOption(t *testing.T) {
	schema, err := domain.NewSchema(domain.OptionSpec{Name: "sqlite3", Kind: domain.OptionBool, Default: "false"})
	require.NoError(t, err)
	opts, err := schema.Validate(nil)
	require.NoError(t, err)

	_, err = resolver.NewGamaResolver().Resolve(opts, nativeEnv())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchema))
}

func TestResolver_Rules(t *testing.T) {
	assert.Equal(t, []string{
		"base-requirements",
		"sqlite3-storage",
		"xml-validation",
		"cross-build",
		"build-settings",
		"conan-exported",
		"lifecycle-actions",
	}, resolver.NewGamaResolver().Rules())
}

func TestResolve_LaterRuleOverwritesDefinition(t *testing.T) {
	override := resolver.Rule{
		Name: "override",
		Apply: func(res *domain.Resolution, _ domain.Environment) error {
			res.Definitions.Set(resolver.DefConanExported, domain.BoolValue(false))
			return nil
		},
	}

	res, err := resolver.NewGamaResolver().Resolve(mustOptions(t, nil), nativeEnv(), override)
	require.NoError(t, err)
	assert.Equal(t, domain.BoolValue(false), res.Definitions[resolver.DefConanExported])
}
