package resolver

import (
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// Definition names set by the GaMa rules.
const (
	DefUseSQLite3        = "USE_SQLITE3"
	DefBuildTesting      = "BUILD_TESTING"
	DefConanExported     = "CONAN_EXPORTED"
	DefNativeCxxCompiler = "NATIVE_CXX_COMPILER"
	DefCMakeBuildType    = "CMAKE_BUILD_TYPE"
	DefCMakeCxxStandard  = "CMAKE_CXX_STANDARD"
)

const (
	ruleBase            = "base-requirements"
	ruleSQLite3         = "sqlite3-storage"
	ruleXMLValidation   = "xml-validation"
	ruleCrossBuild      = "cross-build"
	ruleBuildSettings   = "build-settings"
	ruleExported        = "conan-exported"
	ruleLifecycle       = "lifecycle-actions"
	ruleProfileRequires = "profile-requirements"
)

// Catalog names the package references used by the GaMa rules.
type Catalog struct {
	Parsing       domain.DependencySpec
	Numeric       domain.DependencySpec
	Storage       domain.DependencySpec
	XMLValidation domain.DependencySpec
}

// DefaultCatalog returns the package references pinned by the GaMa recipe.
func DefaultCatalog() Catalog {
	return Catalog{
		Parsing:       domain.DependencySpec{Name: "expat", Reference: "Expat/2.2.9@pix4d/stable"},
		Numeric:       domain.DependencySpec{Name: "gmatvec", Reference: "gmatvec/2.0@gnu/stable"},
		Storage:       domain.DependencySpec{Name: "sqlite3", Reference: "sqlite3/3.29.0@bincrafters/stable"},
		XMLValidation: domain.DependencySpec{Name: "libxml2", Reference: "libxml2/2.9.9@bincrafters/stable"},
	}
}

// Guards of the lifecycle actions. They are evaluated when an action is about to run.
var (
	configureGuard = domain.MustGuard("should_configure")
	buildGuard     = domain.MustGuard("should_build")
	testGuard      = domain.MustGuard("should_test && !cross_building")
	installGuard   = domain.MustGuard("should_install")
)

func scoped(dep domain.DependencySpec, scope domain.Scope) domain.DependencySpec {
	dep.Scope = scope
	return dep
}

// GamaRules returns the ordered rule list of the GaMa recipe.
func GamaRules(c Catalog) []Rule {
	return []Rule{
		{
			Name: ruleBase,
			Apply: func(res *domain.Resolution, _ domain.Environment) error {
				if err := res.Dependencies.Require(scoped(c.Parsing, domain.ScopeRuntime)); err != nil {
					return err
				}
				return res.Dependencies.Require(scoped(c.Numeric, domain.ScopeRuntime))
			},
		},
		{
			Name:    ruleSQLite3,
			Options: []string{domain.OptionSQLite3},
			Apply: func(res *domain.Resolution, _ domain.Environment) error {
				if !res.Options.Enabled(domain.OptionSQLite3) {
					return nil
				}
				if err := res.Dependencies.Require(scoped(c.Storage, domain.ScopeRuntime)); err != nil {
					return err
				}
				res.Definitions.Set(DefUseSQLite3, domain.StringValue("ON"))
				return nil
			},
		},
		{
			// Tests never run under a cross build, so a test-only request is dropped there.
			// An explicit libxml2 option is honoured either way.
			Name:    ruleXMLValidation,
			Options: []string{domain.OptionLibXML2},
			Apply: func(res *domain.Resolution, env domain.Environment) error {
				wanted := res.Options.Enabled(domain.OptionLibXML2) || (env.ShouldTest && !env.CrossBuilding)
				if !wanted {
					return nil
				}
				if err := res.Dependencies.Require(scoped(c.XMLValidation, domain.ScopeTest)); err != nil {
					return err
				}
				res.Definitions.Set(DefBuildTesting, domain.StringValue("ON"))
				return nil
			},
		},
		{
			Name:    ruleCrossBuild,
			Options: []string{domain.OptionNativeCompiler},
			Apply: func(res *domain.Resolution, env domain.Environment) error {
				if !env.CrossBuilding {
					return nil
				}
				// Code generation runs on the host.
				if err := res.Dependencies.Require(scoped(c.Parsing, domain.ScopeBuild)); err != nil {
					return err
				}

				compiler := res.Options.Value(domain.OptionNativeCompiler)
				switch {
				case compiler != "":
					res.Definitions.Set(DefNativeCxxCompiler, domain.StringValue(compiler))
				case env.TargetsWebAssembly():
					err := zerr.With(zerr.Wrap(domain.ErrMissingToolchain, "cross target requires option "+domain.OptionNativeCompiler),
						"target", env.Target)
					return zerr.With(err, "host", env.Host)
				}
				return nil
			},
		},
		{
			Name:    ruleBuildSettings,
			Options: []string{domain.OptionBuildType, domain.OptionCppStd},
			Apply: func(res *domain.Resolution, _ domain.Environment) error {
				if v := res.Options.Value(domain.OptionBuildType); v != "" {
					res.Definitions.Set(DefCMakeBuildType, domain.StringValue(v))
				}
				if v := res.Options.Value(domain.OptionCppStd); v != "" {
					res.Definitions.Set(DefCMakeCxxStandard, domain.StringValue(v))
				}
				return nil
			},
		},
		{
			Name: ruleExported,
			Apply: func(res *domain.Resolution, _ domain.Environment) error {
				res.Definitions.Set(DefConanExported, domain.BoolValue(true))
				return nil
			},
		},
		{
			Name: ruleLifecycle,
			Apply: func(res *domain.Resolution, _ domain.Environment) error {
				res.Actions = []domain.LifecycleAction{
					{Phase: domain.PhaseConfigure, Guard: configureGuard},
					{Phase: domain.PhaseBuild, Guard: buildGuard},
					{Phase: domain.PhaseTest, Guard: testGuard},
					{Phase: domain.PhaseInstall, Guard: installGuard},
				}
				return nil
			},
		},
	}
}

// RequirementsRule returns a rule that adds extra requirements, typically from a profile.
// A requirement without a scope is a runtime requirement.
func RequirementsRule(deps []domain.DependencySpec) Rule {
	return Rule{
		Name: ruleProfileRequires,
		Apply: func(res *domain.Resolution, _ domain.Environment) error {
			for _, dep := range deps {
				if dep.Scope == "" {
					dep.Scope = domain.ScopeRuntime
				}
				if err := res.Dependencies.Require(dep); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
