package domain

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.trai.ch/zerr"
)

// Phase is a lifecycle step of the native build.
type Phase string

const (
	// PhaseConfigure runs the build-system configure step.
	PhaseConfigure Phase = "configure"
	// PhaseBuild compiles the project.
	PhaseBuild Phase = "build"
	// PhaseTest runs the test suite.
	PhaseTest Phase = "test"
	// PhaseInstall copies the artifacts into the install prefix.
	PhaseInstall Phase = "install"
)

// Phases lists all phases in execution order.
var Phases = []Phase{PhaseConfigure, PhaseBuild, PhaseTest, PhaseInstall}

// Order returns the position of the phase in the execution order, or -1 if unknown.
func (p Phase) Order() int {
	for i, phase := range Phases {
		if phase == p {
			return i
		}
	}
	return -1
}

// GuardScope is the set of variables visible to a guard expression.
type GuardScope struct {
	Host            string            `expr:"host"`
	Target          string            `expr:"target"`
	CrossBuilding   bool              `expr:"cross_building"`
	ShouldConfigure bool              `expr:"should_configure"`
	ShouldBuild     bool              `expr:"should_build"`
	ShouldTest      bool              `expr:"should_test"`
	ShouldInstall   bool              `expr:"should_install"`
	Options         map[string]string `expr:"options"`
}

// NewGuardScope builds the guard variables from an environment and option set.
func NewGuardScope(env Environment, opts OptionSet) GuardScope {
	return GuardScope{
		Host:            env.Host,
		Target:          env.Target,
		CrossBuilding:   env.CrossBuilding,
		ShouldConfigure: env.ShouldConfigure,
		ShouldBuild:     env.ShouldBuild,
		ShouldTest:      env.ShouldTest,
		ShouldInstall:   env.ShouldInstall,
		Options:         opts.Map(),
	}
}

// Guard is a compiled boolean predicate over an Environment and an OptionSet.
type Guard struct {
	source  string
	program *vm.Program
}

// NewGuard compiles a guard expression such as "should_test && !cross_building".
func NewGuard(source string) (Guard, error) {
	program, err := expr.Compile(source, expr.Env(GuardScope{}), expr.AsBool())
	if err != nil {
		return Guard{}, zerr.With(zerr.Wrap(err, "invalid guard expression"), "guard", source)
	}
	return Guard{source: source, program: program}, nil
}

// MustGuard is like NewGuard but panics on a compile error. It is meant for static expressions.
func MustGuard(source string) Guard {
	g, err := NewGuard(source)
	if err != nil {
		panic(err)
	}
	return g
}

// String returns the guard's source expression.
func (g Guard) String() string {
	return g.source
}

// Evaluate runs the guard against the given environment and options.
// A zero Guard always evaluates true.
func (g Guard) Evaluate(env Environment, opts OptionSet) (bool, error) {
	if g.program == nil {
		return true, nil
	}
	out, err := expr.Run(g.program, NewGuardScope(env, opts))
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "guard evaluation failed"), "guard", g.source)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// LifecycleAction is a phase gated by a guard. The guard is evaluated when the
// action is about to execute, not when the action list is produced.
type LifecycleAction struct {
	Phase Phase
	Guard Guard
}
