// Package lifecycle runs the configure, build, test and install actions of a resolution.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultBuildDir is the build tree used by the default commands.
const DefaultBuildDir = "build"

const importsVertex = "imports"

// Config controls a single run.
type Config struct {
	// Commands overrides the command of a phase. The configure command always
	// receives the resolved definitions as trailing -D flags.
	Commands map[domain.Phase][]string

	// WorkingDir is the source tree. Empty means the current directory.
	WorkingDir string

	// BuildDir is the build tree relative to WorkingDir. Empty means DefaultBuildDir.
	BuildDir string

	// Imports maps dependency names to install directories whose shared
	// libraries are copied into the build tree before configure. Nil disables the step.
	Imports map[string]string

	// RunEnv is overlaid on the environment of the test phase.
	RunEnv map[string]string
}

func (c Config) buildDir() string {
	if c.BuildDir == "" {
		return DefaultBuildDir
	}
	return c.BuildDir
}

// Result is the outcome of one lifecycle action.
type Result struct {
	Phase  domain.Phase
	Status domain.ActionStatus
}

// Runner executes lifecycle actions in phase order.
type Runner struct {
	executor  ports.Executor
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[domain.Phase]domain.ActionStatus
}

// NewRunner creates a new Runner.
func NewRunner(executor ports.Executor, telemetry ports.Telemetry, logger ports.Logger) *Runner {
	return &Runner{
		executor:  executor,
		telemetry: telemetry,
		logger:    logger,
		status:    make(map[domain.Phase]domain.ActionStatus),
	}
}

// DefaultCommands returns the cmake driven command of every phase.
func DefaultCommands(buildDir string) map[domain.Phase][]string {
	return map[domain.Phase][]string{
		domain.PhaseConfigure: {"cmake", "-S", ".", "-B", buildDir},
		domain.PhaseBuild:     {"cmake", "--build", buildDir},
		domain.PhaseTest:      {"ctest", "--test-dir", buildDir, "--output-on-failure"},
		domain.PhaseInstall:   {"cmake", "--install", buildDir},
	}
}

// Status returns the last known status of a phase.
func (r *Runner) Status(phase domain.Phase) domain.ActionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.status[phase]; ok {
		return s
	}
	return domain.ActionPending
}

func (r *Runner) updateStatus(phase domain.Phase, status domain.ActionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[phase] = status
}

// Run evaluates every action's guard against env and runs the ones that hold.
// The first failing action stops the run; later actions stay pending.
func (r *Runner) Run(ctx context.Context, res *domain.Resolution, env domain.Environment, cfg Config) ([]Result, error) {
	actions := slices.Clone(res.Actions)
	slices.SortStableFunc(actions, func(a, b domain.LifecycleAction) int {
		return a.Phase.Order() - b.Phase.Order()
	})

	r.mu.Lock()
	clear(r.status)
	r.mu.Unlock()
	for _, action := range actions {
		r.updateStatus(action.Phase, domain.ActionPending)
	}

	if cfg.Imports != nil {
		if err := r.runImports(ctx, cfg); err != nil {
			return r.results(actions), err
		}
	}

	commands := DefaultCommands(cfg.buildDir())
	for phase, cmd := range cfg.Commands {
		commands[phase] = cmd
	}

	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return r.results(actions), err
		}

		if err := r.runAction(ctx, res, env, cfg, action, commands[action.Phase]); err != nil {
			return r.results(actions), err
		}
	}

	return r.results(actions), nil
}

func (r *Runner) runAction(
	ctx context.Context,
	res *domain.Resolution,
	env domain.Environment,
	cfg Config,
	action domain.LifecycleAction,
	command []string,
) error {
	phase := action.Phase
	ctx, vertex := r.telemetry.Record(ctx, string(phase), ports.WithGroup("lifecycle"))

	ok, err := action.Guard.Evaluate(env, res.Options)
	if err != nil {
		r.updateStatus(phase, domain.ActionFailed)
		vertex.Complete(err)
		return zerr.With(err, "phase", string(phase))
	}
	if !ok {
		r.updateStatus(phase, domain.ActionSkipped)
		r.logger.Info(fmt.Sprintf("skipping %s: %s is false", phase, action.Guard))
		vertex.Log(domain.LogLevelInfo, "skipped: "+action.Guard.String())
		vertex.Skip()
		return nil
	}

	if len(command) == 0 {
		err := zerr.With(zerr.Wrap(domain.ErrEnvironment, "no command for phase"), "phase", string(phase))
		r.updateStatus(phase, domain.ActionFailed)
		vertex.Complete(err)
		return err
	}

	args := slices.Clone(command[1:])
	if phase == domain.PhaseConfigure {
		args = append(args, res.Definitions.Flags()...)
	}

	cmd := ports.Command{
		Name:       command[0],
		Args:       args,
		WorkingDir: cfg.WorkingDir,
	}
	if phase == domain.PhaseTest {
		cmd.Env = cfg.RunEnv
	}

	r.logger.Info(fmt.Sprintf("%s: %s %s", phase, command[0], strings.Join(args, " ")))
	err = r.executor.Execute(ctx, cmd, vertex.Stdout(), vertex.Stderr())
	vertex.Complete(err)
	if err != nil {
		r.updateStatus(phase, domain.ActionFailed)
		if !errors.Is(err, domain.ErrEnvironment) {
			err = zerr.Wrap(domain.ErrEnvironment, err.Error())
		}
		wrapped := zerr.With(err, "phase", string(phase))
		return zerr.With(wrapped, "command", command[0])
	}

	r.updateStatus(phase, domain.ActionCompleted)
	return nil
}

func (r *Runner) results(actions []domain.LifecycleAction) []Result {
	out := make([]Result, len(actions))
	for i, action := range actions {
		out[i] = Result{Phase: action.Phase, Status: r.Status(action.Phase)}
	}
	return out
}
