// Package app implements the application layer for rig.
package app

import (
	"context"
	"maps"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/engine/fetcher"
	"go.trai.ch/rig/internal/engine/lifecycle"
	"go.trai.ch/rig/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	profiles  ports.ProfileLoader
	resolver  *resolver.Resolver
	fetcher   *fetcher.Fetcher
	runner    *lifecycle.Runner
	locks     ports.LockStore
	telemetry ports.Telemetry
	logger    ports.Logger
	schema    *domain.Schema
}

// New creates a new App instance.
func New(
	profiles ports.ProfileLoader,
	res *resolver.Resolver,
	fetch *fetcher.Fetcher,
	runner *lifecycle.Runner,
	locks ports.LockStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		profiles:  profiles,
		resolver:  res,
		fetcher:   fetch,
		runner:    runner,
		locks:     locks,
		telemetry: telemetry,
		logger:    logger,
		schema:    domain.GamaSchema(),
	}
}

// Request describes one invocation: where the profile lives and what the command line overrides.
type Request struct {
	// ProfilePath is the profile to read.
	ProfilePath string
	// ProfileRequired makes a missing profile an error.
	ProfileRequired bool
	// Options override profile options by name.
	Options map[string]string
	// Environment overrides the profile environment.
	Environment EnvironmentOverrides
}

// EnvironmentOverrides holds command line environment overrides. Nil fields are not overridden.
type EnvironmentOverrides struct {
	Host            *string
	Target          *string
	CrossBuilding   *bool
	ShouldConfigure *bool
	ShouldBuild     *bool
	ShouldTest      *bool
	ShouldInstall   *bool
}

// Apply returns env with the overrides applied. Changing host or target
// recomputes the cross flag unless it is overridden too.
func (o EnvironmentOverrides) Apply(env domain.Environment) domain.Environment {
	if o.Host != nil {
		env.Host = *o.Host
	}
	if o.Target != nil {
		env.Target = *o.Target
	}
	if o.Host != nil || o.Target != nil {
		env.CrossBuilding = env.Host != env.Target
	}

	for _, f := range []struct {
		dst *bool
		src *bool
	}{
		{&env.CrossBuilding, o.CrossBuilding},
		{&env.ShouldConfigure, o.ShouldConfigure},
		{&env.ShouldBuild, o.ShouldBuild},
		{&env.ShouldTest, o.ShouldTest},
		{&env.ShouldInstall, o.ShouldInstall},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return env
}

// Invocation is a resolved request together with its inputs.
type Invocation struct {
	Profile     *domain.Profile
	Environment domain.Environment
	Resolution  *domain.Resolution
}

// Options returns the option declarations in name order.
func (a *App) Options() []domain.OptionSpec {
	return a.schema.Specs()
}

// Resolve loads the profile, applies the overrides, validates the options and runs the resolver.
func (a *App) Resolve(_ context.Context, req Request) (*Invocation, error) {
	profile, err := a.profiles.Load(req.ProfilePath, req.ProfileRequired)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load profile")
	}

	raw := maps.Clone(profile.Options)
	if raw == nil {
		raw = make(map[string]string, len(req.Options))
	}
	maps.Copy(raw, req.Options)

	opts, err := a.schema.Validate(raw)
	if err != nil {
		return nil, err
	}

	env := req.Environment.Apply(profile.Environment)

	var extra []resolver.Rule
	if len(profile.Requires) > 0 {
		extra = append(extra, resolver.RequirementsRule(profile.Requires))
	}

	res, err := a.resolver.Resolve(opts, env, extra...)
	if err != nil {
		return nil, err
	}

	return &Invocation{Profile: profile, Environment: env, Resolution: res}, nil
}

// Lock resolves the request and stores the result as the lockfile.
func (a *App) Lock(ctx context.Context, req Request) (*Invocation, error) {
	inv, err := a.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := a.locks.Put(inv.Resolution.Lockfile()); err != nil {
		return nil, zerr.Wrap(err, "failed to write lockfile")
	}
	a.logger.Info("lockfile written, fingerprint " + inv.Resolution.Fingerprint())
	return inv, nil
}

// Check resolves the request and compares it with the stored lockfile.
func (a *App) Check(ctx context.Context, req Request) (*Invocation, error) {
	inv, err := a.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	stored, err := a.locks.Get()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read lockfile")
	}
	if stored == nil {
		return nil, zerr.Wrap(domain.ErrLockfileNotFound, "run resolve --lock first")
	}

	if got := inv.Resolution.Fingerprint(); got != stored.Fingerprint {
		drift := zerr.With(zerr.Wrap(domain.ErrConfigurationConflict, "resolution differs from lockfile"), "locked", stored.Fingerprint)
		return nil, zerr.With(drift, "resolved", got)
	}
	return inv, nil
}

// Build resolves the request, fetches the dependencies and runs the lifecycle actions.
func (a *App) Build(ctx context.Context, req Request) (results []lifecycle.Result, err error) {
	defer func() {
		if closeErr := a.telemetry.Close(); closeErr != nil && err == nil {
			err = zerr.Wrap(closeErr, "failed to close telemetry")
		}
	}()

	inv, err := a.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	dirs, err := a.fetcher.Fetch(ctx, inv.Resolution.Dependencies)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to fetch dependencies")
	}

	cfg := lifecycle.Config{
		Commands: inv.Profile.Commands,
		RunEnv:   lifecycle.RunEnvironment(dirs),
	}
	if inv.Profile.Imports {
		cfg.Imports = dirs
	}

	return a.runner.Run(ctx, inv.Resolution, inv.Environment, cfg)
}
