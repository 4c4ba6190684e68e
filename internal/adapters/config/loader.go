// Package config provides the profile loader for rig.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultProfile is the profile read when none is given explicitly.
const DefaultProfile = "rig.yaml"

// Loader implements ports.ProfileLoader for YAML and HCL profiles.
type Loader struct {
	logger   ports.Logger
	platform string
}

// NewLoader creates a Loader whose defaults describe the current host.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderForPlatform(logger, HostPlatform())
}

// NewLoaderForPlatform creates a Loader with an explicit default platform.
func NewLoaderForPlatform(logger ports.Logger, platform string) *Loader {
	return &Loader{logger: logger, platform: platform}
}

// Load reads the profile at path. Files ending in .hcl are parsed as HCL, anything else as YAML.
func (l *Loader) Load(path string, required bool) (*domain.Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return nil, zerr.With(zerr.Wrap(domain.ErrProfileNotFound, "profile does not exist"), "path", path)
			}
			l.logger.Info("no profile at " + path + ", using defaults")
			return domain.NewProfile(l.platform), nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read profile"), "path", path)
	}

	var file *ProfileFile
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		file, err = parseHCL(path, data)
	} else {
		file, err = parseYAML(data)
	}
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	profile, err := l.toProfile(file)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return profile, nil
}

func (l *Loader) toProfile(file *ProfileFile) (*domain.Profile, error) {
	profile := domain.NewProfile(l.platform)
	profile.Imports = file.Imports

	for name, raw := range file.Options {
		if raw == nil {
			// Left unset; the schema default applies.
			continue
		}
		value, err := formatOption(raw)
		if err != nil {
			return nil, zerr.With(err, "option", name)
		}
		profile.Options[name] = value
	}

	profile.Environment = applyEnvironment(profile.Environment, file.Environment)

	for i, req := range file.Requires {
		dep, err := toRequirement(req)
		if err != nil {
			return nil, zerr.With(err, "requirement", i)
		}
		profile.Requires = append(profile.Requires, dep)
	}

	for name, cmd := range file.Commands {
		phase := domain.Phase(name)
		if phase.Order() < 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrSchema, "unknown lifecycle phase"), "phase", name)
		}
		if len(cmd) == 0 || cmd[0] == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrSchema, "empty command"), "phase", name)
		}
		profile.Commands[phase] = cmd
	}

	return profile, nil
}

func formatOption(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrSchema, "option value must be a scalar"), "type", fmt.Sprintf("%T", raw))
	}
}

// applyEnvironment overlays the set fields of dto on env. A target without an
// explicit cross_building flag is a cross build when it differs from the host.
func applyEnvironment(env domain.Environment, dto EnvironmentDTO) domain.Environment {
	if dto.Host != nil {
		env.Host = *dto.Host
		env.Target = *dto.Host
	}
	if dto.Target != nil {
		env.Target = *dto.Target
	}
	env.CrossBuilding = env.Host != env.Target
	if dto.CrossBuilding != nil {
		env.CrossBuilding = *dto.CrossBuilding
	}

	setBool(&env.ShouldConfigure, dto.ShouldConfigure)
	setBool(&env.ShouldBuild, dto.ShouldBuild)
	setBool(&env.ShouldTest, dto.ShouldTest)
	setBool(&env.ShouldInstall, dto.ShouldInstall)
	return env
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func toRequirement(req RequirementDTO) (domain.DependencySpec, error) {
	if req.Name == "" || req.Reference == "" {
		return domain.DependencySpec{}, zerr.Wrap(domain.ErrSchema, "requirement needs a name and a reference")
	}

	scope := domain.Scope(req.Scope)
	switch scope {
	case "":
		scope = domain.ScopeRuntime
	case domain.ScopeRuntime, domain.ScopeBuild, domain.ScopeTest:
	default:
		return domain.DependencySpec{}, zerr.With(zerr.Wrap(domain.ErrSchema, "unknown dependency scope"), "scope", req.Scope)
	}

	return domain.DependencySpec{Name: req.Name, Reference: req.Reference, Scope: scope}, nil
}

// HostPlatform describes the running host as OS-arch, e.g. Linux-x86_64.
func HostPlatform() string {
	goos := runtime.GOOS
	osName := map[string]string{
		"linux":   "Linux",
		"darwin":  "Macos",
		"windows": "Windows",
		"freebsd": "FreeBSD",
	}[goos]
	if osName == "" {
		osName = goos
	}

	arch := map[string]string{
		"amd64": "x86_64",
		"386":   "x86",
		"arm64": "armv8",
		"arm":   "armv7",
		"wasm":  "wasm",
	}[runtime.GOARCH]
	if arch == "" {
		arch = runtime.GOARCH
	}
	return osName + "-" + arch
}
