// Package conan implements the package manager adapter on top of the conan CLI.
package conan

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultBinary is the conan executable looked up on PATH.
const DefaultBinary = "conan"

// Manager implements ports.PackageManager using the conan CLI.
type Manager struct {
	binary   string
	cacheDir string
}

// NewManager creates a Manager installing into cacheDir.
func NewManager(cacheDir string) *Manager {
	return NewManagerWithBinary(DefaultBinary, cacheDir)
}

// NewManagerWithBinary creates a Manager that invokes binary instead of conan.
func NewManagerWithBinary(binary, cacheDir string) *Manager {
	return &Manager{
		binary:   binary,
		cacheDir: cacheDir,
	}
}

// InstallDir returns the directory a reference is installed into.
func (m *Manager) InstallDir(reference string) string {
	return filepath.Join(m.cacheDir, folderName(reference))
}

// Fetch installs the dependency, building it from source when no binary package matches.
func (m *Manager) Fetch(ctx context.Context, dep domain.DependencySpec) (string, error) {
	installDir := m.InstallDir(dep.Reference)
	if err := os.MkdirAll(installDir, 0o750); err != nil {
		mkErr := zerr.Wrap(domain.ErrEnvironment, "failed to create install folder: "+err.Error())
		return "", zerr.With(mkErr, "path", installDir)
	}

	//nolint:gosec // reference comes from the resolved catalog or profile
	cmd := exec.CommandContext(ctx, m.binary, "install", dep.Reference,
		"--build=missing", "--install-folder", installDir)

	if _, err := cmd.Output(); err != nil {
		installErr := zerr.Wrap(domain.ErrEnvironment, "conan install failed: "+err.Error())
		installErr = zerr.With(installErr, "dependency", dep.Name)
		installErr = zerr.With(installErr, "reference", dep.Reference)

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", zerr.With(installErr, "stderr", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", installErr
	}

	return installDir, nil
}

// folderName turns a reference such as Expat/2.2.9@pix4d/stable into a directory name.
func folderName(reference string) string {
	return strings.NewReplacer("/", "_", "@", "_", ":", "_", "[", "", "]", "", " ", "").Replace(reference)
}
