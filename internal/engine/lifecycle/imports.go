package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

var sharedLibraryPatterns = []string{"*.dll", "*.so", "*.so.*"}

// runImports copies the shared libraries of every imported dependency into
// the bin and lib directories of the build tree.
func (r *Runner) runImports(ctx context.Context, cfg Config) error {
	_, vertex := r.telemetry.Record(ctx, importsVertex, ports.WithGroup("lifecycle"))

	buildDir := filepath.Join(cfg.WorkingDir, cfg.buildDir())
	copied, err := importSharedLibraries(cfg.Imports, buildDir)
	if err != nil {
		vertex.Complete(err)
		return err
	}

	vertex.Log(domain.LogLevelInfo, fmt.Sprintf("copied %d shared libraries", copied))
	vertex.Complete(nil)
	return nil
}

func importSharedLibraries(imports map[string]string, buildDir string) (int, error) {
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	slices.Sort(names)

	copied := 0
	for _, name := range names {
		src := filepath.Join(imports[name], "bin")
		for _, pattern := range sharedLibraryPatterns {
			matches, err := filepath.Glob(filepath.Join(src, pattern))
			if err != nil {
				return copied, zerr.With(zerr.Wrap(err, "invalid import pattern"), "pattern", pattern)
			}
			for _, file := range matches {
				for _, dest := range []string{"bin", "lib"} {
					if err := copyFile(file, filepath.Join(buildDir, dest, filepath.Base(file))); err != nil {
						wrapped := zerr.With(zerr.Wrap(domain.ErrEnvironment, "failed to import "+file+": "+err.Error()), "dependency", name)
						return copied, zerr.With(wrapped, "phase", importsVertex)
					}
				}
				copied++
			}
		}
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // path comes from the package manager
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm()) //nolint:gosec // build tree path
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
