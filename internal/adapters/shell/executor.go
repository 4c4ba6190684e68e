// Package shell provides the shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command with the process environment overlaid by cmd.Env.
//
// Output goes to stdout and stderr when given. A nil writer falls back to the
// vertex carried by ctx, and without one to the logger, line by line.
func (e *Executor) Execute(ctx context.Context, cmd ports.Command, stdout, stderr io.Writer) error {
	if cmd.Name == "" {
		return nil
	}

	cmdEnv := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(cmd.Name) {
		if lp, err := lookPath(cmd.Name, cmdEnv); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // user provided command

	// Keep the name as invoked rather than the resolved path.
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Name
	}
	if cmd.WorkingDir != "" {
		c.Dir = cmd.WorkingDir
	}
	c.Env = cmdEnv

	var flush []*logWriter
	if stdout == nil || stderr == nil {
		vertex, hasVertex := ports.VertexFromContext(ctx)
		if stdout == nil {
			if hasVertex {
				stdout = vertex.Stdout()
			} else {
				w := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
				flush = append(flush, w)
				stdout = w
			}
		}
		if stderr == nil {
			if hasVertex {
				stderr = vertex.Stderr()
			} else {
				w := &logWriter{logger: e.logger, level: domain.LogLevelError}
				flush = append(flush, w)
				stderr = w
			}
		}
	}
	c.Stdout = stdout
	c.Stderr = stderr

	err := c.Run()
	for _, w := range flush {
		w.Flush()
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		wrapped := zerr.With(zerr.Wrap(domain.ErrEnvironment, "command failed: "+err.Error()), "command", cmd.Name)
		return zerr.With(wrapped, "exit_code", exitCode)
	}

	return nil
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	mu     sync.Mutex
	logger ports.Logger
	level  domain.LogLevel
	buf    bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Incomplete line, keep it for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.level >= domain.LogLevelError {
		w.logger.Error(zerr.New(line))
		return
	}
	w.logger.Info(line)
}

// pathLists are the variables whose overrides are prepended to the system value.
var pathLists = []string{"PATH", "LD_LIBRARY_PATH", "DYLD_LIBRARY_PATH"}

// resolveEnvironment overlays overrides on the system environment.
// Overrides of search path lists are prepended to the system value.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		if slices.Contains(pathLists, k) {
			if sysPath, exists := envMap[k]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
