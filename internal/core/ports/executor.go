// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command is a single external process invocation.
type Command struct {
	Name       string
	Args       []string
	WorkingDir string
	Env        map[string]string
}

// Executor defines the interface for running lifecycle commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command, streaming its output to stdout and stderr.
	//
	// It returns an error if the command cannot be started or exits non-zero.
	Execute(ctx context.Context, cmd Command, stdout, stderr io.Writer) error
}
