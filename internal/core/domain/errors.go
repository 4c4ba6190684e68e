package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrSchema is returned when options or a profile do not match the declared schema.
	ErrSchema = zerr.New("schema error")

	// ErrConfigurationConflict is returned when rules assert incompatible requirements.
	ErrConfigurationConflict = zerr.New("configuration conflict")

	// ErrMissingToolchain is returned when a cross target requires a native compiler that was not supplied.
	ErrMissingToolchain = zerr.New("missing native compiler for cross target")

	// ErrEnvironment is returned when an external collaborator (compiler, test runner,
	// package manager) fails or is unavailable.
	ErrEnvironment = zerr.New("environment error")

	// ErrProfileNotFound is returned when an explicitly requested profile does not exist.
	ErrProfileNotFound = zerr.New("profile not found")

	// ErrLockfileNotFound is returned when a lockfile check runs without a stored lockfile.
	ErrLockfileNotFound = zerr.New("lockfile not found")
)

// Classify returns the name of the error category err belongs to.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchema), errors.Is(err, ErrProfileNotFound):
		return "SchemaError"
	case errors.Is(err, ErrConfigurationConflict):
		return "ConfigurationConflictError"
	case errors.Is(err, ErrMissingToolchain):
		return "MissingToolchainError"
	case errors.Is(err, ErrEnvironment):
		return "EnvironmentError"
	default:
		return "Error"
	}
}
