package ports

import (
	"context"

	"go.trai.ch/rig/internal/core/domain"
)

// PackageManager fetches or builds external dependencies.
//
//go:generate mockgen -source=package_manager.go -destination=mocks/mock_package_manager.go -package=mocks
type PackageManager interface {
	// Fetch ensures the dependency is available locally.
	// Returns the directory the package was installed into.
	Fetch(ctx context.Context, dep domain.DependencySpec) (installDir string, err error)
}
