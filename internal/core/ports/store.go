package ports

import "go.trai.ch/rig/internal/core/domain"

// LockStore defines the interface for persisting resolution snapshots.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LockStore interface {
	// Get retrieves the stored lockfile.
	// Returns nil, nil if none has been written.
	Get() (*domain.Lockfile, error)

	// Put stores the lockfile, replacing any previous one.
	Put(lock domain.Lockfile) error
}
