package ports

import "go.trai.ch/rig/internal/core/domain"

// ProfileLoader defines the interface for loading persisted invocation profiles.
//
//go:generate mockgen -source=profile_loader.go -destination=mocks/mock_profile_loader.go -package=mocks
type ProfileLoader interface {
	// Load reads the profile at path. When required is false a missing file
	// yields an empty profile instead of an error.
	Load(path string, required bool) (*domain.Profile, error)
}
