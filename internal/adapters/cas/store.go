// Package cas implements lockfile storage.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultLockfile is the lockfile name written next to the profile.
const DefaultLockfile = "rig.lock.json"

// Store implements ports.LockStore using a JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a LockStore backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Get reads the lockfile. It returns nil, nil when the file does not exist.
func (s *Store) Get() (*domain.Lockfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read lockfile"), "path", s.path)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var lock domain.Lockfile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrSchema, "failed to unmarshal lockfile: "+err.Error()), "path", s.path)
	}

	if lock.Version != domain.LockfileVersion {
		err := zerr.With(zerr.Wrap(domain.ErrSchema, "unsupported lockfile version"), "version", lock.Version)
		return nil, zerr.With(err, "path", s.path)
	}

	return &lock, nil
}

// Put writes the lockfile, replacing any previous one.
func (s *Store) Put(lock domain.Lockfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal lockfile")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for lockfile")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write lockfile"), "path", s.path)
	}

	return nil
}
