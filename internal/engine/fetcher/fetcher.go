// Package fetcher makes the resolved dependencies available locally.
package fetcher

import (
	"context"
	"runtime"
	"sync"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Fetcher fetches dependencies through a package manager.
type Fetcher struct {
	manager ports.PackageManager
	logger  ports.Logger
	limit   int
}

// New creates a Fetcher running at most runtime.NumCPU fetches at once.
func New(manager ports.PackageManager, logger ports.Logger) *Fetcher {
	return &Fetcher{
		manager: manager,
		logger:  logger,
		limit:   runtime.NumCPU(),
	}
}

// Fetch fetches every distinct reference once and returns install directories keyed by dependency name.
func (f *Fetcher) Fetch(ctx context.Context, deps domain.Dependencies) (map[string]string, error) {
	byReference := make(map[string]domain.DependencySpec)
	for _, dep := range deps.List() {
		if _, ok := byReference[dep.Reference]; !ok {
			byReference[dep.Reference] = dep
		}
	}

	dirs := make(map[string]string, len(byReference))
	var mu sync.Mutex

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)

	for _, ref := range deps.References() {
		dep := byReference[ref]
		g.Go(func() error {
			f.logger.Info("fetching " + dep.Reference)

			dir, err := f.manager.Fetch(groupCtx, dep)
			if err != nil {
				return zerr.With(err, "dependency", dep.Name)
			}

			mu.Lock()
			dirs[dep.Name] = dir
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dirs, nil
}
