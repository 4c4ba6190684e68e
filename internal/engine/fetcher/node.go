package fetcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/conan"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rig/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the fetcher Graft node.
const NodeID graft.ID = "engine.fetcher"

func init() {
	graft.Register(graft.Node[*Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			conan.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Fetcher, error) {
			manager, err := graft.Dep[ports.PackageManager](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(manager, log), nil
		},
	})
}
