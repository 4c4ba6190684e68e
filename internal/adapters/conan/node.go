package conan

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the package manager Graft node.
const NodeID graft.ID = "adapter.conan"

func init() {
	graft.Register(graft.Node[ports.PackageManager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PackageManager, error) {
			cacheDir, err := os.UserCacheDir()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to locate user cache directory")
			}
			return NewManager(filepath.Join(cacheDir, "rig", "conan")), nil
		},
	})
}
