package runs

import (
	"context"

	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Repository defines the storage contract for completed runs.
type Repository interface {
	List(ctx context.Context) ([]domrun.Run, error)
	Get(ctx context.Context, id string) (domrun.Snapshot, error)
	LatestID(ctx context.Context) (string, error)
}
