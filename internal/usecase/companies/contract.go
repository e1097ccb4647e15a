package companies

import (
	"context"

	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Repository loads stored run snapshots.
type Repository interface {
	Get(ctx context.Context, id string) (domrun.Snapshot, error)
	LatestID(ctx context.Context) (string, error)
}
