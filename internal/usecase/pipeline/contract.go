package pipeline

import (
	"context"

	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
	"github.com/kailas-cloud/orderdex/internal/fetch"
)

// Fetcher acquires the raw input files into the data dir.
type Fetcher interface {
	Fetch(ctx context.Context, sources []fetch.Source) ([]string, error)
}

// Repository persists completed run snapshots.
type Repository interface {
	Save(ctx context.Context, snap domrun.Snapshot) error
}

// Exporter writes a snapshot's output files to disk.
type Exporter interface {
	Export(snap domrun.Snapshot) (string, error)
}
