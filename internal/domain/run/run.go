// Package run holds pipeline-run metadata.
package run

import (
	"time"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
)

// Stats counts what one pipeline run saw at each stage.
type Stats struct {
	OrdersLoaded   int `json:"orders_loaded"`
	RowsSkipped    int `json:"rows_skipped"`
	InvoicesLoaded int `json:"invoices_loaded"`
	Observations   int `json:"observations"`
	Companies      int `json:"companies"`
	Clusters       int `json:"clusters"`
}

// Run is the metadata of one completed pipeline run.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Threshold  float64   `json:"threshold"`
	Stats      Stats     `json:"stats"`
}

// Duration returns the wall-clock time the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Snapshot is everything one completed run produced. Persisted whole and
// never merged across runs; each run recomputes from scratch.
type Snapshot struct {
	Run       Run                `json:"run"`
	Companies []company.Resolved `json:"companies"`
	Reports   report.Tables      `json:"reports"`
}

