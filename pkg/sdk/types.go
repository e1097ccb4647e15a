package orderdex

import (
	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Run is the metadata of one completed pipeline run.
type Run = domrun.Run

// RunStats counts what a run saw at each stage.
type RunStats = domrun.Stats

// Snapshot is everything one completed run produced.
type Snapshot = domrun.Snapshot

// Company is one consolidated row per resolved identity.
type Company = company.Resolved

// Report row types, one per table.
type (
	CrateDistributionRow = report.CrateDistributionRow
	CommissionRow        = report.CommissionRow
	PerformanceRow       = report.PerformanceRow
	TopPerformerRow      = report.TopPerformerRow
	ContactRow           = report.ContactRow
)

// Health is the service's readiness response.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
