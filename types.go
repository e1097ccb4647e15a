package orderdex

import (
	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Observation is one company sighting from a single order.
type Observation = company.Observation

// Company is one consolidated output row per resolved identity.
type Company = company.Resolved

// Run is the metadata of one completed pipeline run.
type Run = domrun.Run

// RunStats counts what a run saw at each stage.
type RunStats = domrun.Stats

// Snapshot is everything one completed run produced.
type Snapshot = domrun.Snapshot

// Tables bundles every report table of a run.
type Tables = report.Tables

// ReportKind names one report table.
type ReportKind = report.Kind

// The report tables a pipeline run produces.
const (
	ReportCrateDistribution = report.KindCrateDistribution
	ReportCommissions       = report.KindCommissions
	ReportSalesPerformance  = report.KindSalesPerformance
	ReportTopPerformers     = report.KindTopPerformers
	ReportContacts          = report.KindContacts
)

// ReportKinds returns every report kind in a fixed order.
func ReportKinds() []ReportKind { return report.Kinds() }
