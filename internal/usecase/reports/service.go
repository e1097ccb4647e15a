// Package reports serves the report tables of the latest run.
package reports

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Service handles report queries.
type Service struct {
	repo Repository
}

// New creates a reports service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns one report table of the latest run. The returned value is
// the table's row slice, ready for JSON rendering.
func (s *Service) Get(ctx context.Context, kind report.Kind) (any, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReport, kind)
	}

	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case report.KindCrateDistribution:
		return snap.Reports.CrateDistribution, nil
	case report.KindCommissions:
		return snap.Reports.Commissions, nil
	case report.KindSalesPerformance:
		return snap.Reports.SalesPerformance, nil
	case report.KindTopPerformers:
		return snap.Reports.TopPerformers, nil
	case report.KindContacts:
		return snap.Reports.Contacts, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownReport, kind)
}

// All returns every report table of the latest run.
func (s *Service) All(ctx context.Context) (report.Tables, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return report.Tables{}, err
	}
	return snap.Reports, nil
}

func (s *Service) latest(ctx context.Context) (domrun.Snapshot, error) {
	id, err := s.repo.LatestID(ctx)
	if err != nil {
		return domrun.Snapshot{}, fmt.Errorf("latest run id: %w", err)
	}
	snap, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrun.Snapshot{}, fmt.Errorf("load run %s: %w", id, err)
	}
	return snap, nil
}
