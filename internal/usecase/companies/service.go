// Package companies serves the resolved companies of the latest run.
package companies

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/company"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Service handles resolved-company queries.
type Service struct {
	repo Repository
}

// New creates a companies service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every resolved company of the latest run, ordered by
// canonical company id.
func (s *Service) List(ctx context.Context) ([]company.Resolved, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Companies, nil
}

// Get returns one resolved company by canonical id. A member id that was
// merged away resolves to its cluster's canonical row.
func (s *Service) Get(ctx context.Context, id string) (company.Resolved, error) {
	snap, err := s.latest(ctx)
	if err != nil {
		return company.Resolved{}, err
	}
	for _, c := range snap.Companies {
		if c.CompanyID == id {
			return c, nil
		}
	}
	return company.Resolved{}, domain.ErrNotFound
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
