// Package runs serves stored pipeline runs.
package runs

import (
	"context"
	"fmt"

	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// Service handles run queries.
type Service struct {
	repo Repository
}

// New creates a runs service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every stored run record, newest first.
func (s *Service) List(ctx context.Context) ([]domrun.Run, error) {
	runs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get loads one complete snapshot by run id.
func (s *Service) Get(ctx context.Context, id string) (domrun.Snapshot, error) {
	snap, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrun.Snapshot{}, fmt.Errorf("get run: %w", err)
	}
	return snap, nil
}

// Latest loads the most recently completed snapshot.
func (s *Service) Latest(ctx context.Context) (domrun.Snapshot, error) {
	id, err := s.repo.LatestID(ctx)
	if err != nil {
		return domrun.Snapshot{}, fmt.Errorf("latest run id: %w", err)
	}
	return s.Get(ctx, id)
}
