package orderdex

import (
	"context"
	"net/url"
)

// RunsService reads persisted pipeline run history.
type RunsService struct {
	client *Client
}

// List returns the metadata of every persisted run, newest first.
func (s *RunsService) List(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := s.client.get(ctx, "/api/v1/runs", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// Get returns the full snapshot of one run. Returns ErrRunNotFound when
// the id is unknown.
func (s *RunsService) Get(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	if err := s.client.get(ctx, "/api/v1/runs/"+url.PathEscape(id), &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Latest returns the most recent run's snapshot. Returns ErrNoRuns when
// nothing has been persisted yet.
func (s *RunsService) Latest(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := s.client.get(ctx, "/api/v1/runs/latest", &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
