package orderdex

import (
	"context"
	"net/url"
)

// CompaniesService reads consolidated companies from the latest run.
type CompaniesService struct {
	client *Client
}

// List returns the consolidated companies of the latest run, ordered by
// ascending canonical company id.
func (s *CompaniesService) List(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := s.client.get(ctx, "/api/v1/companies", &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// Get returns one consolidated company by canonical id. Returns
// ErrNotFound when the id resolved to no cluster.
func (s *CompaniesService) Get(ctx context.Context, id string) (Company, error) {
	var c Company
	if err := s.client.get(ctx, "/api/v1/companies/"+url.PathEscape(id), &c); err != nil {
		return Company{}, err
	}
	return c, nil
}
