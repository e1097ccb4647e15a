package orderdex

import "context"

// ReportsService reads report tables from the latest run.
type ReportsService struct {
	client *Client
}

// CrateDistribution returns order counts per company and crate type.
func (s *ReportsService) CrateDistribution(ctx context.Context) ([]CrateDistributionRow, error) {
	var rows []CrateDistributionRow
	if err := s.client.get(ctx, "/api/v1/reports/crate-distribution", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Commissions returns per-owner commission totals in euros.
func (s *ReportsService) Commissions(ctx context.Context) ([]CommissionRow, error) {
	var rows []CommissionRow
	if err := s.client.get(ctx, "/api/v1/reports/commissions", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesPerformance returns per-owner attributed gross sales in euros.
func (s *ReportsService) SalesPerformance(ctx context.Context) ([]PerformanceRow, error) {
	var rows []PerformanceRow
	if err := s.client.get(ctx, "/api/v1/reports/sales-performance", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// TopPerformers returns monthly owner rankings by rolling three-month gross.
func (s *ReportsService) TopPerformers(ctx context.Context) ([]TopPerformerRow, error) {
	var rows []TopPerformerRow
	if err := s.client.get(ctx, "/api/v1/reports/top-performers", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Contacts returns the extracted buyer contact per order.
func (s *ReportsService) Contacts(ctx context.Context) ([]ContactRow, error) {
	var rows []ContactRow
	if err := s.client.get(ctx, "/api/v1/reports/contacts", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
