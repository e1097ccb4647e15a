package health

import (
	"context"
	"errors"

	"github.com/kailas-cloud/orderdex/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store StorePinger
	runs  RunChecker
}

// New creates a Service. runs can be nil.
func New(store StorePinger, runs RunChecker) *Service {
	return &Service{store: store, runs: runs}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
	} else {
		checks["store"] = CheckOK
	}

	if s.runs != nil {
		// An empty store is healthy; only a failing read is not.
		if _, err := s.runs.LatestID(ctx); err != nil && !errors.Is(err, domain.ErrNoRuns) {
			checks["runs"] = CheckError
		} else {
			checks["runs"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
