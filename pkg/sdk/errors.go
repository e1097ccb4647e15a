package orderdex

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/orderdex/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound      = domain.ErrNotFound
	ErrRunNotFound   = domain.ErrRunNotFound
	ErrNoRuns        = domain.ErrNoRuns
	ErrUnknownReport = domain.ErrUnknownReport
)

// ErrUnauthorized signals a missing or rejected API key.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a failure response from the service. It wraps the sentinel
// matching its code, so errors.Is works on the returned error.
type APIError struct {
	Status  int    // HTTP status
	Code    string // machine-readable error code from the envelope
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap maps the service's error code back to a sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "run_not_found":
		return ErrRunNotFound
	case "no_runs":
		return ErrNoRuns
	case "company_not_found":
		return ErrNotFound
	case "unknown_report":
		return ErrUnknownReport
	case "unauthorized":
		return ErrUnauthorized
	}
	return nil
}
