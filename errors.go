package orderdex

import "github.com/kailas-cloud/orderdex/internal/domain"

// Sentinel errors returned by the client and resolver.
var (
	// ErrNotFound signals a missing company.
	ErrNotFound = domain.ErrNotFound
	// ErrRunNotFound signals a missing pipeline run.
	ErrRunNotFound = domain.ErrRunNotFound
	// ErrNoRuns signals that no completed run exists yet.
	ErrNoRuns = domain.ErrNoRuns
	// ErrInvalidConfig signals an unusable resolver or client configuration.
	ErrInvalidConfig = domain.ErrInvalidConfig
	// ErrUnknownReport signals a report kind the engine does not produce.
	ErrUnknownReport = domain.ErrUnknownReport
)
