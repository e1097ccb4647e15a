package health

import "context"

// StorePinger checks backing store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// RunChecker checks that at least one completed run is readable.
type RunChecker interface {
	LatestID(ctx context.Context) (string, error)
}
