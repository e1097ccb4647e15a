// Package orderdex provides a typed HTTP client for the orderdex API
// service.
//
//	client := orderdex.New("http://localhost:8080",
//	    orderdex.WithAPIKey("secret"),
//	)
//	snap, _ := client.Runs().Latest(ctx)
//	companies, _ := client.Companies().List(ctx)
//	rows, _ := client.Reports().Commissions(ctx)
//
// Domain failures reported by the service map back to sentinel errors:
// check with errors.Is against ErrRunNotFound, ErrNoRuns, ErrNotFound,
// ErrUnknownReport and ErrUnauthorized. Everything else surfaces as an
// *APIError carrying the status and the service's error code.
package orderdex
