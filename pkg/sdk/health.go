package orderdex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Ready reports the service's readiness. Both the healthy and the degraded
// response carry per-component check results; a degraded service also
// returns an *APIError with the 503 status.
func (c *Client) Ready(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/readyz", nil)
	if err != nil {
		return Health{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("GET /readyz: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return Health{}, c.errorFrom(resp)
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode /readyz response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return h, &APIError{Status: resp.StatusCode, Code: "not_ready", Message: "service not ready"}
	}
	return h, nil
}
