package run

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// runToHash converts a run record to a map for HSET.
func runToHash(r domrun.Run) map[string]string {
	stats, _ := json.Marshal(r.Stats)
	return map[string]string{
		"id":          r.ID,
		"started_at":  r.StartedAt.UTC().Format(time.RFC3339Nano),
		"finished_at": r.FinishedAt.UTC().Format(time.RFC3339Nano),
		"threshold":   strconv.FormatFloat(r.Threshold, 'g', -1, 64),
		"stats_json":  string(stats),
	}
}

// runFromHash hydrates a run record from an HGETALL result map.
func runFromHash(m map[string]string) (domrun.Run, error) {
	started, err := time.Parse(time.RFC3339Nano, m["started_at"])
	if err != nil {
		return domrun.Run{}, fmt.Errorf("invalid started_at: %w", err)
	}
	finished, err := time.Parse(time.RFC3339Nano, m["finished_at"])
	if err != nil {
		return domrun.Run{}, fmt.Errorf("invalid finished_at: %w", err)
	}
	threshold, err := strconv.ParseFloat(m["threshold"], 64)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("invalid threshold: %w", err)
	}

	var stats domrun.Stats
	if s := m["stats_json"]; s != "" {
		if err := json.Unmarshal([]byte(s), &stats); err != nil {
			return domrun.Run{}, fmt.Errorf("unmarshal stats: %w", err)
		}
	}

	return domrun.Run{
		ID:         m["id"],
		StartedAt:  started,
		FinishedAt: finished,
		Threshold:  threshold,
		Stats:      stats,
	}, nil
}
