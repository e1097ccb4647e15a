// Package run persists completed pipeline runs: the run record as a hash,
// the companies and report tables as JSON values, and a latest-run pointer.
// Runs are whole-value snapshots; nothing is merged across runs.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/orderdex/internal/db"
	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/report"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
)

// store is the consumer interface for run persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements run persistence over a db.Store.
type Repo struct {
	store  store
	prefix string
}

// New creates a run repository. prefix namespaces every key ("orderdex:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) runKey(id string) string       { return r.prefix + "run:" + id }
func (r *Repo) companiesKey(id string) string { return r.prefix + "run:" + id + ":companies" }
func (r *Repo) reportsKey(id string) string   { return r.prefix + "run:" + id + ":reports" }
func (r *Repo) latestKey() string             { return r.prefix + "runs:latest" }

// Save persists a completed snapshot and moves the latest pointer to it.
// The run record is written last so a partially stored run is never listed.
func (r *Repo) Save(ctx context.Context, snap domrun.Snapshot) error {
	id := snap.Run.ID
	if id == "" {
		return fmt.Errorf("run id is required")
	}

	companies, err := json.Marshal(snap.Companies)
	if err != nil {
		return fmt.Errorf("marshal companies: %w", err)
	}
	reports, err := json.Marshal(snap.Reports)
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	if err := r.store.Set(ctx, r.companiesKey(id), companies); err != nil {
		return fmt.Errorf("set companies %s: %w", id, err)
	}
	if err := r.store.Set(ctx, r.reportsKey(id), reports); err != nil {
		return fmt.Errorf("set reports %s: %w", id, err)
	}
	if err := r.store.HSet(ctx, r.runKey(id), runToHash(snap.Run)); err != nil {
		return fmt.Errorf("hset run %s: %w", id, err)
	}
	if err := r.store.Set(ctx, r.latestKey(), []byte(id)); err != nil {
		return fmt.Errorf("set latest pointer: %w", err)
	}
	return nil
}

// GetRun loads one run record.
func (r *Repo) GetRun(ctx context.Context, id string) (domrun.Run, error) {
	m, err := r.store.HGetAll(ctx, r.runKey(id))
	if err != nil {
		return domrun.Run{}, fmt.Errorf("hgetall run %s: %w", id, err)
	}
	if len(m) == 0 {
		return domrun.Run{}, domain.ErrRunNotFound
	}
	return runFromHash(m)
}

// Get loads a complete snapshot by run id.
func (r *Repo) Get(ctx context.Context, id string) (domrun.Snapshot, error) {
	rec, err := r.GetRun(ctx, id)
	if err != nil {
		return domrun.Snapshot{}, err
	}

	var companies []company.Resolved
	if err := r.getJSON(ctx, r.companiesKey(id), &companies); err != nil {
		return domrun.Snapshot{}, fmt.Errorf("load companies %s: %w", id, err)
	}

	var reports report.Tables
	if err := r.getJSON(ctx, r.reportsKey(id), &reports); err != nil {
		return domrun.Snapshot{}, fmt.Errorf("load reports %s: %w", id, err)
	}

	return domrun.Snapshot{Run: rec, Companies: companies, Reports: reports}, nil
}

// LatestID returns the id of the most recently saved run.
func (r *Repo) LatestID(ctx context.Context) (string, error) {
	id, err := r.store.Get(ctx, r.latestKey())
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", domain.ErrNoRuns
	}
	if err != nil {
		return "", fmt.Errorf("get latest pointer: %w", err)
	}
	return string(id), nil
}

// List returns every stored run record, newest first.
func (r *Repo) List(ctx context.Context) ([]domrun.Run, error) {
	keys, err := r.store.Scan(ctx, r.runKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}

	// Drop the companies/reports value keys the pattern also matches.
	runKeys := keys[:0]
	for _, k := range keys {
		if !strings.HasSuffix(k, ":companies") && !strings.HasSuffix(k, ":reports") {
			runKeys = append(runKeys, k)
		}
	}
	if len(runKeys) == 0 {
		return []domrun.Run{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, runKeys)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}

	runs := make([]domrun.Run, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		rec, err := runFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("decode run %s: %w", runKeys[i], err)
		}
		runs = append(runs, rec)
	}

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	return runs, nil
}

// Delete removes a stored run and its values. The latest pointer is left
// alone; a dangling pointer surfaces as ErrRunNotFound on the next read.
func (r *Repo) Delete(ctx context.Context, id string) error {
	for _, key := range []string{r.runKey(id), r.companiesKey(id), r.reportsKey(id)} {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	return nil
}

func (r *Repo) getJSON(ctx context.Context, key string, v any) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return domain.ErrRunNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}
