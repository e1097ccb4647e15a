package orderdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/orderdex/internal/db"
	dbPostgres "github.com/kailas-cloud/orderdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/orderdex/internal/db/redis"
	dbSqlite "github.com/kailas-cloud/orderdex/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/orderdex/internal/db/valkey"
	runrepo "github.com/kailas-cloud/orderdex/internal/repository/run"
	companiesuc "github.com/kailas-cloud/orderdex/internal/usecase/companies"
	reportsuc "github.com/kailas-cloud/orderdex/internal/usecase/reports"
	runsuc "github.com/kailas-cloud/orderdex/internal/usecase/runs"
)

const defaultReadinessTimeout = 10 * time.Second

// Client gives programmatic access to persisted pipeline runs.
type Client struct {
	store        db.Store
	repo         *runrepo.Repo
	runsSvc      *runsuc.Service
	companiesSvc *companiesuc.Service
	reportsSvc   *reportsuc.Service
}

// New creates a Client and connects to the run store.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New(
			"orderdex: store required (use WithSQLite, WithPostgres, WithRedis or WithValkey)")
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("orderdex: store not ready: %w", err)
	}

	repo := runrepo.New(store, cfg.keyPrefix)
	return &Client{
		store:        store,
		repo:         repo,
		runsSvc:      runsuc.New(repo),
		companiesSvc: companiesuc.New(repo),
		reportsSvc:   reportsuc.New(repo),
	}, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("orderdex: create redis store: %w", err)
		}
		return s, nil
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			Standalone: cfg.standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("orderdex: create valkey store: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSqlite.NewStore(dbSqlite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("orderdex: create sqlite store: %w", err)
		}
		return s, nil
	case "postgres":
		s, err := dbPostgres.NewStore(ctx, dbPostgres.Config{DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("orderdex: create postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("orderdex: unknown driver %q", cfg.driver)
	}
}

// Close releases the store connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SaveRun persists a complete run snapshot. The run becomes visible to
// List and Latest only once every part of it is written.
func (c *Client) SaveRun(ctx context.Context, snap Snapshot) error {
	return c.repo.Save(ctx, snap)
}

// Runs returns the run history service.
func (c *Client) Runs() *RunsService {
	return &RunsService{svc: c.runsSvc}
}

// Companies returns the consolidated-company service.
func (c *Client) Companies() *CompaniesService {
	return &CompaniesService{svc: c.companiesSvc}
}

// Reports returns the report service.
func (c *Client) Reports() *ReportsService {
	return &ReportsService{svc: c.reportsSvc}
}

// RunsService reads persisted run history.
type RunsService struct {
	svc *runsuc.Service
}

// List returns the metadata of every persisted run, newest first.
func (s *RunsService) List(ctx context.Context) ([]Run, error) {
	return s.svc.List(ctx)
}

// Get returns the full snapshot of one run. Returns ErrRunNotFound when
// the id is unknown.
func (s *RunsService) Get(ctx context.Context, id string) (Snapshot, error) {
	return s.svc.Get(ctx, id)
}

// Latest returns the most recent run's snapshot. Returns ErrNoRuns when
// nothing has been persisted yet.
func (s *RunsService) Latest(ctx context.Context) (Snapshot, error) {
	return s.svc.Latest(ctx)
}

// CompaniesService reads consolidated companies from the latest run.
type CompaniesService struct {
	svc *companiesuc.Service
}

// List returns the consolidated companies of the latest run, ordered by
// ascending canonical company id.
func (s *CompaniesService) List(ctx context.Context) ([]Company, error) {
	return s.svc.List(ctx)
}

// Get returns one consolidated company by canonical id. Returns
// ErrNotFound when the id resolved to no cluster.
func (s *CompaniesService) Get(ctx context.Context, id string) (Company, error) {
	return s.svc.Get(ctx, id)
}

// ReportsService reads report tables from the latest run.
type ReportsService struct {
	svc *reportsuc.Service
}

// Get returns the rows of one report table. Returns ErrUnknownReport for
// a kind outside ReportKinds.
func (s *ReportsService) Get(ctx context.Context, kind ReportKind) (any, error) {
	return s.svc.Get(ctx, kind)
}

// All returns every report table of the latest run.
func (s *ReportsService) All(ctx context.Context) (Tables, error) {
	return s.svc.All(ctx)
}
