// Package pipeline orchestrates one end-to-end run: fetch the inputs,
// parse orders and invoices, resolve company identities, compute the
// report tables, persist the snapshot and optionally export it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/orderdex/internal/domain/company"
	"github.com/kailas-cloud/orderdex/internal/domain/invoice"
	"github.com/kailas-cloud/orderdex/internal/domain/order"
	domrun "github.com/kailas-cloud/orderdex/internal/domain/run"
	"github.com/kailas-cloud/orderdex/internal/fetch"
	"github.com/kailas-cloud/orderdex/internal/ingest"
	"github.com/kailas-cloud/orderdex/internal/metrics"
	"github.com/kailas-cloud/orderdex/internal/report"
	"github.com/kailas-cloud/orderdex/internal/resolve"
)

// Input file names expected inside the data dir.
const (
	OrdersFile   = "orders.csv"
	InvoicesFile = "invoices.json"
)

// Option configures the pipeline service.
type Option func(*Service)

// WithFetcher enables the fetch stage for the given sources.
func WithFetcher(f Fetcher, sources []fetch.Source) Option {
	return func(s *Service) {
		s.fetcher = f
		s.sources = sources
	}
}

// WithExporter enables the export stage.
func WithExporter(e Exporter) Option {
	return func(s *Service) { s.exporter = e }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Params tweaks one run.
type Params struct {
	// SkipFetch reuses files already in the data dir.
	SkipFetch bool
}

// Service runs the pipeline.
type Service struct {
	resolver *resolve.Resolver
	repo     Repository
	dataDir  string
	fetcher  Fetcher
	sources  []fetch.Source
	exporter Exporter
	logger   *zap.Logger
}

// New creates a pipeline service. repo may be nil to skip persistence.
func New(resolver *resolve.Resolver, repo Repository, dataDir string, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		repo:     repo,
		dataDir:  dataDir,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run executes every stage and returns the completed snapshot.
func (s *Service) Run(ctx context.Context, params Params) (domrun.Snapshot, error) {
	snap, err := s.run(ctx, params)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return domrun.Snapshot{}, err
	}
	metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
	return snap, nil
}

func (s *Service) run(ctx context.Context, params Params) (domrun.Snapshot, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	if s.fetcher != nil && !params.SkipFetch {
		err := s.stage(ctx, log, "fetch", func() error {
			_, err := s.fetcher.Fetch(ctx, s.sources)
			return err
		})
		if err != nil {
			return domrun.Snapshot{}, fmt.Errorf("fetch stage: %w", err)
		}
	}

	var (
		stats        domrun.Stats
		snap         domrun.Snapshot
		orders       []order.Order
		invoices     []invoice.Invoice
		observations []company.Observation
		clusters     [][]string
	)

	err := s.stage(ctx, log, "ingest", func() error {
		var orderStats ingest.OrderStats
		var err error
		orders, orderStats, err = ingest.LoadOrders(filepath.Join(s.dataDir, OrdersFile))
		if err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		stats.OrdersLoaded = len(orders)
		stats.RowsSkipped = orderStats.Skipped
		metrics.PipelineRecordsTotal.WithLabelValues("order", "ok").Add(float64(orderStats.Rows))
		metrics.PipelineRecordsTotal.WithLabelValues("order", "skipped").Add(float64(orderStats.Skipped))

		var invStats ingest.InvoiceStats
		invoices, invStats, err = s.loadInvoices(log)
		if err != nil {
			return err
		}
		stats.InvoicesLoaded = len(invoices)
		metrics.PipelineRecordsTotal.WithLabelValues("invoice", "ok").Add(float64(invStats.Rows))
		metrics.PipelineRecordsTotal.WithLabelValues("invoice", "skipped").Add(float64(invStats.Skipped))

		observations = ingest.Observations(orders)
		stats.Observations = len(observations)
		return nil
	})
	if err != nil {
		return domrun.Snapshot{}, err
	}

	err = s.stage(ctx, log, "resolve", func() error {
		snap.Companies, clusters = s.resolver.Resolve(observations)
		stats.Companies = countDistinct(observations)
		stats.Clusters = len(clusters)
		metrics.PipelineCompaniesIn.Set(float64(stats.Companies))
		metrics.PipelineCompaniesOut.Set(float64(len(snap.Companies)))
		return nil
	})
	if err != nil {
		return domrun.Snapshot{}, err
	}

	err = s.stage(ctx, log, "reports", func() error {
		canon := resolve.CanonicalByMember(clusters, snap.Companies)
		snap.Reports = report.Build(orders, invoices, canon, ingest.ParseContact)
		return nil
	})
	if err != nil {
		return domrun.Snapshot{}, err
	}

	snap.Run = domrun.Run{
		ID:         runID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Threshold:  s.resolver.Threshold(),
		Stats:      stats,
	}

	if s.repo != nil {
		err := s.stage(ctx, log, "persist", func() error {
			return s.repo.Save(ctx, snap)
		})
		if err != nil {
			return domrun.Snapshot{}, fmt.Errorf("persist stage: %w", err)
		}
	}

	if s.exporter != nil {
		err := s.stage(ctx, log, "export", func() error {
			dir, err := s.exporter.Export(snap)
			if err == nil {
				log.Info("run exported", zap.String("dir", dir))
			}
			return err
		})
		if err != nil {
			return domrun.Snapshot{}, fmt.Errorf("export stage: %w", err)
		}
	}

	log.Info("pipeline run finished",
		zap.Duration("took", snap.Run.Duration()),
		zap.Int("orders", stats.OrdersLoaded),
		zap.Int("companies_in", stats.Companies),
		zap.Int("companies_out", len(snap.Companies)),
	)
	return snap, nil
}

// loadInvoices tolerates a missing invoices file: invoice-based report
// tables come out empty instead of failing the whole run.
func (s *Service) loadInvoices(log *zap.Logger) ([]invoice.Invoice, ingest.InvoiceStats, error) {
	path := filepath.Join(s.dataDir, InvoicesFile)
	invoices, invStats, err := ingest.LoadInvoices(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("invoices file missing, invoice reports will be empty", zap.String("path", path))
		return nil, ingest.InvoiceStats{}, nil
	}
	if err != nil {
		return nil, ingest.InvoiceStats{}, fmt.Errorf("load invoices: %w", err)
	}
	return invoices, invStats, nil
}

// stage times one pipeline stage, honoring cancellation between stages.
func (s *Service) stage(ctx context.Context, log *zap.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	took := time.Since(start)
	metrics.PipelineStageDuration.WithLabelValues(name).Observe(took.Seconds())
	if err != nil {
		log.Error("stage failed", zap.String("stage", name), zap.Duration("took", took), zap.Error(err))
		return err
	}
	log.Debug("stage done", zap.String("stage", name), zap.Duration("took", took))
	return nil
}

// countDistinct counts company ids before resolution.
func countDistinct(observations []company.Observation) int {
	ids := make(map[string]struct{}, len(observations))
	for _, obs := range observations {
		ids[obs.CompanyID] = struct{}{}
	}
	return len(ids)
}
