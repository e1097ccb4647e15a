// The orderdex-pipeline command runs one end-to-end resolution pipeline:
// fetch the input feeds, resolve company identities, compute the report
// tables, persist the snapshot and export the output files.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/orderdex/internal/config"
	"github.com/kailas-cloud/orderdex/internal/db"
	dbPostgres "github.com/kailas-cloud/orderdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/orderdex/internal/db/redis"
	dbSqlite "github.com/kailas-cloud/orderdex/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/orderdex/internal/db/valkey"
	"github.com/kailas-cloud/orderdex/internal/export"
	"github.com/kailas-cloud/orderdex/internal/fetch"
	"github.com/kailas-cloud/orderdex/internal/lemma"
	logpkg "github.com/kailas-cloud/orderdex/internal/logger"
	"github.com/kailas-cloud/orderdex/internal/metrics"
	runrepo "github.com/kailas-cloud/orderdex/internal/repository/run"
	"github.com/kailas-cloud/orderdex/internal/resolve"
	"github.com/kailas-cloud/orderdex/internal/usecase/pipeline"
	"github.com/kailas-cloud/orderdex/internal/version"
)

func main() {
	skipDownload := flag.Bool("skip-download", false, "reuse input files already in the data dir")
	dataDir := flag.String("data-dir", "", "override fetch.data_dir")
	threshold := flag.Float64("threshold", -1, "override resolve.threshold")
	storeDriver := flag.String("store", "", "override store.driver (redis, valkey, sqlite, postgres)")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Fetch.DataDir = *dataDir
	}
	if *threshold >= 0 {
		cfg.Resolve.Threshold = *threshold
	}
	if *storeDriver != "" {
		cfg.Store.Driver = *storeDriver
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting orderdex pipeline",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("data_dir", cfg.Fetch.DataDir),
		zap.Float64("threshold", cfg.Resolve.Threshold),
		zap.Bool("skip_download", *skipDownload),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *skipDownload, logger); err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, skipDownload bool, logger *zap.Logger) error {
	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("store not ready: %w", err)
	}

	metrics.RegisterPipelineMetrics()

	resolver, err := newResolver(cfg.Resolve)
	if err != nil {
		return fmt.Errorf("create resolver: %w", err)
	}

	fetcher := fetch.New(cfg.Fetch.DataDir,
		fetch.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSec) * time.Second}),
		fetch.WithRateLimit(cfg.Fetch.RequestsPerSec),
		fetch.WithRetries(cfg.Fetch.Retries),
		fetch.WithLogger(logger),
	)

	formats := make([]export.Format, 0, len(cfg.Export.Formats))
	for _, f := range cfg.Export.Formats {
		format, err := export.ParseFormat(f)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}
	exporter := export.New(cfg.Export.OutDir, formats, export.WithLogger(logger))

	sources := make([]fetch.Source, 0, len(cfg.Fetch.Sources))
	for _, s := range cfg.Fetch.Sources {
		sources = append(sources, fetch.Source{Name: s.Name, URL: s.URL})
	}

	repo := runrepo.New(store, cfg.Store.KeyPrefix)

	svc := pipeline.New(resolver, repo, cfg.Fetch.DataDir,
		pipeline.WithFetcher(fetcher, sources),
		pipeline.WithExporter(exporter),
		pipeline.WithLogger(logger),
	)

	snap, err := svc.Run(ctx, pipeline.Params{SkipFetch: skipDownload || len(sources) == 0})
	if err != nil {
		return err
	}

	logger.Info("Pipeline run stored",
		zap.String("run_id", snap.Run.ID),
		zap.Int("orders", snap.Run.Stats.OrdersLoaded),
		zap.Int("invoices", snap.Run.Stats.InvoicesLoaded),
		zap.Int("companies_in", snap.Run.Stats.Companies),
		zap.Int("companies_out", len(snap.Companies)),
		zap.Duration("took", snap.Run.Duration()),
	)
	return nil
}

// newResolver maps the resolve config onto engine options.
func newResolver(cfg config.ResolveConfig) (*resolve.Resolver, error) {
	opts := []resolve.Option{
		resolve.WithThreshold(cfg.Threshold),
		resolve.WithAccentFolding(cfg.AccentFoldingEnabled()),
		resolve.WithWorkers(cfg.Workers),
	}
	if cfg.Suffixes != nil {
		opts = append(opts, resolve.WithSuffixes(cfg.Suffixes))
	}
	if cfg.Lemmatizer == "english" {
		opts = append(opts, resolve.WithLemmatizer(lemma.English()))
	}
	return resolve.New(opts...)
}

// newStore builds the configured store backend.
func newStore(ctx context.Context, cfg config.StoreConfig) (db.Store, error) {
	switch cfg.Driver {
	case "redis":
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case "valkey":
		return dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case "sqlite":
		return dbSqlite.NewStore(dbSqlite.Config{Path: cfg.Path})
	case "postgres":
		return dbPostgres.NewStore(ctx, dbPostgres.Config{DSN: cfg.DSN})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
