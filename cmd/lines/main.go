package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/greerreNFL/nfelomarket-data/internal/api"
	"github.com/greerreNFL/nfelomarket-data/internal/config"
	"github.com/greerreNFL/nfelomarket-data/internal/database"
	"github.com/greerreNFL/nfelomarket-data/internal/metrics"
	"github.com/greerreNFL/nfelomarket-data/internal/quotes"
	"github.com/greerreNFL/nfelomarket-data/internal/runner"
	"github.com/greerreNFL/nfelomarket-data/internal/schedule"
	"github.com/greerreNFL/nfelomarket-data/internal/scheduler"
	"github.com/greerreNFL/nfelomarket-data/internal/store"
	"github.com/greerreNFL/nfelomarket-data/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults only when empty)")
	envPath := flag.String("env", ".env", "path to .env file")
	modeFlag := flag.String("mode", "incremental", "run mode: incremental or rebuild")
	daemon := flag.Bool("daemon", false, "run on the configured cron schedules")
	flag.Parse()

	if err := config.LoadEnv(*envPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting lines",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"quotes_backend", cfg.Quotes.Backend,
		"storage_backend", cfg.Storage.Backend,
	)

	mode, err := runner.ParseMode(*modeFlag)
	if err != nil {
		logger.Error("invalid mode", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var pool *pgxpool.Pool
	if cfg.UsesDatabase() {
		logger.Info("connecting to database", "host", cfg.Database.Host, "name", cfg.Database.Name)
		pool, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")
	}

	recorder := metrics.New(
		metrics.WithRegistry(newRegistry(cfg.Metrics)),
		metrics.WithDurationBuckets(cfg.Metrics.DurationBuckets),
	)
	run, err := buildRunner(ctx, cfg, pool, recorder, logger)
	if err != nil {
		logger.Error("failed to build runner", "error", err)
		os.Exit(1)
	}

	if *daemon {
		if err := runDaemon(ctx, cfg, run, recorder, logger); err != nil {
			logger.Error("daemon failed", "error", err)
			os.Exit(1)
		}
		return
	}

	res, runErr := run.Run(ctx, mode)
	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, pushCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := recorder.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			logger.Warn("failed to push metrics", "url", cfg.Metrics.PushgatewayURL, "error", err)
		}
		pushCancel()
	}
	if runErr != nil {
		logger.Error("lines run failed", "run_id", res.RunID, "error", runErr)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newRegistry(cfg config.MetricsConfig) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	if cfg.RuntimeMetrics {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return reg
}

func buildRunner(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, recorder *metrics.Recorder, logger *slog.Logger) (*runner.Runner, error) {
	var pager quotes.Pager
	switch cfg.Quotes.Backend {
	case config.BackendPostgres:
		pager = database.NewLineStream(pool, cfg.Quotes.Table)
	default:
		client := api.NewClient(cfg.Supabase.URL, cfg.Supabase.Key,
			api.WithTimeout(cfg.Supabase.Timeout),
			api.WithRetries(cfg.Supabase.MaxRetries, api.DefaultRetryBackoff),
			api.WithSchema(cfg.Supabase.Schema),
			api.WithLogger(logger.With("component", "supabase")),
		)
		pager = client.LineStream(cfg.Supabase.Table)
	}

	games := schedule.NewLoader(cfg.Schedule.URL, cfg.Schedule.Path,
		&http.Client{Timeout: cfg.Schedule.Timeout},
		logger.With("component", "schedule"),
	)

	var st store.Store
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg := store.NewPostgresStore(pool, cfg.Storage.Table, logger.With("component", "store"))
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		st = pg
	default:
		st = store.NewCSVStore(cfg.Storage.Path, logger.With("component", "store"))
	}

	window, err := runner.WindowFromConfig(cfg.Lines)
	if err != nil {
		return nil, err
	}

	return runner.New(runner.Options{
		Quotes:           pager,
		Schedule:         games,
		Store:            st,
		Window:           window,
		PageSize:         cfg.Quotes.PageSize,
		IncrementalLimit: cfg.Quotes.IncrementalLimit,
		RebuildLimit:     cfg.Quotes.RebuildLimit,
		Metrics:          recorder,
		Logger:           logger,
	}), nil
}

func runDaemon(ctx context.Context, cfg *config.Config, run *runner.Runner, recorder *metrics.Recorder, logger *slog.Logger) error {
	sched := scheduler.New(scheduler.Config{
		Incremental: cfg.Scheduler.Incremental,
		Rebuild:     cfg.Scheduler.Rebuild,
		Addr:        fmt.Sprintf(":%d", cfg.Scheduler.Port),
		RunOnStart:  true,
	}, run, recorder.Handler(), logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := sched.Stop(stopCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
