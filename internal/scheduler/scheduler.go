// Package scheduler runs lines updates on cron schedules and exposes the
// daemon's health and metrics over HTTP.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/greerreNFL/nfelomarket-data/internal/runner"
)

// Job performs one lines run. *runner.Runner satisfies it.
type Job interface {
	Run(ctx context.Context, mode runner.Mode) (runner.Result, error)
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context, mode runner.Mode) (runner.Result, error)

func (f JobFunc) Run(ctx context.Context, mode runner.Mode) (runner.Result, error) {
	return f(ctx, mode)
}

// Config holds scheduler settings.
type Config struct {
	Incremental string // Cron spec for incremental runs (required)
	Rebuild     string // Cron spec for rebuild runs, empty disables
	Addr        string // HTTP listen address, empty disables the server
	RunOnStart  bool   // Run an incremental update immediately on Start
}

// Status describes the most recent run.
type Status struct {
	RunID    string    `json:"run_id,omitempty"`
	Mode     string    `json:"mode,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Rows     int       `json:"rows"`
	Error    string    `json:"error,omitempty"`
	Running  bool      `json:"running"`
	Runs     int64     `json:"runs"`
	Skipped  int64     `json:"skipped"`
}

// Scheduler triggers jobs from cron and never runs two at once.
type Scheduler struct {
	cfg     Config
	job     Job
	metrics http.Handler
	logger  *slog.Logger

	cron    *cron.Cron
	server  *http.Server
	running atomic.Bool
	runs    atomic.Int64
	skipped atomic.Int64

	mu   sync.Mutex
	last Status

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler. metrics may be nil, in which case /metrics is
// not served.
func New(cfg Config, job Job, metrics http.Handler, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:     cfg,
		job:     job,
		metrics: metrics,
		logger:  logger,
	}
}

// Start registers the cron entries and begins scheduling.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Incremental == "" {
		return errors.New("scheduler: incremental spec is required")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron = cron.New(cron.WithChain(cron.Recover(cronLogger{s.logger})))

	if _, err := s.cron.AddFunc(s.cfg.Incremental, func() { s.Trigger(runner.ModeIncremental) }); err != nil {
		s.cancel()
		return fmt.Errorf("parse incremental spec %q: %w", s.cfg.Incremental, err)
	}
	if s.cfg.Rebuild != "" {
		if _, err := s.cron.AddFunc(s.cfg.Rebuild, func() { s.Trigger(runner.ModeRebuild) }); err != nil {
			s.cancel()
			return fmt.Errorf("parse rebuild spec %q: %w", s.cfg.Rebuild, err)
		}
	}

	if s.cfg.Addr != "" {
		s.server = &http.Server{
			Addr:         s.cfg.Addr,
			Handler:      s.Router(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("http server failed", "addr", s.cfg.Addr, "error", err)
			}
		}()
	}

	s.cron.Start()

	if s.cfg.RunOnStart {
		s.TriggerAsync(runner.ModeIncremental)
	}

	s.logger.Info("scheduler started",
		"incremental", s.cfg.Incremental,
		"rebuild", s.cfg.Rebuild,
		"addr", s.cfg.Addr,
	)
	return nil
}

// Stop halts scheduling, cancels a run in progress and waits for it.
func (s *Scheduler) Stop(ctx context.Context) error {
	var cronDone context.Context
	if s.cron != nil {
		cronDone = s.cron.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}

	var shutdownErr error
	if s.server != nil {
		shutdownErr = s.server.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		if cronDone != nil {
			<-cronDone.Done()
		}
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return shutdownErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger runs the job in the calling goroutine unless a run is already in
// progress, in which case it returns false immediately.
func (s *Scheduler) Trigger(mode runner.Mode) bool {
	if !s.acquire(mode) {
		return false
	}
	s.execute(mode)
	return true
}

// TriggerAsync starts a run in the background. It reports false when a run
// is already in progress.
func (s *Scheduler) TriggerAsync(mode runner.Mode) bool {
	if !s.acquire(mode) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(mode)
	}()
	return true
}

func (s *Scheduler) acquire(mode runner.Mode) bool {
	if s.running.CompareAndSwap(false, true) {
		return true
	}
	s.skipped.Add(1)
	s.logger.Warn("run skipped, previous run still in progress", "mode", string(mode))
	return false
}

// execute runs the job and records its status. The caller holds the
// running flag.
func (s *Scheduler) execute(mode runner.Mode) {
	defer s.running.Store(false)

	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	started := time.Now()
	res, err := s.job.Run(ctx, mode)
	s.runs.Add(1)

	st := Status{
		RunID:    res.RunID,
		Mode:     string(mode),
		Started:  started,
		Finished: time.Now(),
		Rows:     res.Rows,
	}
	if err != nil {
		st.Error = err.Error()
	}

	s.mu.Lock()
	s.last = st
	s.mu.Unlock()
}

// Status returns the most recent run and the scheduler counters.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	st := s.last
	s.mu.Unlock()

	st.Running = s.running.Load()
	st.Runs = s.runs.Load()
	st.Skipped = s.skipped.Load()
	return st
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
