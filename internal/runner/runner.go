// Package runner executes one lines update: load state, fetch quotes,
// classify, build, reconcile and persist.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"github.com/greerreNFL/nfelomarket-data/internal/lines"
	"github.com/greerreNFL/nfelomarket-data/internal/metrics"
	"github.com/greerreNFL/nfelomarket-data/internal/quotes"
	"github.com/greerreNFL/nfelomarket-data/internal/schedule"
	"github.com/greerreNFL/nfelomarket-data/internal/store"
)

// Mode selects the scope of a run.
type Mode string

const (
	// ModeIncremental refreshes the current and previous week.
	ModeIncremental Mode = "incremental"
	// ModeRebuild refreshes the current week and the previous week's season.
	ModeRebuild Mode = "rebuild"
)

// ParseMode accepts "incremental" or "rebuild". The legacy job names "all"
// and "lines" run an incremental update.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "incremental", "all", "lines":
		return ModeIncremental, nil
	case "rebuild":
		return ModeRebuild, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Options wires a Runner.
type Options struct {
	Quotes   quotes.Pager
	Schedule schedule.Provider
	Store    store.Store
	Window   lines.Window

	PageSize         int
	IncrementalLimit int
	RebuildLimit     int

	Metrics *metrics.Recorder // optional
	Logger  *slog.Logger
}

// Result summarizes a run.
type Result struct {
	RunID      string
	Mode       Mode
	Quotes     int
	FetchErr   error // non-nil when the run continued with partial quotes
	OpenCohort int
	LastCohort int
	Events     int
	Rows       int
	Duration   time.Duration
}

// Runner executes lines updates. A Runner is safe for sequential reuse; the
// scheduler serializes runs.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = quotes.DefaultPageSize
	}
	if opts.IncrementalLimit <= 0 {
		opts.IncrementalLimit = quotes.IncrementalLimit
	}
	if opts.RebuildLimit <= 0 {
		opts.RebuildLimit = quotes.RebuildLimit
	}
	if opts.Window.Location == nil {
		opts.Window = defaultWindow(opts.Window, opts.Logger)
	}
	return &Runner{opts: opts, logger: opts.Logger}
}

// defaultWindow fills a window that has no location. A zero window becomes
// the default window; otherwise only the location is supplied.
func defaultWindow(w lines.Window, logger *slog.Logger) lines.Window {
	def, err := lines.DefaultWindow()
	if err != nil {
		logger.Warn("falling back to UTC window", "error", err)
		def = lines.Window{
			Location:     time.UTC,
			OpenWeekday:  lines.DefaultOpenWeekday,
			OpenCutoff:   lines.DefaultOpenCutoff,
			OpenLookback: lines.DefaultOpenLookback,
			LastWindow:   lines.DefaultLastWindow,
		}
	}
	if w == (lines.Window{}) {
		return def
	}
	w.Location = def.Location
	return w
}

func (r *Runner) limit(mode Mode) int {
	if mode == ModeRebuild {
		return r.opts.RebuildLimit
	}
	return r.opts.IncrementalLimit
}

// Run performs one update. Schedule, selection, build and persistence errors
// abort the run before anything is written. A quote fetch error does not:
// the run continues with whatever rows arrived.
func (r *Runner) Run(ctx context.Context, mode Mode) (res Result, err error) {
	start := time.Now()
	res = Result{RunID: uuid.NewString(), Mode: mode}
	log := r.logger.With("run_id", res.RunID, "mode", string(mode))

	defer func() {
		res.Duration = time.Since(start)
		if r.opts.Metrics != nil {
			r.opts.Metrics.ObserveRun(metrics.Run{
				Mode:        string(mode),
				Duration:    res.Duration,
				Err:         err,
				Quotes:      res.Quotes,
				FetchFailed: res.FetchErr != nil,
				OpenCohort:  res.OpenCohort,
				LastCohort:  res.LastCohort,
				Events:      res.Events,
				Rows:        res.Rows,
			})
		}
		if err != nil {
			log.Error("lines run failed", "error", err, "duration", res.Duration)
		}
	}()

	log.Info("lines run started")

	persisted, err := r.opts.Store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load lines table: %w", err)
	}

	games, err := r.opts.Schedule.Games(ctx)
	if err != nil {
		return res, fmt.Errorf("load schedule: %w", err)
	}

	ids, err := lines.SelectEvents(games, mode == ModeRebuild)
	if err != nil {
		return res, fmt.Errorf("select events: %w", err)
	}
	res.Events = len(ids)
	log.Debug("events selected", "events", len(ids), "games", len(games))

	raw, fetchErr := quotes.Collect(ctx, r.opts.Quotes, r.limit(mode), r.opts.PageSize)
	if fetchErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("fetch quotes: %w", errors.Join(fetchErr, ctxErr))
		}
		res.FetchErr = fetchErr
		log.Warn("quote fetch failed, continuing with rows fetched so far",
			"error", fetchErr,
			"rows", len(raw),
		)
	}
	res.Quotes = len(raw)

	kickoffs, err := schedule.Kickoffs(games)
	if err != nil {
		return res, err
	}
	pregame := quotes.AttachKickoff(raw, kickoffs)

	cohorts := r.opts.Window.Classify(pregame)
	res.OpenCohort = cohorts.Open.Len()
	res.LastCohort = cohorts.Last.Len()
	log.Debug("quotes classified",
		"fetched", len(raw),
		"pregame", len(pregame),
		"open", res.OpenCohort,
		"last", res.LastCohort,
	)

	fresh, err := lines.Build(ids, cohorts, games)
	if err != nil {
		return res, fmt.Errorf("build snapshots: %w", err)
	}

	merged := lines.Merge(fresh, persisted, lines.KeyColumns, r.opts.Window.Location)

	if err := r.opts.Store.Replace(ctx, merged); err != nil {
		return res, fmt.Errorf("save lines table: %w", err)
	}
	res.Rows = merged.Len()

	log.Info("lines run complete",
		"quotes", res.Quotes,
		"events", res.Events,
		"rows", res.Rows,
		"duration", time.Since(start),
	)
	return res, nil
}
