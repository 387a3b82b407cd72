package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Run outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Run summarizes one lines run.
type Run struct {
	Mode        string
	Duration    time.Duration
	Err         error
	Quotes      int
	FetchFailed bool
	OpenCohort  int
	LastCohort  int
	Events      int
	Rows        int
	Finished    time.Time
}

// Recorder owns the lines job metrics.
type Recorder struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	quotesFetched  prometheus.Gauge
	fetchFailures  prometheus.Counter
	cohortSize     *prometheus.GaugeVec
	eventsSelected prometheus.Gauge
	rowsPersisted  prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

// New creates a Recorder on a private registry.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "nfelomarket",
		subsystem: "lines",
		buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.init()
	return r
}

func (r *Recorder) init() {
	auto := promauto.With(r.registry)

	r.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "runs_total",
		Help:      "Lines runs by mode and outcome",
	}, []string{"mode", "status"})

	r.runDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a lines run",
		Buckets:   r.buckets,
	}, []string{"mode"})

	r.quotesFetched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "quotes_fetched",
		Help:      "Quotes fetched by the last run",
	})

	r.fetchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "quote_fetch_failures_total",
		Help:      "Runs that continued with partial or no quotes after a fetch error",
	})

	r.cohortSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "cohort_quotes",
		Help:      "Quotes in each cohort in the last run",
	}, []string{"cohort"})

	r.eventsSelected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "events_selected",
		Help:      "Events selected for snapshotting in the last run",
	})

	r.rowsPersisted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "rows_persisted",
		Help:      "Rows in the lines table after the last successful run",
	})

	r.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful run",
	})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRun records a finished run. Stage gauges are only updated for
// successful runs.
func (r *Recorder) ObserveRun(run Run) {
	status := StatusSuccess
	if run.Err != nil {
		status = StatusFailure
	}
	r.runs.WithLabelValues(run.Mode, status).Inc()
	r.runDuration.WithLabelValues(run.Mode).Observe(run.Duration.Seconds())

	if run.FetchFailed {
		r.fetchFailures.Inc()
	}
	if run.Err != nil {
		return
	}

	r.quotesFetched.Set(float64(run.Quotes))
	r.cohortSize.WithLabelValues("open").Set(float64(run.OpenCohort))
	r.cohortSize.WithLabelValues("last").Set(float64(run.LastCohort))
	r.eventsSelected.Set(float64(run.Events))
	r.rowsPersisted.Set(float64(run.Rows))

	finished := run.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	r.lastSuccess.Set(float64(finished.Unix()))
}

// Push sends the registry to a Pushgateway under job.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
