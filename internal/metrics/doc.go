// Package metrics records Prometheus metrics for lines runs.
//
// Metrics live on a private registry. One-shot runs push it to a Pushgateway;
// the daemon serves it over HTTP.
//
// Key metrics:
//   - runs by mode and outcome, and run duration
//   - quotes fetched, cohort sizes, events selected
//   - rows persisted and the time of the last successful run
package metrics
