package lines

import (
	"fmt"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// Default cohort window parameters.
const (
	DefaultLocation     = "America/Los_Angeles"
	DefaultOpenWeekday  = time.Tuesday
	DefaultOpenCutoff   = 5 * time.Hour
	DefaultOpenLookback = 7 * 24 * time.Hour
	DefaultLastWindow   = 15 * time.Minute
)

// Window decides which quotes belong to the open and last cohorts.
//
// A quote is in the open cohort when, in Location, it was observed on
// OpenWeekday before OpenCutoff and no more than OpenLookback before the
// game's latest observation. A quote is in the last cohort when it was
// observed no more than LastWindow before the game's latest observation.
type Window struct {
	Location     *time.Location
	OpenWeekday  time.Weekday
	OpenCutoff   time.Duration // Time of day, exclusive
	OpenLookback time.Duration
	LastWindow   time.Duration
}

// DefaultWindow returns the standard window in US Pacific time.
func DefaultWindow() (Window, error) {
	loc, err := time.LoadLocation(DefaultLocation)
	if err != nil {
		return Window{}, fmt.Errorf("load location %s: %w", DefaultLocation, err)
	}
	return Window{
		Location:     loc,
		OpenWeekday:  DefaultOpenWeekday,
		OpenCutoff:   DefaultOpenCutoff,
		OpenLookback: DefaultOpenLookback,
		LastWindow:   DefaultLastWindow,
	}, nil
}

// Classify partitions quotes into the open and last cohorts. Quotes keep
// their input order inside each cohort. A game with no qualifying quotes
// simply has no members.
func (w Window) Classify(quotes []model.Quote) Cohorts {
	local := make([]model.Quote, len(quotes))
	latest := make(map[string]time.Time)

	for i, q := range quotes {
		q.ObservedAt = q.ObservedAt.In(w.Location)
		local[i] = q

		if t, ok := latest[q.EventID]; !ok || q.ObservedAt.After(t) {
			latest[q.EventID] = q.ObservedAt
		}
	}

	open := NewCohort(Open)
	last := NewCohort(Last)

	for _, q := range local {
		newest := latest[q.EventID]

		if w.inOpen(q.ObservedAt, newest) {
			open.Add(Member{
				Quote: q,
				Key:   OrderKey{Rank: rank(q), Recency: hoursSinceMidnight(q.ObservedAt)},
			})
		}

		if !q.ObservedAt.Before(newest.Add(-w.LastWindow)) {
			last.Add(Member{
				Quote: q,
				Key:   OrderKey{Rank: rank(q)},
			})
		}
	}

	return Cohorts{Open: open, Last: last}
}

// inOpen checks the three open-cohort conditions. ts must already be in
// w.Location.
func (w Window) inOpen(ts, newest time.Time) bool {
	if ts.Weekday() != w.OpenWeekday {
		return false
	}
	if sinceMidnight(ts) >= w.OpenCutoff {
		return false
	}
	return !ts.Before(newest.Add(-w.OpenLookback))
}

func sinceMidnight(ts time.Time) time.Duration {
	h, m, s := ts.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ts.Nanosecond())
}

func hoursSinceMidnight(ts time.Time) float64 {
	return sinceMidnight(ts).Hours()
}

func rank(q model.Quote) int {
	if q.Priority == nil {
		return 0
	}
	return *q.Priority
}
