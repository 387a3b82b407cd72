package lines

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

func pacific(t testing.TB) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func testWindow(t testing.TB) Window {
	t.Helper()
	w, err := DefaultWindow()
	if err != nil {
		t.Fatalf("DefaultWindow: %v", err)
	}
	return w
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func prio(v int) *int        { return &v }

// spreadQuote returns a quote with every spread field populated.
func spreadQuote(event string, at time.Time, book string, priority int, spread float64) model.Quote {
	return model.Quote{
		EventID:         event,
		ObservedAt:      at,
		Bookmaker:       str(book),
		Priority:        prio(priority),
		HomeSpread:      f64(spread),
		HomeSpreadPrice: f64(-110),
		AwaySpreadPrice: f64(-110),
	}
}

// fullQuote returns a quote with every field populated.
func fullQuote(event string, at time.Time, book string, priority int) model.Quote {
	q := spreadQuote(event, at, book, priority, -3)
	q.HomeMoneyline = f64(-150)
	q.AwayMoneyline = f64(130)
	q.TotalLine = f64(47.5)
	q.OverPrice = f64(-110)
	q.UnderPrice = f64(-110)
	q.HomeSpreadTicketsPct = f64(55)
	q.HomeSpreadMoneyPct = f64(61)
	return q
}

func groupByName(t testing.TB, name string) FieldGroup {
	t.Helper()
	for _, g := range FieldGroups() {
		if g.Name == name {
			return g
		}
	}
	t.Fatalf("no field group %q", name)
	return FieldGroup{}
}

func gameday(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func played(g model.Game) model.Game {
	r := 3.0
	g.Result = &r
	return g
}
