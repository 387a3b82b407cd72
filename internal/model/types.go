package model

import "time"

// -----------------------------------------------------------------------------
// Quote Stream Types
// -----------------------------------------------------------------------------

// Quote is one bookmaker observation of an event's lines at a point in time.
type Quote struct {
	EventID    string    // Schedule game_id
	ObservedAt time.Time // created_at in the quote store
	Bookmaker  *string   // Source book
	Priority   *int      // Source rank (lower = more authoritative)

	// Spread
	HomeSpread      *float64
	HomeSpreadPrice *float64
	AwaySpreadPrice *float64

	// Moneyline
	HomeMoneyline *float64
	AwayMoneyline *float64

	// Total
	TotalLine  *float64
	OverPrice  *float64
	UnderPrice *float64

	// Bet distribution on the home spread (0-100)
	HomeSpreadTicketsPct *float64
	HomeSpreadMoneyPct   *float64

	// Kickoff is attached from the schedule, nil if the event is unknown.
	Kickoff *time.Time
}

// -----------------------------------------------------------------------------
// Schedule Types
// -----------------------------------------------------------------------------

// Game is one row of the schedule provider's games table.
type Game struct {
	ID       string
	Season   int
	Week     int
	HomeTeam string
	AwayTeam string
	Result   *float64  // Home margin, nil until the game is played
	Gameday  time.Time // Calendar date (midnight UTC)
	Gametime string    // "HH:MM", US Eastern clock, may be empty
}

// Played reports whether the game has a result.
func (g Game) Played() bool {
	return g.Result != nil
}

// Kickoff combines Gameday and Gametime in the given location (US Eastern for
// nflverse data) and returns the instant in UTC.
func (g Game) Kickoff(loc *time.Location) (time.Time, bool) {
	if g.Gametime == "" || g.Gameday.IsZero() {
		return time.Time{}, false
	}
	clock, err := time.Parse("15:04", g.Gametime)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := g.Gameday.Date()
	local := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc)
	return local.UTC(), true
}

// -----------------------------------------------------------------------------
// Table Types
// -----------------------------------------------------------------------------

// Row is one record of a snapshot table keyed by column name. A column absent
// from the map reads as Null.
type Row map[string]Value

// Get returns the value for col, or Null if the row has no such column.
func (r Row) Get(col string) Value {
	if v, ok := r[col]; ok {
		return v
	}
	return Null()
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered column set plus rows. It is the in-memory form of both
// the freshly built snapshot table and the persisted lines table.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has neither columns nor rows.
func (t Table) Empty() bool {
	return len(t.Columns) == 0 && len(t.Rows) == 0
}

// HasColumn reports whether col is part of the column set.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// NormalizeTimes returns a copy of the table with every time cell converted
// to loc. Joins and comparisons across tables require a single location.
func (t Table) NormalizeTimes(loc *time.Location) Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v.In(loc)
		}
		out.Rows[i] = nr
	}
	return out
}
