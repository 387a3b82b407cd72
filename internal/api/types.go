package api

// LineStreamColumns is the select list requested from the line stream table.
var LineStreamColumns = []string{
	"game_id", "created_at", "bookmaker", "priority",
	"home_spread", "home_spread_price", "away_spread_price",
	"home_ml", "away_ml",
	"total_line", "over_price", "under_price",
	"home_spread_tickets_pct", "home_spread_money_pct",
}

// DefaultLineStreamTable is the table name in the Supabase project.
const DefaultLineStreamTable = "line-stream"

// QuoteRow is one line stream row as returned by PostgREST.
type QuoteRow struct {
	GameID    string   `json:"game_id"`
	CreatedAt string   `json:"created_at"` // timestamptz, ISO 8601
	Bookmaker *string  `json:"bookmaker"`
	Priority  *float64 `json:"priority"`

	HomeSpread      *float64 `json:"home_spread"`
	HomeSpreadPrice *float64 `json:"home_spread_price"`
	AwaySpreadPrice *float64 `json:"away_spread_price"`

	HomeML *float64 `json:"home_ml"`
	AwayML *float64 `json:"away_ml"`

	TotalLine  *float64 `json:"total_line"`
	OverPrice  *float64 `json:"over_price"`
	UnderPrice *float64 `json:"under_price"`

	HomeSpreadTicketsPct *float64 `json:"home_spread_tickets_pct"`
	HomeSpreadMoneyPct   *float64 `json:"home_spread_money_pct"`
}
