package database

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
	"github.com/greerreNFL/nfelomarket-data/internal/quotes"
)

// Querier is the subset of pgxpool.Pool used for reads.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Numeric columns are cast so integer or numeric storage scans into float64.
var lineStreamSelect = []string{
	"game_id",
	"created_at",
	"bookmaker",
	"priority::float8",
	"home_spread::float8",
	"home_spread_price::float8",
	"away_spread_price::float8",
	"home_ml::float8",
	"away_ml::float8",
	"total_line::float8",
	"over_price::float8",
	"under_price::float8",
	"home_spread_tickets_pct::float8",
	"home_spread_money_pct::float8",
}

// LineStream pages through a line stream table over a direct connection.
type LineStream struct {
	db    Querier
	table string
}

var _ quotes.Pager = (*LineStream)(nil)

// NewLineStream returns a pager over table.
func NewLineStream(db Querier, table string) *LineStream {
	return &LineStream{db: db, table: table}
}

func (s *LineStream) countSQL() string {
	return "SELECT count(*) FROM " + pgx.Identifier{s.table}.Sanitize()
}

func (s *LineStream) pageSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		strings.Join(lineStreamSelect, ", "),
		pgx.Identifier{s.table}.Sanitize(),
	)
}

// Page returns rows start..end inclusive, newest first.
func (s *LineStream) Page(ctx context.Context, start, end int, count bool) (quotes.Page, error) {
	page := quotes.Page{Total: quotes.UnknownTotal}

	if count {
		var total int64
		if err := s.db.QueryRow(ctx, s.countSQL()).Scan(&total); err != nil {
			return quotes.Page{}, fmt.Errorf("count %s: %w", s.table, err)
		}
		page.Total = int(total)
	}

	rows, err := s.db.Query(ctx, s.pageSQL(), end-start+1, start)
	if err != nil {
		return quotes.Page{}, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return quotes.Page{}, fmt.Errorf("scan %s: %w", s.table, err)
		}
		page.Quotes = append(page.Quotes, q)
	}
	if err := rows.Err(); err != nil {
		return quotes.Page{}, fmt.Errorf("read %s: %w", s.table, err)
	}

	return page, nil
}

func scanQuote(row pgx.Row) (model.Quote, error) {
	var (
		q        model.Quote
		created  time.Time
		priority *float64
	)
	err := row.Scan(
		&q.EventID,
		&created,
		&q.Bookmaker,
		&priority,
		&q.HomeSpread,
		&q.HomeSpreadPrice,
		&q.AwaySpreadPrice,
		&q.HomeMoneyline,
		&q.AwayMoneyline,
		&q.TotalLine,
		&q.OverPrice,
		&q.UnderPrice,
		&q.HomeSpreadTicketsPct,
		&q.HomeSpreadMoneyPct,
	)
	if err != nil {
		return model.Quote{}, err
	}
	q.ObservedAt = created
	if priority != nil {
		p := int(math.Round(*priority))
		q.Priority = &p
	}
	return q, nil
}
