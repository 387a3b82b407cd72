package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
	"github.com/greerreNFL/nfelomarket-data/internal/quotes"
)

// LineStream pages through the line stream table, newest rows first.
type LineStream struct {
	client *Client
	table  string
}

var _ quotes.Pager = (*LineStream)(nil)

// LineStream returns a pager over table. An empty table name selects
// DefaultLineStreamTable.
func (c *Client) LineStream(table string) *LineStream {
	if table == "" {
		table = DefaultLineStreamTable
	}
	return &LineStream{client: c, table: table}
}

// Page fetches rows start..end inclusive. When count is set PostgREST is asked
// for an exact row count, reported in Page.Total.
func (s *LineStream) Page(ctx context.Context, start, end int, count bool) (quotes.Page, error) {
	query := url.Values{}
	query.Set("select", strings.Join(LineStreamColumns, ","))
	query.Set("order", "created_at.desc")

	header := http.Header{}
	header.Set("Range-Unit", "items")
	header.Set("Range", fmt.Sprintf("%d-%d", start, end))
	if count {
		header.Set("Prefer", "count=exact")
	}

	var rows []QuoteRow
	respHeader, err := s.client.get(ctx, "/rest/v1/"+url.PathEscape(s.table), query, header, &rows)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusRequestedRangeNotSatisfiable {
			// Offset past the end of the table.
			return quotes.Page{Total: quotes.UnknownTotal}, nil
		}
		return quotes.Page{}, fmt.Errorf("get %s: %w", s.table, err)
	}

	page := quotes.Page{Total: quotes.UnknownTotal, Served: len(rows)}
	if count {
		total, err := ParseContentRange(respHeader.Get("Content-Range"))
		if err != nil {
			s.client.logger.Warn("ignoring content-range", "error", err)
		} else {
			page.Total = total
		}
	}

	page.Quotes = make([]model.Quote, 0, len(rows))
	for _, r := range rows {
		q, err := r.ToModel()
		if err != nil {
			s.client.logger.Warn("skipping line stream row",
				"game_id", r.GameID,
				"error", err,
			)
			continue
		}
		page.Quotes = append(page.Quotes, q)
	}

	return page, nil
}
