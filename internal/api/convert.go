package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
	"github.com/greerreNFL/nfelomarket-data/internal/quotes"
)

// timestamptz renderings PostgREST is known to return.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
}

// ParseCreatedAt parses a timestamptz value.
func ParseCreatedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse created_at %q: unrecognized format", s)
}

// ToModel converts an API row to a model.Quote.
func (r QuoteRow) ToModel() (model.Quote, error) {
	ts, err := ParseCreatedAt(r.CreatedAt)
	if err != nil {
		return model.Quote{}, err
	}

	q := model.Quote{
		EventID:              r.GameID,
		ObservedAt:           ts,
		Bookmaker:            r.Bookmaker,
		HomeSpread:           r.HomeSpread,
		HomeSpreadPrice:      r.HomeSpreadPrice,
		AwaySpreadPrice:      r.AwaySpreadPrice,
		HomeMoneyline:        r.HomeML,
		AwayMoneyline:        r.AwayML,
		TotalLine:            r.TotalLine,
		OverPrice:            r.OverPrice,
		UnderPrice:           r.UnderPrice,
		HomeSpreadTicketsPct: r.HomeSpreadTicketsPct,
		HomeSpreadMoneyPct:   r.HomeSpreadMoneyPct,
	}
	if r.Priority != nil {
		p := int(math.Round(*r.Priority))
		q.Priority = &p
	}
	return q, nil
}

// ParseContentRange extracts the total from a Content-Range header such as
// "0-999/12345" or "*/0". An absent or "*" total yields quotes.UnknownTotal.
func ParseContentRange(h string) (int, error) {
	if h == "" {
		return quotes.UnknownTotal, nil
	}
	i := strings.LastIndexByte(h, '/')
	if i < 0 {
		return 0, fmt.Errorf("parse content-range %q: missing total", h)
	}
	total := h[i+1:]
	if total == "*" {
		return quotes.UnknownTotal, nil
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("parse content-range %q: %w", h, err)
	}
	return n, nil
}
