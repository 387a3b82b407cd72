// Package quotes retrieves the raw line stream and prepares it for
// classification.
//
// A quote store is anything that can serve a range of rows ordered newest
// first together with an exact row count. Collect pages through it
// sequentially under a caller-supplied ceiling.
package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// Fetch ceilings per run mode.
const (
	IncrementalLimit = 2000
	RebuildLimit     = 35000
	DefaultPageSize  = 1000
)

// UnknownTotal marks a page whose store did not report a row count.
const UnknownTotal = -1

// Page is one range of the line stream.
type Page struct {
	Quotes []model.Quote
	Total  int // Exact row count when requested, else UnknownTotal

	// Served is the number of rows the store returned for the range,
	// including rows dropped while decoding. Zero means len(Quotes).
	Served int
}

func (p Page) served() int {
	if p.Served > 0 {
		return p.Served
	}
	return len(p.Quotes)
}

// Pager serves rows [start, end] (inclusive, zero based) of the line stream
// ordered by observation time descending. When count is set the store also
// reports the total number of rows.
type Pager interface {
	Page(ctx context.Context, start, end int, count bool) (Page, error)
}

// PagerFunc adapts a function to Pager.
type PagerFunc func(ctx context.Context, start, end int, count bool) (Page, error)

func (f PagerFunc) Page(ctx context.Context, start, end int, count bool) (Page, error) {
	return f(ctx, start, end, count)
}

// Collect pages through the stream until a page comes back empty or the
// number of rows served reaches min(total, limit). The first page requests
// the total. On error the rows fetched so far are returned with it.
func Collect(ctx context.Context, p Pager, limit, pageSize int) ([]model.Quote, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if limit <= 0 {
		return nil, nil
	}

	var all []model.Quote
	ceiling := limit
	first := true
	offset := 0

	for offset < ceiling {
		start := offset
		end := start + pageSize - 1
		if end >= ceiling {
			end = ceiling - 1
		}

		page, err := p.Page(ctx, start, end, first)
		if err != nil {
			return all, fmt.Errorf("fetch rows %d-%d: %w", start, end, err)
		}

		if first {
			if page.Total != UnknownTotal && page.Total < ceiling {
				ceiling = page.Total
			}
			first = false
		}

		n := page.served()
		if n == 0 {
			break
		}

		all = append(all, page.Quotes...)
		offset += n
	}

	if len(all) > ceiling {
		all = all[:ceiling]
	}

	return all, nil
}

// AttachKickoff sets each quote's kickoff from kickoffs (keyed by game id)
// and drops quotes observed at or after a known kickoff. Quotes for games
// without a kickoff are kept with a nil Kickoff.
func AttachKickoff(qs []model.Quote, kickoffs map[string]time.Time) []model.Quote {
	out := make([]model.Quote, 0, len(qs))
	for _, q := range qs {
		k, ok := kickoffs[q.EventID]
		if !ok {
			q.Kickoff = nil
			out = append(out, q)
			continue
		}
		if !q.ObservedAt.Before(k) {
			continue
		}
		q.Kickoff = &k
		out = append(out, q)
	}
	return out
}
