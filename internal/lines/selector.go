package lines

import (
	"errors"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

var (
	// ErrEmptySchedule is returned when there are no games to anchor a week on.
	ErrEmptySchedule = errors.New("schedule has no games")

	// ErrNoPreviousWeek is returned when no game precedes the current week.
	ErrNoPreviousWeek = errors.New("no game before the current week")
)

// noCurrentWeek is the boundary used once every game has a result, so the
// most recent completed week is selected as the previous week.
var noCurrentWeek = time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)

type weekKey struct {
	season int
	week   int
}

func keyOf(g model.Game) weekKey {
	return weekKey{season: g.Season, week: g.Week}
}

// SelectEvents returns the game ids in scope for an update pass: every game
// of the current (earliest unplayed) week followed by every game of the
// previous week, or of the previous week's whole season when rebuild is set.
// Games without a gameday never anchor a week but are still selected by
// (season, week). Ids are de-duplicated, first occurrence wins.
func SelectEvents(games []model.Game, rebuild bool) ([]string, error) {
	if len(games) == 0 {
		return nil, ErrEmptySchedule
	}

	var (
		next    model.Game
		hasNext bool
	)
	for _, g := range games {
		if g.Played() || g.Gameday.IsZero() {
			continue
		}
		if !hasNext || g.Gameday.Before(next.Gameday) {
			next = g
			hasNext = true
		}
	}

	boundary := noCurrentWeek
	var current weekKey
	if hasNext {
		current = keyOf(next)
		boundary = next.Gameday
		for _, g := range games {
			if keyOf(g) == current && !g.Gameday.IsZero() && g.Gameday.Before(boundary) {
				boundary = g.Gameday
			}
		}
	}

	var (
		prev    model.Game
		hasPrev bool
	)
	for _, g := range games {
		if g.Gameday.IsZero() || !g.Gameday.Before(boundary) {
			continue
		}
		if !hasPrev || g.Gameday.After(prev.Gameday) {
			prev = g
			hasPrev = true
		}
	}
	if !hasPrev {
		return nil, ErrNoPreviousWeek
	}
	previous := keyOf(prev)

	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if hasNext {
		for _, g := range games {
			if keyOf(g) == current {
				add(g.ID)
			}
		}
	}
	for _, g := range games {
		if rebuild && g.Season == previous.season {
			add(g.ID)
		} else if !rebuild && keyOf(g) == previous {
			add(g.ID)
		}
	}

	return ids, nil
}
