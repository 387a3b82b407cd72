package lines

import (
	"errors"
	"fmt"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// ErrUnknownEvent is returned when a selected game id has no schedule row.
var ErrUnknownEvent = errors.New("game not in schedule")

// Build assembles one snapshot row per game id, in the order given. Each row
// carries the game's schedule metadata and the resolved columns of every
// field group. A game id missing from the schedule aborts the build.
func Build(ids []string, cohorts Cohorts, games []model.Game) (model.Table, error) {
	meta := make(map[string]model.Game, len(games))
	for _, g := range games {
		if _, ok := meta[g.ID]; !ok {
			meta[g.ID] = g
		}
	}

	tbl := model.Table{
		Columns: SnapshotColumns(),
		Rows:    make([]model.Row, 0, len(ids)),
	}

	for _, id := range ids {
		g, ok := meta[id]
		if !ok {
			return model.Table{}, fmt.Errorf("build snapshot %s: %w", id, ErrUnknownEvent)
		}

		row := model.Row{
			"game_id":   model.Text(g.ID),
			"season":    model.Number(float64(g.Season)),
			"week":      model.Number(float64(g.Week)),
			"home_team": model.Text(g.HomeTeam),
			"away_team": model.Text(g.AwayTeam),
		}
		for _, group := range fieldGroups {
			for col, v := range Resolve(id, cohorts.For(group.Cohort), group) {
				row[col] = v
			}
		}

		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl, nil
}
