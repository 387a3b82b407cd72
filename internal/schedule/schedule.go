// Package schedule loads the nflverse games table: season, week, teams,
// result and kickoff for every game.
package schedule

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
	"github.com/greerreNFL/nfelomarket-data/internal/version"
)

// KickoffLocation is the clock nflverse gametimes are written in.
const KickoffLocation = "America/New_York"

// Required games.csv columns.
var requiredColumns = []string{
	"game_id", "season", "week", "home_team", "away_team", "result", "gameday", "gametime",
}

// Provider supplies the schedule for a run.
type Provider interface {
	Games(ctx context.Context) ([]model.Game, error)
}

// Loader reads games.csv from a local path or a URL. Path wins when both
// are set.
type Loader struct {
	url    string
	path   string
	client *http.Client
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil client gets a 60 second timeout.
func NewLoader(url, path string, client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{url: url, path: path, client: client, logger: logger}
}

// Games loads and parses the games table.
func (l *Loader) Games(ctx context.Context) ([]model.Game, error) {
	start := time.Now()

	var (
		games []model.Game
		err   error
		from  string
	)
	switch {
	case l.path != "":
		from = l.path
		games, err = l.fromFile()
	case l.url != "":
		from = l.url
		games, err = l.fromURL(ctx)
	default:
		return nil, errors.New("schedule: no url or path configured")
	}
	if err != nil {
		return nil, fmt.Errorf("load schedule from %s: %w", from, err)
	}

	l.logger.Debug("schedule loaded",
		"source", from,
		"games", len(games),
		"duration", time.Since(start),
	)
	return games, nil
}

func (l *Loader) fromFile() ([]model.Game, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (l *Loader) fromURL(ctx context.Context) ([]model.Game, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return Parse(resp.Body)
}

// Parse reads a games table in nflverse CSV layout. Columns may appear in
// any order; extra columns are ignored. An empty or "NA" result means the
// game has not been played.
func Parse(r io.Reader) ([]model.Game, error) {
	br := bufio.NewReader(r)
	if bom, _ := br.Peek(3); len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var games []model.Game
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		if field("game_id") == "" {
			continue
		}
		g, err := parseGame(field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		games = append(games, g)
	}

	return games, nil
}

func parseGame(field func(string) string) (model.Game, error) {
	g := model.Game{
		ID:       field("game_id"),
		HomeTeam: field("home_team"),
		AwayTeam: field("away_team"),
		Gametime: field("gametime"),
	}
	if g.Gametime == "NA" {
		g.Gametime = ""
	}

	var err error
	if g.Season, err = parseInt(field("season")); err != nil {
		return g, fmt.Errorf("season: %w", err)
	}
	if g.Week, err = parseInt(field("week")); err != nil {
		return g, fmt.Errorf("week: %w", err)
	}

	if res := field("result"); res != "" && res != "NA" {
		v, err := strconv.ParseFloat(res, 64)
		if err != nil {
			return g, fmt.Errorf("result: %w", err)
		}
		g.Result = &v
	}

	if day := field("gameday"); day != "" && day != "NA" {
		g.Gameday, err = time.Parse(time.DateOnly, day)
		if err != nil {
			return g, fmt.Errorf("gameday: %w", err)
		}
	}

	return g, nil
}

// parseInt accepts integer text written as a float ("3.0").
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

// Kickoffs maps each game with a known gameday and gametime to its kickoff
// instant in UTC.
func Kickoffs(games []model.Game) (map[string]time.Time, error) {
	loc, err := time.LoadLocation(KickoffLocation)
	if err != nil {
		return nil, fmt.Errorf("load location %s: %w", KickoffLocation, err)
	}
	out := make(map[string]time.Time, len(games))
	for _, g := range games {
		if k, ok := g.Kickoff(loc); ok {
			out[g.ID] = k
		}
	}
	return out, nil
}
