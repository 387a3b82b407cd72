package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCSVStoreLoadMissing(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "lines.csv"), quietLogger())
	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Empty() {
		t.Errorf("missing file should load empty, got %d columns", len(got.Columns))
	}
}

func TestCSVStoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.csv")
	writeFile(t, path, `,game_id,season,week,home_team,away_team,home_spread_open,home_spread_open_source,home_spread_open_timestamp,legacy_note
0,2024_01_BAL_KC,2024,1,KC,BAL,-3.0,draftkings,2024-09-03 00:10:00-07:00,hello
1,2024_01_GB_PHI,2024.0,1,PHI,GB,,,,
`)

	got, err := NewCSVStore(path, quietLogger()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Columns[0] != "game_id" || len(got.Columns) != 9 {
		t.Errorf("columns = %v, want pandas index dropped", got.Columns)
	}
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}

	r := got.Rows[0]
	if f, ok := r.Get("home_spread_open").Float(); !ok || f != -3 {
		t.Errorf("home_spread_open = %v", r.Get("home_spread_open"))
	}
	if s, ok := r.Get("home_spread_open_source").Str(); !ok || s != "draftkings" {
		t.Errorf("source = %v", r.Get("home_spread_open_source"))
	}
	ts, ok := r.Get("home_spread_open_timestamp").Timestamp()
	if !ok || !ts.Equal(time.Date(2024, 9, 3, 7, 10, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v", r.Get("home_spread_open_timestamp"))
	}
	if s, ok := r.Get("legacy_note").Str(); !ok || s != "hello" {
		t.Errorf("inferred text column = %v", r.Get("legacy_note"))
	}

	r = got.Rows[1]
	if f, _ := r.Get("season").Float(); f != 2024 {
		t.Errorf("season = %v, want 2024", r.Get("season"))
	}
	for _, col := range []string{"home_spread_open", "home_spread_open_source", "home_spread_open_timestamp", "legacy_note"} {
		if !r.Get(col).IsNull() {
			t.Errorf("%s = %v, want null", col, r.Get(col))
		}
	}
}

func TestCSVStoreLoadBadCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.csv")
	writeFile(t, path, "game_id,season,week\nA,2024,one\n")

	_, err := NewCSVStore(path, quietLogger()).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "line 2: column week") {
		t.Errorf("err = %v, want line and column", err)
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lines.csv")
	s := NewCSVStore(path, quietLogger())
	ctx := context.Background()

	ts := time.Date(2024, 9, 3, 0, 10, 0, 500000000, time.FixedZone("PDT", -7*3600))
	in := model.Table{
		Columns: []string{"game_id", "season", "week", "home_ml_last", "ml_last_source", "ml_last_timestamp"},
		Rows: []model.Row{
			{
				"game_id":           model.Text("2024_01_BAL_KC"),
				"season":            model.Number(2024),
				"week":              model.Number(1),
				"home_ml_last":      model.Number(-155.5),
				"ml_last_source":    model.Text("fanduel, inc"),
				"ml_last_timestamp": model.Time(ts),
			},
			{
				"game_id": model.Text("2024_01_GB_PHI"),
				"season":  model.Number(2024),
				"week":    model.Number(1),
			},
		},
	}

	if err := s.Replace(ctx, in); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "2024-09-03 00:10:00.5-07:00") {
		t.Errorf("timestamp not written in lines format:\n%s", raw)
	}

	out, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Join(out.Columns, ",") != strings.Join(in.Columns, ",") {
		t.Errorf("columns = %v", out.Columns)
	}
	for i := range in.Rows {
		for _, col := range in.Columns {
			if !in.Rows[i].Get(col).Equal(out.Rows[i].Get(col)) {
				t.Errorf("row %d %s = %v, want %v", i, col, out.Rows[i].Get(col), in.Rows[i].Get(col))
			}
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp file left behind", len(entries))
	}
}

func TestCSVStoreReplaceFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "x")

	// parent is a regular file, so the directory cannot be created
	s := NewCSVStore(filepath.Join(blocker, "lines.csv"), quietLogger())
	err := s.Replace(context.Background(), model.Table{Columns: []string{"game_id"}})
	if !errors.Is(err, ErrPersist) {
		t.Errorf("err = %v, want ErrPersist", err)
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		col  string
		raw  string
		want model.Kind
	}{
		{"home_spread_last", "-2.5", model.KindNumber},
		{"home_spread_last", "", model.KindNull},
		{"home_spread_last", "NaN", model.KindNull},
		{"ml_open_source", "123", model.KindText},
		{"total_line_last_timestamp", "2024-09-03T07:10:00Z", model.KindTime},
		{"custom_source", "book", model.KindText},
		{"custom_timestamp", "not-a-time", model.KindText},
		{"custom", "1.5", model.KindNumber},
		{"custom", "2024-09-03 00:10:00-07:00", model.KindTime},
		{"custom", "x", model.KindText},
	}
	for _, tt := range tests {
		v, err := parseCell(tt.col, tt.raw)
		if err != nil {
			t.Errorf("parseCell(%s, %q): %v", tt.col, tt.raw, err)
			continue
		}
		if v.Kind() != tt.want {
			t.Errorf("parseCell(%s, %q) kind = %v, want %v", tt.col, tt.raw, v.Kind(), tt.want)
		}
	}
}
