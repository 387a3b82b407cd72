package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/lines"
	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// Timestamp renderings accepted when reading a lines file. The first is the
// one written.
var timeLayouts = []string{
	model.TimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999-0700",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCell decodes one CSV cell for col. Catalog columns must parse as
// their kind. Other columns are inferred: number, then time, then text.
func parseCell(col, raw string) (model.Value, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "NaN" || s == "NaT" {
		return model.Null(), nil
	}

	kind, known := lines.ColumnKind(col)
	if known {
		switch kind {
		case model.KindText:
			return model.Text(s), nil
		case model.KindNumber:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return model.Null(), fmt.Errorf("column %s: %q is not a number", col, s)
			}
			return model.Number(f), nil
		case model.KindTime:
			t, ok := parseTime(s)
			if !ok {
				return model.Null(), fmt.Errorf("column %s: %q is not a timestamp", col, s)
			}
			return model.Time(t), nil
		}
	}

	switch kind {
	case model.KindText:
		return model.Text(s), nil
	case model.KindTime:
		if t, ok := parseTime(s); ok {
			return model.Time(t), nil
		}
		return model.Text(s), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Number(f), nil
	}
	if t, ok := parseTime(s); ok {
		return model.Time(t), nil
	}
	return model.Text(s), nil
}
