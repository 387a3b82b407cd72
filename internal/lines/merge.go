package lines

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// Merge reconciles a freshly built table with the persisted table and returns
// the complete table to persist.
//
// Rows are full-outer joined on keys. For a row present in both tables each
// non-key column takes the fresh value when it is non-null and the persisted
// value otherwise. Rows only in persisted pass through unchanged; rows only
// in fresh are added.
//
// The output column set is the persisted column set. Columns that exist only
// in fresh are dropped, so a new field group never reaches the output until
// the persisted schema carries it. When persisted has no columns (first run)
// the fresh column set is used.
//
// Time cells of both inputs are converted to loc before joining. The result
// is stable-sorted ascending by season, then week.
func Merge(fresh, persisted model.Table, keys []string, loc *time.Location) model.Table {
	if loc != nil {
		fresh = fresh.NormalizeTimes(loc)
		persisted = persisted.NormalizeTimes(loc)
	}

	columns := persisted.Columns
	if len(columns) == 0 {
		columns = fresh.Columns
	}
	columns = append([]string(nil), columns...)

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	inFresh := make(map[string]bool, len(fresh.Columns))
	for _, c := range fresh.Columns {
		inFresh[c] = true
	}

	freshByKey := make(map[string]int, len(fresh.Rows))
	for i, r := range fresh.Rows {
		k := joinKey(r, keys)
		if _, ok := freshByKey[k]; !ok {
			freshByKey[k] = i
		}
	}

	out := model.Table{
		Columns: columns,
		Rows:    make([]model.Row, 0, len(persisted.Rows)+len(fresh.Rows)),
	}
	matched := make(map[int]bool, len(fresh.Rows))

	for _, p := range persisted.Rows {
		fi, ok := freshByKey[joinKey(p, keys)]
		if !ok {
			out.Rows = append(out.Rows, project(p, columns))
			continue
		}
		matched[fi] = true

		f := fresh.Rows[fi]
		row := make(model.Row, len(columns))
		for _, col := range columns {
			if !isKey[col] && inFresh[col] {
				if v := f.Get(col); !v.IsNull() {
					row[col] = v
					continue
				}
			}
			row[col] = p.Get(col)
		}
		out.Rows = append(out.Rows, row)
	}

	for i, f := range fresh.Rows {
		if matched[i] {
			continue
		}
		out.Rows = append(out.Rows, project(f, columns))
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		si, sj := sortNumber(out.Rows[i], "season"), sortNumber(out.Rows[j], "season")
		if si != sj {
			return si < sj
		}
		return sortNumber(out.Rows[i], "week") < sortNumber(out.Rows[j], "week")
	})

	return out
}

// project copies the requested columns, filling absent ones with Null.
func project(r model.Row, columns []string) model.Row {
	out := make(model.Row, len(columns))
	for _, col := range columns {
		out[col] = r.Get(col)
	}
	return out
}

func joinKey(r model.Row, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = r.Get(k).String()
	}
	return strings.Join(parts, "\x1f")
}

// sortNumber orders null and non-numeric cells after every number.
func sortNumber(r model.Row, col string) float64 {
	if f, ok := r.Get(col).Float(); ok {
		return f
	}
	return math.Inf(1)
}
