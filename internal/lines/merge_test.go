package lines

import (
	"testing"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
	. "github.com/smartystreets/goconvey/convey"
)

func keyRow(id string, season, week int) model.Row {
	return model.Row{
		"game_id":   model.Text(id),
		"season":    model.Number(float64(season)),
		"week":      model.Number(float64(week)),
		"home_team": model.Text("HOME"),
		"away_team": model.Text("AWAY"),
	}
}

func withCols(r model.Row, kv map[string]model.Value) model.Row {
	out := r.Clone()
	for k, v := range kv {
		out[k] = v
	}
	return out
}

func rowByID(t model.Table, id string) model.Row {
	for _, r := range t.Rows {
		if r.Get("game_id").Equal(model.Text(id)) {
			return r
		}
	}
	return nil
}

func tablesEqual(a, b model.Table) bool {
	if len(a.Columns) != len(b.Columns) || len(a.Rows) != len(b.Rows) {
		return false
	}
	for i, c := range a.Columns {
		if b.Columns[i] != c {
			return false
		}
	}
	for _, ra := range a.Rows {
		rb := rowByID(b, ra.Get("game_id").String())
		if rb == nil {
			return false
		}
		for _, c := range a.Columns {
			if !ra.Get(c).Equal(rb.Get(c)) {
				return false
			}
		}
	}
	return true
}

func TestMerge(t *testing.T) {
	loc := pacific(t)
	cols := append(append([]string(nil), KeyColumns...), "home_spread_last", "ml_last_source", "legacy_note")

	Convey("Given a persisted table", t, func() {
		persisted := model.Table{
			Columns: cols,
			Rows: []model.Row{
				withCols(keyRow("X", 2024, 1), map[string]model.Value{
					"home_spread_last": model.Number(-3),
					"ml_last_source":   model.Text("circa"),
					"legacy_note":      model.Text("kept"),
				}),
				withCols(keyRow("OLD", 2023, 18), map[string]model.Value{
					"home_spread_last": model.Number(7),
					"ml_last_source":   model.Null(),
					"legacy_note":      model.Null(),
				}),
			},
		}

		Convey("A fresh null never overwrites a persisted value", func() {
			fresh := model.Table{
				Columns: SnapshotColumns(),
				Rows: []model.Row{withCols(keyRow("X", 2024, 1), map[string]model.Value{
					"home_spread_last": model.Null(),
					"ml_last_source":   model.Null(),
				})},
			}
			out := Merge(fresh, persisted, KeyColumns, loc)

			x := rowByID(out, "X")
			So(x, ShouldNotBeNil)
			So(x.Get("home_spread_last").Equal(model.Number(-3)), ShouldBeTrue)
			So(x.Get("ml_last_source").Equal(model.Text("circa")), ShouldBeTrue)
		})

		Convey("A fresh non-null value replaces the persisted one", func() {
			fresh := model.Table{
				Columns: SnapshotColumns(),
				Rows: []model.Row{withCols(keyRow("X", 2024, 1), map[string]model.Value{
					"home_spread_last": model.Number(-2.5),
				})},
			}
			out := Merge(fresh, persisted, KeyColumns, loc)
			So(rowByID(out, "X").Get("home_spread_last").Equal(model.Number(-2.5)), ShouldBeTrue)
		})

		Convey("Columns only in the persisted table are retained", func() {
			fresh := model.Table{Columns: SnapshotColumns(), Rows: []model.Row{keyRow("X", 2024, 1)}}
			out := Merge(fresh, persisted, KeyColumns, loc)
			So(rowByID(out, "X").Get("legacy_note").Equal(model.Text("kept")), ShouldBeTrue)
		})

		Convey("Rows untouched this run pass through and new rows are added", func() {
			fresh := model.Table{
				Columns: SnapshotColumns(),
				Rows: []model.Row{withCols(keyRow("NEW", 2024, 2), map[string]model.Value{
					"home_spread_last": model.Number(1.5),
					"total_line_last":  model.Number(44),
				})},
			}
			out := Merge(fresh, persisted, KeyColumns, loc)

			So(out.Len(), ShouldEqual, 3)
			So(rowByID(out, "OLD").Get("home_spread_last").Equal(model.Number(7)), ShouldBeTrue)

			added := rowByID(out, "NEW")
			So(added.Get("home_spread_last").Equal(model.Number(1.5)), ShouldBeTrue)
			So(added.Get("legacy_note").IsNull(), ShouldBeTrue)

			Convey("and columns the persisted schema lacks are dropped", func() {
				So(out.Columns, ShouldResemble, cols)
				_, has := added["total_line_last"]
				So(has, ShouldBeFalse)
			})
		})

		Convey("Output is sorted by season then week", func() {
			fresh := model.Table{
				Columns: cols,
				Rows: []model.Row{
					keyRow("W2", 2024, 2),
					keyRow("W0", 2023, 1),
				},
			}
			out := Merge(fresh, persisted, KeyColumns, loc)

			var ids []string
			for _, r := range out.Rows {
				ids = append(ids, r.Get("game_id").String())
			}
			So(ids, ShouldResemble, []string{"W0", "OLD", "X", "W2"})
		})

		Convey("Merging a table with itself returns it unchanged", func() {
			out := Merge(persisted, persisted, KeyColumns, loc)
			So(tablesEqual(out, persisted), ShouldBeTrue)
		})
	})

	Convey("Given no persisted table", t, func() {
		fresh := model.Table{
			Columns: SnapshotColumns(),
			Rows:    []model.Row{keyRow("B", 2024, 2), keyRow("A", 2024, 1)},
		}
		out := Merge(fresh, model.Table{}, KeyColumns, loc)

		Convey("The fresh schema and rows are used, sorted", func() {
			So(out.Columns, ShouldResemble, SnapshotColumns())
			So(out.Rows[0].Get("game_id").String(), ShouldEqual, "A")
			So(out.Rows[1].Get("game_id").String(), ShouldEqual, "B")
		})
	})
}

func TestMergeFillLaw(t *testing.T) {
	loc := pacific(t)
	cols := append(append([]string(nil), KeyColumns...), "a", "b", "c")

	values := []model.Value{model.Null(), model.Number(1), model.Number(2)}

	Convey("For every join key in both tables, merged = fresh if non-null else persisted", t, func() {
		var persistedRows, freshRows []model.Row
		i := 0
		for _, pv := range values {
			for _, fv := range values {
				id := string(rune('A' + i))
				i++
				persistedRows = append(persistedRows, withCols(keyRow(id, 2024, 1), map[string]model.Value{"a": pv, "b": pv, "c": pv}))
				freshRows = append(freshRows, withCols(keyRow(id, 2024, 1), map[string]model.Value{"a": fv, "b": fv, "c": fv}))
			}
		}

		persisted := model.Table{Columns: cols, Rows: persistedRows}
		fresh := model.Table{Columns: cols, Rows: freshRows}
		out := Merge(fresh, persisted, KeyColumns, loc)

		So(out.Len(), ShouldEqual, len(persistedRows))
		for j, p := range persistedRows {
			f := freshRows[j]
			m := rowByID(out, p.Get("game_id").String())
			for _, col := range []string{"a", "b", "c"} {
				want := f.Get(col)
				if want.IsNull() {
					want = p.Get(col)
				}
				So(m.Get(col).Equal(want), ShouldBeTrue)
			}
		}
	})
}

func TestMergeNormalizesTimes(t *testing.T) {
	loc := pacific(t)
	instant := time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC)

	Convey("Time cells come out in the reference location", t, func() {
		cols := append(append([]string(nil), KeyColumns...), "ml_last_timestamp")
		persisted := model.Table{
			Columns: cols,
			Rows:    []model.Row{withCols(keyRow("X", 2024, 1), map[string]model.Value{"ml_last_timestamp": model.Time(instant)})},
		}
		out := Merge(model.Table{}, persisted, KeyColumns, loc)

		ts, ok := out.Rows[0].Get("ml_last_timestamp").Timestamp()
		So(ok, ShouldBeTrue)
		So(ts.Equal(instant), ShouldBeTrue)
		So(ts.Location().String(), ShouldEqual, "America/Los_Angeles")
	})
}
