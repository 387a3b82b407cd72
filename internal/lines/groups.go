package lines

import (
	"strings"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

// Field identifies one column of the quote stream.
type Field uint8

const (
	FieldBookmaker Field = iota
	FieldObservedAt
	FieldHomeSpread
	FieldHomeSpreadPrice
	FieldAwaySpreadPrice
	FieldHomeMoneyline
	FieldAwayMoneyline
	FieldTotalLine
	FieldOverPrice
	FieldUnderPrice
	FieldHomeSpreadTicketsPct
	FieldHomeSpreadMoneyPct
)

var fieldNames = [...]string{
	FieldBookmaker:            "bookmaker",
	FieldObservedAt:           "created_at",
	FieldHomeSpread:           "home_spread",
	FieldHomeSpreadPrice:      "home_spread_price",
	FieldAwaySpreadPrice:      "away_spread_price",
	FieldHomeMoneyline:        "home_ml",
	FieldAwayMoneyline:        "away_ml",
	FieldTotalLine:            "total_line",
	FieldOverPrice:            "over_price",
	FieldUnderPrice:           "under_price",
	FieldHomeSpreadTicketsPct: "home_spread_tickets_pct",
	FieldHomeSpreadMoneyPct:   "home_spread_money_pct",
}

// Name returns the column name in the quote store.
func (f Field) Name() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// Extract reads the field from a quote as a table cell.
func (f Field) Extract(q model.Quote) model.Value {
	switch f {
	case FieldBookmaker:
		return model.TextPtr(q.Bookmaker)
	case FieldObservedAt:
		if q.ObservedAt.IsZero() {
			return model.Null()
		}
		// Stored timestamps carry microseconds.
		return model.Time(q.ObservedAt.Truncate(time.Microsecond))
	case FieldHomeSpread:
		return model.NumberPtr(q.HomeSpread)
	case FieldHomeSpreadPrice:
		return model.NumberPtr(q.HomeSpreadPrice)
	case FieldAwaySpreadPrice:
		return model.NumberPtr(q.AwaySpreadPrice)
	case FieldHomeMoneyline:
		return model.NumberPtr(q.HomeMoneyline)
	case FieldAwayMoneyline:
		return model.NumberPtr(q.AwayMoneyline)
	case FieldTotalLine:
		return model.NumberPtr(q.TotalLine)
	case FieldOverPrice:
		return model.NumberPtr(q.OverPrice)
	case FieldUnderPrice:
		return model.NumberPtr(q.UnderPrice)
	case FieldHomeSpreadTicketsPct:
		return model.NumberPtr(q.HomeSpreadTicketsPct)
	case FieldHomeSpreadMoneyPct:
		return model.NumberPtr(q.HomeSpreadMoneyPct)
	default:
		return model.Null()
	}
}

// FieldMap routes one quote field to one snapshot column.
type FieldMap struct {
	Source Field
	Column string
}

// FieldGroup is a set of related quote fields resolved together from one
// cohort. A quote is only eligible for a group if every source field is
// populated.
type FieldGroup struct {
	Name   string
	Cohort CohortKind
	Fields []FieldMap
}

// Columns returns the group's destination columns in order.
func (g FieldGroup) Columns() []string {
	cols := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		cols[i] = f.Column
	}
	return cols
}

// KeyColumns identify a game in the lines table.
var KeyColumns = []string{"game_id", "season", "week", "home_team", "away_team"}

var fieldGroups = []FieldGroup{
	spreadGroup(Open),
	spreadGroup(Last),
	{
		Name:   "pct_last",
		Cohort: Last,
		Fields: []FieldMap{
			{FieldHomeSpreadTicketsPct, "home_spread_tickets_pct"},
			{FieldHomeSpreadMoneyPct, "home_spread_money_pct"},
			{FieldBookmaker, "home_spread_pcts_source"},
			{FieldObservedAt, "home_spread_pct_timestamp"},
		},
	},
	moneylineGroup(Open),
	moneylineGroup(Last),
	totalGroup(Open),
	totalGroup(Last),
}

func spreadGroup(kind CohortKind) FieldGroup {
	s := kind.String()
	return FieldGroup{
		Name:   "spread_" + s,
		Cohort: kind,
		Fields: []FieldMap{
			{FieldHomeSpread, "home_spread_" + s},
			{FieldHomeSpreadPrice, "home_spread_" + s + "_price"},
			{FieldAwaySpreadPrice, "away_spread_" + s + "_price"},
			{FieldBookmaker, "home_spread_" + s + "_source"},
			{FieldObservedAt, "home_spread_" + s + "_timestamp"},
		},
	}
}

func moneylineGroup(kind CohortKind) FieldGroup {
	s := kind.String()
	return FieldGroup{
		Name:   "moneyline_" + s,
		Cohort: kind,
		Fields: []FieldMap{
			{FieldHomeMoneyline, "home_ml_" + s},
			{FieldAwayMoneyline, "away_ml_" + s},
			{FieldBookmaker, "ml_" + s + "_source"},
			{FieldObservedAt, "ml_" + s + "_timestamp"},
		},
	}
}

func totalGroup(kind CohortKind) FieldGroup {
	s := kind.String()
	return FieldGroup{
		Name:   "total_" + s,
		Cohort: kind,
		Fields: []FieldMap{
			{FieldTotalLine, "total_line_" + s},
			{FieldUnderPrice, "under_price_" + s},
			{FieldOverPrice, "over_price_" + s},
			{FieldBookmaker, "total_line_" + s + "_source"},
			{FieldObservedAt, "total_line_" + s + "_timestamp"},
		},
	}
}

// FieldGroups returns the fixed group catalog in output order.
func FieldGroups() []FieldGroup {
	out := make([]FieldGroup, len(fieldGroups))
	copy(out, fieldGroups)
	return out
}

// SnapshotColumns returns the key columns followed by every group column.
func SnapshotColumns() []string {
	cols := append([]string(nil), KeyColumns...)
	for _, g := range fieldGroups {
		cols = append(cols, g.Columns()...)
	}
	return cols
}

// ColumnKind reports the cell kind of a lines table column. ok is false for
// columns outside the catalog.
func ColumnKind(col string) (kind model.Kind, ok bool) {
	switch col {
	case "game_id", "home_team", "away_team":
		return model.KindText, true
	case "season", "week":
		return model.KindNumber, true
	}
	for _, g := range fieldGroups {
		for _, f := range g.Fields {
			if f.Column != col {
				continue
			}
			switch f.Source {
			case FieldBookmaker:
				return model.KindText, true
			case FieldObservedAt:
				return model.KindTime, true
			default:
				return model.KindNumber, true
			}
		}
	}
	switch {
	case strings.HasSuffix(col, "_source"):
		return model.KindText, false
	case strings.HasSuffix(col, "_timestamp"):
		return model.KindTime, false
	}
	return model.KindNull, false
}
