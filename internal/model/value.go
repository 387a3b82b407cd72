package model

import (
	"strconv"
	"time"
)

// Kind is the type tag of a table cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a typed, nullable table cell. The zero Value is Null.
type Value struct {
	kind Kind
	num  float64
	text string
	ts   time.Time
}

// Null returns the "no data" sentinel.
func Null() Value { return Value{} }

// Number wraps a float.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Time wraps a timestamp.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// NumberPtr returns Null for nil, otherwise Number(*f).
func NumberPtr(f *float64) Value {
	if f == nil {
		return Null()
	}
	return Number(*f)
}

// TextPtr returns Null for nil, otherwise Text(*s).
func TextPtr(s *string) Value {
	if s == nil {
		return Null()
	}
	return Text(*s)
}

// Kind returns the cell's type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell holds no data.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text payload.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}

// Timestamp returns the time payload.
func (v Value) Timestamp() (time.Time, bool) {
	return v.ts, v.kind == KindTime
}

// In converts a time cell to loc. Other kinds are returned unchanged.
func (v Value) In(loc *time.Location) Value {
	if v.kind != KindTime {
		return v
	}
	return Time(v.ts.In(loc))
}

// Equal compares kind and payload. Times compare as instants.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return true
	}
}

// String renders the cell the way it is written to the lines file. Null is
// the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindTime:
		return v.ts.Format(TimeLayout)
	default:
		return ""
	}
}

// TimeLayout is the on-disk timestamp format (pandas' default for tz-aware
// columns).
const TimeLayout = "2006-01-02 15:04:05.999999-07:00"
