package lines

import (
	"testing"
	"time"

	"github.com/greerreNFL/nfelomarket-data/internal/model"
)

func TestFieldExtractObservedAt(t *testing.T) {
	at := time.Date(2024, 9, 3, 7, 10, 0, 123456789, time.UTC)
	q := spreadQuote("2024_01_BAL_KC", at, "draftkings", 1, -3)

	got := FieldObservedAt.Extract(q)
	ts, ok := got.Timestamp()
	if !ok {
		t.Fatalf("Extract = %v, want a timestamp", got)
	}
	if want := time.Date(2024, 9, 3, 7, 10, 0, 123456000, time.UTC); !ts.Equal(want) {
		t.Errorf("Extract = %v, want %v", ts, want)
	}

	t.Run("survives the lines file format", func(t *testing.T) {
		back, err := time.Parse(model.TimeLayout, ts.Format(model.TimeLayout))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if !got.Equal(model.Time(back)) {
			t.Errorf("round trip %v != %v", back, ts)
		}
	})

	t.Run("zero time is null", func(t *testing.T) {
		if v := FieldObservedAt.Extract(model.Quote{}); !v.IsNull() {
			t.Errorf("Extract = %v, want null", v)
		}
	})
}
