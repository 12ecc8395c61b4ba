package patterns

import (
	"testing"
	"time"

	"github.com/oarkflow/swingtrade/backtest"
)

func bar(day int, open, high, low, close float64) backtest.PriceBar {
	return backtest.PriceBar{
		Date:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 1000,
	}
}

// fillers produces n quiet bars whose ranges keep the average daily range
// small relative to the pattern candles under test.
func fillers(start, n int, low float64) []backtest.PriceBar {
	bars := make([]backtest.PriceBar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, bar(start+i, low+0.5, low+1, low, low+0.5))
	}
	return bars
}

func TestScanWhiteMarubozu(t *testing.T) {
	bars := fillers(0, 10, 99.5)
	bars = append(bars, bar(10, 100, 110, 100, 110))
	bars = append(bars, fillers(11, 3, 101)...)
	bars = append(bars, bar(14, 99.5, 100.5, 99, 99.5))

	stats := Scan(bars)

	ks := stats.ByKind[WhiteMarubozu]
	if ks.Occurrences != 1 {
		t.Fatalf("occurrences = %v, want 1", ks.Occurrences)
	}
	if ks.TotalLumens != 3 {
		t.Errorf("lumens = %v, want 3 holding days before the break", ks.TotalLumens)
	}
	if ks.LumenRating() != 3 {
		t.Errorf("rating = %v, want 3", ks.LumenRating())
	}

	if len(stats.Hits) != 1 {
		t.Fatalf("hits = %v, want 1", len(stats.Hits))
	}
	hit := stats.Hits[0]
	if hit.Kind != WhiteMarubozu || hit.Index != 10 || hit.Lumen != 3 {
		t.Errorf("hit = %+v, want the marubozu at index 10 with 3 lumens", hit)
	}

	// A shaven-top, shaven-bottom candle matches only the full marubozu.
	for _, kind := range []Kind{ClosingWhiteMarubozu, OpeningWhiteMarubozu, DragonflyDoji} {
		if stats.ByKind[kind].Occurrences != 0 {
			t.Errorf("%v occurrences = %v, want 0", kind, stats.ByKind[kind].Occurrences)
		}
	}
}

func TestScanClosingAndOpeningMarubozu(t *testing.T) {
	bars := fillers(0, 10, 99.5)
	// Closes on the high, bottom wick left.
	bars = append(bars, bar(10, 100.5, 110, 100, 110))
	// Opens on the low, top wick left.
	bars = append(bars, bar(11, 100, 110, 100, 109.5))

	stats := Scan(bars)

	if stats.ByKind[ClosingWhiteMarubozu].Occurrences != 1 {
		t.Errorf("closing occurrences = %v, want 1", stats.ByKind[ClosingWhiteMarubozu].Occurrences)
	}
	if stats.ByKind[OpeningWhiteMarubozu].Occurrences != 1 {
		t.Errorf("opening occurrences = %v, want 1", stats.ByKind[OpeningWhiteMarubozu].Occurrences)
	}
	if stats.ByKind[WhiteMarubozu].Occurrences != 0 {
		t.Errorf("full marubozu occurrences = %v, want 0", stats.ByKind[WhiteMarubozu].Occurrences)
	}
}

func TestScanDragonflyDoji(t *testing.T) {
	bars := fillers(0, 10, 99.5)
	bars = append(bars, bar(10, 110, 110, 100, 110))

	stats := Scan(bars)

	if stats.ByKind[DragonflyDoji].Occurrences != 1 {
		t.Fatalf("dragonfly occurrences = %v, want 1", stats.ByKind[DragonflyDoji].Occurrences)
	}
	// A flat open/close is not a white candle, so no marubozu fires.
	if stats.ByKind[WhiteMarubozu].Occurrences != 0 {
		t.Errorf("marubozu occurrences = %v, want 0", stats.ByKind[WhiteMarubozu].Occurrences)
	}
}

func TestScanEmptyAndQuietHistories(t *testing.T) {
	if stats := Scan(nil); len(stats.Hits) != 0 {
		t.Errorf("hits on empty history = %v, want none", len(stats.Hits))
	}

	stats := Scan(fillers(0, 20, 99.5))
	if len(stats.Hits) != 0 {
		t.Errorf("hits on quiet history = %v, want none", len(stats.Hits))
	}
}

func TestLumenRatingTruncates(t *testing.T) {
	ks := KindStats{Occurrences: 2, TotalLumens: 3}
	if ks.LumenRating() != 1 {
		t.Errorf("rating = %v, want truncated 1", ks.LumenRating())
	}
	if (KindStats{}).LumenRating() != 0 {
		t.Error("rating of no occurrences must be 0")
	}
}

func TestCandleGaps(t *testing.T) {
	prev := bar(0, 100, 105, 95, 100)

	up := Candle{Bar: bar(1, 106, 108, 105.5, 107)}
	if !up.GapsUpFrom(prev) {
		t.Error("expected a gap up above the prior high")
	}
	down := Candle{Bar: bar(1, 93, 94, 90, 92)}
	if !down.GapsDownFrom(prev) {
		t.Error("expected a gap down below the prior low")
	}

	overlap := Candle{Bar: bar(1, 104, 106, 103, 105)}
	if overlap.GapsUpFrom(prev) || overlap.GapsDownFrom(prev) {
		t.Error("an overlapping range is not a gap")
	}
	touch := Candle{Bar: bar(1, 105, 107, 105, 106)}
	if touch.GapsUpFrom(prev) {
		t.Error("touching the prior high is not a gap")
	}
}

func TestCandleClassification(t *testing.T) {
	adr := 2.0
	tests := []struct {
		name   string
		candle Candle
		white  bool
		long   bool
	}{
		{"white long", Candle{Bar: bar(0, 100, 110, 100, 110), AverageDailyRange: adr}, true, true},
		{"black", Candle{Bar: bar(0, 110, 110, 100, 100), AverageDailyRange: adr}, false, true},
		{"short body", Candle{Bar: bar(0, 100, 110, 99, 101), AverageDailyRange: adr}, true, false},
		{"small range", Candle{Bar: bar(0, 100, 101, 100, 101), AverageDailyRange: adr}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.candle.IsWhite(); got != tt.white {
				t.Errorf("IsWhite() = %v, want %v", got, tt.white)
			}
			if got := tt.candle.IsLong(); got != tt.long {
				t.Errorf("IsLong() = %v, want %v", got, tt.long)
			}
		})
	}
}
