package patterns

import "github.com/oarkflow/swingtrade/backtest"

// maxLumenLookahead caps how far past the pattern day the follow-through
// scan looks.
const maxLumenLookahead = 100

// Kind identifies one of the tracked candlestick patterns.
type Kind int

const (
	WhiteMarubozu Kind = iota
	ClosingWhiteMarubozu
	OpeningWhiteMarubozu
	DragonflyDoji
	numKinds
)

// String returns the display name of the pattern.
func (k Kind) String() string {
	switch k {
	case WhiteMarubozu:
		return "White Marubozu"
	case ClosingWhiteMarubozu:
		return "Closing White Marubozu"
	case OpeningWhiteMarubozu:
		return "Opening White Marubozu"
	case DragonflyDoji:
		return "Dragonfly Doji"
	}
	return "Unknown"
}

// Occurrence is one pattern hit: the day it printed and its lumen score,
// the number of consecutive following days whose lows held above the
// pattern's low.
type Occurrence struct {
	Kind  Kind
	Index int
	Lumen int
}

// KindStats aggregates the hits of one pattern kind.
type KindStats struct {
	Occurrences int
	TotalLumens int
}

// LumenRating is the integer-truncated mean lumen score.
func (ks KindStats) LumenRating() int {
	if ks.Occurrences == 0 {
		return 0
	}
	return ks.TotalLumens / ks.Occurrences
}

// Stats is the result of one pattern scan over one price history.
type Stats struct {
	ByKind [numKinds]KindStats
	Hits   []Occurrence
}

// Scan classifies every bar of the history against the tracked patterns
// and scores each hit. The scan is a pure reduction over the input: no
// state survives between calls and the input is never modified.
func Scan(bars []backtest.PriceBar) Stats {
	var stats Stats
	if len(bars) == 0 {
		return stats
	}

	adr := averageDailyRange(bars)
	for i, bar := range bars {
		candle := Candle{Bar: bar, AverageDailyRange: adr}
		for _, kind := range matches(candle) {
			lumen := lumens(bars, i)
			stats.ByKind[kind].Occurrences++
			stats.ByKind[kind].TotalLumens += lumen
			stats.Hits = append(stats.Hits, Occurrence{Kind: kind, Index: i, Lumen: lumen})
		}
	}
	return stats
}

func matches(candle Candle) []Kind {
	var kinds []Kind
	if candle.IsWhiteMarubozu() {
		kinds = append(kinds, WhiteMarubozu)
	}
	if candle.IsClosingWhiteMarubozu() {
		kinds = append(kinds, ClosingWhiteMarubozu)
	}
	if candle.IsOpeningWhiteMarubozu() {
		kinds = append(kinds, OpeningWhiteMarubozu)
	}
	if candle.IsDragonflyDoji() {
		kinds = append(kinds, DragonflyDoji)
	}
	return kinds
}

// lumens counts how many consecutive days after index keep their lows
// above the pattern day's low, stopping at the first violation or at the
// lookahead cap.
func lumens(bars []backtest.PriceBar, index int) int {
	count := 0
	for peek := index + 1; peek < len(bars); peek++ {
		if bars[peek].Low <= bars[index].Low {
			break
		}
		count++
		if peek-index >= maxLumenLookahead {
			break
		}
	}
	return count
}

func averageDailyRange(bars []backtest.PriceBar) float64 {
	total := 0.0
	for _, bar := range bars {
		total += bar.High - bar.Low
	}
	return total / float64(len(bars))
}
