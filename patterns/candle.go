package patterns

import (
	"math"

	"github.com/oarkflow/swingtrade/backtest"
)

// epsilon is the precision used for price comparisons. Daily prices are
// quoted to the cent, so anything inside a cent is equal.
const epsilon = 0.01

// Candle wraps one daily bar with the classification rules used by the
// pattern scan. averageDailyRange is the mean high-low range of the whole
// history, used to separate long candles from ordinary ones.
type Candle struct {
	Bar               backtest.PriceBar
	AverageDailyRange float64
}

// BodyLength is the open-to-close distance.
func (c Candle) BodyLength() float64 {
	return math.Abs(c.Bar.Close - c.Bar.Open)
}

// TotalLength is the high-to-low distance.
func (c Candle) TotalLength() float64 {
	return c.Bar.High - c.Bar.Low
}

// TopWickLength is the distance from the top of the body to the high.
func (c Candle) TopWickLength() float64 {
	if c.IsWhite() {
		return c.Bar.High - c.Bar.Close
	}
	return c.Bar.High - c.Bar.Open
}

// BottomWickLength is the distance from the bottom of the body to the low.
func (c Candle) BottomWickLength() float64 {
	if c.IsWhite() {
		return c.Bar.Open - c.Bar.Low
	}
	return c.Bar.Close - c.Bar.Low
}

// IsWhite reports whether the candle closed above its open.
func (c Candle) IsWhite() bool {
	return c.Bar.Close > c.Bar.Open
}

// IsLong reports whether the body dominates the candle (over 90% of the
// total length) and exceeds the average daily range.
func (c Candle) IsLong() bool {
	return c.BodyLength()/c.TotalLength() > 0.9 && c.BodyLength() > c.AverageDailyRange
}

// IsTopShaven reports whether the candle has no top wick.
func (c Candle) IsTopShaven() bool {
	return c.TopWickLength() < epsilon
}

// IsBottomShaven reports whether the candle has no bottom wick.
func (c Candle) IsBottomShaven() bool {
	return c.BottomWickLength() < epsilon
}

// IsWhiteMarubozu reports a long white candle that opened on its low and
// closed on its high.
func (c Candle) IsWhiteMarubozu() bool {
	return c.IsWhite() && c.IsLong() && c.IsTopShaven() && c.IsBottomShaven()
}

// IsClosingWhiteMarubozu reports a long white candle that closed on its
// high but left a bottom wick.
func (c Candle) IsClosingWhiteMarubozu() bool {
	return c.IsWhite() && c.IsLong() && c.IsTopShaven() && !c.IsBottomShaven()
}

// IsOpeningWhiteMarubozu reports a long white candle that opened on its
// low but left a top wick.
func (c Candle) IsOpeningWhiteMarubozu() bool {
	return c.IsWhite() && c.IsLong() && !c.IsTopShaven() && c.IsBottomShaven()
}

// GapsUpFrom reports whether the candle opened clear above the previous
// day's range.
func (c Candle) GapsUpFrom(prev backtest.PriceBar) bool {
	return c.Bar.Low > prev.High+epsilon
}

// GapsDownFrom reports whether the candle opened clear below the previous
// day's range.
func (c Candle) GapsDownFrom(prev backtest.PriceBar) bool {
	return c.Bar.High < prev.Low-epsilon
}

// IsDragonflyDoji reports a candle whose open and close both sit on the
// high with an unusually long total range below them.
func (c Candle) IsDragonflyDoji() bool {
	return math.Abs(c.Bar.Open-c.Bar.High) < epsilon &&
		math.Abs(c.Bar.Close-c.Bar.High) < epsilon &&
		c.TotalLength() > c.AverageDailyRange
}
