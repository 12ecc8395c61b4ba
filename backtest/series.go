package backtest

import (
	"fmt"
	"time"
)

// Direction is the directional movement a stock price performed on a given day,
// relative to the nearest prior day that was not an inside day.
type Direction int

const (
	// Uncalculated is the default value prior to classification.
	Uncalculated Direction = iota
	// Up means a higher high and a higher low.
	Up
	// Down means a lower high and a lower low.
	Down
	// Inside means a lower-or-equal high and a higher-or-equal low.
	// Inside days are omitted from most price comparisons.
	Inside
	// Outside means a higher-or-equal high and a lower-or-equal low.
	Outside
)

// String returns the worksheet name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Inside:
		return "Inside"
	case Outside:
		return "Outside"
	}
	return "Uncalculated"
}

// PriceBar is one trading day of price activity for one instrument.
// Bars are immutable once ingested; cleaning (zero-price and non-trading
// days) is the data collaborator's job, ordering is validated here.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// AnnotatedBar is a PriceBar plus the derived fields written by the
// indicator calculators, the direction classifier and the swing detector.
// Each field is written once during the forward pass and never revisited.
type AnnotatedBar struct {
	PriceBar

	Direction Direction

	ConfirmsShortTermLow     bool
	ConfirmsShortTermHigh    bool
	ConfirmsIntermediateLow  bool
	ConfirmsIntermediateHigh bool
	ConfirmsLongTermLow      bool
	ConfirmsLongTermHigh     bool

	PlusDm      float64
	MinusDm     float64
	TrueRange   float64
	PlusDm14    float64
	MinusDm14   float64
	TrueRange14 float64
	PlusDi14    float64
	MinusDi14   float64
	Dx          float64
	Adx         float64

	OnBalanceVolume int64
	ObvStrength     float64
	ObvDirection    Direction

	Ema5              float64
	Ema20             float64
	EmaCrossDirection Direction
}

// AdxDirection reports the trend direction implied by the directional
// indicators for this bar.
func (b *AnnotatedBar) AdxDirection() Direction {
	if b.PlusDi14 > b.MinusDi14 {
		return Up
	}
	if b.PlusDi14 < b.MinusDi14 {
		return Down
	}
	return Uncalculated
}

// VolatilityRange is the smoothed true range scaled to a usable stop band.
func (b *AnnotatedBar) VolatilityRange() float64 {
	return b.TrueRange14 * 1.5
}

// NewSeries validates a chronological price history and annotates it.
// The input contract is strict: at least one bar, strictly ascending dates,
// no duplicates. Violations fail fast with ErrBadInput before any
// simulation work is attempted.
func NewSeries(bars []PriceBar) ([]AnnotatedBar, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty price history", ErrBadInput)
	}

	series := make([]AnnotatedBar, len(bars))
	for i, bar := range bars {
		if i > 0 && !bar.Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("%w: bars out of order at %s", ErrBadInput, bar.Date.Format("2006-01-02"))
		}
		series[i] = AnnotatedBar{PriceBar: bar}
	}

	return series, nil
}
