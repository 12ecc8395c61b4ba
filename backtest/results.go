package backtest

import "time"

// WorksheetEntry is one immutable audit-trail row per simulated day. Swing
// level columns carry the most recent confirmed value at each scale, so a
// row is readable on its own without scanning backwards for the last
// confirmation day.
type WorksheetEntry struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64

	PriceDirection string
	Adx            float64
	AdxDirection   string

	FiftyTwoWeekHigh       float64
	FiftyTwoWeekLow        float64
	FiftyTwoWeekPercentage float64

	ShortTermLow     float64
	ShortTermHigh    float64
	IntermediateLow  float64
	IntermediateHigh float64
	LongTermLow      float64
	LongTermHigh     float64

	VolatilityRange float64

	CurrentPositionSize int
	CurrentBalance      float64
	CurrentStop         float64

	OnBalanceVolume         int64
	OnBalanceVolumeStrength float64
	Ema5                    float64
	Ema20                   float64
}

// Results is the final aggregate of a backtest run: the full worksheet
// plus the summary statistics taken from the broker at simulation end.
type Results struct {
	Worksheet []WorksheetEntry

	EndingBalance  float64
	InitialBalance float64
	HighestBalance float64
	LowestBalance  float64

	OpenPositionSize  int
	OpenPositionValue float64

	NumLongPositions  int
	NumShortPositions int
	NumTrades         int

	TotalBrokerageFees           float64
	NetProfitsFromShortPositions float64
	NetProfitsFromLongPositions  float64
}

// NetProfitsLosses is realized profit: ending minus initial balance.
func (r *Results) NetProfitsLosses() float64 {
	return r.EndingBalance - r.InitialBalance
}

// NetUnrealizedProfitLosses adds the value of the open position to the
// realized net.
func (r *Results) NetUnrealizedProfitLosses() float64 {
	return r.NetProfitsLosses() + r.OpenPositionValue
}
