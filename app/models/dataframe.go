package models

import (
	"github.com/oarkflow/swingtrade/backtest"
)

// DataFrame is data frame including candles, backtest run, signals
type DataFrame struct {
	*CandleFrame
	*RunFrame
	*SignalFrame
	*TradeFrame
}

// NewDataFrame is constructor of DataFrame
func NewDataFrame() *DataFrame {
	return &DataFrame{}
}

// AddCandleFrame adds CandleFrame in DataFrame
func (dframe *DataFrame) AddCandleFrame(symbol string, limit int) {
	dframe.CandleFrame = GetCandleFrame(symbol, limit)
}

// AddRunFrame adds RunFrame in DataFrame
func (dframe *DataFrame) AddRunFrame(symbol string) {
	dframe.RunFrame = GetRunFrame(symbol)
}

// AddSignalFrame adds SignalFrame in DataFrame
func (dframe *DataFrame) AddSignalFrame(symbol string) {
	dframe.SignalFrame = GetSignalFrame(symbol)
}

// AddTradeFrame adds TradeFrame in DataFrame
func (dframe *DataFrame) AddTradeFrame(symbol string) {
	dframe.TradeFrame = GetTradeState(symbol)
}

// RunFrame is the latest backtest run frame
type RunFrame struct {
	Run *BacktestRun `json:"run,omitempty"`
}

// SignalFrame is dataframe of screening signals
type SignalFrame struct {
	Signals []EmaCrossSignal `json:"signals,omitempty"`
}

// TradeFrame is Trade frame
type TradeFrame struct {
	Trade *Trade `json:"trade,omitempty"`
}

// CandleFrame is candle data frame
type CandleFrame struct {
	Symbol  string   `json:"symbol,omitempty"`
	Candles []Candle `json:"candles,omitempty"`
}

// Closes is close prices of candles
func (cframe *CandleFrame) Closes() []float64 {
	closes := make([]float64, len(cframe.Candles))
	for i, candle := range cframe.Candles {
		closes[i] = candle.Close
	}
	return closes
}

// PriceBars converts the frame into simulator input bars. Rows with a
// zero price or zero volume are non-trading placeholders and are dropped,
// matching the CSV ingestion path.
func (cframe *CandleFrame) PriceBars() []backtest.PriceBar {
	bars := make([]backtest.PriceBar, 0, len(cframe.Candles))
	for i := range cframe.Candles {
		c := &cframe.Candles[i]
		if c.Open == 0 || c.High == 0 || c.Low == 0 || c.Close == 0 || c.Volume == 0 {
			continue
		}
		bars = append(bars, c.PriceBar())
	}
	return bars
}
