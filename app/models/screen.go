package models

import (
	"github.com/markcheno/go-talib"
	"github.com/sirupsen/logrus"
)

// Trade actions
const (
	BUY     = "BUY"
	SELL    = "SELL"
	NOTRADE = "NO"
)

// EmaCrossSignal is one EMA cross screening hit, also used as json
type EmaCrossSignal struct {
	ID     int    `gorm:"primary_key" json:"-"`
	Symbol string `json:"symbol"`
	Time   int64  `json:"time"`
	Action string `json:"action"`
}

// ScreenEmaCross runs the EMA cross screen over the frame's candles:
// a BUY when the short EMA crosses above the long one, a SELL when it
// crosses below. Crosses inside the long warm-up window are skipped.
func (cframe *CandleFrame) ScreenEmaCross(short, long int) []EmaCrossSignal {
	closes := cframe.Closes()
	if len(closes) <= long {
		return nil
	}

	shortEma := talib.Ema(closes, short)
	longEma := talib.Ema(closes, long)

	var signals []EmaCrossSignal
	for i := long + 1; i < len(closes); i++ {
		if shortEma[i-1] < longEma[i-1] && shortEma[i] >= longEma[i] {
			signals = append(signals, EmaCrossSignal{
				Symbol: cframe.Symbol,
				Time:   cframe.Candles[i].Time,
				Action: BUY,
			})
		}
		if shortEma[i-1] > longEma[i-1] && shortEma[i] <= longEma[i] {
			signals = append(signals, EmaCrossSignal{
				Symbol: cframe.Symbol,
				Time:   cframe.Candles[i].Time,
				Action: SELL,
			})
		}
	}
	return signals
}

// CreateEmaCrossSignals stores screening hits
func CreateEmaCrossSignals(signals []EmaCrossSignal) {
	if len(signals) == 0 {
		return
	}
	DB.Create(&signals)
}

// GetSignalFrame returns SignalFrame including the screening hits for symbol
func GetSignalFrame(symbol string) *SignalFrame {
	signals := []EmaCrossSignal{}
	DB.Where("Symbol = ?", symbol).Order("time").Find(&signals)
	return &SignalFrame{Signals: signals}
}

// Trade represents whether today is "buy" or "sell" or "no trade"
type Trade struct {
	LastTrade string `json:"last_trade"`
	IsToday   bool   `json:"today"`
}

// GetTradeState returns Trade, after examining today trading,
// the symbol argument is certainly the same to the candle symbol
func GetTradeState(symbol string) *TradeFrame {
	signals := GetSignalFrame(symbol).Signals
	lastCandleTime, err := LastCandleTime()
	if err != nil {
		logrus.Warnf("last candle get error: %v", err)
		return &TradeFrame{Trade: nil}
	}

	trade := Trade{LastTrade: NOTRADE, IsToday: false}
	if len(signals) > 0 {
		last := signals[len(signals)-1]
		trade.LastTrade = last.Action
		trade.IsToday = (last.Time == lastCandleTime)
	}

	return &TradeFrame{Trade: &trade}
}
