package models

import (
	"encoding/json"
	"time"

	"github.com/oarkflow/errors"
	"github.com/oarkflow/xid"

	"github.com/oarkflow/swingtrade/backtest"
	"github.com/oarkflow/swingtrade/config"
	"github.com/oarkflow/swingtrade/utils"
)

// BacktestParam recieves some parameters used for backtest at json
type BacktestParam struct {
	Symbol  string  `json:"symbol"`
	Period  int     `json:"period"`
	Balance float64 `json:"balance"`
	Fee     float64 `json:"fee"`
}

// BackTest excecutes backtest over the stored candles.
// Caution, the Symbol in BacktestParam is the same to ticker symbol of the candle data,
// if those are different, deal with frontend process
func (bp *BacktestParam) BackTest() (*BacktestRun, error) {
	DeleteRunResults(bp.Symbol)

	balance := bp.Balance
	if balance == 0 {
		balance = config.Config.InitialBalance
	}
	fee := bp.Fee
	if fee == 0 {
		fee = config.Config.BrokerageFee
	}

	cframe := GetCandleFrame(bp.Symbol, bp.Period)
	broker := backtest.NewBroker(balance, fee)
	sim, err := backtest.NewSimulator(bp.Symbol, cframe.PriceBars(), broker, backtest.DefaultStrategy())
	if err != nil {
		return nil, errors.NewE(err, "simulator setup failed", "")
	}

	results, err := sim.Run()
	if err != nil {
		return nil, errors.NewE(err, "backtest run failed", "")
	}

	worksheet, err := json.Marshal(results.Worksheet)
	if err != nil {
		return nil, errors.NewE(err, "worksheet encode failed", "")
	}

	run := BacktestRun{
		RunID:                        xid.New().String(),
		Timestamp:                    time.Now().Unix() * 1000,
		Symbol:                       bp.Symbol,
		InitialBalance:               results.InitialBalance,
		EndingBalance:                results.EndingBalance,
		HighestBalance:               results.HighestBalance,
		LowestBalance:                results.LowestBalance,
		NumTrades:                    results.NumTrades,
		NumLongPositions:             results.NumLongPositions,
		NumShortPositions:            results.NumShortPositions,
		NetProfitsFromLongPositions:  results.NetProfitsFromLongPositions,
		NetProfitsFromShortPositions: results.NetProfitsFromShortPositions,
		TotalBrokerageFees:           results.TotalBrokerageFees,
		OpenPositionSize:             results.OpenPositionSize,
		OpenPositionValue:            results.OpenPositionValue,
		Worksheet:                    utils.ToCompressedString(worksheet),
	}

	return &run, nil
}

// BacktestRun is one stored backtest run: the summary columns plus the
// full worksheet as a compressed blob.
type BacktestRun struct {
	ID                           int     `gorm:"primary_key" json:"-"`
	RunID                        string  `json:"run_id"`
	Timestamp                    int64   `json:"timestamp"`
	Symbol                       string  `json:"symbol"`
	InitialBalance               float64 `json:"initial_balance"`
	EndingBalance                float64 `json:"ending_balance"`
	HighestBalance               float64 `json:"highest_balance"`
	LowestBalance                float64 `json:"lowest_balance"`
	NumTrades                    int     `json:"num_trades"`
	NumLongPositions             int     `json:"num_long_positions"`
	NumShortPositions            int     `json:"num_short_positions"`
	NetProfitsFromLongPositions  float64 `json:"net_profits_long"`
	NetProfitsFromShortPositions float64 `json:"net_profits_short"`
	TotalBrokerageFees           float64 `json:"total_brokerage_fees"`
	OpenPositionSize             int     `json:"open_position_size"`
	OpenPositionValue            float64 `json:"open_position_value"`
	Worksheet                    string  `json:"-"`
}

// WorksheetEntries decodes the stored worksheet blob.
func (run *BacktestRun) WorksheetEntries() ([]backtest.WorksheetEntry, error) {
	raw, err := utils.FromCompressedString(run.Worksheet)
	if err != nil {
		return nil, errors.NewE(err, "worksheet decompress failed", "")
	}

	var entries []backtest.WorksheetEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.NewE(err, "worksheet decode failed", "")
	}
	return entries, nil
}

// DeleteRunResults deletes all exiting runs for symbol
func DeleteRunResults(symbol string) {
	DB.Delete(BacktestRun{}, "Symbol LIKE ?", "%"+symbol+"%")
	DB.Delete(EmaCrossSignal{}, "Symbol LIKE ?", "%"+symbol+"%")
}

// GetRunFrame returns RunFrame including the latest BacktestRun for symbol
func GetRunFrame(symbol string) *RunFrame {
	var run BacktestRun
	var rframe RunFrame

	err := DB.Where(BacktestRun{Symbol: symbol}).Order("timestamp desc").First(&run)
	if err.Error != nil {
		// Not Found
		rframe.Run = nil
		return &rframe
	}

	rframe.Run = &run
	return &rframe
}

// CreateRunResult creates new backtest results, but before create, you delete existing data, beforehand
func (run *BacktestRun) CreateRunResult() error {
	if err := DB.Create(run).Error; err != nil {
		return err
	}
	return nil
}
