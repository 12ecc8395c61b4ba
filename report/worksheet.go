package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/oarkflow/errors"
	"github.com/oarkflow/gologger"

	"github.com/oarkflow/swingtrade/backtest"
)

// worksheetColumns is the fixed column order for exported worksheets. Keep
// it stable: downstream spreadsheets and regression fixtures key off it.
var worksheetColumns = []string{
	"Date",
	"Open",
	"High",
	"Low",
	"Close",
	"Volume",
	"Direction",
	"ADX",
	"ADXDirection",
	"52WeekHigh",
	"52WeekLow",
	"52WeekPct",
	"ShortTermLow",
	"ShortTermHigh",
	"IntermediateLow",
	"IntermediateHigh",
	"LongTermLow",
	"LongTermHigh",
	"VolatilityRange",
	"PositionSize",
	"Balance",
	"CurrentStop",
	"OBV",
	"OBVStrength",
	"EMA5",
	"EMA20",
}

// Header returns the CSV header row for a worksheet export.
func Header() []string {
	return worksheetColumns
}

// Row flattens one worksheet entry into strings matching Header order.
func Row(e *backtest.WorksheetEntry) []string {
	return []string{
		e.Date.Format(time.DateOnly),
		formatPrice(e.Open),
		formatPrice(e.High),
		formatPrice(e.Low),
		formatPrice(e.Close),
		strconv.FormatInt(e.Volume, 10),
		e.PriceDirection,
		formatPrice(e.Adx),
		e.AdxDirection,
		formatPrice(e.FiftyTwoWeekHigh),
		formatPrice(e.FiftyTwoWeekLow),
		formatPrice(e.FiftyTwoWeekPercentage),
		formatPrice(e.ShortTermLow),
		formatPrice(e.ShortTermHigh),
		formatPrice(e.IntermediateLow),
		formatPrice(e.IntermediateHigh),
		formatPrice(e.LongTermLow),
		formatPrice(e.LongTermHigh),
		formatPrice(e.VolatilityRange),
		strconv.Itoa(e.CurrentPositionSize),
		formatPrice(e.CurrentBalance),
		formatPrice(e.CurrentStop),
		strconv.FormatInt(e.OnBalanceVolume, 10),
		formatPrice(e.OnBalanceVolumeStrength),
		formatPrice(e.Ema5),
		formatPrice(e.Ema20),
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportCsv writes the full worksheet to fileName, one row per simulated
// day in chronological order.
func ExportCsv(fileName string, worksheet []backtest.WorksheetEntry) error {
	writer, err := gologger.New(fileName, 3000)
	if err != nil {
		return errors.NewE(err, "unable to open worksheet file", "")
	}

	writer.WriteString(strings.Join(Header(), ","))
	for i := range worksheet {
		writer.WriteString(strings.Join(Row(&worksheet[i]), ","))
	}

	return nil
}
