package stock

import (
	"sort"

	"github.com/markcheno/go-quote"

	"github.com/oarkflow/swingtrade/backtest"
)

// ToPriceBars converts a downloaded quote into clean daily bars. Rows
// with a zero price or zero volume are non-trading days and are dropped;
// the remaining bars are sorted chronologically so the simulator's input
// contract holds.
func ToPriceBars(q *quote.Quote) []backtest.PriceBar {
	bars := make([]backtest.PriceBar, 0, len(q.Date))
	for i := range q.Date {
		if q.Open[i] == 0 || q.High[i] == 0 || q.Low[i] == 0 || q.Close[i] == 0 {
			continue
		}
		if q.Volume[i] == 0 {
			continue
		}
		bars = append(bars, backtest.PriceBar{
			Date:   q.Date[i],
			Open:   q.Open[i],
			High:   q.High[i],
			Low:    q.Low[i],
			Close:  q.Close[i],
			Volume: int64(q.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars
}
