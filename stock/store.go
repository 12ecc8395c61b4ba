package stock

import (
	"time"

	bt "github.com/google/btree"

	"github.com/oarkflow/swingtrade/backtest"
)

type barItem struct {
	bar backtest.PriceBar
}

func (it barItem) Less(than bt.Item) bool {
	return it.bar.Date.Before(than.(barItem).bar.Date)
}

// Store is an in-memory price history ordered by date. Re-adding a bar
// for an existing date replaces it, so re-ingesting a corrected file is
// safe.
type Store struct {
	tree *bt.BTree
}

// NewStore returns an empty history store.
func NewStore() *Store {
	return &Store{tree: bt.New(32)}
}

// Add inserts bars into the history, replacing same-date entries.
func (s *Store) Add(bars ...backtest.PriceBar) {
	for _, bar := range bars {
		s.tree.ReplaceOrInsert(barItem{bar: bar})
	}
}

// Len is the number of distinct trading days stored.
func (s *Store) Len() int {
	return s.tree.Len()
}

// All returns every bar in chronological order.
func (s *Store) All() []backtest.PriceBar {
	bars := make([]backtest.PriceBar, 0, s.tree.Len())
	s.tree.Ascend(func(item bt.Item) bool {
		bars = append(bars, item.(barItem).bar)
		return true
	})
	return bars
}

// Range returns the bars with from <= date < to, in chronological order.
func (s *Store) Range(from, to time.Time) []backtest.PriceBar {
	var bars []backtest.PriceBar
	s.tree.AscendRange(barItem{bar: backtest.PriceBar{Date: from}}, barItem{bar: backtest.PriceBar{Date: to}},
		func(item bt.Item) bool {
			bars = append(bars, item.(barItem).bar)
			return true
		})
	return bars
}

// Last returns the most recent n bars in chronological order.
func (s *Store) Last(n int) []backtest.PriceBar {
	if n > s.tree.Len() {
		n = s.tree.Len()
	}
	bars := make([]backtest.PriceBar, n)
	i := n
	s.tree.Descend(func(item bt.Item) bool {
		if i == 0 {
			return false
		}
		i--
		bars[i] = item.(barItem).bar
		return true
	})
	return bars
}
