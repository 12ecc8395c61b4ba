package backtest

import "time"

// Action is what an order does when it fills.
type Action int

const (
	// Buy opens a long position or closes a short one.
	Buy Action = iota
	// Sell closes a long position or opens a short one.
	Sell
)

// OrderType selects how an order is triggered.
type OrderType int

const (
	// Market executes at the current day's open.
	Market OrderType = iota
	// StopMarket executes at the activation price once it is hit.
	StopMarket
)

// Position tags the side of the position an order relates to. Profit and
// loss statistics are attributed by this tag, not by the buy/sell action;
// an inconsistently tagged order mis-attributes P/L without affecting the
// balance, and that behavior is pinned by tests.
type Position int

const (
	// Long position.
	Long Position = iota
	// Short position.
	Short
)

// Order is a transaction request placed with the Broker. Orders live in
// the broker's arena keyed by ID; the conditional and replacement links
// are IDs resolved through the arena, which keeps the order graph
// serializable for debugging and replay.
type Order struct {
	ID              int64
	Action          Action
	Type            OrderType
	Position        Position
	Quantity        int
	ActivationPrice float64
	GoodUntil       time.Time
	Pending         bool

	// ConditionalID is queued automatically when this order fills.
	ConditionalID int64
	// ReplacesID is canceled when this order is queued.
	ReplacesID int64
}
