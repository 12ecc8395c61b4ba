package backtest

import "fmt"

// DefaultBrokerageFee is the flat fee applied to every filled order.
const DefaultBrokerageFee = 9.99

// Broker simulates a stock broker for one backtest run: it keeps the
// account balance, the open position and the book of pending orders, and
// fills them against each day's prices. A Broker is owned by a single
// simulation and is not safe for concurrent use.
type Broker struct {
	fee float64

	initialBalance float64
	currentBalance float64
	highestBalance float64
	lowestBalance  float64

	positionSize int

	numLongPositions  int
	numShortPositions int
	numTrades         int

	netProfitsLong  float64
	netProfitsShort float64

	lastOrderID int64
	arena       map[int64]*Order
	pending     []int64
}

// NewBroker returns a broker with the given starting balance and flat
// brokerage fee. Pass DefaultBrokerageFee unless the strategy config says
// otherwise.
func NewBroker(initialBalance, fee float64) *Broker {
	return &Broker{
		fee:            fee,
		initialBalance: initialBalance,
		currentBalance: initialBalance,
		highestBalance: initialBalance,
		lowestBalance:  initialBalance,
		arena:          make(map[int64]*Order),
	}
}

// CurrentBalance is the account balance right now.
func (b *Broker) CurrentBalance() float64 { return b.currentBalance }

// InitialBalance is the balance the account started with.
func (b *Broker) InitialBalance() float64 { return b.initialBalance }

// HighestBalance is the running high watermark.
func (b *Broker) HighestBalance() float64 { return b.highestBalance }

// LowestBalance is the running low watermark.
func (b *Broker) LowestBalance() float64 { return b.lowestBalance }

// PositionSize is the signed open position: positive long, negative short.
func (b *Broker) PositionSize() int { return b.positionSize }

// NumLongPositions counts buy fills tagged Long.
func (b *Broker) NumLongPositions() int { return b.numLongPositions }

// NumShortPositions counts sell fills tagged Short.
func (b *Broker) NumShortPositions() int { return b.numShortPositions }

// NumTrades counts all fills.
func (b *Broker) NumTrades() int { return b.numTrades }

// NetProfitsFromLongPositions accumulates fills attributed to the long side.
func (b *Broker) NetProfitsFromLongPositions() float64 { return b.netProfitsLong }

// NetProfitsFromShortPositions accumulates fills attributed to the short side.
func (b *Broker) NetProfitsFromShortPositions() float64 { return b.netProfitsShort }

// Fee is the flat per-fill brokerage fee.
func (b *Broker) Fee() float64 { return b.fee }

// NextOrderID issues a fresh, monotonically increasing order ID.
func (b *Broker) NextOrderID() int64 {
	b.lastOrderID++
	return b.lastOrderID
}

// Register places an order into the arena without queuing it. Conditional
// orders are registered up front so the parent can reference them by ID.
func (b *Broker) Register(order *Order) {
	b.arena[order.ID] = order
}

// PendingOrders returns the queued orders in queue order.
func (b *Broker) PendingOrders() []*Order {
	orders := make([]*Order, 0, len(b.pending))
	for _, id := range b.pending {
		orders = append(orders, b.arena[id])
	}
	return orders
}

// QueueOrder registers the order and adds it to the pending book. When the
// order carries a replacement link the linked order is canceled first, so
// the replacement is atomic from the simulation's point of view.
func (b *Broker) QueueOrder(order *Order) error {
	if order.ReplacesID != 0 {
		if _, ok := b.arena[order.ReplacesID]; !ok {
			return fmt.Errorf("%w: order %d replaces unknown order %d", ErrInvariant, order.ID, order.ReplacesID)
		}
		b.CancelOrder(order.ReplacesID)
	}

	b.arena[order.ID] = order
	order.Pending = true
	b.pending = append(b.pending, order.ID)
	return nil
}

// CancelOrder removes all pending orders with the given ID. It is
// idempotent; canceling an absent order is a no-op.
func (b *Broker) CancelOrder(orderID int64) {
	kept := b.pending[:0]
	for _, id := range b.pending {
		if id == orderID {
			b.arena[id].Pending = false
			continue
		}
		kept = append(kept, id)
	}
	b.pending = kept
}

// ProcessOrdersForToday fills today's orders against the given bar: first
// all pending market orders at the open, then the stop orders against the
// low/high. The stop pass works from the book as it stands after the
// market fills, so a protective stop queued by a market fill is live
// against the same day's range; a stop queued during the stop pass itself
// waits for the next day. After both passes the balance watermarks are
// updated and every non-pending order is purged from the book.
func (b *Broker) ProcessOrdersForToday(bar *AnnotatedBar) error {
	marketSnapshot := append([]int64(nil), b.pending...)

	for _, id := range marketSnapshot {
		order := b.arena[id]
		if !order.Pending || order.Type != Market {
			continue
		}
		var err error
		switch order.Action {
		case Sell:
			err = b.fillSell(order, bar.Open)
		case Buy:
			err = b.fillBuy(order, bar.Open)
		}
		if err != nil {
			return err
		}
		// Rejected market buys are dropped along with the fills.
		order.Pending = false
	}

	stopSnapshot := append([]int64(nil), b.pending...)

	for _, id := range stopSnapshot {
		order := b.arena[id]
		if !order.Pending || order.Type != StopMarket {
			continue
		}
		switch order.Action {
		case Sell:
			if bar.Low <= order.ActivationPrice {
				if err := b.fillSell(order, order.ActivationPrice); err != nil {
					return err
				}
				order.Pending = false
			}
		case Buy:
			if bar.High >= order.ActivationPrice {
				if err := b.fillBuy(order, order.ActivationPrice); err != nil {
					return err
				}
				order.Pending = false
			}
		}
	}

	if b.currentBalance > b.highestBalance {
		b.highestBalance = b.currentBalance
	}
	if b.currentBalance < b.lowestBalance {
		b.lowestBalance = b.currentBalance
	}

	kept := b.pending[:0]
	for _, id := range b.pending {
		if b.arena[id].Pending {
			kept = append(kept, id)
		}
	}
	b.pending = kept

	return nil
}

// fillBuy debits the account for a buy. A buy whose cost exceeds the
// balance is rejected: no fill, no fee, no conditional; the caller decides
// whether the order stays queued.
func (b *Broker) fillBuy(order *Order, price float64) error {
	cost := float64(order.Quantity) * price
	if cost > b.currentBalance {
		return nil
	}

	b.currentBalance -= cost
	b.currentBalance -= b.fee
	b.positionSize += order.Quantity
	b.numTrades++

	if order.Position == Long {
		b.numLongPositions++
		b.netProfitsLong -= cost
	} else {
		b.netProfitsShort -= cost
	}

	return b.queueConditional(order)
}

// fillSell credits the account for a sell. Sells are never balance-checked;
// shorting is assumed permitted.
func (b *Broker) fillSell(order *Order, price float64) error {
	proceeds := float64(order.Quantity) * price
	b.currentBalance += proceeds
	b.currentBalance -= b.fee
	b.positionSize -= order.Quantity
	b.numTrades++

	if order.Position == Short {
		b.numShortPositions++
		b.netProfitsShort += proceeds
	} else {
		b.netProfitsLong += proceeds
	}

	return b.queueConditional(order)
}

func (b *Broker) queueConditional(order *Order) error {
	if order.ConditionalID == 0 {
		return nil
	}
	conditional, ok := b.arena[order.ConditionalID]
	if !ok {
		return fmt.Errorf("%w: order %d carries unknown conditional %d", ErrInvariant, order.ID, order.ConditionalID)
	}
	return b.QueueOrder(conditional)
}
