package backtest

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Simulator drives one backtest run day by day: it feeds the broker,
// classifies directions, runs swing detection, evaluates the strategy
// rules and records the worksheet. One Simulator owns one annotated series
// and one broker; nothing is shared across runs.
type Simulator struct {
	ticker   string
	series   []AnnotatedBar
	broker   *Broker
	strategy Strategy
	swings   swingState

	currentIndex int

	current52WeekHigh       float64
	current52WeekLow        float64
	current52WeekPercentage float64

	currentStopPrice float64

	lastIntermediateLowDate  time.Time
	lastIntermediateHighDate time.Time

	// Most recent confirmed swing level per scale, carried into every
	// worksheet row.
	shortTermLow     float64
	shortTermHigh    float64
	intermediateLow  float64
	intermediateHigh float64
	longTermLow      float64
	longTermHigh     float64
}

// NewSimulator validates the price history, pre-computes the indicator
// passes and returns a simulator ready to run. The indicator passes are
// independent of each other; they run sequentially here because each one
// is an inherently serial recurrence anyway.
func NewSimulator(ticker string, bars []PriceBar, broker *Broker, strategy Strategy) (*Simulator, error) {
	series, err := NewSeries(bars)
	if err != nil {
		return nil, err
	}

	PopulateADX(series)
	PopulateOBV(series)
	PopulateEMA(series)

	return &Simulator{
		ticker:   ticker,
		series:   series,
		broker:   broker,
		strategy: strategy,
	}, nil
}

func (s *Simulator) today() *AnnotatedBar {
	return &s.series[s.currentIndex]
}

// Run executes the simulation over every day after the first and returns
// the worksheet and summary statistics. A run is all-or-nothing: the first
// invariant violation aborts it.
func (s *Simulator) Run() (*Results, error) {
	logrus.Infof("backtest start: %v, %v bars", s.ticker, len(s.series))

	results := &Results{Worksheet: make([]WorksheetEntry, 0, len(s.series)-1)}

	for s.currentIndex = 1; s.currentIndex < len(s.series); s.currentIndex++ {
		today := s.today()

		if err := s.broker.ProcessOrdersForToday(today); err != nil {
			return nil, err
		}

		direction, err := ClassifyDirection(s.series, s.currentIndex)
		if err != nil {
			return nil, err
		}
		today.Direction = direction

		s.update52WeekValues()

		if s.currentIndex >= 3 && today.Direction == Down {
			s.swings.lookForShortTermHigh(s.series, s.currentIndex)
		}
		if s.currentIndex >= 3 && today.Direction == Up {
			s.swings.lookForShortTermLow(s.series, s.currentIndex)
		}
		s.updateSwingLevels()

		if s.currentIndex > s.strategy.WarmupDays {
			if s.broker.PositionSize() == 0 {
				if err := s.lookForEntrance(); err != nil {
					return nil, err
				}
			} else {
				increased, err := s.lookForPyramidIncrease()
				if err != nil {
					return nil, err
				}
				if !increased {
					if err := s.adjustStopOrder(); err != nil {
						return nil, err
					}
				}
			}
		}

		if today.ConfirmsIntermediateLow {
			s.lastIntermediateLowDate = today.Date
		}
		if today.ConfirmsIntermediateHigh {
			s.lastIntermediateHighDate = today.Date
		}

		results.Worksheet = append(results.Worksheet, s.worksheetEntry())
	}

	results.EndingBalance = s.broker.CurrentBalance()
	results.InitialBalance = s.broker.InitialBalance()
	results.HighestBalance = s.broker.HighestBalance()
	results.LowestBalance = s.broker.LowestBalance()
	results.NumLongPositions = s.broker.NumLongPositions()
	results.NumShortPositions = s.broker.NumShortPositions()
	results.NumTrades = s.broker.NumTrades()
	results.NetProfitsFromLongPositions = s.broker.NetProfitsFromLongPositions()
	results.NetProfitsFromShortPositions = s.broker.NetProfitsFromShortPositions()
	results.OpenPositionSize = s.broker.PositionSize()
	results.OpenPositionValue = float64(results.OpenPositionSize) * s.series[len(s.series)-1].Close
	results.TotalBrokerageFees = float64(results.NumTrades) * s.broker.Fee()

	logrus.Infof("backtest end: %v, balance %v -> %v, trades %v",
		s.ticker, results.InitialBalance, results.EndingBalance, results.NumTrades)

	return results, nil
}

// update52WeekValues recomputes the rolling 52-week band and where today's
// close sits inside it. The window is every bar within 365 calendar days
// up to and including today.
func (s *Simulator) update52WeekValues() {
	today := s.today()

	high := today.High
	low := today.Low
	for i := s.currentIndex; i >= 0; i-- {
		if today.Date.Sub(s.series[i].Date) >= 365*24*time.Hour {
			break
		}
		if s.series[i].High > high {
			high = s.series[i].High
		}
		if s.series[i].Low < low {
			low = s.series[i].Low
		}
	}

	s.current52WeekHigh = high
	s.current52WeekLow = low
	s.current52WeekPercentage = (today.Close - low) / (high - low)
}

// updateSwingLevels carries freshly confirmed swing values into the sticky
// per-scale levels used by the worksheet and the entry rules.
func (s *Simulator) updateSwingLevels() {
	today := s.today()

	if today.ConfirmsShortTermLow {
		s.shortTermLow, _ = last(s.swings.shortTermLows)
	}
	if today.ConfirmsShortTermHigh {
		s.shortTermHigh, _ = last(s.swings.shortTermHighs)
	}
	if today.ConfirmsIntermediateLow {
		s.intermediateLow, _ = last(s.swings.intermediateLows)
	}
	if today.ConfirmsIntermediateHigh {
		s.intermediateHigh, _ = last(s.swings.intermediateHighs)
	}
	if today.ConfirmsLongTermLow {
		s.longTermLow, _ = last(s.swings.longTermLows)
	}
	if today.ConfirmsLongTermHigh {
		s.longTermHigh, _ = last(s.swings.longTermHighs)
	}
}

func (s *Simulator) worksheetEntry() WorksheetEntry {
	today := s.today()

	entry := WorksheetEntry{
		Date:   today.Date,
		Open:   today.Open,
		High:   today.High,
		Low:    today.Low,
		Close:  today.Close,
		Volume: today.Volume,

		PriceDirection: today.Direction.String(),
		Adx:            today.Adx,
		AdxDirection:   today.AdxDirection().String(),

		FiftyTwoWeekHigh:       s.current52WeekHigh,
		FiftyTwoWeekLow:        s.current52WeekLow,
		FiftyTwoWeekPercentage: s.current52WeekPercentage,

		ShortTermLow:     s.shortTermLow,
		ShortTermHigh:    s.shortTermHigh,
		IntermediateLow:  s.intermediateLow,
		IntermediateHigh: s.intermediateHigh,
		LongTermLow:      s.longTermLow,
		LongTermHigh:     s.longTermHigh,

		VolatilityRange: today.VolatilityRange(),

		CurrentPositionSize: s.broker.PositionSize(),
		CurrentBalance:      s.broker.CurrentBalance(),

		OnBalanceVolume:         today.OnBalanceVolume,
		OnBalanceVolumeStrength: today.ObvStrength,
		Ema5:                    today.Ema5,
		Ema20:                   today.Ema20,
	}

	if s.broker.PositionSize() != 0 {
		entry.CurrentStop = s.currentStopPrice
	}

	return entry
}

// lookForEntrance places a long entry when today sets up a higher low.
// Short entries are left to the policy layer; the reference policy is
// long-only.
func (s *Simulator) lookForEntrance() error {
	if !s.isTodayALongSetup() {
		return nil
	}

	quantity := int(s.strategy.EntryBudget / (s.today().High + 0.05))
	return s.placeOrderForLongPosition(quantity, false)
}

// isTodayALongSetup reports whether today confirms a second-consecutive
// higher low with the intermediate trend pointing up: today is a potential
// higher low, the most recent intermediate swing was a low, and the last
// short-term low itself sits in a rising fractal against today's low.
func (s *Simulator) isTodayALongSetup() bool {
	n := len(s.swings.shortTermLows)
	if n < 2 {
		return false
	}
	return s.isTodayPotentialHigherLow() &&
		s.lastIntermediateHighDate.Before(s.lastIntermediateLowDate) &&
		isLowSwingPoint(s.swings.shortTermLows[n-1], s.swings.shortTermLows[n-2], s.today().Low)
}

// isTodayPotentialHigherLow reports whether today is a down day that would
// become a low swing point if tomorrow reverses, holding above the last
// confirmed short-term low.
func (s *Simulator) isTodayPotentialHigherLow() bool {
	lastLow, ok := last(s.swings.shortTermLows)
	if !ok {
		return false
	}

	today := s.today()
	priorDayIndex := PriorNonInsideIndex(s.series, s.currentIndex)

	return today.Direction == Down &&
		isLowSwingPoint(today.Low, s.series[priorDayIndex].Low, today.Low+1.0) &&
		today.Low > lastLow
}

// lookForPyramidIncrease adds to an open position when the swing structure
// keeps confirming it and the position sits on a rung of the pyramid
// ladder. Returns true when an add-on order was placed.
func (s *Simulator) lookForPyramidIncrease() (bool, error) {
	nextLevel := s.strategy.nextPyramidLevel(s.broker.PositionSize())
	if nextLevel == 0 {
		return false, nil
	}

	today := s.today()

	if today.ConfirmsIntermediateHigh && s.broker.PositionSize() < 0 {
		if err := s.placeOrderForShortPosition(nextLevel, true); err != nil {
			return false, err
		}
		return true, nil
	}

	n := len(s.swings.shortTermLows)
	if today.ConfirmsShortTermLow && s.broker.PositionSize() > 0 &&
		n >= 2 && s.swings.shortTermLows[n-1] > s.swings.shortTermLows[n-2] {
		if err := s.placeOrderForLongPosition(nextLevel, true); err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}

// placeOrderForLongPosition queues a stop-entry buy above today's high
// carrying a conditional protective sell stop sized to flatten the
// eventual position.
func (s *Simulator) placeOrderForLongPosition(quantity int, replaceCurrentStop bool) error {
	today := s.today()

	stopOrder := &Order{
		ID:              s.broker.NextOrderID(),
		Action:          Sell,
		ActivationPrice: s.calculateStopPriceForLongPosition(),
		GoodUntil:       today.Date.AddDate(1, 0, 0),
		Position:        Long,
		Quantity:        quantity + abs(s.broker.PositionSize()),
		Type:            StopMarket,
	}
	order := &Order{
		ID:              s.broker.NextOrderID(),
		Action:          Buy,
		ActivationPrice: today.High * s.strategy.EntryActivationFactor,
		GoodUntil:       today.Date.AddDate(0, 0, 1),
		Position:        Long,
		Quantity:        quantity,
		Type:            StopMarket,
		ConditionalID:   stopOrder.ID,
	}

	if replaceCurrentStop {
		currentStopID, err := s.currentStopOrderID()
		if err != nil {
			return err
		}
		stopOrder.ReplacesID = currentStopID
	}

	s.broker.Register(stopOrder)
	s.currentStopPrice = stopOrder.ActivationPrice
	return s.broker.QueueOrder(order)
}

// placeOrderForShortPosition queues a market sell carrying a conditional
// protective buy stop above the best resistance level.
func (s *Simulator) placeOrderForShortPosition(quantity int, replaceCurrentStop bool) error {
	today := s.today()

	stopOrder := &Order{
		ID:              s.broker.NextOrderID(),
		Action:          Buy,
		ActivationPrice: s.calculateStopPriceForShortPosition(),
		GoodUntil:       today.Date.AddDate(1, 0, 0),
		Position:        Short,
		Quantity:        quantity + abs(s.broker.PositionSize()),
		Type:            StopMarket,
	}
	order := &Order{
		ID:            s.broker.NextOrderID(),
		Action:        Sell,
		GoodUntil:     today.Date.AddDate(0, 0, 1),
		Position:      Short,
		Quantity:      quantity,
		Type:          Market,
		ConditionalID: stopOrder.ID,
	}

	if replaceCurrentStop {
		currentStopID, err := s.currentStopOrderID()
		if err != nil {
			return err
		}
		stopOrder.ReplacesID = currentStopID
	}

	s.broker.Register(stopOrder)
	s.currentStopPrice = stopOrder.ActivationPrice
	return s.broker.QueueOrder(order)
}

// adjustStopOrder ratchets the live protective stop in the favorable
// direction only: higher for longs, lower for shorts. A stop never
// loosens.
func (s *Simulator) adjustStopOrder() error {
	if s.broker.PositionSize() > 0 {
		adjusted := s.calculateStopPriceForLongPosition()
		if adjusted > s.currentStopPrice {
			return s.replaceStopOrder(Sell, Long, adjusted)
		}
	}
	if s.broker.PositionSize() < 0 {
		adjusted := s.calculateStopPriceForShortPosition()
		if adjusted < s.currentStopPrice {
			return s.replaceStopOrder(Buy, Short, adjusted)
		}
	}
	return nil
}

func (s *Simulator) replaceStopOrder(action Action, position Position, stopPrice float64) error {
	currentStopID, err := s.currentStopOrderID()
	if err != nil {
		return err
	}

	order := &Order{
		ID:              s.broker.NextOrderID(),
		Action:          action,
		ActivationPrice: stopPrice,
		GoodUntil:       s.today().Date.AddDate(1, 0, 0),
		Position:        position,
		Quantity:        abs(s.broker.PositionSize()),
		Type:            StopMarket,
		ReplacesID:      currentStopID,
	}

	if err := s.broker.QueueOrder(order); err != nil {
		return err
	}
	s.currentStopPrice = stopPrice
	return nil
}

func (s *Simulator) calculateStopPriceForLongPosition() float64 {
	return s.today().Low - s.strategy.StopOffset
}

func (s *Simulator) calculateStopPriceForShortPosition() float64 {
	resistance, _ := last(s.swings.shortTermHighs)
	return resistance + 0.1*s.today().VolatilityRange()
}

// currentStopOrderID finds the live protective stop in the pending book.
// An open position without a queued stop is a logic error.
func (s *Simulator) currentStopOrderID() (int64, error) {
	for _, order := range s.broker.PendingOrders() {
		if order.Type == StopMarket {
			return order.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: open position without a queued stop at index %d", ErrInvariant, s.currentIndex)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
