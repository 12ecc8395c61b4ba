package backtest

// swingState accumulates confirmed swing points across the three time
// scales. Short-term points are confirmed from raw bars, intermediate
// points from runs of short-term points, and long-term points from runs of
// intermediate points; each level needs at least 3 accumulated points
// below it before a confirmation can cascade upward.
type swingState struct {
	shortTermLows     []float64
	shortTermHighs    []float64
	intermediateLows  []float64
	intermediateHighs []float64
	longTermLows      []float64
	longTermHighs     []float64
}

// isLowSwingPoint reports whether price is a local minimum between its
// neighbors. The asymmetric comparison (<= prior, strictly < next) keeps
// flat-bottomed retests counting as a single swing point.
func isLowSwingPoint(price, priorPrice, nextPrice float64) bool {
	return price <= priorPrice && price < nextPrice
}

func isHighSwingPoint(price, priorPrice, nextPrice float64) bool {
	return price >= priorPrice && price > nextPrice
}

// lookForShortTermLow tests, on an up day, whether the nearest prior
// non-inside day put in a short-term low against its own neighbors. A
// confirmation is recorded on today's bar (confirmation is always delayed;
// a minimum is only knowable after the reversal) and cascades into the
// intermediate and long-term sequences.
func (sw *swingState) lookForShortTermLow(series []AnnotatedBar, index int) {
	middle := PriorNonInsideIndex(series, index)
	prior := PriorNonInsideIndex(series, middle)

	if isLowSwingPoint(series[middle].Low, series[prior].Low, series[index].Low) {
		series[index].ConfirmsShortTermLow = true
		sw.shortTermLows = append(sw.shortTermLows, series[middle].Low)
		sw.lookForIntermediateLow(series, index)
	}
}

func (sw *swingState) lookForIntermediateLow(series []AnnotatedBar, index int) {
	n := len(sw.shortTermLows)
	if n >= 3 && isLowSwingPoint(sw.shortTermLows[n-2], sw.shortTermLows[n-3], sw.shortTermLows[n-1]) {
		series[index].ConfirmsIntermediateLow = true
		sw.intermediateLows = append(sw.intermediateLows, sw.shortTermLows[n-2])
		sw.lookForLongTermLow(series, index)
	}
}

func (sw *swingState) lookForLongTermLow(series []AnnotatedBar, index int) {
	n := len(sw.intermediateLows)
	if n >= 3 && isLowSwingPoint(sw.intermediateLows[n-2], sw.intermediateLows[n-3], sw.intermediateLows[n-1]) {
		series[index].ConfirmsLongTermLow = true
		sw.longTermLows = append(sw.longTermLows, sw.intermediateLows[n-2])
	}
}

// lookForShortTermHigh mirrors lookForShortTermLow on down days.
func (sw *swingState) lookForShortTermHigh(series []AnnotatedBar, index int) {
	middle := PriorNonInsideIndex(series, index)
	prior := PriorNonInsideIndex(series, middle)

	if isHighSwingPoint(series[middle].High, series[prior].High, series[index].High) {
		series[index].ConfirmsShortTermHigh = true
		sw.shortTermHighs = append(sw.shortTermHighs, series[middle].High)
		sw.lookForIntermediateHigh(series, index)
	}
}

func (sw *swingState) lookForIntermediateHigh(series []AnnotatedBar, index int) {
	n := len(sw.shortTermHighs)
	if n >= 3 && isHighSwingPoint(sw.shortTermHighs[n-2], sw.shortTermHighs[n-3], sw.shortTermHighs[n-1]) {
		series[index].ConfirmsIntermediateHigh = true
		sw.intermediateHighs = append(sw.intermediateHighs, sw.shortTermHighs[n-2])
		sw.lookForLongTermHigh(series, index)
	}
}

func (sw *swingState) lookForLongTermHigh(series []AnnotatedBar, index int) {
	n := len(sw.intermediateHighs)
	if n >= 3 && isHighSwingPoint(sw.intermediateHighs[n-2], sw.intermediateHighs[n-3], sw.intermediateHighs[n-1]) {
		series[index].ConfirmsLongTermHigh = true
		sw.longTermHighs = append(sw.longTermHighs, sw.intermediateHighs[n-2])
	}
}

func last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}
