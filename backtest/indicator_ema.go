package backtest

// PopulateEMA runs the 5-day and 20-day exponential moving averages of the
// close over the series in one forward pass, along with the cross-over
// direction of the pair. Each average is 0 until its window fills, a plain
// average of the first window closes at the boundary, and an exponential
// recurrence afterwards.
func PopulateEMA(series []AnnotatedBar) {
	for i := 1; i < len(series); i++ {
		today := &series[i]

		today.Ema5 = ema(series, i, 5, 0.8, 0.2, func(b *AnnotatedBar) float64 { return b.Ema5 })
		today.Ema20 = ema(series, i, 20, 0.95, 0.05, func(b *AnnotatedBar) float64 { return b.Ema20 })
		today.EmaCrossDirection = emaCrossDirection(today)
	}
}

func ema(series []AnnotatedBar, index, window int, carry, weight float64, prev func(*AnnotatedBar) float64) float64 {
	if index < window {
		return 0
	}
	if index == window {
		sum := 0.0
		for i := 1; i <= window; i++ {
			sum += series[i].Close
		}
		return sum / float64(window)
	}
	return prev(&series[index-1])*carry + series[index].Close*weight
}

func emaCrossDirection(today *AnnotatedBar) Direction {
	if today.Ema5 > today.Ema20 {
		return Up
	}
	if today.Ema5 < today.Ema20 {
		return Down
	}
	return Uncalculated
}
