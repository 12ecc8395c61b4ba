package backtest

import (
	"math"
	"testing"
)

// waveBars builds a deterministic but non-trivial series so the smoothing
// recurrences have something to chew on.
func waveBars(n int) []PriceBar {
	bars := make([]PriceBar, n)
	for i := range bars {
		base := 100 + 10*math.Sin(float64(i)/3) + float64(i)/10
		bars[i] = barAt(i, base, base+2, base-2, base+math.Cos(float64(i)), 1000+int64(i%7)*100)
	}
	return bars
}

func annotatedWave(t *testing.T, n int) []AnnotatedBar {
	t.Helper()
	series, err := NewSeries(waveBars(n))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return series
}

func TestADXSeeding(t *testing.T) {
	series := annotatedWave(t, 40)
	PopulateADX(series)

	for i := 1; i < 14; i++ {
		if series[i].PlusDm14 != 0 || series[i].MinusDm14 != 0 || series[i].TrueRange14 != 0 {
			t.Errorf("smoothed values must be 0 before index 14, got non-zero at %d", i)
		}
		if series[i].PlusDi14 != 0 || series[i].MinusDi14 != 0 || series[i].Dx != 0 {
			t.Errorf("directional indicators must be 0 before index 14, got non-zero at %d", i)
		}
	}
	for i := 1; i < 28; i++ {
		if series[i].Adx != 0 {
			t.Errorf("ADX must be 0 before index 28, got %v at %d", series[i].Adx, i)
		}
	}

	sum := 0.0
	for i := 1; i <= 14; i++ {
		sum += series[i].TrueRange
	}
	if got := series[14].TrueRange14; math.Abs(got-sum/14) > 1e-12 {
		t.Errorf("TR14 at the window boundary must be the plain average, expected %v got %v", sum/14, got)
	}

	sum = 0.0
	for i := 1; i <= 14; i++ {
		sum += series[i].Dx
	}
	if got := series[28].Adx; math.Abs(got-sum/14) > 1e-12 {
		t.Errorf("ADX seed mismatch, expected %v got %v", sum/14, got)
	}
}

func TestADXWilderRecurrence(t *testing.T) {
	series := annotatedWave(t, 40)
	PopulateADX(series)

	want := series[14].TrueRange14*wilderCarry + series[15].TrueRange*wilderNew
	if got := series[15].TrueRange14; math.Abs(got-want) > 1e-12 {
		t.Errorf("TR14 recurrence mismatch, expected %v got %v", want, got)
	}

	want = series[29].Adx
	check := series[28].Adx*wilderCarry + series[29].Dx*wilderNew
	if math.Abs(want-check) > 1e-12 {
		t.Errorf("ADX recurrence mismatch, expected %v got %v", check, want)
	}
}

func TestPlusDmNeverNegative(t *testing.T) {
	series := annotatedWave(t, 40)
	PopulateADX(series)
	for i := 1; i < len(series); i++ {
		if series[i].PlusDm < 0 || series[i].MinusDm < 0 {
			t.Errorf("directional movement must not be negative at %d", i)
		}
		if series[i].PlusDm > 0 && series[i].MinusDm > 0 {
			t.Errorf("at most one directional movement may be non-zero at %d", i)
		}
	}
}

func TestEMASeeding(t *testing.T) {
	series := annotatedWave(t, 30)
	PopulateEMA(series)

	for i := 1; i < 5; i++ {
		if series[i].Ema5 != 0 {
			t.Errorf("EMA5 must be 0 before index 5, got %v at %d", series[i].Ema5, i)
		}
	}
	for i := 1; i < 20; i++ {
		if series[i].Ema20 != 0 {
			t.Errorf("EMA20 must be 0 before index 20, got %v at %d", series[i].Ema20, i)
		}
	}

	sum := 0.0
	for i := 1; i <= 5; i++ {
		sum += series[i].Close
	}
	if got := series[5].Ema5; math.Abs(got-sum/5) > 1e-12 {
		t.Errorf("EMA5 seed must be the plain average, expected %v got %v", sum/5, got)
	}

	sum = 0.0
	for i := 1; i <= 20; i++ {
		sum += series[i].Close
	}
	if got := series[20].Ema20; math.Abs(got-sum/20) > 1e-12 {
		t.Errorf("EMA20 seed must be the plain average, expected %v got %v", sum/20, got)
	}
}

func TestEMARecurrence(t *testing.T) {
	series := annotatedWave(t, 30)
	PopulateEMA(series)

	want := series[5].Ema5*0.8 + series[6].Close*0.2
	if got := series[6].Ema5; math.Abs(got-want) > 1e-12 {
		t.Errorf("EMA5 recurrence mismatch, expected %v got %v", want, got)
	}
	want = series[20].Ema20*0.95 + series[21].Close*0.05
	if got := series[21].Ema20; math.Abs(got-want) > 1e-12 {
		t.Errorf("EMA20 recurrence mismatch, expected %v got %v", want, got)
	}
}

func TestOBVConsistency(t *testing.T) {
	series := annotatedWave(t, 40)
	PopulateOBV(series)

	if series[0].OnBalanceVolume != series[0].Volume {
		t.Fatalf("OBV seed must equal the first day's volume")
	}

	for i := 1; i < len(series); i++ {
		today, yesterday := &series[i], &series[i-1]
		var want int64
		switch {
		case today.Close > yesterday.Close:
			want = yesterday.OnBalanceVolume + today.Volume*int64(today.Close/today.High)
		case today.Close < yesterday.Close:
			want = yesterday.OnBalanceVolume - today.Volume*int64(today.Close/today.Low)
		default:
			want = yesterday.OnBalanceVolume
		}
		if today.OnBalanceVolume != want {
			t.Errorf("OBV mismatch at %d: expected %v got %v", i, want, today.OnBalanceVolume)
		}

		strength := float64(today.OnBalanceVolume-yesterday.OnBalanceVolume) / math.Abs(float64(yesterday.OnBalanceVolume))
		if math.Abs(today.ObvStrength-strength) > 1e-12 {
			t.Errorf("OBV strength mismatch at %d", i)
		}
		switch {
		case strength > 0 && today.ObvDirection != Up:
			t.Errorf("OBV direction should be up at %d", i)
		case strength < 0 && today.ObvDirection != Down:
			t.Errorf("OBV direction should be down at %d", i)
		case strength == 0 && today.ObvDirection != Uncalculated:
			t.Errorf("OBV direction should be uncalculated at %d", i)
		}
	}
}

// The close/high weight truncates to an integer, which gates volume to 0
// or 1 times itself. Kept for parity with the reference worksheets.
func TestOBVIntegerGate(t *testing.T) {
	bars := []PriceBar{
		barAt(0, 10, 11, 9, 10, 500),
		// Close rises but sits below the high: the truncated weight is 0.
		barAt(1, 10, 12, 9, 11, 700),
		// Close rises and equals the high: the weight is 1.
		barAt(2, 11, 13, 10, 13, 900),
	}
	series, err := NewSeries(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	PopulateOBV(series)

	if series[1].OnBalanceVolume != 500 {
		t.Errorf("expected gated OBV 500, got %v", series[1].OnBalanceVolume)
	}
	if series[2].OnBalanceVolume != 1400 {
		t.Errorf("expected OBV 1400, got %v", series[2].OnBalanceVolume)
	}
}
