package backtest

import "testing"

// vShapeBars builds a 300-bar series with a clean V bottom at bar 100:
// strictly falling highs and lows into the bottom, one inside day, then
// strictly rising highs and lows out of it.
func vShapeBars() []PriceBar {
	bars := make([]PriceBar, 300)
	for i := range bars {
		var high, low float64
		switch {
		case i <= 100:
			high = 200 - float64(i)
			low = 190 - float64(i)
		case i == 101:
			high = 99.5
			low = 90.5
		default:
			high = 101 + float64(i-102)
			low = 91 + float64(i-102)
		}
		bars[i] = barAt(i, (high+low)/2, high, low, (high+low)/2, 1000)
	}
	return bars
}

func TestSwingDetectorConfirmsVShapeBottom(t *testing.T) {
	broker := NewBroker(5000, DefaultBrokerageFee)
	sim, err := NewSimulator("TEST", vShapeBars(), broker, DefaultStrategy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	results, err := sim.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, bar := range sim.series {
		if bar.ConfirmsShortTermLow && i != 102 {
			t.Errorf("unexpected short-term low confirmation at %d", i)
		}
		if bar.ConfirmsIntermediateLow || bar.ConfirmsLongTermLow {
			t.Errorf("no intermediate or long-term low may confirm with a single swing, got one at %d", i)
		}
		if bar.ConfirmsShortTermHigh {
			t.Errorf("unexpected short-term high confirmation at %d", i)
		}
	}

	if !sim.series[102].ConfirmsShortTermLow {
		t.Fatal("expected the short-term low to confirm at bar 102")
	}
	if len(sim.swings.shortTermLows) != 1 || sim.swings.shortTermLows[0] != 90 {
		t.Errorf("expected the confirmed low to be the bottom at 90, got %v", sim.swings.shortTermLows)
	}

	// The worksheet carries the confirmed level forward from bar 102 on.
	if got := results.Worksheet[101].ShortTermLow; got != 90 {
		t.Errorf("expected worksheet short-term low 90 at the confirmation row, got %v", got)
	}
	if got := results.Worksheet[len(results.Worksheet)-1].ShortTermLow; got != 90 {
		t.Errorf("expected the confirmed level to persist, got %v", got)
	}
	if got := results.Worksheet[100].ShortTermLow; got != 0 {
		t.Errorf("expected no level before confirmation, got %v", got)
	}
}

func TestIntermediateSwingNeedsThreeShortTermPoints(t *testing.T) {
	series, err := NewSeries(flatBars(5, 110, 90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sw := swingState{shortTermLows: []float64{95, 93}}
	sw.lookForIntermediateLow(series, 4)

	if series[4].ConfirmsIntermediateLow {
		t.Error("intermediate low confirmed with fewer than 3 short-term lows")
	}

	sw = swingState{shortTermLows: []float64{95, 93, 94}}
	sw.lookForIntermediateLow(series, 4)
	if !series[4].ConfirmsIntermediateLow {
		t.Error("expected intermediate low with 3 short-term lows in a V")
	}
	if len(sw.intermediateLows) != 1 || sw.intermediateLows[0] != 93 {
		t.Errorf("expected intermediate low 93, got %v", sw.intermediateLows)
	}
}

func TestLongTermSwingNeedsThreeIntermediatePoints(t *testing.T) {
	series, err := NewSeries(flatBars(5, 110, 90))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sw := swingState{intermediateHighs: []float64{100, 104}}
	sw.lookForLongTermHigh(series, 4)
	if series[4].ConfirmsLongTermHigh {
		t.Error("long-term high confirmed with fewer than 3 intermediate highs")
	}

	sw = swingState{intermediateHighs: []float64{100, 104, 102}}
	sw.lookForLongTermHigh(series, 4)
	if !series[4].ConfirmsLongTermHigh {
		t.Error("expected long-term high with 3 intermediate highs in a peak")
	}
	if len(sw.longTermHighs) != 1 || sw.longTermHighs[0] != 104 {
		t.Errorf("expected long-term high 104, got %v", sw.longTermHighs)
	}
}

func TestSwingPointComparisons(t *testing.T) {
	if !isLowSwingPoint(90, 90, 91) {
		t.Error("a flat retest against the prior low still counts")
	}
	if isLowSwingPoint(90, 89, 91) {
		t.Error("a higher low is not a swing point")
	}
	if isLowSwingPoint(90, 90, 90) {
		t.Error("the next low must strictly exceed the candidate")
	}
	if !isHighSwingPoint(110, 110, 109) {
		t.Error("a flat retest against the prior high still counts")
	}
	if isHighSwingPoint(110, 111, 109) {
		t.Error("a lower high is not a swing point")
	}
}
