package backtest

import "testing"

func TestClassifyDirection(t *testing.T) {
	cases := []struct {
		name              string
		prevHigh, prevLow float64
		high, low         float64
		want              Direction
	}{
		{"up", 100, 90, 101, 91, Up},
		{"down", 100, 90, 99, 89, Down},
		{"inside", 100, 90, 99, 91, Inside},
		{"outside", 100, 90, 101, 89, Outside},
		{"equal both is inside", 100, 90, 100, 90, Inside},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			series := []AnnotatedBar{
				{PriceBar: barAt(0, 95, c.prevHigh, c.prevLow, 95, 100)},
				{PriceBar: barAt(1, 95, c.high, c.low, 95, 100)},
			}
			got, err := ClassifyDirection(series, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestClassifyDirectionSkipsInsideDays(t *testing.T) {
	// Day 2 is inside day 1, so day 3 compares against day 1.
	series := []AnnotatedBar{
		{PriceBar: barAt(0, 95, 100, 90, 95, 100)},
		{PriceBar: barAt(1, 95, 102, 92, 95, 100)},
		{PriceBar: barAt(2, 95, 101, 93, 95, 100)},
		{PriceBar: barAt(3, 95, 103, 94, 95, 100)},
	}
	for i := 1; i < len(series); i++ {
		dir, err := ClassifyDirection(series, i)
		if err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
		series[i].Direction = dir
	}

	if series[2].Direction != Inside {
		t.Fatalf("expected day 2 inside, got %v", series[2].Direction)
	}
	// 103 > 102 and 94 > 92 against day 1, even though day 2's high is 101.
	if series[3].Direction != Up {
		t.Errorf("expected day 3 up against day 1, got %v", series[3].Direction)
	}
}

func TestPriorNonInsideIndexFallsBackToFirstDay(t *testing.T) {
	series := []AnnotatedBar{
		{PriceBar: barAt(0, 95, 100, 90, 95, 100)},
		{PriceBar: barAt(1, 95, 99, 91, 95, 100), Direction: Inside},
		{PriceBar: barAt(2, 95, 99, 91, 95, 100), Direction: Inside},
	}
	if got := PriorNonInsideIndex(series, 2); got != 0 {
		t.Errorf("expected fallback to index 0, got %v", got)
	}
}
