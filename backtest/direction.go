package backtest

import "fmt"

// ClassifyDirection classifies the bar at index relative to the nearest
// prior day that is not an inside day. Inside days are non-informative, so
// the comparison walks backwards past them. The walk terminating below the
// first bar means the caller fed the classifier a malformed history, which
// is surfaced as ErrInvariant rather than miscomputed.
func ClassifyDirection(series []AnnotatedBar, index int) (Direction, error) {
	current := &series[index]

	prev := index - 1
	for prev >= 0 && series[prev].Direction == Inside {
		prev--
	}
	if prev < 0 {
		return Uncalculated, fmt.Errorf("%w: direction lookback exhausted at index %d", ErrInvariant, index)
	}

	previous := &series[prev]

	if current.High > previous.High && current.Low > previous.Low {
		return Up, nil
	}
	if current.High < previous.High && current.Low < previous.Low {
		return Down, nil
	}
	if current.High <= previous.High && current.Low >= previous.Low {
		return Inside, nil
	}
	if current.High >= previous.High && current.Low <= previous.Low {
		return Outside, nil
	}

	// Unreachable with well-formed inputs.
	return Uncalculated, fmt.Errorf("%w: unresolvable direction at index %d", ErrInvariant, index)
}

// PriorNonInsideIndex returns the index of the first day before baseIndex
// that has been classified and is not an inside day. Falls back to the
// first day of the series when no such day exists.
func PriorNonInsideIndex(series []AnnotatedBar, baseIndex int) int {
	for index := baseIndex - 1; index >= 0; index-- {
		if series[index].Direction != Uncalculated && series[index].Direction != Inside {
			return index
		}
	}
	return 0
}
