package backtest

// Strategy is the rule configuration for a simulation run. The zero value
// is not usable; start from DefaultStrategy.
type Strategy struct {
	// EntryBudget is the dollar allocation used to size a new position.
	EntryBudget float64
	// EntryActivationFactor places the stop-entry buy slightly above the
	// setup day's high.
	EntryActivationFactor float64
	// StopOffset is subtracted from the setup day's low to place the
	// protective stop for long positions.
	StopOffset float64
	// WarmupDays is the number of bars required before any order is
	// placed; one trading year keeps the indicators and swing history
	// meaningful.
	WarmupDays int
	// PyramidLevels is the position-size ladder for add-on orders,
	// largest first. An empty ladder disables pyramiding, which is the
	// reference behavior.
	PyramidLevels []int
}

// DefaultStrategy returns the reference long-only policy.
func DefaultStrategy() Strategy {
	return Strategy{
		EntryBudget:           1000,
		EntryActivationFactor: 1.025,
		StopOffset:            0.01,
		WarmupDays:            252,
	}
}

// nextPyramidLevel returns the add-on size for the current position, or 0
// when the position is not sitting exactly on a rung of the ladder.
func (st Strategy) nextPyramidLevel(positionSize int) int {
	size := positionSize
	if size < 0 {
		size = -size
	}
	for i := 0; i < len(st.PyramidLevels)-1; i++ {
		if size == st.PyramidLevels[i] {
			return st.PyramidLevels[i+1]
		}
	}
	return 0
}
