package backtest

import "errors"

// ErrBadInput marks input contract violations (empty, unsorted or duplicate
// price history). These fail a run before any day is simulated.
var ErrBadInput = errors.New("backtest: bad input")

// ErrInvariant marks logic-invariant violations: an exhausted direction
// lookback or a conditional/replacement reference that does not resolve.
// These should never occur on well-formed input; tests assert on them.
var ErrInvariant = errors.New("backtest: invariant violation")
