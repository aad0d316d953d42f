package chain

import "errors"

// ChainTable is the read-only option-chain collaborator. Addressable
// by row index 0..N-1; two rows with identical (expiry,strike) but
// different Type form a call/put pair. Owned by the caller; the
// analyzer never mutates it.
type ChainTable interface {
	Len() int
	Row(i int) OptionContract
}

// ResultSink accepts one emitted row per call. Written by exactly one
// analyzer at a time (spec §5).
type ResultSink interface {
	Emit(row ResultRow) error
}

// RateCurve samples a risk-free rate by term, linearly interpolated
// across stored tenors. Domain: 0 < termYears <= 30.
type RateCurve interface {
	Rate(termYears float64) (float64, bool)
}

// DividendSchedule looks up a symbol's discrete dividend schedule or,
// failing that, a continuous yield. A false ok on Yield collapses to
// q=0 at the caller (SPEC_FULL.md §3).
type DividendSchedule interface {
	Schedule(symbol string) ([]Dividend, bool)
	Yield(symbol string) (float64, bool)
}

// HistoricalVolatility is the fallback σ seed used when the market
// mark is unavailable.
type HistoricalVolatility interface {
	HV(symbol string, depthDays int) (float64, bool)
}

// ErrInsufficientStrikes is returned when fewer than 3 viable strikes
// survive the Greek stage on the chosen side (spec §7,
// Input-insufficient).
var ErrInsufficientStrikes = errors.New("chain: fewer than 3 viable strikes")

// ErrContractViolation is returned by Calculator.Analyze when the
// underlying mark is not positive (spec §7, Contract-violation). Rows
// with a non-positive term or strike are skipped without an error, and
// an unknown strategy emits no rows without an error.
var ErrContractViolation = errors.New("chain: contract violation")
