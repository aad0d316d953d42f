// Package impliedvol implements the three implied-volatility
// root-finders: Newton-Raphson (primary), strict bisection (guaranteed
// fallback), and an exhaustive alternative bisection that sweeps the σ
// axis to escape local degeneracy.
package impliedvol

import "github.com/intrinio/option-analytics-go/pricing"

// Solver recovers the σ that makes model.Price(typ, strike) equal
// targetPrice, returning (σ, ok). ok is false when the solver fails to
// converge within its documented bounds.
type Solver interface {
	Solve(model pricing.Model, typ pricing.OptionType, strike, targetPrice float64) (float64, bool)
}
