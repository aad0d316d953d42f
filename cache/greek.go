package cache

import "math"

// Greek is the cached partials bundle for one contract, extended with
// Rho relative to the reference SDK's Greek (spec §6 names ρ as a
// required output the original SDK never tracked). Grounded on
// composite/greek.go.
type Greek struct {
	ImpliedVolatility float64
	Delta             float64
	Gamma             float64
	Theta             float64
	Vega              float64
	Rho               float64
	IsValid           bool
}

// NewGreek builds a Greek bundle from a converged σ and a full Greeks
// set.
func NewGreek(impliedVolatility, delta, gamma, theta, vega, rho float64, isValid bool) Greek {
	return Greek{
		ImpliedVolatility: impliedVolatility,
		Delta:             delta,
		Gamma:             gamma,
		Theta:             theta,
		Vega:              vega,
		Rho:               rho,
		IsValid:           isValid,
	}
}

// IsValidGreek reports whether every field is finite and the bundle
// was marked valid at construction.
func (g Greek) IsValidGreek() bool {
	return g.IsValid &&
		!math.IsNaN(g.ImpliedVolatility) && !math.IsInf(g.ImpliedVolatility, 0) &&
		!math.IsNaN(g.Delta) && !math.IsInf(g.Delta, 0) &&
		!math.IsNaN(g.Gamma) && !math.IsInf(g.Gamma, 0) &&
		!math.IsNaN(g.Theta) && !math.IsInf(g.Theta, 0) &&
		!math.IsNaN(g.Vega) && !math.IsInf(g.Vega, 0) &&
		!math.IsNaN(g.Rho) && !math.IsInf(g.Rho, 0)
}
