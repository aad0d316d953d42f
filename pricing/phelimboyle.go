package pricing

import "math"

const defaultTrinomialSteps = 128

// phelimBoyleParams implements spec §4.2's Phelim-Boyle probabilities:
// p_u = ((e^(½(r−q)Δt) − e^(−σ√(Δt/2))) / (e^(σ√(Δt/2)) − e^(−σ√(Δt/2))))²,
// symmetric p_d, p_m = 1−p_u−p_d, u = e^(σ√(2Δt)).
func phelimBoyleParams(sigma, rate, carry, dt float64) trinomialParams {
	volSqrtHalfDt := sigma * math.Sqrt(dt/2)
	up := math.Exp(volSqrtHalfDt)
	down := math.Exp(-volSqrtHalfDt)
	growHalf := math.Exp(0.5 * carry * dt)

	pu := math.Pow((growHalf-down)/(up-down), 2)
	pd := math.Pow((up-growHalf)/(up-down), 2)
	pm := 1 - pu - pd

	u := math.Exp(sigma * math.Sqrt(2*dt))
	return trinomialParams{u: u, pu: pu, pm: pm, pd: pd, df: math.Exp(-rate * dt)}
}

// NewPhelimBoyle constructs a Phelim-Boyle trinomial lattice with the
// default depth (128 steps) and no dividend schedule. Grounded on
// _examples/original_source/src/util/phelimboyle.cpp.
func NewPhelimBoyle(spot, rate, carry, sigma, term float64, european bool) Model {
	return NewPhelimBoyleN(spot, rate, carry, sigma, term, european, defaultTrinomialSteps, nil)
}

func NewPhelimBoyleN(spot, rate, carry, sigma, term float64, european bool, steps int, dividends []Dividend) Model {
	return &trinomialModel{
		spot: spot, rate: rate, carry: carry, sigma: ClampSigma(sigma), term: term,
		steps: steps, dividends: dividends, european: european, paramsFn: phelimBoyleParams,
	}
}
