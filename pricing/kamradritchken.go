package pricing

import "math"

// kamradRitchkenParams implements spec §4.2's literal alternative
// (Kamrad-Ritchken-family) trinomial parametrization: u = e^(σ√(3Δt)),
// p_u = 1/6 + (b−½σ²)·√(Δt/(12σ²)), symmetric p_d, p_m = 2/3.
//
// _examples/original_source/src/util/kamradritchken.cpp instead uses a
// λ=√1.5 parametrization (u=e^(σ√(1.5Δt)), p_u/p_d centered on 1/3); per
// DESIGN.md, spec.md's explicit formula is treated as authoritative
// where the two disagree, while the original is credited for the
// general lattice back-propagation structure this model reuses via
// trinomialModel.
func kamradRitchkenParams(sigma, rate, carry, dt float64) trinomialParams {
	u := math.Exp(sigma * math.Sqrt(3*dt))
	drift := (carry - 0.5*sigma*sigma) * math.Sqrt(dt/(12*sigma*sigma))
	pu := 1.0/6.0 + drift
	pd := 1.0/6.0 - drift
	pm := 2.0 / 3.0
	return trinomialParams{u: u, pu: pu, pm: pm, pd: pd, df: math.Exp(-rate * dt)}
}

// NewKamradRitchken constructs the alternative trinomial lattice with
// the default depth and no dividend schedule.
func NewKamradRitchken(spot, rate, carry, sigma, term float64, european bool) Model {
	return NewKamradRitchkenN(spot, rate, carry, sigma, term, european, defaultTrinomialSteps, nil)
}

func NewKamradRitchkenN(spot, rate, carry, sigma, term float64, european bool, steps int, dividends []Dividend) Model {
	return &trinomialModel{
		spot: spot, rate: rate, carry: carry, sigma: ClampSigma(sigma), term: term,
		steps: steps, dividends: dividends, european: european, paramsFn: kamradRitchkenParams,
	}
}
