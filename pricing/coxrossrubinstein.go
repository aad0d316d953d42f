package pricing

import "math"

const defaultCRRSteps = 256

// crrParams implements u=e^(σ√Δt), d=1/u, p_u=(e^(bΔt)-d)/(u-d),
// discount e^(-rΔt), per spec §4.2.
func crrParams(sigma, rate, carry, dt float64) latticeParams {
	u := math.Exp(sigma * math.Sqrt(dt))
	d := 1 / u
	growth := math.Exp(carry * dt)
	pu := (growth - d) / (u - d)
	return latticeParams{u: u, d: d, pu: pu, pd: 1 - pu, df: math.Exp(-rate * dt)}
}

// NewCoxRossRubinstein constructs a CRR binomial lattice with the
// default depth (256 steps) and no dividend schedule.
func NewCoxRossRubinstein(spot, rate, carry, sigma, term float64, european bool) Model {
	return NewCoxRossRubinsteinN(spot, rate, carry, sigma, term, european, defaultCRRSteps, nil)
}

// NewCoxRossRubinsteinN constructs a CRR binomial lattice with an
// explicit depth and an optional discrete-dividend schedule. Grounded
// on _examples/original_source/src/util/coxrossrubinstein.cpp's three
// constructors (plain / dividend-times-and-amounts / precomputed
// present-value vector) — the schedule here plays the role of the
// original's explicit-dividend constructor.
func NewCoxRossRubinsteinN(spot, rate, carry, sigma, term float64, european bool, steps int, dividends []Dividend) Model {
	return &binomialModel{
		spot: spot, rate: rate, carry: carry, sigma: ClampSigma(sigma), term: term,
		steps: steps, dividends: dividends, european: european, paramsFn: crrParams,
	}
}

// equalProbParams implements the Jarrow-Rudd equal-probability tree:
// p_u=p_d=0.5 with u,d solved from matching the risk-neutral mean and
// variance of the log-price increment.
func equalProbParams(sigma, rate, carry, dt float64) latticeParams {
	nu := carry - 0.5*sigma*sigma
	u := math.Exp(nu*dt + sigma*math.Sqrt(dt))
	d := math.Exp(nu*dt - sigma*math.Sqrt(dt))
	return latticeParams{u: u, d: d, pu: 0.5, pd: 0.5, df: math.Exp(-rate * dt)}
}

// NewEqualProbabilityBinomial constructs the equal-probability binomial
// variant with the default depth and no dividend schedule.
func NewEqualProbabilityBinomial(spot, rate, carry, sigma, term float64, european bool) Model {
	return NewEqualProbabilityBinomialN(spot, rate, carry, sigma, term, european, defaultCRRSteps, nil)
}

func NewEqualProbabilityBinomialN(spot, rate, carry, sigma, term float64, european bool, steps int, dividends []Dividend) Model {
	return &binomialModel{
		spot: spot, rate: rate, carry: carry, sigma: ClampSigma(sigma), term: term,
		steps: steps, dividends: dividends, european: european, paramsFn: equalProbParams,
	}
}
