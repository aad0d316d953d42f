package pricing

import "math"

// Dividend is a single discrete cash dividend at time Time (years from
// valuation date), amount Amount. Used by the lattice models' optional
// discrete-dividend schedule (spec §3's MarketContext, supplemented per
// SPEC_FULL.md §3 from the original CRR constructors).
type Dividend struct {
	Time   float64
	Amount float64
}

// dividendPV returns the present value, discounted back to fromTime, of
// every dividend paid strictly after fromTime: Σ d_k·e^(−r(t_k−fromTime)).
func dividendPV(dividends []Dividend, rate, fromTime float64) float64 {
	var pv float64
	for _, d := range dividends {
		if d.Time > fromTime {
			pv += d.Amount * math.Exp(-rate*(d.Time-fromTime))
		}
	}
	return pv
}

// latticeParams are the per-step branching parameters a binomial
// variant derives from (σ,r,b,Δt).
type latticeParams struct {
	u, d, pu, pd, df float64
}

type binomialParamsFunc func(sigma, rate, carry, dt float64) latticeParams

// binomialModel is the shared two-branch lattice implementation for
// Cox-Ross-Rubinstein and the equal-probability binomial; the two
// variants differ only in paramsFn. Grounded on
// _examples/original_source/src/util/binomial.cpp (generic backward
// induction with dividend-adjusted early-exercise clamp) and
// coxrossrubinstein.cpp (MacDonald-Schroeder duality for calls).
type binomialModel struct {
	spot, rate, carry, sigma, term float64
	steps                          int
	dividends                      []Dividend
	european                       bool
	paramsFn                       binomialParamsFunc
}

func (m *binomialModel) IsEuropean() bool { return m.european }
func (m *binomialModel) Sigma() float64   { return m.sigma }
func (m *binomialModel) SetSigma(sigma float64) {
	m.sigma = ClampSigma(sigma)
}
func (m *binomialModel) SeedSigma(strike float64) float64 {
	return SeedSigma(m.spot, m.rate, m.term, strike)
}

// Price uses the MacDonald-Schroeder duality for calls: price a call on
// (S,K,r,b) by pricing a put on (K,S,r-b,-b).
func (m *binomialModel) Price(typ OptionType, strike float64) float64 {
	if typ == Call {
		dual := &binomialModel{spot: strike, rate: m.rate - m.carry, carry: -m.carry, sigma: m.sigma, term: m.term, steps: m.steps, dividends: dualDividends(m.dividends, m.rate, m.carry), european: m.european, paramsFn: m.paramsFn}
		return dual.priceePut(strike, m.spot)
	}
	return m.priceePut(m.spot, strike)
}

// dualDividends re-expresses a dividend schedule's present value under
// swapped rate parameters; since the duality swap also swaps the
// discounting rate, dividend amounts are left as-is (the schedule is a
// property of the underlying, not of the pricing duality), matching the
// original's plain-constructor CRR duality treatment.
func dualDividends(divs []Dividend, _, _ float64) []Dividend {
	return divs
}

// priceePut prices a put with the given (spot, strike) pair using the
// receiver's own (rate, carry, sigma, term, steps, dividends).
func (m *binomialModel) priceePut(spot, strike float64) float64 {
	price, _, _, _ := m.build(spot, strike, Put)
	return price
}

func (m *binomialModel) build(spot, strike float64, typ OptionType) (price float64, level0, level1, level2 []float64) {
	n := m.steps
	dt := m.term / float64(n)
	params := m.paramsFn(m.sigma, m.rate, m.carry, dt)

	escrowed := spot - dividendPV(m.dividends, m.rate, 0)

	sign := -1.0 // put
	if typ == Call {
		sign = 1.0
	}

	values := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		s := escrowed * math.Pow(params.u, float64(i)) * math.Pow(params.d, float64(n-i))
		values[i] = math.Max(0, sign*(s-strike))
	}

	var savedLevel1, savedLevel2 []float64

	for step := n - 1; step >= 0; step-- {
		t := float64(step) * dt
		divPV := dividendPV(m.dividends, m.rate, t)
		next := make([]float64, step+1)
		for i := 0; i <= step; i++ {
			cont := params.df * (params.pu*values[i+1] + params.pd*values[i])
			if m.european {
				next[i] = cont
			} else {
				s := escrowed*math.Pow(params.u, float64(i))*math.Pow(params.d, float64(step-i)) + divPV
				intrinsic := math.Max(0, sign*(s-strike))
				next[i] = math.Max(cont, intrinsic)
			}
		}
		values = next
		if step == 1 {
			savedLevel1 = append([]float64(nil), values...)
		}
		if step == 2 {
			savedLevel2 = append([]float64(nil), values...)
		}
	}

	return values[0], []float64{values[0]}, savedLevel1, savedLevel2
}

func (m *binomialModel) Vega(typ OptionType, strike float64) float64 {
	const dv = 0.02
	base := m.Price(typ, strike)
	bumped := &binomialModel{spot: m.spot, rate: m.rate, carry: m.carry, sigma: ClampSigma(m.sigma + dv), term: m.term, steps: m.steps, dividends: m.dividends, european: m.european, paramsFn: m.paramsFn}
	return (bumped.Price(typ, strike) - base) / dv
}

func (m *binomialModel) Partials(typ OptionType, strike float64) Greeks {
	const dr = 0.01
	const dv = 0.02

	dt := m.term / float64(m.steps)

	var spot, putStrike float64
	var dual *binomialModel
	if typ == Call {
		dual = &binomialModel{spot: strike, rate: m.rate - m.carry, carry: -m.carry, sigma: m.sigma, term: m.term, steps: m.steps, dividends: m.dividends, european: m.european, paramsFn: m.paramsFn}
		spot, putStrike = strike, m.spot
	} else {
		dual = m
		spot, putStrike = m.spot, strike
	}

	root, _, level1, level2 := dual.build(spot, putStrike, Put)
	_ = root

	escrowed := spot - dividendPV(dual.dividends, dual.rate, 0)
	params := dual.paramsFn(dual.sigma, dual.rate, dual.carry, dt)

	var delta, gamma, theta float64
	if len(level1) == 2 {
		sUp := escrowed*params.u + dividendPV(dual.dividends, dual.rate, dt)
		sDown := escrowed*params.d + dividendPV(dual.dividends, dual.rate, dt)
		if sUp != sDown {
			delta = (level1[1] - level1[0]) / (sUp - sDown)
		}
	}
	if len(level2) == 3 {
		sUU := escrowed*params.u*params.u + dividendPV(dual.dividends, dual.rate, 2*dt)
		sUD := escrowed*params.u*params.d + dividendPV(dual.dividends, dual.rate, 2*dt)
		sDD := escrowed*params.d*params.d + dividendPV(dual.dividends, dual.rate, 2*dt)
		slopeUp := (level2[2] - level2[1]) / (sUU - sUD)
		slopeDown := (level2[1] - level2[0]) / (sUD - sDD)
		if sUU != sDD {
			gamma = (slopeUp - slopeDown) / (0.5 * (sUU - sDD))
		}
		theta = (level2[1] - root) / (2 * dt)
	}

	base := dual.Price(Put, putStrike)
	bumpedR := &binomialModel{spot: dual.spot, rate: dual.rate + dr, carry: dual.carry, sigma: dual.sigma, term: dual.term, steps: dual.steps, dividends: dual.dividends, european: dual.european, paramsFn: dual.paramsFn}
	rho := (bumpedR.Price(Put, putStrike) - base) / dr

	bumpedV := &binomialModel{spot: dual.spot, rate: dual.rate, carry: dual.carry, sigma: ClampSigma(dual.sigma + dv), term: dual.term, steps: dual.steps, dividends: dual.dividends, european: dual.european, paramsFn: dual.paramsFn}
	vega := (bumpedV.Price(Put, putStrike) - base) / dv

	if typ == Call {
		// the dual put's spot is K and its strike is S. Θ, vega and ρ
		// carry over unchanged; Δ and Γ are taken in the dual's spot and
		// are mapped back to S through degree-one homogeneity in
		// (spot, strike), exact without dividends:
		// Δ_C = (C − K·Δ*)/S, Γ_C = Γ*·K²/S².
		delta = (root - strike*delta) / m.spot
		gamma = gamma * strike * strike / (m.spot * m.spot)
	}
	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
}
