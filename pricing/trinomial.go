package pricing

import "math"

// trinomialParams are the per-step branching parameters a trinomial
// variant derives from (σ,r,b,Δt): up factor u (down factor is 1/u),
// and the three risk-neutral probabilities.
type trinomialParams struct {
	u, pu, pm, pd, df float64
}

type trinomialParamsFunc func(sigma, rate, carry, dt float64) trinomialParams

// trinomialModel is the shared three-branch lattice implementation for
// Phelim-Boyle and the alternative (Kamrad-Ritchken-style) trinomial.
// Grounded on _examples/original_source/src/util/trinomial.cpp (generic
// val[i]=Df*(pu·val[i+2]+pm·val[i+1]+pd·val[i]) back-propagation) and
// phelimboyle.cpp (MacDonald-Schroeder duality for calls).
type trinomialModel struct {
	spot, rate, carry, sigma, term float64
	steps                          int
	dividends                      []Dividend
	european                       bool
	paramsFn                       trinomialParamsFunc
}

func (m *trinomialModel) IsEuropean() bool { return m.european }
func (m *trinomialModel) Sigma() float64   { return m.sigma }
func (m *trinomialModel) SetSigma(sigma float64) {
	m.sigma = ClampSigma(sigma)
}
func (m *trinomialModel) SeedSigma(strike float64) float64 {
	return SeedSigma(m.spot, m.rate, m.term, strike)
}

// Price uses the MacDonald-Schroeder duality for calls: price a call on
// (S,K,r,b) by pricing a put on (K,S,r-b,-b).
func (m *trinomialModel) Price(typ OptionType, strike float64) float64 {
	if typ == Call {
		dual := &trinomialModel{spot: strike, rate: m.rate - m.carry, carry: -m.carry, sigma: m.sigma, term: m.term, steps: m.steps, dividends: m.dividends, european: m.european, paramsFn: m.paramsFn}
		return dual.pricePut(strike, m.spot)
	}
	return m.pricePut(m.spot, strike)
}

func (m *trinomialModel) pricePut(spot, strike float64) float64 {
	price, _, _ := m.build(spot, strike, Put)
	return price
}

func (m *trinomialModel) build(spot, strike float64, typ OptionType) (price float64, level0 float64, level1 []float64) {
	n := m.steps
	dt := m.term / float64(n)
	p := m.paramsFn(m.sigma, m.rate, m.carry, dt)
	d := 1 / p.u

	escrowed := spot - dividendPV(m.dividends, m.rate, 0)

	sign := -1.0
	if typ == Call {
		sign = 1.0
	}

	size := 2*n + 1
	values := make([]float64, size)
	for i := 0; i < size; i++ {
		exp := i - n
		var s float64
		if exp >= 0 {
			s = escrowed * math.Pow(p.u, float64(exp))
		} else {
			s = escrowed * math.Pow(d, float64(-exp))
		}
		values[i] = math.Max(0, sign*(s-strike))
	}

	var saved []float64
	for step := n - 1; step >= 0; step-- {
		t := float64(step) * dt
		divPV := dividendPV(m.dividends, m.rate, t)
		newSize := 2*step + 1
		next := make([]float64, newSize)
		for i := 0; i < newSize; i++ {
			cont := p.df * (p.pu*values[i+2] + p.pm*values[i+1] + p.pd*values[i])
			if m.european {
				next[i] = cont
			} else {
				exp := i - step
				var s float64
				if exp >= 0 {
					s = escrowed * math.Pow(p.u, float64(exp))
				} else {
					s = escrowed * math.Pow(d, float64(-exp))
				}
				s += divPV
				next[i] = math.Max(cont, math.Max(0, sign*(s-strike)))
			}
		}
		values = next
		if step == 1 {
			saved = append([]float64(nil), values...)
		}
	}

	return values[0], values[0], saved
}

func (m *trinomialModel) Vega(typ OptionType, strike float64) float64 {
	const dv = 0.02
	base := m.Price(typ, strike)
	bumped := &trinomialModel{spot: m.spot, rate: m.rate, carry: m.carry, sigma: ClampSigma(m.sigma + dv), term: m.term, steps: m.steps, dividends: m.dividends, european: m.european, paramsFn: m.paramsFn}
	return (bumped.Price(typ, strike) - base) / dv
}

func (m *trinomialModel) Partials(typ OptionType, strike float64) Greeks {
	const dr = 0.01
	const dv = 0.02

	dt := m.term / float64(m.steps)

	var dual *trinomialModel
	var spot, putStrike float64
	if typ == Call {
		dual = &trinomialModel{spot: strike, rate: m.rate - m.carry, carry: -m.carry, sigma: m.sigma, term: m.term, steps: m.steps, dividends: m.dividends, european: m.european, paramsFn: m.paramsFn}
		spot, putStrike = strike, m.spot
	} else {
		dual = m
		spot, putStrike = m.spot, strike
	}

	root, _, level1 := dual.build(spot, putStrike, Put)

	var delta, gamma, theta float64
	if len(level1) == 3 {
		p := dual.paramsFn(dual.sigma, dual.rate, dual.carry, dt)
		d := 1 / p.u
		escrowed := spot - dividendPV(dual.dividends, dual.rate, 0)
		divPV := dividendPV(dual.dividends, dual.rate, dt)
		sUp := escrowed*p.u + divPV
		sMid := escrowed + divPV
		sDown := escrowed*d + divPV

		if sUp != sDown {
			delta = (level1[2] - level1[0]) / (sUp - sDown)
		}
		slopeUp := (level1[2] - level1[1]) / (sUp - sMid)
		slopeDown := (level1[1] - level1[0]) / (sMid - sDown)
		if sUp != sDown {
			gamma = (slopeUp - slopeDown) / (0.5 * (sUp - sDown))
		}
		theta = (level1[1] - root) / dt
	}

	base := dual.pricePut(dual.spot, putStrike)
	bumpedR := &trinomialModel{spot: dual.spot, rate: dual.rate + dr, carry: dual.carry, sigma: dual.sigma, term: dual.term, steps: dual.steps, dividends: dual.dividends, european: dual.european, paramsFn: dual.paramsFn}
	rho := (bumpedR.pricePut(dual.spot, putStrike) - base) / dr

	bumpedV := &trinomialModel{spot: dual.spot, rate: dual.rate, carry: dual.carry, sigma: ClampSigma(dual.sigma + dv), term: dual.term, steps: dual.steps, dividends: dual.dividends, european: dual.european, paramsFn: dual.paramsFn}
	vega := (bumpedV.pricePut(dual.spot, putStrike) - base) / dv

	if typ == Call {
		// Δ and Γ are taken in the dual put's spot (K); map them back to
		// S as binomialModel.Partials does: Δ_C = (C − K·Δ*)/S,
		// Γ_C = Γ*·K²/S².
		delta = (root - strike*delta) / m.spot
		gamma = gamma * strike * strike / (m.spot * m.spot)
	}

	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
}
