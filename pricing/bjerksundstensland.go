package pricing

import (
	"math"

	"github.com/intrinio/option-analytics-go/normal"
)

// BjerksundStensland prices an American call via the one-dimensional
// trigger-price approximation; puts go through the put/call
// transformation described in spec §4.2 (construct the dual call with
// (X,S) and (r-b,-b) swapped). Grounded on
// _examples/original_source/src/util/bjerksundstensland.cpp.
type BjerksundStensland struct {
	spot, rate, carry, sigma, term float64
}

func NewBjerksundStensland(spot, rate, carry, sigma, term float64) *BjerksundStensland {
	return &BjerksundStensland{spot: spot, rate: rate, carry: carry, sigma: ClampSigma(sigma), term: term}
}

func (m *BjerksundStensland) IsEuropean() bool { return false }
func (m *BjerksundStensland) Sigma() float64   { return m.sigma }
func (m *BjerksundStensland) SetSigma(sigma float64) {
	m.sigma = ClampSigma(sigma)
}
func (m *BjerksundStensland) SeedSigma(strike float64) float64 {
	return SeedSigma(m.spot, m.rate, m.term, strike)
}

func (m *BjerksundStensland) Price(typ OptionType, strike float64) float64 {
	if typ == Call {
		return bsCall(m.spot, strike, m.term, m.rate, m.carry, m.sigma)
	}
	// put/call transformation: Put(S,K,r,b) = Call'(spot=K,strike=S,r'=r-b,b'=-b)
	return bsCall(strike, m.spot, m.term, m.rate-m.carry, -m.carry, m.sigma)
}

func (m *BjerksundStensland) Vega(typ OptionType, strike float64) float64 {
	const dv = 0.02
	base := m.Price(typ, strike)
	bump := NewBjerksundStensland(m.spot, m.rate, m.carry, m.sigma+dv, m.term)
	return (bump.Price(typ, strike) - base) / dv
}

func (m *BjerksundStensland) Partials(typ OptionType, strike float64) Greeks {
	const dS = 0.01
	const dv = 0.02
	const dr = 0.01
	const dT = 1.0 / 365.0

	base := m.Price(typ, strike)

	up := NewBjerksundStensland(m.spot+dS, m.rate, m.carry, m.sigma, m.term).Price(typ, strike)
	down := NewBjerksundStensland(m.spot-dS, m.rate, m.carry, m.sigma, m.term).Price(typ, strike)
	delta := (up - down) / (2 * dS)
	gamma := (up - 2*base + down) / (dS * dS)

	vega := m.Vega(typ, strike)

	rho := (NewBjerksundStensland(m.spot, m.rate+dr, m.carry+dr, m.sigma, m.term).Price(typ, strike) - base) / dr

	var theta float64
	if m.term > dT {
		theta = (NewBjerksundStensland(m.spot, m.rate, m.carry, m.sigma, m.term-dT).Price(typ, strike) - base) / dT
	}

	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
}

func bsCall(spot, strike, term, rate, carry, sigma float64) float64 {
	if carry >= rate {
		return NewBlackScholes(spot, rate, carry, sigma, term).Price(Call, strike)
	}

	v2 := sigma * sigma
	beta := (0.5 - carry/v2) + math.Sqrt(math.Pow(carry/v2-0.5, 2)+2*rate/v2)
	bInf := beta / (beta - 1) * strike
	b0 := math.Max(strike, rate/(rate-carry)*strike)
	ht := -(carry*term + 2*sigma*math.Sqrt(term)) * b0 / (bInf - b0)
	trigger := b0 + (bInf-b0)*(1-math.Exp(ht))

	if spot >= trigger {
		return spot - strike
	}

	alpha := (trigger - strike) * math.Pow(trigger, -beta)
	return alpha*math.Pow(spot, beta) -
		alpha*bsPhi(spot, term, beta, trigger, trigger, rate, carry, sigma) +
		bsPhi(spot, term, 1, trigger, trigger, rate, carry, sigma) -
		bsPhi(spot, term, 1, strike, trigger, rate, carry, sigma) -
		strike*bsPhi(spot, term, 0, trigger, trigger, rate, carry, sigma) +
		strike*bsPhi(spot, term, 0, strike, trigger, rate, carry, sigma)
}

// bsPhi is the auxiliary φ*(S,T,γ,H,I) function from the
// Bjerksund-Stensland paper.
func bsPhi(spot, term, gamma, h, trigger, rate, carry, sigma float64) float64 {
	v2 := sigma * sigma
	lambda := (-rate + gamma*carry + 0.5*gamma*(gamma-1)*v2) * term
	d := -(math.Log(spot/h) + (carry+(gamma-0.5)*v2)*term) / (sigma * math.Sqrt(term))
	kappa := 2*carry/v2 + (2*gamma - 1)

	return math.Exp(lambda) * math.Pow(spot, gamma) *
		(normal.Phi(d) - math.Pow(trigger/spot, kappa)*normal.Phi(d-2*math.Log(trigger/spot)/(sigma*math.Sqrt(term))))
}
