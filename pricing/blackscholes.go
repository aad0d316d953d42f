package pricing

import (
	"math"

	"github.com/intrinio/option-analytics-go/normal"
)

// BlackScholes is the generalized Black-Scholes-Merton model. It
// carries the same cached terms the original engine carries
// (√T, σ√T, e^((b-r)T), S·e^((b-r)T), e^(-rT)); SetSigma regenerates
// all of them, and Price/Vega/Partials read them instead of
// recomputing them.
type BlackScholes struct {
	spot  float64
	rate  float64
	carry float64
	sigma float64
	term  float64

	sqrtT    float64
	volSqrtT float64
	ebrt     float64
	sbrt     float64
	ert      float64
}

// NewBlackScholes constructs a generalized BS model for (S, r, b, σ, T).
func NewBlackScholes(spot, rate, carry, sigma, term float64) *BlackScholes {
	m := &BlackScholes{spot: spot, rate: rate, carry: carry, term: term}
	m.SetSigma(sigma)
	return m
}

func (m *BlackScholes) IsEuropean() bool { return true }

func (m *BlackScholes) Sigma() float64 { return m.sigma }

// SetSigma mutates σ and regenerates the term-structure caches.
func (m *BlackScholes) SetSigma(sigma float64) {
	m.sigma = ClampSigma(sigma)
	m.sqrtT = math.Sqrt(m.term)
	m.volSqrtT = m.sigma * m.sqrtT
	m.ebrt = math.Exp((m.carry - m.rate) * m.term)
	m.sbrt = m.spot * m.ebrt
	m.ert = math.Exp(-m.rate * m.term)
}

func (m *BlackScholes) SeedSigma(strike float64) float64 {
	return SeedSigma(m.spot, m.rate, m.term, strike)
}

func (m *BlackScholes) d1(strike float64) float64 {
	return (math.Log(m.spot/strike) + (m.carry+m.sigma*m.sigma/2.0)*m.term) / m.volSqrtT
}

func (m *BlackScholes) d2(d1 float64) float64 {
	return d1 - m.volSqrtT
}

// Price returns the theoretical option price.
func (m *BlackScholes) Price(typ OptionType, strike float64) float64 {
	d1 := m.d1(strike)
	d2 := m.d2(d1)
	if typ == Call {
		return m.sbrt*normal.Phi(d1) - strike*m.ert*normal.Phi(d2)
	}
	return strike*m.ert*normal.Phi(-d2) - m.sbrt*normal.Phi(-d1)
}

// Vega returns ∂price/∂σ.
func (m *BlackScholes) Vega(typ OptionType, strike float64) float64 {
	d1 := m.d1(strike)
	return m.sbrt * normal.PDF(d1) * m.sqrtT
}

// Partials returns the closed-form Greek set.
func (m *BlackScholes) Partials(typ OptionType, strike float64) Greeks {
	d1 := m.d1(strike)
	d2 := m.d2(d1)
	pdf := normal.PDF(d1)

	sign := 1.0
	if typ == Put {
		sign = -1.0
	}

	delta := sign * m.ebrt * normal.Phi(sign*d1)
	gamma := m.ebrt * pdf / (m.spot * m.volSqrtT)
	vega := m.sbrt * pdf * m.sqrtT
	theta := -m.sbrt*pdf*m.sigma/(2.0*m.sqrtT) -
		sign*(m.carry-m.rate)*m.sbrt*normal.Phi(sign*d1) -
		sign*m.rate*strike*m.ert*normal.Phi(sign*d2)
	rho := sign * m.term * strike * m.ert * normal.Phi(sign*d2)

	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
}
