package pricing

import (
	"math"

	"github.com/intrinio/option-analytics-go/normal"
)

// RollGeskeWhaley prices an American call with exactly one known cash
// dividend d paid at time t_d <= T. Puts are unsupported and return 0,
// matching the documented failure mode in spec §4.2. Grounded on
// _examples/original_source/src/util/rollgeskewhaley.cpp.
type RollGeskeWhaley struct {
	spot, rate, sigma, term float64
	div                     float64
	divTime                 float64
}

func NewRollGeskeWhaley(spot, rate, sigma, term, div, divTime float64) *RollGeskeWhaley {
	return &RollGeskeWhaley{spot: spot, rate: rate, sigma: ClampSigma(sigma), term: term, div: div, divTime: divTime}
}

func (m *RollGeskeWhaley) IsEuropean() bool { return false }
func (m *RollGeskeWhaley) Sigma() float64   { return m.sigma }
func (m *RollGeskeWhaley) SetSigma(sigma float64) {
	m.sigma = ClampSigma(sigma)
}
func (m *RollGeskeWhaley) SeedSigma(strike float64) float64 {
	return SeedSigma(m.spot, m.rate, m.term, strike)
}

func (m *RollGeskeWhaley) Price(typ OptionType, strike float64) float64 {
	if typ == Put {
		return 0
	}

	// If the dividend is small enough that early exercise is never
	// optimal, reduce to a European call on the dividend-adjusted spot.
	if m.div <= strike*(1-math.Exp(-m.rate*(m.term-m.divTime))) {
		adjSpot := m.spot - m.div*math.Exp(-m.rate*m.divTime)
		return NewBlackScholes(adjSpot, m.rate, m.rate, m.sigma, m.term).Price(Call, strike)
	}

	critical := rgwCriticalPrice(strike, m.rate, m.sigma, m.term, m.divTime, m.div)

	sx := m.spot - m.div*math.Exp(-m.rate*m.divTime)
	volSqrtT := m.sigma * math.Sqrt(m.term)
	volSqrtT1 := m.sigma * math.Sqrt(m.divTime)

	a1 := (math.Log(sx/strike) + (m.rate+m.sigma*m.sigma/2)*m.term) / volSqrtT
	a2 := a1 - volSqrtT
	b1 := (math.Log(sx/critical) + (m.rate+m.sigma*m.sigma/2)*m.divTime) / volSqrtT1
	b2 := b1 - volSqrtT1

	rho := -math.Sqrt(m.divTime / m.term)

	return sx*normal.Phi(b1) +
		sx*normal.BivariatePhi(a1, -b1, rho) -
		strike*math.Exp(-m.rate*m.term)*normal.BivariatePhi(a2, -b2, rho) -
		(strike-m.div)*math.Exp(-m.rate*m.divTime)*normal.Phi(b2)
}

// rgwCriticalPrice solves for the ex-dividend critical stock price I
// such that an immediate exercise at t_d is indifferent to holding,
// via the doubling-then-bisection search spec §4.2 describes.
func rgwCriticalPrice(strike, rate, sigma, term, divTime, div float64) float64 {
	remaining := term - divTime
	test := func(s float64) float64 {
		call := NewBlackScholes(s, rate, rate, sigma, remaining).Price(Call, strike)
		return call - (s - strike + div)
	}

	// test falls as s rises (the call's Δ is below 1): positive near 0,
	// negative past the critical price.
	lower := 0.0
	upper := strike
	for i := 0; i < 100 && test(upper) > 0; i++ {
		upper *= 2
	}

	for i := 0; i < 200; i++ {
		mid := (lower + upper) / 2
		if upper-lower < 1e-8 {
			return mid
		}
		if test(mid) > 0 {
			lower = mid
		} else {
			upper = mid
		}
	}
	return (lower + upper) / 2
}

func (m *RollGeskeWhaley) Vega(typ OptionType, strike float64) float64 {
	if typ == Put {
		return 0
	}
	const dv = 0.02
	base := m.Price(Call, strike)
	bump := NewRollGeskeWhaley(m.spot, m.rate, m.sigma+dv, m.term, m.div, m.divTime)
	return (bump.Price(Call, strike) - base) / dv
}

func (m *RollGeskeWhaley) Partials(typ OptionType, strike float64) Greeks {
	if typ == Put {
		return Greeks{}
	}
	const dS = 0.01
	const dv = 0.02
	const dr = 0.01
	const dT = 1.0 / 365.0

	base := m.Price(Call, strike)

	up := NewRollGeskeWhaley(m.spot+dS, m.rate, m.sigma, m.term, m.div, m.divTime).Price(Call, strike)
	down := NewRollGeskeWhaley(m.spot-dS, m.rate, m.sigma, m.term, m.div, m.divTime).Price(Call, strike)
	delta := (up - down) / (2 * dS)
	gamma := (up - 2*base + down) / (dS * dS)

	vega := m.Vega(Call, strike)
	rho := (NewRollGeskeWhaley(m.spot, m.rate+dr, m.sigma, m.term, m.div, m.divTime).Price(Call, strike) - base) / dr

	var theta float64
	if m.term > dT && m.term-dT > m.divTime {
		theta = (NewRollGeskeWhaley(m.spot, m.rate, m.sigma, m.term-dT, m.div, m.divTime).Price(Call, strike) - base) / dT
	}

	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
}
