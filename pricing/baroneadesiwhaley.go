package pricing

import (
	"math"

	"github.com/intrinio/option-analytics-go/normal"
)

// BaroneAdesiWhaley prices American options via the quadratic
// approximation. Grounded on
// _examples/original_source/src/util/baroneadesiwhaley.cpp: the
// critical-price Newton solve (seeded from the same su/h2 displacement)
// and the above/below-critical-price branching.
type BaroneAdesiWhaley struct {
	spot, rate, carry, sigma, term float64
}

func NewBaroneAdesiWhaley(spot, rate, carry, sigma, term float64) *BaroneAdesiWhaley {
	return &BaroneAdesiWhaley{spot: spot, rate: rate, carry: carry, sigma: ClampSigma(sigma), term: term}
}

func (m *BaroneAdesiWhaley) IsEuropean() bool { return false }
func (m *BaroneAdesiWhaley) Sigma() float64   { return m.sigma }
func (m *BaroneAdesiWhaley) SetSigma(sigma float64) {
	m.sigma = ClampSigma(sigma)
}
func (m *BaroneAdesiWhaley) SeedSigma(strike float64) float64 {
	return SeedSigma(m.spot, m.rate, m.term, strike)
}

func (m *BaroneAdesiWhaley) european() *BlackScholes {
	return NewBlackScholes(m.spot, m.rate, m.carry, m.sigma, m.term)
}

func (m *BaroneAdesiWhaley) Price(typ OptionType, strike float64) float64 {
	// If r <= b the American call collapses to the European formula
	// (spec §4.2): there is never early-exercise advantage.
	if typ == Call && m.rate <= m.carry {
		return m.european().Price(Call, strike)
	}
	if typ == Call {
		return bawCall(m.spot, strike, m.term, m.rate, m.carry, m.sigma)
	}
	return bawPut(m.spot, strike, m.term, m.rate, m.carry, m.sigma)
}

func (m *BaroneAdesiWhaley) Vega(typ OptionType, strike float64) float64 {
	return m.european().Vega(typ, strike)
}

func (m *BaroneAdesiWhaley) Partials(typ OptionType, strike float64) Greeks {
	// finite-difference partials: the quadratic approximation has no
	// closed form for the Greeks, so perturb and re-evaluate as the
	// lattice models do for vega/rho.
	const dS = 0.01
	const dv = 0.02
	const dr = 0.01
	const dT = 1.0 / 365.0

	base := m.Price(typ, strike)
	up := bawPriceAt(m.spot+dS, strike, m.term, m.rate, m.carry, m.sigma, typ)
	down := bawPriceAt(m.spot-dS, strike, m.term, m.rate, m.carry, m.sigma, typ)
	delta := (up - down) / (2 * dS)
	gamma := (up - 2*base + down) / (dS * dS)

	vegaUp := bawPriceAt(m.spot, strike, m.term, m.rate, m.carry, m.sigma+dv, typ)
	vega := (vegaUp - base) / dv

	rhoUp := bawPriceAt(m.spot, strike, m.term, m.rate+dr, m.carry+dr, m.sigma, typ)
	rho := (rhoUp - base) / dr

	var theta float64
	if m.term > dT {
		shorter := bawPriceAt(m.spot, strike, m.term-dT, m.rate, m.carry, m.sigma, typ)
		theta = (shorter - base) / dT
	}

	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}
}

func bawPriceAt(spot, strike, term, rate, carry, sigma float64, typ OptionType) float64 {
	m := NewBaroneAdesiWhaley(spot, rate, carry, sigma, term)
	return m.Price(typ, strike)
}

func bawCall(spot, strike, term, rate, carry, sigma float64) float64 {
	sk := bawCriticalCall(strike, term, rate, carry, sigma)
	n := 2 * carry / (sigma * sigma)
	k := 2 * rate / (sigma * sigma * (1 - math.Exp(-rate*term)))
	d1 := (math.Log(sk/strike) + (carry+sigma*sigma/2)*term) / (sigma * math.Sqrt(term))
	q2 := (-(n - 1) + math.Sqrt((n-1)*(n-1)+4*k)) / 2
	a2 := (sk / q2) * (1 - math.Exp((carry-rate)*term)*normal.Phi(d1))

	euro := NewBlackScholes(spot, rate, carry, sigma, term)
	if spot < sk {
		return euro.Price(Call, strike) + a2*math.Pow(spot/sk, q2)
	}
	return spot - strike
}

func bawCriticalCall(strike, term, rate, carry, sigma float64) float64 {
	n := 2 * carry / (sigma * sigma)
	m := 2 * rate / (sigma * sigma)
	q2u := (-(n - 1) + math.Sqrt((n-1)*(n-1)+4*m)) / 2
	su := strike / (1 - 1/q2u)
	h2 := -(carry*term + 2*sigma*math.Sqrt(term)) * (strike / (su - strike))
	si := strike + (su-strike)*(1-math.Exp(h2))

	k := 2 * rate / (sigma * sigma * (1 - math.Exp(-rate*term)))
	const eps = 0.000001
	for iter := 0; iter < 100; iter++ {
		d1 := (math.Log(si/strike) + (carry+sigma*sigma/2)*term) / (sigma * math.Sqrt(term))
		q2 := (-(n - 1) + math.Sqrt((n-1)*(n-1)+4*k)) / 2
		euro := NewBlackScholes(si, rate, carry, sigma, term)
		lhs := si - strike
		rhs := euro.Price(Call, strike) + (1-math.Exp((carry-rate)*term)*normal.Phi(d1))*si/q2
		bi := math.Exp((carry-rate)*term)*normal.Phi(d1)*(1-1/q2) +
			(1-math.Exp((carry-rate)*term)*normal.PDF(d1)/(sigma*math.Sqrt(term)))/q2

		if math.Abs(lhs-rhs)/strike <= eps {
			break
		}
		si = (strike + rhs - bi*si) / (1 - bi)
		if si <= 0 {
			si = strike
			break
		}
	}
	return si
}

func bawPut(spot, strike, term, rate, carry, sigma float64) float64 {
	sk := bawCriticalPut(strike, term, rate, carry, sigma)
	n := 2 * carry / (sigma * sigma)
	k := 2 * rate / (sigma * sigma * (1 - math.Exp(-rate*term)))
	d1 := (math.Log(sk/strike) + (carry+sigma*sigma/2)*term) / (sigma * math.Sqrt(term))
	q1 := (-(n - 1) - math.Sqrt((n-1)*(n-1)+4*k)) / 2
	a1 := -(sk / q1) * (1 - math.Exp((carry-rate)*term)*normal.Phi(-d1))

	euro := NewBlackScholes(spot, rate, carry, sigma, term)
	if spot > sk {
		return euro.Price(Put, strike) + a1*math.Pow(spot/sk, q1)
	}
	return strike - spot
}

func bawCriticalPut(strike, term, rate, carry, sigma float64) float64 {
	n := 2 * carry / (sigma * sigma)
	m := 2 * rate / (sigma * sigma)
	q1u := (-(n - 1) - math.Sqrt((n-1)*(n-1)+4*m)) / 2
	su := strike / (1 - 1/q1u)
	h1 := (carry*term - 2*sigma*math.Sqrt(term)) * (strike / (strike - su))
	si := su + (strike-su)*math.Exp(h1)

	k := 2 * rate / (sigma * sigma * (1 - math.Exp(-rate*term)))
	const eps = 0.000001
	for iter := 0; iter < 100; iter++ {
		d1 := (math.Log(si/strike) + (carry+sigma*sigma/2)*term) / (sigma * math.Sqrt(term))
		q1 := (-(n - 1) - math.Sqrt((n-1)*(n-1)+4*k)) / 2
		euro := NewBlackScholes(si, rate, carry, sigma, term)
		lhs := strike - si
		rhs := euro.Price(Put, strike) - (1-math.Exp((carry-rate)*term)*normal.Phi(-d1))*si/q1
		bi := -math.Exp((carry-rate)*term)*normal.Phi(-d1)*(1-1/q1) -
			(1+math.Exp((carry-rate)*term)*normal.PDF(-d1)/(sigma*math.Sqrt(term)))/q1

		if math.Abs(lhs-rhs)/strike <= eps {
			break
		}
		si = (strike - rhs + bi*si) / (1 + bi)
		if si <= 0 {
			si = strike / 2
			break
		}
	}
	return si
}
