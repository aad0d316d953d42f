package impliedvol

import (
	"math"

	"github.com/intrinio/option-analytics-go/pricing"
)

const (
	altVolMin    = 0.0
	altVolMax    = 100.0
	altEpsilon   = 0.001
	altErr       = 0.0000001
	altMaxInner  = 64
)

// AlternativeBisection is the exhaustive σ-axis sweep used when
// Newton-Raphson fails from its seed. Grounded on
// _examples/original_source/src/util/altbisection.h.
type AlternativeBisection struct{}

func stepSize(sigma float64) float64 {
	switch {
	case sigma < 1:
		return 0.1
	case sigma < 10:
		return 1.0
	default:
		return 10.0
	}
}

func (a AlternativeBisection) Solve(model pricing.Model, typ pricing.OptionType, strike, targetPrice float64) (float64, bool) {
	// (1) try Newton once more from the seed.
	if sigma, ok := (NewtonRaphson{}).Solve(model, typ, strike, targetPrice); ok {
		return sigma, true
	}

	prevSigma := altVolMin + altErr
	model.SetSigma(prevSigma)
	prevPrice := model.Price(typ, strike)

	for prevSigma < altVolMax {
		step := stepSize(prevSigma)
		sigma := prevSigma + step
		if sigma > altVolMax {
			sigma = altVolMax
		}

		model.SetSigma(sigma)
		price := model.Price(typ, strike)

		if !math.IsNaN(price) && !math.IsNaN(prevPrice) {
			bracketed := (prevPrice-targetPrice)*(price-targetPrice) <= 0
			if bracketed {
				if result, ok := a.innerBisection(model, typ, strike, targetPrice, prevSigma, sigma, prevPrice, price); ok {
					return result, true
				}
			} else {
				slope := (price - prevPrice) / step
				towardTarget := (slope > 0 && targetPrice > price) || (slope < 0 && targetPrice < price)
				if towardTarget {
					mid := (prevSigma + sigma) / 2
					if result, ok := (NewtonRaphson{}).Solve(newtonFromSeed(model, mid), typ, strike, targetPrice); ok {
						return result, true
					}
				}
			}
		}

		prevSigma, prevPrice = sigma, price
		if sigma >= altVolMax {
			break
		}
	}

	return 0, false
}

// newtonFromSeed wraps a model so NewtonRaphson.Solve starts its
// iteration from an explicit seed σ instead of the model's own
// Manaster-Koehler heuristic.
type seededModel struct {
	pricing.Model
	seed float64
}

func (s seededModel) SeedSigma(strike float64) float64 { return s.seed }

func newtonFromSeed(m pricing.Model, seed float64) pricing.Model {
	return seededModel{Model: m, seed: seed}
}

func (a AlternativeBisection) innerBisection(model pricing.Model, typ pricing.OptionType, strike, targetPrice, lowSigma, highSigma, lowPrice, highPrice float64) (float64, bool) {
	for i := 0; i < altMaxInner; i++ {
		if highPrice == lowPrice {
			return 0, false
		}
		mid := (lowSigma + highSigma) / 2
		model.SetSigma(mid)
		price := model.Price(typ, strike)
		if math.IsNaN(price) {
			return 0, false
		}
		if math.Abs(price-targetPrice) <= altEpsilon {
			return mid, true
		}
		if (price-targetPrice)*(lowPrice-targetPrice) <= 0 {
			highSigma, highPrice = mid, price
		} else {
			lowSigma, lowPrice = mid, price
		}
	}
	return 0, false
}
