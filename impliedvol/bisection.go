package impliedvol

import (
	"math"

	"github.com/intrinio/option-analytics-go/pricing"
)

const (
	bisectionVolMin = 0.0000001
	bisectionVolMax = 100.99999
	bisectionEps    = 1e-8
	bisectionMaxIterations = 200
)

// Bisection is the strict, guaranteed-fallback IV solver: it requires
// the target price to lie inside [price(σ=ε), price(σ=VOL_MAX)].
// Grounded on _examples/original_source/src/util/bisection.h.
type Bisection struct{}

func (Bisection) Solve(model pricing.Model, typ pricing.OptionType, strike, targetPrice float64) (float64, bool) {
	model.SetSigma(bisectionVolMin)
	lowPrice := model.Price(typ, strike)
	model.SetSigma(bisectionVolMax)
	highPrice := model.Price(typ, strike)

	if math.IsNaN(lowPrice) || math.IsNaN(highPrice) {
		return 0, false
	}
	if !(targetPrice >= math.Min(lowPrice, highPrice) && targetPrice <= math.Max(lowPrice, highPrice)) {
		return 0, false
	}

	lowSigma, highSigma := bisectionVolMin, bisectionVolMax

	for i := 0; i < bisectionMaxIterations; i++ {
		if highPrice == lowPrice {
			return 0, false
		}
		// linear interpolation between the bracketing endpoints
		candidate := lowSigma + (targetPrice-lowPrice)*(highSigma-lowSigma)/(highPrice-lowPrice)
		if candidate <= 0 {
			candidate = bisectionVolMin
		}

		model.SetSigma(candidate)
		price := model.Price(typ, strike)
		if math.IsNaN(price) || math.IsInf(price, 0) {
			return 0, false
		}
		if math.Abs(price-targetPrice) <= bisectionEps {
			return candidate, true
		}

		if (price < targetPrice) == (lowPrice < targetPrice) {
			lowSigma, lowPrice = candidate, price
		} else {
			highSigma, highPrice = candidate, price
		}
	}
	return 0, false
}
