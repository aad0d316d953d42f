package impliedvol

import (
	"math"

	"github.com/intrinio/option-analytics-go/pricing"
)

const (
	newtonVolMin = 0.0000001
	newtonVolMax = 1000.0 - newtonVolMin
	newtonEps    = 1e-11
	// newtonMaxIterations is a pragmatic safety net. Spec §4.3 imposes
	// no iteration cap and relies on the σ-bounds check to terminate;
	// a cap here only guards against a pathological oscillation that
	// never escapes the bounds.
	newtonMaxIterations = 1000
)

// NewtonRaphson is the primary IV solver. Grounded on
// _examples/original_source/src/util/newtonraphson.cpp/.h and the
// Newton-step shape in
// composite/black_scholes_greek_calculator.go's calcImpliedVolatility*.
type NewtonRaphson struct{}

func (NewtonRaphson) Solve(model pricing.Model, typ pricing.OptionType, strike, targetPrice float64) (float64, bool) {
	sigma := model.SeedSigma(strike)
	if math.IsNaN(sigma) || sigma <= 0 {
		sigma = 0.5
	}

	for i := 0; i < newtonMaxIterations; i++ {
		model.SetSigma(sigma)
		price := model.Price(typ, strike)
		if math.IsNaN(price) || math.IsInf(price, 0) {
			return 0, false
		}
		diff := price - targetPrice
		if math.Abs(diff) <= newtonEps {
			return sigma, true
		}

		vega := model.Vega(typ, strike)
		if math.IsNaN(vega) || math.IsInf(vega, 0) || math.Abs(vega) < 1e-12 {
			return 0, false
		}

		sigma -= diff / vega
		if sigma <= newtonVolMin || sigma >= newtonVolMax || math.IsNaN(sigma) {
			return 0, false
		}
	}
	return 0, false
}
