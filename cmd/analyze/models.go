package main

import (
	"fmt"

	"github.com/intrinio/option-analytics-go/calculator"
	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/impliedvol"
	"github.com/intrinio/option-analytics-go/pricing"
)

// modelFactories maps a --model flag value to the (no-dividend,
// with-dividend) constructor pair calculator.New expects. Every
// pricing.New* variant from package pricing gets an entry.
var modelFactories = map[string]struct {
	plain calculator.ModelFactory
	div   calculator.ModelFactoryWithDividends
}{
	"blackscholes": {
		plain: func(spot, rate, carry, sigma, term float64, _ chain.Style) pricing.Model {
			return pricing.NewBlackScholes(spot, rate, carry, sigma, term)
		},
		div: func(spot, rate, carry, sigma, term float64, _ chain.Style, _ []chain.Dividend) pricing.Model {
			return pricing.NewBlackScholes(spot, rate, carry, sigma, term)
		},
	},
	"baw": {
		plain: func(spot, rate, carry, sigma, term float64, _ chain.Style) pricing.Model {
			return pricing.NewBaroneAdesiWhaley(spot, rate, carry, sigma, term)
		},
		div: func(spot, rate, carry, sigma, term float64, _ chain.Style, _ []chain.Dividend) pricing.Model {
			return pricing.NewBaroneAdesiWhaley(spot, rate, carry, sigma, term)
		},
	},
	"bjerksundstensland": {
		plain: func(spot, rate, carry, sigma, term float64, _ chain.Style) pricing.Model {
			return pricing.NewBjerksundStensland(spot, rate, carry, sigma, term)
		},
		div: func(spot, rate, carry, sigma, term float64, _ chain.Style, _ []chain.Dividend) pricing.Model {
			return pricing.NewBjerksundStensland(spot, rate, carry, sigma, term)
		},
	},
	"crr": {
		plain: func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model {
			return pricing.NewCoxRossRubinstein(spot, rate, carry, sigma, term, style == chain.European)
		},
		div: func(spot, rate, carry, sigma, term float64, style chain.Style, divs []chain.Dividend) pricing.Model {
			return pricing.NewCoxRossRubinsteinN(spot, rate, carry, sigma, term, style == chain.European, 200, divs)
		},
	},
	"equalprob": {
		plain: func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model {
			return pricing.NewEqualProbabilityBinomial(spot, rate, carry, sigma, term, style == chain.European)
		},
		div: func(spot, rate, carry, sigma, term float64, style chain.Style, divs []chain.Dividend) pricing.Model {
			return pricing.NewEqualProbabilityBinomialN(spot, rate, carry, sigma, term, style == chain.European, 200, divs)
		},
	},
	"phelimboyle": {
		plain: func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model {
			return pricing.NewPhelimBoyle(spot, rate, carry, sigma, term, style == chain.European)
		},
		div: func(spot, rate, carry, sigma, term float64, style chain.Style, divs []chain.Dividend) pricing.Model {
			return pricing.NewPhelimBoyleN(spot, rate, carry, sigma, term, style == chain.European, 150, divs)
		},
	},
	"kamradritchken": {
		plain: func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model {
			return pricing.NewKamradRitchken(spot, rate, carry, sigma, term, style == chain.European)
		},
		div: func(spot, rate, carry, sigma, term float64, style chain.Style, divs []chain.Dividend) pricing.Model {
			return pricing.NewKamradRitchkenN(spot, rate, carry, sigma, term, style == chain.European, 150, divs)
		},
	},
	"montecarlo": {
		plain: func(spot, rate, carry, sigma, term float64, _ chain.Style) pricing.Model {
			return pricing.NewMonteCarlo(spot, rate, carry, sigma, term)
		},
		div: func(spot, rate, carry, sigma, term float64, _ chain.Style, _ []chain.Dividend) pricing.Model {
			return pricing.NewMonteCarlo(spot, rate, carry, sigma, term)
		},
	},
	// rollgeskewhaley only prices American calls against a single known
	// cash dividend; it ignores carry and Style (always American) and
	// takes its dividend from the first scheduled payment, if any.
	"rollgeskewhaley": {
		plain: func(spot, rate, _, sigma, term float64, _ chain.Style) pricing.Model {
			return pricing.NewRollGeskeWhaley(spot, rate, sigma, term, 0, 0)
		},
		div: func(spot, rate, _, sigma, term float64, _ chain.Style, dividends []chain.Dividend) pricing.Model {
			if len(dividends) == 0 {
				return pricing.NewRollGeskeWhaley(spot, rate, sigma, term, 0, 0)
			}
			d := dividends[0]
			return pricing.NewRollGeskeWhaley(spot, rate, sigma, term, d.Amount, d.Time)
		},
	},
}

// solvers maps a --solver flag value to a primary impliedvol.Solver.
// The façade retries with AlternativeBisection on failure unless the
// primary already is AlternativeBisection ("altbisect").
var solvers = map[string]impliedvol.Solver{
	"newton":    impliedvol.NewtonRaphson{},
	"bisection": impliedvol.Bisection{},
	"altbisect": impliedvol.AlternativeBisection{},
}

func resolveModel(name string) (calculator.ModelFactory, calculator.ModelFactoryWithDividends, error) {
	pair, ok := modelFactories[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown model %q", name)
	}
	return pair.plain, pair.div, nil
}

func resolveSolver(name string) (impliedvol.Solver, error) {
	solver, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver %q", name)
	}
	return solver, nil
}
