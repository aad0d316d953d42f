package analysis

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/intrinio/option-analytics-go/chain"
)

// StrategyResult is the pure-numeric output of scoring one strategy
// candidate, before it is stamped into a chain.ResultRow by the
// calculator façade.
type StrategyResult struct {
	CostBasis           float64
	BreakEven           float64
	ExpectedValue       float64
	ExpectedLoss        float64
	ProbabilityOfProfit float64
}

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// ToResultRow stamps a StrategyResult into a chain.ResultRow at money
// boundaries, per SPEC_FULL.md §2 (decimal.Decimal for money fields,
// float64 everywhere internally).
func (r StrategyResult) ToResultRow(strategy chain.StrategyTag, longStrike, shortStrike, multiplier float64) chain.ResultRow {
	row := chain.NewResultRow(strategy)
	row.LongStrike = longStrike
	row.ShortStrike = shortStrike
	row.Multiplier = multiplier
	row.CostBasis = toDecimal(r.CostBasis)
	row.ExpectedValue = toDecimal(r.ExpectedValue)
	row.ExpectedLoss = toDecimal(r.ExpectedLoss)
	row.ProbabilityOfProfit = r.ProbabilityOfProfit
	row.BreakEven = r.BreakEven
	return row
}

// CoveredCall scores a short call against 100 long shares (spec
// §4.5.3). costBasis = M·S - (M·premium - c); payoff is capped at K.
func CoveredCall(curve ProbabilityCurve, spot, strike, premium, tradeCost, multiplier float64) StrategyResult {
	costBasis := multiplier*spot - (multiplier*premium - tradeCost)
	breakEven := costBasis / multiplier
	payoff := func(st float64) float64 {
		return math.Min(st, strike)*multiplier - costBasis
	}
	return StrategyResult{
		CostBasis:           costBasis,
		BreakEven:           breakEven,
		ExpectedValue:       curve.Expectation(payoff),
		ExpectedLoss:        curve.ExpectedLoss(payoff),
		ProbabilityOfProfit: 1 - curve.CDFAt(breakEven),
	}
}

// CashSecuredPut scores a short put backed by cash (spec §4.5.3):
// symmetric to CoveredCall with assignment below K, cash above.
func CashSecuredPut(curve ProbabilityCurve, strike, premium, tradeCost, multiplier float64) StrategyResult {
	costBasis := multiplier*strike - (multiplier*premium - tradeCost)
	breakEven := costBasis / multiplier
	payoff := func(st float64) float64 {
		return math.Min(st, strike)*multiplier - costBasis
	}
	return StrategyResult{
		CostBasis:           costBasis,
		BreakEven:           breakEven,
		ExpectedValue:       curve.Expectation(payoff),
		ExpectedLoss:        curve.ExpectedLoss(payoff),
		ProbabilityOfProfit: 1 - curve.CDFAt(breakEven),
	}
}

// VerticalBearCall scores a short lower-strike call against a long
// higher-strike call (spec §4.5.3).
func VerticalBearCall(curve ProbabilityCurve, shortStrike, longStrike, shortPremium, longPremium, tradeCost, multiplier float64) StrategyResult {
	netCredit := shortPremium - longPremium
	breakEven := shortStrike + netCredit
	payoff := func(st float64) float64 {
		return multiplier*netCredit - multiplier*math.Max(0, math.Min(st, longStrike)-shortStrike)
	}
	return StrategyResult{
		CostBasis:           multiplier*(longStrike-shortStrike) - multiplier*netCredit + 2*tradeCost,
		BreakEven:           breakEven,
		ExpectedValue:       curve.Expectation(payoff),
		ExpectedLoss:        curve.ExpectedLoss(payoff),
		ProbabilityOfProfit: curve.CDFAt(breakEven),
	}
}

// VerticalBullPut scores the dual of VerticalBearCall: short
// higher-strike put, long lower-strike put.
func VerticalBullPut(curve ProbabilityCurve, shortStrike, longStrike, shortPremium, longPremium, tradeCost, multiplier float64) StrategyResult {
	netCredit := shortPremium - longPremium
	breakEven := shortStrike - netCredit
	payoff := func(st float64) float64 {
		return multiplier*netCredit - multiplier*math.Max(0, shortStrike-math.Max(st, longStrike))
	}
	return StrategyResult{
		CostBasis:           multiplier*(shortStrike-longStrike) - multiplier*netCredit + 2*tradeCost,
		BreakEven:           breakEven,
		ExpectedValue:       curve.Expectation(payoff),
		ExpectedLoss:        curve.ExpectedLoss(payoff),
		ProbabilityOfProfit: 1 - curve.CDFAt(breakEven),
	}
}

// MergeGreeks nets two legs' Greeks for a spread row: Δ_net = Δ_long -
// Δ_short, etc. (spec §4.5.3).
func MergeGreeks(long, short chain.OptionGreeksRecord) chain.OptionGreeksRecord {
	merged := long
	merged.Greeks.Delta = long.Greeks.Delta - short.Greeks.Delta
	merged.Greeks.Gamma = long.Greeks.Gamma - short.Greeks.Gamma
	merged.Greeks.Theta = long.Greeks.Theta - short.Greeks.Theta
	merged.Greeks.Vega = long.Greeks.Vega - short.Greeks.Vega
	merged.Greeks.Rho = long.Greeks.Rho - short.Greeks.Rho
	return merged
}
