// Package chain defines the data model and the external contracts
// (C7) that the analyzer depends on: the read-only chain table, the
// result sink, and the rate/dividend/historical-volatility lookups.
// None of these are implemented here — chain only defines the narrow
// capability interfaces a caller injects; cache, store, and feed
// provide concrete implementations.
package chain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/intrinio/option-analytics-go/pricing"
)

// Style discriminates European from American exercise.
type Style int

const (
	European Style = iota
	American
)

// OptionContract is one row of the chain table: the identifier tuple
// (underlying, expiry, strike, type) plus market quotes, settlement
// style, multiplier, and days-to-expiry. Invariant: Bid <= Mark <= Ask
// when all three are present; DaysToExpiry > 0; Strike > 0.
type OptionContract struct {
	Underlying    string
	Expiry        time.Time
	Strike        float64
	Type          pricing.OptionType
	Bid           float64
	Ask           float64
	Last          float64
	Mark          float64
	BidSize       uint32
	AskSize       uint32
	Style         Style
	Multiplier    float64
	DaysToExpiry  int
}

// TermYears returns the contract's time-to-expiry in years, derived
// from DaysToExpiry.
func (c OptionContract) TermYears() float64 {
	return float64(c.DaysToExpiry) / 365.0
}

// Dividend is a single discrete cash dividend; re-exported from
// pricing so callers need not import both packages to build a
// schedule.
type Dividend = pricing.Dividend

// DividendFrequency enumerates the external dividend-schedule lookup's
// payment cadence (spec §6).
type DividendFrequency float64

const (
	Yearly    DividendFrequency = 1.0
	Biannual  DividendFrequency = 0.5
	Quarterly DividendFrequency = 0.25
	Monthly   DividendFrequency = 1.0 / 12.0
)

// MarketContext carries the underlying spot, the sampled risk-free
// rate, the cost-of-carry, the current σ estimate, and an optional
// discrete-dividend schedule. Invariants: σ > 0 in any stored snapshot
// (solvers may transiently probe σ=0+); 0 <= Rate.
type MarketContext struct {
	Spot      float64
	Rate      float64
	Carry     float64
	Sigma     float64
	Dividends []Dividend
}

// OptionGreeksRecord is produced per strike/side during Greek
// generation (spec §4.5.1) and consumed by probability-curve
// construction and strategy scoring; it does not outlive one
// Calculator.Analyze call.
type OptionGreeksRecord struct {
	Strike      float64
	Type        pricing.OptionType
	Bid, BidVol float64
	Ask, AskVol float64
	Mark, MarkVol float64
	Spread      float64
	SpreadPct   float64
	MarketPrice float64
	Price       float64
	Sigma       float64
	Greeks      pricing.Greeks
	Term        float64
	Rate        float64
}

// ProbabilityCurveRecord is the per-strike/side curve-fit record spec
// §3 describes: bounding (price,σ) pairs plus the chosen price/σ/Δ.
type ProbabilityCurveRecord struct {
	Strike   float64
	Type     pricing.OptionType
	PriceMin float64
	SigmaMin float64
	PriceMax float64
	SigmaMax float64
	Price    float64
	Sigma    float64
	Delta    float64
}

// StrategyTag enumerates the supported strategies (spec §6), extensible
// for future strategies.
type StrategyTag string

const (
	Single           StrategyTag = "Single"
	CoveredCall      StrategyTag = "CoveredCall"
	CashSecuredPut   StrategyTag = "CashSecuredPut"
	VerticalBearCall StrategyTag = "VerticalBearCall"
	VerticalBullPut  StrategyTag = "VerticalBullPut"
)

// ResultRow is one emitted row: strategy tag, leg strike(s), cost
// basis, expected value/loss, probability of profit, and merged
// Greeks. Transferred to the result sink; never shared/mutated after
// emission.
type ResultRow struct {
	ID                   uuid.UUID
	Strategy             StrategyTag
	LongStrike           float64
	ShortStrike          float64
	Multiplier           float64
	CostBasis            decimal.Decimal
	ExpectedValue        decimal.Decimal
	ExpectedLoss         decimal.Decimal
	ProbabilityOfProfit  float64
	BreakEven            float64
	Greeks               pricing.Greeks
	Sigma                float64
	Price                float64
}

// NewResultRow stamps a fresh row with a random ID, matching the
// result-sink contract's "one call per row" expectation.
func NewResultRow(strategy StrategyTag) ResultRow {
	return ResultRow{ID: uuid.New(), Strategy: strategy}
}
