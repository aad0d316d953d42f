// Package calculator implements the façade (C6): one Calculator per
// (pricing model, IV method) pair, exposing a single Analyze(strategy)
// entry point that drives the §4.5 pipeline in package analysis.
package calculator

import (
	"sort"

	"github.com/intrinio/option-analytics-go/analysis"
	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/impliedvol"
	"github.com/intrinio/option-analytics-go/pricing"
)

// ModelFactory constructs a fresh pricing instance for one (S,r,b,σ,T)
// tuple and exercise style — the "createPricingMethod" hook spec §4.6
// describes. A second overload below additionally carries a discrete
// dividend schedule.
type ModelFactory func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model

// ModelFactoryWithDividends is the dividend-carrying overload of
// ModelFactory (spec §4.6).
type ModelFactoryWithDividends func(spot, rate, carry, sigma, term float64, style chain.Style, dividends []chain.Dividend) pricing.Model

// defaultHVDepthDays is the historical-volatility lookback used to seed
// σ when a strike has no usable market mark; 30 trading days ("1m") is
// the shortest depth the reference database's own historicalVolatility
// table tracks beyond the noisiest 5d/10d windows.
const defaultHVDepthDays = 30

// Calculator is one façade instance, parameterized with exactly one
// pricing model and one primary IV method. Grounded on
// _examples/original_source/src/calc/abstractevcalc.h /
// expectedvaluecalc.h.
type Calculator struct {
	underlyingMark float64
	table          chain.ChainTable
	sink           chain.ResultSink
	rates          chain.RateCurve
	dividends      chain.DividendSchedule
	hv             chain.HistoricalVolatility

	newModel    ModelFactory
	newModelDiv ModelFactoryWithDividends
	primary     impliedvol.Solver

	tradeCost  float64
	multiplier float64
}

// New constructs a Calculator over the given chain table and result
// sink. primary is the model's preferred IV solver; the façade always
// retries with AlternativeBisection on failure unless primary already
// is one (SPEC_FULL.md §3's double-fallback policy).
func New(underlyingMark float64, table chain.ChainTable, sink chain.ResultSink, rates chain.RateCurve, dividends chain.DividendSchedule, hv chain.HistoricalVolatility, newModel ModelFactory, newModelDiv ModelFactoryWithDividends, primary impliedvol.Solver, tradeCost, multiplier float64) *Calculator {
	return &Calculator{
		underlyingMark: underlyingMark,
		table:          table,
		sink:           sink,
		rates:          rates,
		dividends:      dividends,
		hv:             hv,
		newModel:       newModel,
		newModelDiv:    newModelDiv,
		primary:        primary,
		tradeCost:      tradeCost,
		multiplier:     multiplier,
	}
}

// calcImplVol tries the primary solver, then falls back to
// AlternativeBisection when the primary isn't already that method —
// the exact guard _examples/original_source/src/calc/abstractevcalc.h
// applies to avoid a pointless AltBisection-on-AltBisection retry.
func (c *Calculator) calcImplVol(model pricing.Model, typ pricing.OptionType, strike, target float64) (float64, bool) {
	if sigma, ok := c.primary.Solve(model, typ, strike, target); ok {
		return sigma, true
	}
	if _, isAlt := c.primary.(impliedvol.AlternativeBisection); isAlt {
		return 0, false
	}
	return (impliedvol.AlternativeBisection{}).Solve(model, typ, strike, target)
}

// hvSeed builds an analysis.HVSeed bound to symbol, consulted only
// when a strike's market mark is unavailable (spec §9).
func (c *Calculator) hvSeed(symbol string) analysis.HVSeed {
	return func() (float64, bool) {
		if c.hv == nil {
			return 0, false
		}
		return c.hv.HV(symbol, defaultHVDepthDays)
	}
}

func (c *Calculator) rateFor(term float64) float64 {
	if c.rates == nil {
		return 0
	}
	if r, ok := c.rates.Rate(term); ok {
		return r
	}
	return 0
}

func (c *Calculator) carryFor(symbol string, rate float64) (float64, []chain.Dividend) {
	if c.dividends != nil {
		if schedule, ok := c.dividends.Schedule(symbol); ok && len(schedule) > 0 {
			return rate, schedule
		}
		if q, ok := c.dividends.Yield(symbol); ok {
			return rate - q, nil
		}
	}
	return rate, nil
}

// contractsByExpiry groups the chain table's rows by expiry so each
// group can be analyzed against its own term/rate/curve.
func (c *Calculator) contractsByExpiry() map[string][]chain.OptionContract {
	groups := map[string][]chain.OptionContract{}
	for i := 0; i < c.table.Len(); i++ {
		row := c.table.Row(i)
		key := row.Underlying + "|" + row.Expiry.Format("2006-01-02")
		groups[key] = append(groups[key], row)
	}
	return groups
}

func (c *Calculator) modelFactoryFor(symbol string, term float64, style chain.Style) analysis.ModelFactory {
	rate := c.rateFor(term)
	carry, divSchedule := c.carryFor(symbol, rate)
	return func() pricing.Model {
		if len(divSchedule) > 0 {
			return c.newModelDiv(c.underlyingMark, rate, carry, 0.3, term, style, divSchedule)
		}
		return c.newModel(c.underlyingMark, rate, carry, 0.3, term, style)
	}
}

// Analyze executes the §4.5 pipeline for the given strategy and emits
// rows to the result sink; idempotent, safe to call repeatedly with
// different strategies against the same chain. Returns the number of
// rows emitted.
func (c *Calculator) Analyze(strategy chain.StrategyTag) (int, error) {
	if c.underlyingMark <= 0 {
		return 0, chain.ErrContractViolation
	}

	emitted := 0
	anyCurve := false
	for _, contracts := range c.contractsByExpiry() {
		symbol := contracts[0].Underlying
		rate := c.rateFor(contracts[0].TermYears())

		solve := func(model pricing.Model, typ pricing.OptionType, strike, target float64) (float64, bool) {
			return c.calcImplVol(model, typ, strike, target)
		}

		calls, puts := analysis.GenerateGreeks(contracts, rate, func(ct chain.OptionContract) analysis.ModelFactory {
			return c.modelFactoryFor(symbol, ct.TermYears(), ct.Style)
		}, solve, c.hvSeed(symbol))

		curve, ok := analysis.BuildProbabilityCurve(calls, puts)
		if !ok {
			continue
		}
		anyCurve = true

		n, err := c.emitStrategy(strategy, curve, calls, puts)
		if err != nil {
			return emitted, err
		}
		emitted += n
	}
	if !anyCurve {
		return emitted, chain.ErrInsufficientStrikes
	}
	return emitted, nil
}

func (c *Calculator) emitStrategy(strategy chain.StrategyTag, curve analysis.ProbabilityCurve, calls, puts []chain.OptionGreeksRecord) (int, error) {
	switch strategy {
	case chain.Single:
		return c.emitSingle(calls, puts)
	case chain.CoveredCall:
		return c.emitCoveredCalls(curve, calls)
	case chain.CashSecuredPut:
		return c.emitCashSecuredPuts(curve, puts)
	case chain.VerticalBearCall:
		return c.emitVerticalBearCalls(curve, calls)
	case chain.VerticalBullPut:
		return c.emitVerticalBullPuts(curve, puts)
	default:
		return 0, nil
	}
}

func (c *Calculator) emitSingle(calls, puts []chain.OptionGreeksRecord) (int, error) {
	count := 0
	for _, records := range [][]chain.OptionGreeksRecord{calls, puts} {
		for _, rec := range records {
			row := chain.NewResultRow(chain.Single)
			row.LongStrike = rec.Strike
			row.Sigma = rec.Sigma
			row.Price = rec.Price
			row.Greeks = rec.Greeks
			row.Multiplier = c.multiplier
			if err := c.sink.Emit(row); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (c *Calculator) emitCoveredCalls(curve analysis.ProbabilityCurve, calls []chain.OptionGreeksRecord) (int, error) {
	count := 0
	for _, call := range calls {
		result := analysis.CoveredCall(curve, c.underlyingMark, call.Strike, call.MarketPrice, c.tradeCost, c.multiplier)
		row := result.ToResultRow(chain.CoveredCall, call.Strike, 0, c.multiplier)
		row.Sigma = call.Sigma
		row.Price = call.Price
		row.Greeks = call.Greeks
		if err := c.sink.Emit(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (c *Calculator) emitCashSecuredPuts(curve analysis.ProbabilityCurve, puts []chain.OptionGreeksRecord) (int, error) {
	count := 0
	for _, put := range puts {
		result := analysis.CashSecuredPut(curve, put.Strike, put.MarketPrice, c.tradeCost, c.multiplier)
		row := result.ToResultRow(chain.CashSecuredPut, put.Strike, 0, c.multiplier)
		row.Sigma = put.Sigma
		row.Price = put.Price
		row.Greeks = put.Greeks
		if err := c.sink.Emit(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// emitVerticalBearCalls pairs adjacent strikes (ascending) as
// short-lower/long-higher spreads.
func (c *Calculator) emitVerticalBearCalls(curve analysis.ProbabilityCurve, calls []chain.OptionGreeksRecord) (int, error) {
	asc := append([]chain.OptionGreeksRecord(nil), calls...)
	sort.Slice(asc, func(i, j int) bool { return asc[i].Strike < asc[j].Strike })

	count := 0
	for i := 0; i+1 < len(asc); i++ {
		short, long := asc[i], asc[i+1]
		result := analysis.VerticalBearCall(curve, short.Strike, long.Strike, short.MarketPrice, long.MarketPrice, c.tradeCost, c.multiplier)
		row := result.ToResultRow(chain.VerticalBearCall, long.Strike, short.Strike, c.multiplier)
		merged := analysis.MergeGreeks(long, short)
		row.Greeks = merged.Greeks
		if err := c.sink.Emit(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// emitVerticalBullPuts pairs adjacent strikes (ascending) as
// long-lower/short-higher put spreads.
func (c *Calculator) emitVerticalBullPuts(curve analysis.ProbabilityCurve, puts []chain.OptionGreeksRecord) (int, error) {
	asc := append([]chain.OptionGreeksRecord(nil), puts...)
	sort.Slice(asc, func(i, j int) bool { return asc[i].Strike < asc[j].Strike })

	count := 0
	for i := 0; i+1 < len(asc); i++ {
		long, short := asc[i], asc[i+1]
		result := analysis.VerticalBullPut(curve, short.Strike, long.Strike, short.MarketPrice, long.MarketPrice, c.tradeCost, c.multiplier)
		row := result.ToResultRow(chain.VerticalBullPut, long.Strike, short.Strike, c.multiplier)
		merged := analysis.MergeGreeks(long, short)
		row.Greeks = merged.Greeks
		if err := c.sink.Emit(row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
