// Package analysis implements the expected-value analyzer (C5): Greek
// generation over a chain, risk-neutral probability-curve
// construction, and the four strategy scorers. It is driven by the
// calculator façade (C6), which supplies a pricing-model factory and
// an IV solver with its documented fallback policy.
package analysis

import (
	"math"
	"sort"

	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/pricing"
)

// Solve recovers σ from a model/type/strike/target tuple, already
// wrapping whatever solver-fallback policy the caller wants (spec
// §4.3's policy: primary then alternative bisection, owned by
// calculator.Calculator).
type Solve func(model pricing.Model, typ pricing.OptionType, strike, target float64) (float64, bool)

// ModelFactory constructs a fresh pricing.Model for one strike's work.
// Per spec §5, the instance is exclusively owned by the caller for the
// duration of that strike and is never retained afterward.
type ModelFactory func() pricing.Model

// HVSeed returns a historical-volatility σ seed for the contract's
// underlying, or ok=false when none is available. Consulted only when
// the market mark is missing, per spec §9's "hv as fallback σ seed".
type HVSeed func() (float64, bool)

// GenerateGreeksForContract implements spec §4.5.1 for a single
// (strike, side): it solves σ from bid/ask/mark (any component may
// fail independently), then — if and only if the mark-σ converges —
// builds a fresh pricing instance at σ_mark and records the full
// Greek set. When the mark itself is unavailable (Mark <= 0), it falls
// back to hvSeed instead of skipping the strike outright; the record
// still requires a resolvable σ from somewhere to contribute. Returns
// ok=false when neither the mark nor hvSeed produced a usable σ.
func GenerateGreeksForContract(contract chain.OptionContract, term, rate float64, newModel ModelFactory, solve Solve, hvSeed HVSeed) (chain.OptionGreeksRecord, bool) {
	rec := chain.OptionGreeksRecord{
		Strike: contract.Strike,
		Type:   contract.Type,
		Bid:    contract.Bid,
		Ask:    contract.Ask,
		Mark:   contract.Mark,
		Term:   term,
		Rate:   rate,
	}
	if contract.Bid > 0 && contract.Ask > 0 {
		rec.Spread = contract.Ask - contract.Bid
		if contract.Mark > 0 {
			rec.SpreadPct = rec.Spread / contract.Mark
		}
	}

	if contract.Bid > 0 {
		if sigma, ok := solve(newModel(), contract.Type, contract.Strike, contract.Bid); ok {
			rec.BidVol = sigma
		}
	}
	if contract.Ask > 0 {
		if sigma, ok := solve(newModel(), contract.Type, contract.Strike, contract.Ask); ok {
			rec.AskVol = sigma
		}
	}

	var markSigma float64
	if contract.Mark > 0 {
		sigma, ok := solve(newModel(), contract.Type, contract.Strike, contract.Mark)
		if !ok {
			return chain.OptionGreeksRecord{}, false
		}
		markSigma = sigma
		rec.MarkVol = sigma
		rec.MarketPrice = contract.Mark
	} else {
		if hvSeed == nil {
			return chain.OptionGreeksRecord{}, false
		}
		sigma, ok := hvSeed()
		if !ok {
			return chain.OptionGreeksRecord{}, false
		}
		markSigma = sigma
	}
	rec.Sigma = markSigma

	model := newModel()
	model.SetSigma(markSigma)
	price := model.Price(contract.Type, contract.Strike)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return chain.OptionGreeksRecord{}, false
	}
	rec.Price = price
	if rec.MarketPrice <= 0 {
		// no live mark to report; the HV-seeded theoretical price
		// stands in so downstream strategy scoring still has a premium.
		rec.MarketPrice = price
	}
	rec.Greeks = model.Partials(contract.Type, contract.Strike)

	return rec, true
}

// GenerateGreeks iterates every row of a chain, grouped by expiry
// implicitly (callers pass one expiry's rows at a time), emitting one
// record per strike/side whose mark-σ converges. Iteration order
// follows spec §4.5.4: ascending strike for puts, descending for
// calls.
func GenerateGreeks(contracts []chain.OptionContract, rate float64, newModelFor func(chain.OptionContract) ModelFactory, solve Solve, hvSeed HVSeed) (calls, puts []chain.OptionGreeksRecord) {
	sorted := append([]chain.OptionContract(nil), contracts...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Strike < sorted[j].Strike
	})

	for _, c := range sorted {
		term := c.TermYears()
		if term <= 0 || c.Strike <= 0 {
			continue
		}
		rec, ok := GenerateGreeksForContract(c, term, rate, newModelFor(c), solve, hvSeed)
		if !ok {
			continue
		}
		if c.Type == pricing.Call {
			calls = append(calls, rec)
		} else {
			puts = append(puts, rec)
		}
	}

	// calls are processed in descending-strike order (spec §4.5.4);
	// puts stay ascending, matching the sort above.
	sort.Slice(calls, func(i, j int) bool { return calls[i].Strike > calls[j].Strike })

	return calls, puts
}
