package analysis

import (
	"sort"

	"github.com/intrinio/option-analytics-go/chain"
)

// ProbabilityCurve is the risk-neutral empirical CDF of the
// underlying's terminal price, sorted ascending by strike, monotone
// non-decreasing, with values in [0,1]. Grounded on spec §4.5.2; per
// spec §9's Open Questions this implements a single canonical pass
// (put-side Δ sweep with a call-side parity fill) rather than the
// original engine's two interleaved passes.
type ProbabilityCurve struct {
	strikes []float64
	cdf     []float64
}

// CDFAt returns P(S_T <= x) by linear interpolation across the curve's
// knots, clamped to the curve's domain.
func (c ProbabilityCurve) CDFAt(x float64) float64 {
	if len(c.strikes) == 0 {
		return 0
	}
	if x <= c.strikes[0] {
		return c.cdf[0]
	}
	if x >= c.strikes[len(c.strikes)-1] {
		return c.cdf[len(c.cdf)-1]
	}
	i := sort.SearchFloat64s(c.strikes, x)
	if i == 0 {
		return c.cdf[0]
	}
	x0, x1 := c.strikes[i-1], c.strikes[i]
	y0, y1 := c.cdf[i-1], c.cdf[i]
	if x1 == x0 {
		return y0
	}
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// Expectation sums payoff(midpoint)*P(interval) over the curve's
// knot intervals, the spec §4.5.3 "integrate over the probability
// curve intervals" construction.
func (c ProbabilityCurve) Expectation(payoff func(float64) float64) float64 {
	var sum float64
	for i := 1; i < len(c.strikes); i++ {
		mid := (c.strikes[i-1] + c.strikes[i]) / 2
		prob := c.cdf[i] - c.cdf[i-1]
		sum += payoff(mid) * prob
	}
	return sum
}

// ExpectedLoss sums payoff(midpoint)*P(interval) over intervals whose
// midpoint payoff is negative — spec §4.5.3's E[loss|loss]×P(loss)
// helper.
func (c ProbabilityCurve) ExpectedLoss(payoff func(float64) float64) float64 {
	var sum float64
	for i := 1; i < len(c.strikes); i++ {
		mid := (c.strikes[i-1] + c.strikes[i]) / 2
		p := payoff(mid)
		if p < 0 {
			sum += p * (c.cdf[i] - c.cdf[i-1])
		}
	}
	return sum
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// BuildProbabilityCurve constructs the final curve from the put and
// call Greek records generated for one expiry. Returns ok=false if
// fewer than 3 strikes survive on both sides (spec §4.5.2: "must stop
// cleanly if fewer than 3 strikes survive on the chosen side").
func BuildProbabilityCurve(calls, puts []chain.OptionGreeksRecord) (ProbabilityCurve, bool) {
	if len(calls) < 3 && len(puts) < 3 {
		return ProbabilityCurve{}, false
	}

	raw := map[float64]float64{}

	// put-side: P(S_T <= K) approximated directly from put Δ, which is
	// already negative and roughly tracks -Φ(-d1); this is the
	// canonical "N(d2)-style" proxy spec §4.5.2 calls for.
	for _, p := range puts {
		raw[p.Strike] = clamp01(-p.Greeks.Delta)
	}

	// call-side parity fill for any strike the put side didn't cover:
	// P_call(K) = 1 - Δ_call(K), matching put-call-parity's role as a
	// cross-check/fill for the untraded tail (spec §4.5.2 step 4).
	for _, c := range calls {
		if _, ok := raw[c.Strike]; !ok {
			raw[c.Strike] = clamp01(1 - c.Greeks.Delta)
		}
	}

	if len(raw) < 3 {
		return ProbabilityCurve{}, false
	}

	strikes := make([]float64, 0, len(raw))
	for k := range raw {
		strikes = append(strikes, k)
	}
	sort.Float64s(strikes)

	cdf := make([]float64, len(strikes))
	runningMax := 0.0
	for i, k := range strikes {
		v := clamp01(raw[k])
		if v < runningMax {
			v = runningMax
		}
		runningMax = v
		cdf[i] = v
	}
	// rescale so the final knot reaches 1 at most (already clamped) and
	// the first knot is >= 0 (already clamped); no further adjustment
	// needed since the running-max pass already enforces monotonicity.

	return ProbabilityCurve{strikes: strikes, cdf: cdf}, true
}
