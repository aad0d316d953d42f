package analysis

import (
	"math"
	"testing"

	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/pricing"
)

func syntheticRecord(strike float64, typ pricing.OptionType, delta float64) chain.OptionGreeksRecord {
	return chain.OptionGreeksRecord{
		Strike: strike,
		Type:   typ,
		Greeks: pricing.Greeks{Delta: delta},
	}
}

func TestBuildProbabilityCurveMonotone(t *testing.T) {
	puts := []chain.OptionGreeksRecord{
		syntheticRecord(90, pricing.Put, -0.1),
		syntheticRecord(100, pricing.Put, -0.5),
		syntheticRecord(110, pricing.Put, -0.9),
	}
	curve, ok := BuildProbabilityCurve(nil, puts)
	if !ok {
		t.Fatal("expected curve construction to succeed")
	}
	prev := -1.0
	for _, k := range []float64{85, 90, 95, 100, 105, 110, 115} {
		p := curve.CDFAt(k)
		if p < prev {
			t.Errorf("curve not monotone at K=%v: %v < %v", k, p, prev)
		}
		if p < 0 || p > 1 {
			t.Errorf("curve value out of [0,1] at K=%v: %v", k, p)
		}
		prev = p
	}
}

func TestBuildProbabilityCurveInsufficientStrikes(t *testing.T) {
	puts := []chain.OptionGreeksRecord{syntheticRecord(100, pricing.Put, -0.5)}
	_, ok := BuildProbabilityCurve(nil, puts)
	if ok {
		t.Error("expected failure with fewer than 3 strikes")
	}
}

func TestCoveredCallCostBasisAndBreakEven(t *testing.T) {
	puts := []chain.OptionGreeksRecord{
		syntheticRecord(90, pricing.Put, -0.1),
		syntheticRecord(100, pricing.Put, -0.5),
		syntheticRecord(110, pricing.Put, -0.9),
	}
	curve, _ := BuildProbabilityCurve(nil, puts)

	result := CoveredCall(curve, 100, 105, 3.0, 1.0, 100)
	wantCostBasis := 100*100.0 - (100*3.0 - 1.0)
	if math.Abs(result.CostBasis-wantCostBasis) > 1e-9 {
		t.Errorf("cost basis = %v, want %v", result.CostBasis, wantCostBasis)
	}
	wantBreakEven := wantCostBasis / 100
	if math.Abs(result.BreakEven-wantBreakEven) > 1e-9 {
		t.Errorf("break-even = %v, want %v", result.BreakEven, wantBreakEven)
	}
}

func TestVerticalBearCallNetCredit(t *testing.T) {
	puts := []chain.OptionGreeksRecord{
		syntheticRecord(90, pricing.Put, -0.1),
		syntheticRecord(100, pricing.Put, -0.5),
		syntheticRecord(110, pricing.Put, -0.9),
	}
	curve, _ := BuildProbabilityCurve(nil, puts)
	result := VerticalBearCall(curve, 100, 110, 2.5, 1.0, 1.0, 100)
	wantBreakEven := 100 + (2.5 - 1.0)
	if math.Abs(result.BreakEven-wantBreakEven) > 1e-9 {
		t.Errorf("break-even = %v, want %v", result.BreakEven, wantBreakEven)
	}
}

func TestMergeGreeksNetsDelta(t *testing.T) {
	long := chain.OptionGreeksRecord{Greeks: pricing.Greeks{Delta: 0.4}}
	short := chain.OptionGreeksRecord{Greeks: pricing.Greeks{Delta: 0.6}}
	merged := MergeGreeks(long, short)
	if math.Abs(merged.Greeks.Delta-(-0.2)) > 1e-9 {
		t.Errorf("net delta = %v, want -0.2", merged.Greeks.Delta)
	}
}
