package calculator

import (
	"testing"
	"time"

	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/impliedvol"
	"github.com/intrinio/option-analytics-go/pricing"
)

type fakeTable struct {
	rows []chain.OptionContract
}

func (f fakeTable) Len() int                       { return len(f.rows) }
func (f fakeTable) Row(i int) chain.OptionContract  { return f.rows[i] }

type fakeSink struct {
	rows []chain.ResultRow
}

func (f *fakeSink) Emit(row chain.ResultRow) error {
	f.rows = append(f.rows, row)
	return nil
}

type flatRates struct{ r float64 }

func (f flatRates) Rate(term float64) (float64, bool) { return f.r, true }

type noDividends struct{}

func (noDividends) Schedule(symbol string) ([]chain.Dividend, bool) { return nil, false }
func (noDividends) Yield(symbol string) (float64, bool)             { return 0, false }

func syntheticChain(spot float64, expiry time.Time) []chain.OptionContract {
	strikes := []float64{90, 95, 100, 105, 110}
	var rows []chain.OptionContract
	for _, k := range strikes {
		bs := pricing.NewBlackScholes(spot, 0.02, 0.02, 0.25, 30.0/365.0)
		call := bs.Price(pricing.Call, k)
		put := bs.Price(pricing.Put, k)
		rows = append(rows,
			chain.OptionContract{
				Underlying: "XYZ", Expiry: expiry, Strike: k, Type: pricing.Call,
				Bid: call * 0.98, Ask: call * 1.02, Mark: call,
				Style: chain.European, Multiplier: 100, DaysToExpiry: 30,
			},
			chain.OptionContract{
				Underlying: "XYZ", Expiry: expiry, Strike: k, Type: pricing.Put,
				Bid: put * 0.98, Ask: put * 1.02, Mark: put,
				Style: chain.European, Multiplier: 100, DaysToExpiry: 30,
			},
		)
	}
	return rows
}

func newTestCalculator(sink chain.ResultSink, rows []chain.OptionContract) *Calculator {
	newModel := func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model {
		return pricing.NewBlackScholes(spot, rate, carry, sigma, term)
	}
	newModelDiv := func(spot, rate, carry, sigma, term float64, style chain.Style, dividends []chain.Dividend) pricing.Model {
		return pricing.NewBlackScholes(spot, rate, carry, sigma, term)
	}
	return New(100.0, fakeTable{rows: rows}, sink, flatRates{r: 0.02}, noDividends{}, nil,
		newModel, newModelDiv, impliedvol.NewtonRaphson{}, 0.65, 100)
}

func TestAnalyzeSingleEmitsOneRowPerSurvivingContract(t *testing.T) {
	sink := &fakeSink{}
	calc := newTestCalculator(sink, syntheticChain(100, time.Now().AddDate(0, 0, 30)))

	n, err := calc.Analyze(chain.Single)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if n == 0 {
		t.Fatal("expected at least one emitted row")
	}
	if len(sink.rows) != n {
		t.Fatalf("sink got %d rows, Analyze reported %d", len(sink.rows), n)
	}
}

func TestAnalyzeCoveredCallProducesPositiveCostBasis(t *testing.T) {
	sink := &fakeSink{}
	calc := newTestCalculator(sink, syntheticChain(100, time.Now().AddDate(0, 0, 30)))

	n, err := calc.Analyze(chain.CoveredCall)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if n == 0 {
		t.Fatal("expected covered-call rows")
	}
	for _, row := range sink.rows {
		if !row.CostBasis.IsPositive() {
			t.Errorf("strike %v: non-positive cost basis %v", row.LongStrike, row.CostBasis)
		}
	}
}

func TestAnalyzeVerticalBearCallPairsAdjacentStrikes(t *testing.T) {
	sink := &fakeSink{}
	calc := newTestCalculator(sink, syntheticChain(100, time.Now().AddDate(0, 0, 30)))

	n, err := calc.Analyze(chain.VerticalBearCall)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if n == 0 {
		t.Fatal("expected spread rows")
	}
	for _, row := range sink.rows {
		if row.ShortStrike >= row.LongStrike {
			t.Errorf("bear call spread has short >= long: %v >= %v", row.ShortStrike, row.LongStrike)
		}
	}
}

func TestAnalyzeReturnsErrInsufficientStrikesWhenNoCurveBuilds(t *testing.T) {
	sink := &fakeSink{}
	expiry := time.Now().AddDate(0, 0, 30)
	rows := []chain.OptionContract{
		{Underlying: "XYZ", Expiry: expiry, Strike: 100, Type: pricing.Call,
			Bid: 1, Ask: 1.1, Mark: 1.05, Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
	}
	calc := newTestCalculator(sink, rows)

	n, err := calc.Analyze(chain.Single)
	if err != chain.ErrInsufficientStrikes {
		t.Fatalf("expected ErrInsufficientStrikes, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows emitted, got %d", n)
	}
}

type fakeHV struct {
	sigma float64
	ok    bool
}

func (f fakeHV) HV(symbol string, depthDays int) (float64, bool) { return f.sigma, f.ok }

func TestAnalyzeFallsBackToHistoricalVolatilityWhenMarkMissing(t *testing.T) {
	sink := &fakeSink{}
	expiry := time.Now().AddDate(0, 0, 30)
	rows := []chain.OptionContract{
		{Underlying: "XYZ", Expiry: expiry, Strike: 90, Type: pricing.Call,
			Mark: 11.2, Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
		{Underlying: "XYZ", Expiry: expiry, Strike: 100, Type: pricing.Call,
			Mark: 3.4, Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
		{Underlying: "XYZ", Expiry: expiry, Strike: 110, Type: pricing.Call,
			Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
	}
	newModel := func(spot, rate, carry, sigma, term float64, style chain.Style) pricing.Model {
		return pricing.NewBlackScholes(spot, rate, carry, sigma, term)
	}
	newModelDiv := func(spot, rate, carry, sigma, term float64, style chain.Style, dividends []chain.Dividend) pricing.Model {
		return pricing.NewBlackScholes(spot, rate, carry, sigma, term)
	}
	calc := New(100.0, fakeTable{rows: rows}, sink, flatRates{r: 0.02}, noDividends{}, fakeHV{sigma: 0.35, ok: true},
		newModel, newModelDiv, impliedvol.NewtonRaphson{}, 0.65, 100)

	n, err := calc.Analyze(chain.Single)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected all 3 strikes to produce a record (third seeded by HV), got %d", n)
	}
	var sawHVSeeded bool
	for _, row := range sink.rows {
		if row.LongStrike == 110 {
			sawHVSeeded = true
			if row.Sigma != 0.35 {
				t.Errorf("strike 110: sigma = %v, want HV-seeded 0.35", row.Sigma)
			}
		}
	}
	if !sawHVSeeded {
		t.Fatal("expected a row for the mark-less strike 110")
	}
}

func TestAnalyzeSkipsStrikeWhenMarkMissingAndNoHistoricalVolatility(t *testing.T) {
	sink := &fakeSink{}
	expiry := time.Now().AddDate(0, 0, 30)
	rows := []chain.OptionContract{
		{Underlying: "XYZ", Expiry: expiry, Strike: 90, Type: pricing.Call,
			Mark: 11.2, Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
		{Underlying: "XYZ", Expiry: expiry, Strike: 95, Type: pricing.Call,
			Mark: 6.5, Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
		{Underlying: "XYZ", Expiry: expiry, Strike: 100, Type: pricing.Call,
			Mark: 3.4, Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
		{Underlying: "XYZ", Expiry: expiry, Strike: 110, Type: pricing.Call,
			Style: chain.European, Multiplier: 100, DaysToExpiry: 30},
	}
	calc := newTestCalculator(sink, rows)

	n, err := calc.Analyze(chain.Single)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected the mark-less strike to be skipped, got %d rows", n)
	}
	for _, row := range sink.rows {
		if row.LongStrike == 110 {
			t.Error("strike 110 has no mark and no HV source; it should not have been emitted")
		}
	}
}

func TestAnalyzeRejectsNonPositiveUnderlying(t *testing.T) {
	sink := &fakeSink{}
	calc := newTestCalculator(sink, syntheticChain(100, time.Now().AddDate(0, 0, 30)))
	calc.underlyingMark = 0

	_, err := calc.Analyze(chain.Single)
	if err != chain.ErrContractViolation {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}
