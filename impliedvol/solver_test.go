package impliedvol

import (
	"math"
	"testing"

	"github.com/intrinio/option-analytics-go/pricing"
)

func TestNewtonRaphsonRoundTripS8(t *testing.T) {
	model := pricing.NewBlackScholes(100, 0.08, 0.08, 0.20, 0.5)
	target := model.Price(pricing.Call, 100)

	model.SetSigma(0.20) // reset before solving
	sigma, ok := (NewtonRaphson{}).Solve(model, pricing.Call, 100, target)
	if !ok {
		t.Fatal("NewtonRaphson failed to converge")
	}
	if math.Abs(sigma-0.20) > 1e-4 {
		t.Errorf("recovered sigma = %v, want 0.20", sigma)
	}
}

func TestNewtonRaphsonRoundTripVariousSigmas(t *testing.T) {
	for _, sigma := range []float64{0.05, 0.15, 0.5, 1.0, 2.0} {
		model := pricing.NewBlackScholes(100, 0.05, 0.02, sigma, 1.0)
		target := model.Price(pricing.Call, 100)
		model.SetSigma(sigma)
		got, ok := (NewtonRaphson{}).Solve(model, pricing.Call, 100, target)
		if !ok {
			t.Errorf("sigma=%v: solver failed", sigma)
			continue
		}
		if math.Abs(got-sigma) > 1e-4 {
			t.Errorf("sigma=%v: recovered %v", sigma, got)
		}
	}
}

func TestBisectionFallback(t *testing.T) {
	model := pricing.NewBlackScholes(100, 0.05, 0.02, 0.3, 1.0)
	target := model.Price(pricing.Put, 100)
	model.SetSigma(0.3)
	got, ok := (Bisection{}).Solve(model, pricing.Put, 100, target)
	if !ok {
		t.Fatal("bisection failed to converge")
	}
	if math.Abs(got-0.3) > 1e-3 {
		t.Errorf("recovered sigma = %v, want ~0.3", got)
	}
}

func TestBisectionOutOfRangeFails(t *testing.T) {
	model := pricing.NewBlackScholes(100, 0.05, 0.02, 0.3, 1.0)
	// an impossibly high target price for any sigma in range
	_, ok := (Bisection{}).Solve(model, pricing.Call, 100, 1e9)
	if ok {
		t.Error("expected bisection to fail for an unreachable target price")
	}
}

func TestAlternativeBisectionRoundTrip(t *testing.T) {
	model := pricing.NewBlackScholes(80, 0.03, 0.01, 0.6, 0.75)
	target := model.Price(pricing.Put, 85)
	model.SetSigma(0.6)
	got, ok := (AlternativeBisection{}).Solve(model, pricing.Put, 85, target)
	if !ok {
		t.Fatal("alternative bisection failed to converge")
	}
	if math.Abs(got-0.6) > 1e-2 {
		t.Errorf("recovered sigma = %v, want ~0.6", got)
	}
}
