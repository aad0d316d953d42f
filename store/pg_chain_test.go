package store

import (
	"math"
	"testing"
)

func TestPgRateCurveInterpolatesLinearly(t *testing.T) {
	curve := &PgRateCurve{
		tenors: []float64{30.0 / 365.0, 90.0 / 365.0, 365.0 / 365.0},
		rates:  []float64{0.02, 0.025, 0.03},
	}

	r, ok := curve.Rate(60.0 / 365.0)
	if !ok {
		t.Fatal("expected Rate to succeed within domain")
	}
	want := 0.0225
	if math.Abs(r-want) > 1e-9 {
		t.Errorf("Rate(60d) = %v, want %v", r, want)
	}
}

func TestPgRateCurveClampsOutOfRange(t *testing.T) {
	curve := &PgRateCurve{
		tenors: []float64{30.0 / 365.0, 365.0 / 365.0},
		rates:  []float64{0.02, 0.03},
	}

	low, _ := curve.Rate(1.0 / 365.0)
	if low != 0.02 {
		t.Errorf("Rate below domain = %v, want clamp to 0.02", low)
	}
	high, _ := curve.Rate(5 * 365.0 / 365.0)
	if high != 0.03 {
		t.Errorf("Rate above domain = %v, want clamp to 0.03", high)
	}
}

func TestPgRateCurveEmptyFails(t *testing.T) {
	curve := &PgRateCurve{}
	if _, ok := curve.Rate(0.1); ok {
		t.Error("expected Rate to fail on an empty curve")
	}
}
