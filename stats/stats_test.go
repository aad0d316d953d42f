package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	got := Mean([]float64{1, 2, 3, 4, 5})
	if got != 3 {
		t.Errorf("Mean = %v, want 3", got)
	}
}

func TestStdDevConstant(t *testing.T) {
	got := StdDev([]float64{5, 5, 5, 5})
	if got != 0 {
		t.Errorf("StdDev of constant series = %v, want 0", got)
	}
}

func TestStdDevKnown(t *testing.T) {
	// population variance of {2,4,4,4,5,5,7,9} is 4, stddev 2
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := StdDev(x)
	if math.Abs(got-2.0) > 1e-9 {
		t.Errorf("StdDev = %v, want 2.0", got)
	}
}

func TestSingleValue(t *testing.T) {
	if Mean([]float64{42}) != 42 {
		t.Error("Mean of single value should be itself")
	}
	if StdDev([]float64{42}) != 0 {
		t.Error("StdDev of single value should be 0")
	}
}
