package normal

import (
	"math"
	"testing"
)

func TestPhiKnownValues(t *testing.T) {
	cases := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.96, 0.9750},
		{-1.96, 0.0250},
		{1, 0.8413},
		{-1, 0.1587},
	}
	for _, c := range cases {
		got := Phi(c.x)
		if math.Abs(got-c.want) > 1e-3 {
			t.Errorf("Phi(%v) = %v, want %v", c.x, got, c.want)
		}
	}
}

func TestPhiSymmetry(t *testing.T) {
	for _, x := range []float64{0.25, 0.75, 1.5, 3.1} {
		if math.Abs((Phi(x)+Phi(-x))-1.0) > 1e-9 {
			t.Errorf("Phi(%v)+Phi(-%v) != 1", x, x)
		}
	}
}

func TestPhiNaN(t *testing.T) {
	if !math.IsNaN(Phi(math.NaN())) {
		t.Error("Phi(NaN) should be NaN")
	}
}

func TestBivariatePhiReducesToUnivariate(t *testing.T) {
	// Φ2(a,b,1) == Phi(min(a,b))
	a, b := 0.5, 1.2
	got := BivariatePhi(a, b, 0.999999)
	want := Phi(math.Min(a, b))
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("BivariatePhi near rho=1: got %v want %v", got, want)
	}
}

func TestBivariatePhiIndependence(t *testing.T) {
	// rho = 0 => Phi2(a,b,0) == Phi(a)*Phi(b)
	a, b := 0.8, -0.3
	got := BivariatePhi(a, b, 0)
	want := Phi(a) * Phi(b)
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("BivariatePhi(rho=0): got %v want %v", got, want)
	}
}

func TestBivariatePhiQuadrants(t *testing.T) {
	// exercise each of the four reduction branches without panicking
	// or returning NaN.
	cases := [][3]float64{
		{-0.5, -0.5, -0.3},
		{-0.5, 0.5, 0.3},
		{0.5, -0.5, 0.3},
		{0.5, 0.5, -0.3},
		{0.5, 0.5, 0.8},
	}
	for _, c := range cases {
		got := BivariatePhi(c[0], c[1], c[2])
		if math.IsNaN(got) {
			t.Errorf("BivariatePhi%v is NaN", c)
		}
		if got < -1e-6 || got > 1+1e-6 {
			t.Errorf("BivariatePhi%v = %v out of [0,1]", c, got)
		}
	}
}
