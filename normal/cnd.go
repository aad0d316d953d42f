// Package normal provides the cumulative normal distribution helpers
// shared by every pricing model: the scalar Φ(x) and the bivariate
// Φ₂(a,b,ρ) used by Roll-Geske-Whaley.
package normal

import "math"

const (
	a1 = 0.31938153
	a2 = -0.356563782
	a3 = 1.781477937
	a4 = -1.821255978
	a5 = 1.330274429
	p  = 0.2316419
)

// Phi returns the standard cumulative normal distribution Φ(x) via the
// Hastings five-term rational approximation. Pure, deterministic,
// thread-safe.
func Phi(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}

	l := math.Abs(x)
	k := 1.0 / (1.0 + p*l)
	w := 1.0 - PDF(l)*(a1*k+a2*k*k+a3*k*k*k+a4*k*k*k*k+a5*k*k*k*k*k)

	if x < 0 {
		return 1.0 - w
	}
	return w
}

// PDF returns the standard normal density φ(x).
func PDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}
