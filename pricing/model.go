// Package pricing implements the option-pricing-model family: a
// closed-form European model, two American approximations, a call
// with a single known cash dividend, four lattice methods, and a
// Monte-Carlo model. Every model implements Model, the capability set
// spec.md's design notes (§9) call for in place of the original's
// class-hierarchy-plus-CRTP parameterization.
package pricing

import "math"

// OptionType discriminates a call from a put.
type OptionType int

const (
	Call OptionType = iota
	Put
)

// Greeks is the partials bundle every model answers for a (type, K)
// pair: Δ, Γ, Θ, vega, ρ.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Model is the shared capability set every pricing variant implements.
// σ is mutable in place (SetSigma) to support IV iteration; a model
// regenerates any internal caches derived from σ before the next price
// query. Pricing instances are value objects owned by a single caller
// for the duration of one strike's work.
type Model interface {
	// Price returns the theoretical price of a vanilla option of the
	// given type and strike.
	Price(typ OptionType, strike float64) float64

	// Partials returns the full Greek set at the current σ.
	Partials(typ OptionType, strike float64) Greeks

	// Vega returns ∂price/∂σ at the current σ.
	Vega(typ OptionType, strike float64) float64

	// SetSigma mutates the model's volatility in place, regenerating
	// any σ-derived caches before the next query.
	SetSigma(sigma float64)

	// Sigma returns the model's current volatility.
	Sigma() float64

	// SeedSigma returns the Manaster-Koehler seed volatility heuristic
	// for the given strike, using the model's (S, r, T).
	SeedSigma(strike float64) float64

	// IsEuropean reports the exercise style.
	IsEuropean() bool
}

// SeedSigma implements the Manaster-Koehler heuristic
// σ* = √(|ln(S/K) + rT|·2/T), shared by every model.
func SeedSigma(spot, rate, term, strike float64) float64 {
	return math.Sqrt(math.Abs(math.Log(spot/strike)+rate*term) * 2.0 / term)
}

// ErrClamp is the lower bound any σ value is clamped to before being
// passed to a model; spec §4.5.4 requires σ ≤ 0 be clamped to this
// value rather than passed through.
const ErrClamp = 1e-7

// ClampSigma enforces the ERR floor on a candidate volatility.
func ClampSigma(sigma float64) float64 {
	if sigma <= 0 {
		return ErrClamp
	}
	return sigma
}
