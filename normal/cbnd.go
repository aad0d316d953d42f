package normal

import "math"

// gaussNodes/gaussWeights are the five-node Gauss-Legendre
// abscissae/weights used by the Drezner-Wesolowski bivariate normal
// quadrature.
var (
	gaussWeights = [5]float64{0.24840615, 0.39233107, 0.21141819, 0.03324666, 0.00082485334}
	gaussNodes   = [5]float64{0.10024215, 0.48281397, 1.0609498, 1.7797294, 2.5197723}
)

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// BivariatePhi returns the bivariate cumulative normal distribution
// Φ₂(a,b,ρ) via the Drezner-Wesolowski five-node Gauss quadrature with
// the four quadrant-reduction identities. Fails (returns NaN) only when
// every reduction case is exhausted, which indicates a NaN input.
func BivariatePhi(a, b, rho float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsNaN(rho) {
		return math.NaN()
	}

	switch {
	case a <= 0 && b <= 0 && rho <= 0:
		return directQuadrature(a, b, rho)
	case a <= 0 && b >= 0 && rho >= 0:
		return Phi(a) - BivariatePhi(a, -b, -rho)
	case a >= 0 && b <= 0 && rho >= 0:
		return Phi(b) - BivariatePhi(-a, b, -rho)
	case a >= 0 && b >= 0 && rho <= 0:
		return Phi(a) + Phi(b) - 1 + BivariatePhi(-a, -b, rho)
	case a*b*rho > 0:
		denom := math.Sqrt(a*a - 2*rho*a*b + b*b)
		rho1 := (rho*a - b) * sign(a) / denom
		rho2 := (rho*b - a) * sign(b) / denom
		delta := (1 - sign(a)*sign(b)) / 4
		return BivariatePhi(a, 0, rho1) + BivariatePhi(b, 0, rho2) - delta
	default:
		return math.NaN()
	}
}

func directQuadrature(a, b, rho float64) float64 {
	denom := math.Sqrt(2 * (1 - rho*rho))
	a1 := a / denom
	b1 := b / denom

	var sum float64
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			sum += gaussWeights[i] * gaussWeights[j] * math.Exp(
				a1*(2*gaussNodes[i]-a1)+
					b1*(2*gaussNodes[j]-b1)+
					2*rho*(gaussNodes[i]-a1)*(gaussNodes[j]-b1))
		}
	}
	return math.Sqrt(1-rho*rho) / math.Pi * sum
}
