// Package spa implements the smooth peak analysis pipeline: continuum
// estimation, peak proposing, and a joint continuum/peak solve that
// decomposes a gamma-ray spectrum into a smooth baseline and a set of
// Gaussian photopeaks.
package spa

import (
	"math"

	"github.com/LLNL/barni"
)

// Smoother solves (I + LᵀD(λ)L) x = y for a tridiagonal regularization
// operator L (first difference) and per-channel weight λ.
type Smoother struct{}

// Smooth applies variable-width smoothing to y using lambda as the
// per-channel regularizer. See spec §4.3: the assembled matrix is
// symmetric tridiagonal with diagonal 1+λ_{i-1}+λ_i and off-diagonals -λ_i.
func (Smoother) Smooth(y []float64, lambda barni.Lambda) ([]float64, error) {
	n := len(y)
	if n == 0 {
		return nil, barni.WrapErr("Smoother.Smooth", barni.ErrShapeMismatch)
	}

	diag := make([]float64, n)
	upper := make([]float64, n) // upper[i] connects i to i+1, valid for i<n-1
	lower := make([]float64, n) // lower[i] connects i to i-1, valid for i>0

	c2 := 0.0
	for i := 0; i < n-1; i++ {
		c := lambda.At(i)
		diag[i] = 1 + c + c2
		upper[i] = -c
		lower[i+1] = -c
		c2 = c
	}
	diag[n-1] = 1 + c2

	return thomasSolve(lower, diag, upper, y)
}

// thomasSolve solves a tridiagonal system Ax=d via the Thomas algorithm,
// where lower[i]/upper[i] are A[i,i-1]/A[i,i+1]. Returns NumericalError if a
// pivot becomes zero or NaN, which only happens for non-physical λ.
func thomasSolve(lower, diag, upper, d []float64) ([]float64, error) {
	n := len(d)
	cp := make([]float64, n)
	dp := make([]float64, n)

	if diag[0] == 0 {
		return nil, barni.WrapErr("Smoother.Smooth", barni.ErrNumerical)
	}
	cp[0] = upper[0] / diag[0]
	dp[0] = d[0] / diag[0]

	for i := 1; i < n; i++ {
		m := diag[i] - lower[i]*cp[i-1]
		if m == 0 || math.IsNaN(m) {
			return nil, barni.WrapErr("Smoother.Smooth", barni.ErrNumerical)
		}
		if i < n-1 {
			cp[i] = upper[i] / m
		}
		dp[i] = (d[i] - lower[i]*dp[i-1]) / m
	}

	x := make([]float64, n)
	x[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	return x, nil
}
