package spa

import (
	"math"

	"github.com/LLNL/barni"
	"gonum.org/v1/gonum/mat"
)

// AugmentedSolver performs the joint continuum/peak solve of spec §4.7: the
// block system [T S; Sᵀ SᵀS][b;a] = [y; Sᵀy], with T tridiagonal, S the
// peak-triple response kernels, and a constrained to be non-negative.
type AugmentedSolver struct{}

// Solve returns the continuum amplitudes b and the peak-triple amplitudes a.
// lldChannel is the last channel whose continuum regularizer weight c_i is
// pinned to zero (c_i = i*mu only for i > lldChannel), so the low-energy
// noise floor isn't artificially flattened.
func (AugmentedSolver) Solve(y []float64, triples []triple, mu float64, lldChannel int) (b, a []float64, err error) {
	n := len(y)
	m := len(triples)
	if m == 0 {
		return nil, nil, barni.WrapErr("AugmentedSolver.Solve", barni.ErrEmptyPeakSet)
	}

	lower := make([]float64, n)
	diag := make([]float64, n)
	upper := make([]float64, n)
	c2 := 0.0
	for i := 0; i < n-1; i++ {
		c := 0.0
		if i > lldChannel {
			c = float64(i) * mu
		}
		diag[i] = 1 + c + c2
		upper[i] = -c
		lower[i+1] = -c
		c2 = c
	}
	diag[n-1] = 1 + c2

	tInvY, err := thomasSolve(lower, diag, upper, y)
	if err != nil {
		return nil, nil, barni.WrapErr("AugmentedSolver.Solve", barni.ErrNumerical)
	}

	tInvS := make([][]float64, m)
	for j, t := range triples {
		col, err := thomasSolve(lower, diag, upper, t.Kernel)
		if err != nil {
			return nil, nil, barni.WrapErr("AugmentedSolver.Solve", barni.ErrNumerical)
		}
		tInvS[j] = col
	}

	S := mat.NewDense(n, m, nil)
	for j, t := range triples {
		S.SetCol(j, t.Kernel)
	}
	TinvS := mat.NewDense(n, m, nil)
	for j := range tInvS {
		TinvS.SetCol(j, tInvS[j])
	}
	TinvY := mat.NewVecDense(n, tInvY)
	yVec := mat.NewVecDense(n, y)

	var StS, StTinvS mat.Dense
	StS.Mul(S.T(), S)
	StTinvS.Mul(S.T(), TinvS)

	schur := mat.NewDense(m, m, nil)
	schur.Sub(&StS, &StTinvS)

	var StY, StTinvY mat.VecDense
	StY.MulVec(S.T(), yVec)
	StTinvY.MulVec(S.T(), TinvY)

	rhs := mat.NewVecDense(m, nil)
	rhs.SubVec(&StY, &StTinvY)

	if sum := matrixSum(schur); math.IsNaN(sum) {
		return nil, nil, barni.WrapErr("AugmentedSolver.Solve", barni.ErrNumerical)
	}

	aVec, err := nnls(schur, rhs)
	if err != nil {
		return nil, nil, err
	}
	a = make([]float64, m)
	for i := 0; i < m; i++ {
		a[i] = aVec.AtVec(i)
	}

	Sa := mat.NewVecDense(n, nil)
	aMat := mat.NewVecDense(m, a)
	Sa.MulVec(S, aMat)

	b = make([]float64, n)
	for i := 0; i < n; i++ {
		b[i] = tInvY[i]
	}
	TinvSa, err := thomasSolve(lower, diag, upper, Sa.RawVector().Data)
	if err != nil {
		return nil, nil, barni.WrapErr("AugmentedSolver.Solve", barni.ErrNumerical)
	}
	for i := range b {
		b[i] -= TinvSa[i]
	}

	return b, a, nil
}

// matrixSum checks for NaN contamination in the Schur complement, which
// signals a singular tridiagonal block upstream.
func matrixSum(m *mat.Dense) float64 {
	r, c := m.Dims()
	sum := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += m.At(i, j)
		}
	}
	return sum
}
