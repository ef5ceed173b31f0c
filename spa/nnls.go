package spa

import (
	"math"

	"github.com/LLNL/barni"
	"gonum.org/v1/gonum/mat"
)

// nnlsMaxIter bounds the active-set NNLS iterations; exceeding it surfaces
// as a NumericalError per spec §4.7.
const nnlsMaxIter = 500

// nnls solves min ||A x - b||_2 subject to x >= 0 via the classical
// Lawson-Hanson active-set algorithm.
func nnls(A *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	_, m := A.Dims()
	x := mat.NewVecDense(m, nil)
	passive := make([]bool, m) // true if variable is in the passive (free) set

	for iter := 0; iter < nnlsMaxIter; iter++ {
		resid := mat.NewVecDense(A.RawMatrix().Rows, nil)
		resid.MulVec(A, x)
		resid.SubVec(b, resid)

		w := mat.NewVecDense(m, nil)
		w.MulVec(A.T(), resid)

		bestJ, bestW := -1, 0.0
		for j := 0; j < m; j++ {
			if passive[j] {
				continue
			}
			if wv := w.AtVec(j); wv > bestW {
				bestW = wv
				bestJ = j
			}
		}
		if bestJ < 0 || bestW <= 1e-10 {
			return x, nil
		}
		passive[bestJ] = true

		for {
			xPassive, cols, err := solvePassiveLS(A, b, passive)
			if err != nil {
				return nil, err
			}

			neg := false
			for k := range cols {
				if xPassive.AtVec(k) < 0 {
					neg = true
				}
			}

			if !neg {
				x = mat.NewVecDense(m, nil)
				for k, col := range cols {
					x.SetVec(col, xPassive.AtVec(k))
				}
				break
			}

			alpha := math.Inf(1)
			for k, col := range cols {
				xk := xPassive.AtVec(k)
				if xk < 0 {
					xold := x.AtVec(col)
					a := xold / (xold - xk)
					if a < alpha {
						alpha = a
					}
				}
			}
			if math.IsInf(alpha, 1) {
				alpha = 0
			}

			newX := mat.NewVecDense(m, nil)
			for k, col := range cols {
				newX.SetVec(col, x.AtVec(col)+alpha*(xPassive.AtVec(k)-x.AtVec(col)))
			}
			x = newX

			for k, col := range cols {
				if x.AtVec(col) <= 1e-12 {
					x.SetVec(col, 0)
					passive[col] = false
				}
			}
		}
	}
	return nil, barni.WrapErr("AugmentedSolver.nnls", barni.ErrNumerical)
}

// solvePassiveLS solves the unconstrained least squares problem restricted
// to the passive columns and returns the solution along with the column
// indices it corresponds to.
func solvePassiveLS(A *mat.Dense, b *mat.VecDense, passive []bool) (*mat.VecDense, []int, error) {
	var cols []int
	for j, p := range passive {
		if p {
			cols = append(cols, j)
		}
	}
	n, _ := A.Dims()
	sub := mat.NewDense(n, len(cols), nil)
	for k, c := range cols {
		sub.SetCol(k, mat.Col(nil, c, A))
	}

	var x mat.VecDense
	if err := x.SolveVec(sub, b); err != nil {
		return nil, nil, barni.WrapErr("AugmentedSolver.nnls", barni.ErrNumerical)
	}
	return &x, cols, nil
}
