package spa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNNLSUnconstrainedSolutionIsAlreadyNonNegative(t *testing.T) {
	A := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	b := mat.NewVecDense(3, []float64{2, 3, 5})

	x, err := nnls(A, b)
	require.NoError(t, err)
	assert.InDelta(t, 2, x.AtVec(0), 1e-6)
	assert.InDelta(t, 3, x.AtVec(1), 1e-6)
}

func TestNNLSClampsNegativeUnconstrainedSolution(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{1, 1, 1, 1.01})
	b := mat.NewVecDense(2, []float64{1, -1})

	x, err := nnls(A, b)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		assert.GreaterOrEqual(t, x.AtVec(i), -1e-9)
	}
}
