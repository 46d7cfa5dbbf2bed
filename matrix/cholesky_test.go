// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/oed/matrix"
)

// TestCholeskyFloor_ExactOnPD compares against gonum's Cholesky on a PD matrix.
func TestCholeskyFloor_ExactOnPD(t *testing.T) {
	t.Parallel()

	S := mustSym(t, 3, []float64{
		4, 2, 0.4,
		2, 5, 1,
		0.4, 1, 3,
	})
	L, floored, err := matrix.CholeskyFloor(S, 1e-7)
	require.NoError(t, err)
	assert.Zero(t, floored)

	var ref mat.Cholesky
	require.True(t, ref.Factorize(S))
	var refL mat.TriDense
	ref.LTo(&refL)
	assert.True(t, mat.EqualApprox(L, &refL, 1e-12))

	res, err := matrix.LinkResidual(L, S)
	require.NoError(t, err)
	assert.Less(t, res, 1e-12)

	logDet, err := matrix.LogDetFactor(L)
	require.NoError(t, err)
	assert.InDelta(t, ref.LogDet(), logDet, 1e-12)
	assert.InDelta(t, matrix.Trace(S), matrix.SumSquares(L), 1e-12)
}

// TestCholeskyFloor_FloorsDegenerate checks the L_LB bound on a singular matrix.
func TestCholeskyFloor_FloorsDegenerate(t *testing.T) {
	t.Parallel()

	S := mustSym(t, 2, []float64{1, 1, 1, 1}) // rank 1
	L, floored, err := matrix.CholeskyFloor(S, 1e-3)
	require.NoError(t, err)
	assert.Equal(t, 1, floored)
	assert.InDelta(t, 1e-3, L.At(1, 1), 1e-15)

	res, err := matrix.LinkResidual(L, S)
	require.NoError(t, err)
	assert.InDelta(t, 1e-6, res, 1e-12, "the floored pivot shows up as the linking residual")

	_, _, err = matrix.CholeskyFloor(S, 0)
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

// TestCholeskyFloor_Errors covers argument validation.
func TestCholeskyFloor_Errors(t *testing.T) {
	t.Parallel()

	S := mustSym(t, 1, []float64{1})
	_, _, err := matrix.CholeskyFloor(S, -1)
	require.ErrorIs(t, err, matrix.ErrBadFloor)
	_, _, err = matrix.CholeskyFloor(S, math.NaN())
	require.ErrorIs(t, err, matrix.ErrBadFloor)
	_, _, err = matrix.CholeskyFloor(nil, 0)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	_, err = matrix.LinkResidual(mat.NewTriDense(2, mat.Lower, nil), S)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.LogDetFactor(mat.NewTriDense(1, mat.Lower, []float64{0}))
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

// TestEigenvalues_Ascending checks the spectral summary on a diagonal matrix.
func TestEigenvalues_Ascending(t *testing.T) {
	t.Parallel()

	S := mustSym(t, 3, []float64{3, 0, 0, 0, 1, 0, 0, 0, 2})
	vals, err := matrix.Eigenvalues(S)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.InDelta(t, 1, vals[0], 1e-12)
	assert.InDelta(t, 2, vals[1], 1e-12)
	assert.InDelta(t, 3, vals[2], 1e-12)

	_, err = matrix.Eigenvalues(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
