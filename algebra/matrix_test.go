package algebra_test

import (
	"testing"

	"github.com/njchilds90/gosymbol"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/extrema/algebra"
)

func numMatrix(rows, cols int, vals ...int64) *gosymbol.Matrix {
	m := gosymbol.NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, gosymbol.N(vals[i*cols+j]))
		}
	}
	return m
}

func TestEigenvalues_Diagonal(t *testing.T) {
	m := numMatrix(2, 2,
		2, 0,
		0, -3)
	vals, err := algebra.Eigenvalues(m)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	// EigenSym returns ascending order
	require.InDelta(t, -3, vals[0], 1e-12)
	require.InDelta(t, 2, vals[1], 1e-12)
}

func TestEigenvalues_SymbolicEntry(t *testing.T) {
	m := gosymbol.NewMatrix(1, 1)
	m.Set(0, 0, gosymbol.S("a"))
	_, err := algebra.Eigenvalues(m)
	require.ErrorIs(t, err, algebra.ErrNonNumeric)
}

func TestRank_Numeric(t *testing.T) {
	// rank 1: second row is a multiple of the first
	m := numMatrix(2, 3,
		1, 2, 3,
		2, 4, 6)
	require.Equal(t, 1, algebra.Rank(m, nil))
}

func TestRank_Symbolic(t *testing.T) {
	// [[x, 0], [0, x]] has two independent rows for generic x
	m := gosymbol.NewMatrix(2, 2)
	m.Set(0, 0, gosymbol.S("x"))
	m.Set(0, 1, gosymbol.N(0))
	m.Set(1, 0, gosymbol.N(0))
	m.Set(1, 1, gosymbol.S("x"))
	require.Equal(t, 2, algebra.Rank(m, nil))
}

func TestSolveLinear_OneUnknown(t *testing.T) {
	// The 1x1 system must solve by division; a cofactor inverse degenerates
	// here and would zero out every single-constraint implicit system.
	a := gosymbol.NewMatrix(1, 1)
	a.Set(0, 0, gosymbol.S("a"))
	x, err := algebra.SolveLinear(a, []gosymbol.Expr{gosymbol.S("c")})
	require.NoError(t, err)
	require.Len(t, x, 1)
	got := gosymbol.Sub(gosymbol.Sub(x[0], "a", gosymbol.N(4)), "c", gosymbol.N(2))
	v, ok := algebra.EvalFloat(got)
	require.True(t, ok)
	require.InDelta(t, 0.5, v, 1e-12)
}

func TestSolveLinear_TwoByTwo(t *testing.T) {
	a := numMatrix(2, 2,
		2, 1,
		1, 3)
	b := []gosymbol.Expr{gosymbol.N(5), gosymbol.N(10)}
	x, err := algebra.SolveLinear(a, b)
	require.NoError(t, err)
	x0, ok := algebra.EvalFloat(x[0])
	require.True(t, ok)
	x1, ok := algebra.EvalFloat(x[1])
	require.True(t, ok)
	require.InDelta(t, 1, x0, 1e-12)
	require.InDelta(t, 3, x1, 1e-12)
}

func TestSolveLinear_Singular(t *testing.T) {
	a := numMatrix(2, 2,
		1, 2,
		2, 4)
	_, err := algebra.SolveLinear(a, []gosymbol.Expr{gosymbol.N(1), gosymbol.N(2)})
	require.ErrorIs(t, err, algebra.ErrSingularMatrix)
}

func TestInvert_OneByOne(t *testing.T) {
	m := numMatrix(1, 1, 4)
	inv, err := algebra.Invert(m)
	require.NoError(t, err)
	v, ok := algebra.EvalFloat(inv.Get(0, 0))
	require.True(t, ok)
	require.InDelta(t, 0.25, v, 1e-12)
}

func TestInvert_Singular(t *testing.T) {
	m := numMatrix(2, 2,
		1, 2,
		2, 4)
	_, err := algebra.Invert(m)
	require.ErrorIs(t, err, algebra.ErrSingularMatrix)
}

func TestLeadingMinor(t *testing.T) {
	m := numMatrix(3, 3,
		2, 0, 0,
		0, 3, 0,
		0, 0, 5)
	d1, _ := algebra.EvalFloat(algebra.LeadingMinor(m, 1))
	d2, _ := algebra.EvalFloat(algebra.LeadingMinor(m, 2))
	d3, _ := algebra.EvalFloat(algebra.LeadingMinor(m, 3))
	require.Equal(t, 2.0, d1)
	require.Equal(t, 6.0, d2)
	require.Equal(t, 30.0, d3)
}
