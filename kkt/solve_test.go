package kkt_test

import (
	"testing"

	"github.com/njchilds90/gosymbol"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/kkt"
)

func x() gosymbol.Expr { return gosymbol.S("x") }
func y() gosymbol.Expr { return gosymbol.S("y") }

func numPoint(t *testing.T, p []gosymbol.Expr) []float64 {
	t.Helper()
	out := make([]float64, len(p))
	for i, c := range p {
		v, ok := algebra.EvalFloat(c)
		require.True(t, ok, "non-numeric coordinate %s", c.String())
		out[i] = v
	}

	return out
}

func containsPoint(pts [][]float64, want []float64) bool {
	for _, p := range pts {
		if len(p) != len(want) {
			continue
		}
		same := true
		for i := range p {
			if !algebra.EqualWithin(p[i], want[i]) {
				same = false

				break
			}
		}
		if same {
			return true
		}
	}

	return false
}

func TestSolve_EqualityOnly(t *testing.T) {
	// Critical points of x^2+2y^2 on x^2-2x+2y^2+4y = 0: (0,0) and (2,-2).
	f := gosymbol.AddOf(
		gosymbol.PowOf(x(), gosymbol.N(2)),
		gosymbol.MulOf(gosymbol.N(2), gosymbol.PowOf(y(), gosymbol.N(2))),
	)
	h := gosymbol.AddOf(
		gosymbol.PowOf(x(), gosymbol.N(2)),
		gosymbol.MulOf(gosymbol.N(-2), x()),
		gosymbol.MulOf(gosymbol.N(2), gosymbol.PowOf(y(), gosymbol.N(2))),
		gosymbol.MulOf(gosymbol.N(4), y()),
	)
	pts, err := kkt.Solve(f, nil, []gosymbol.Expr{h}, []string{"x", "y"}, nil)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	got := make([][]float64, len(pts))
	for i, p := range pts {
		require.Len(t, p, 2) // multipliers stripped
		got[i] = numPoint(t, p)
	}
	require.True(t, containsPoint(got, []float64{0, 0}))
	require.True(t, containsPoint(got, []float64{2, -2}))
}

func TestSolve_InequalityActiveSet(t *testing.T) {
	// Minimize x^2+y^2 subject to x >= 1, i.e. 1-x <= 0. The unconstrained
	// stationary point (0,0) violates the inequality and is discarded; the
	// active pattern yields (1,0) with a positive multiplier.
	f := gosymbol.AddOf(gosymbol.PowOf(x(), gosymbol.N(2)), gosymbol.PowOf(y(), gosymbol.N(2)))
	g := gosymbol.AddOf(gosymbol.N(1), gosymbol.MulOf(gosymbol.N(-1), x()))
	pts, err := kkt.Solve(f, []gosymbol.Expr{g}, nil, []string{"x", "y"}, nil)
	require.NoError(t, err)
	require.Len(t, pts, 1)
	require.Equal(t, []float64{1, 0}, numPoint(t, pts[0]))
}

func TestSolve_FeasibilityOfCandidates(t *testing.T) {
	// Every returned point satisfies the equality constraints.
	f := gosymbol.MulOf(x(), y())
	h := gosymbol.AddOf(x(), y(), gosymbol.N(-1))
	pts, err := kkt.Solve(f, nil, []gosymbol.Expr{h}, []string{"x", "y"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pts)
	for _, p := range pts {
		res := algebra.SubstPoint(h, []string{"x", "y"}, p)
		v, ok := algebra.EvalFloat(res)
		require.True(t, ok)
		require.InDelta(t, 0, v, 1e-8)
	}
}

func TestSolve_TooManyInequalities(t *testing.T) {
	g := make([]gosymbol.Expr, kkt.MaxInequalities+1)
	for i := range g {
		g[i] = x()
	}
	_, err := kkt.Solve(x(), g, nil, []string{"x"}, nil)
	require.ErrorIs(t, err, kkt.ErrTooManyInequalities)
}

func TestSplit(t *testing.T) {
	g, h, err := kkt.Split([]kkt.Constraint{
		kkt.Eq(x()),
		kkt.Le(y()),
		kkt.Ge(x()), // normalized to -x <= 0
	})
	require.NoError(t, err)
	require.Len(t, h, 1)
	require.Len(t, g, 2)
	v, ok := algebra.EvalFloat(gosymbol.Sub(g[1], "x", gosymbol.N(3)))
	require.True(t, ok)
	require.InDelta(t, -3, v, 1e-12)

	_, _, err = kkt.Split([]kkt.Constraint{{Expr: x(), Op: kkt.RelNe}})
	require.ErrorIs(t, err, kkt.ErrBadRelation)
}
