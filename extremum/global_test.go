package extremum_test

import (
	"testing"

	"github.com/njchilds90/gosymbol"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/extremum"
	"github.com/katalvlaran/extrema/kkt"
)

func x() gosymbol.Expr { return gosymbol.S("x") }
func y() gosymbol.Expr { return gosymbol.S("y") }

func expectValue(t *testing.T, e gosymbol.Expr, want float64) {
	t.Helper()
	v, ok := algebra.EvalFloat(e)
	require.True(t, ok, "expected numeric value, got %s", e.String())
	require.InDelta(t, want, v, 1e-8)
}

func expectPoint(t *testing.T, p []gosymbol.Expr, want ...float64) {
	t.Helper()
	require.Len(t, p, len(want))
	for i, c := range p {
		expectValue(t, c, want[i])
	}
}

func TestGlobal_ConstrainedEllipse(t *testing.T) {
	// min(x^2+2y^2) on x^2-2x+2y^2+4y = 0 is 0 at (0,0); the max is 12 at (2,-2).
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
	res, err := extremum.Global(f, []kkt.Constraint{kkt.Eq(h)}, []string{"x", "y"})
	require.NoError(t, err)
	expectValue(t, res.Min, 0)
	require.Len(t, res.MinPoints, 1)
	expectPoint(t, res.MinPoints[0], 0, 0)
	expectValue(t, res.Max, 12)
}

func TestGlobal_UnivariateBounded(t *testing.T) {
	// min(x^2) on [1,3] is 1 at x=1, even though f' has no zero inside.
	res, err := extremum.Global(gosymbol.PowOf(x(), gosymbol.N(2)), nil, []string{"x"},
		extremum.WithBound("x", algebra.Interval(gosymbol.N(1), gosymbol.N(3))))
	require.NoError(t, err)
	expectValue(t, res.Min, 1)
	require.Len(t, res.MinPoints, 1)
	expectPoint(t, res.MinPoints[0], 1)
	expectValue(t, res.Max, 9)
}

func TestGlobal_NoCriticalPoints(t *testing.T) {
	// An unbounded linear objective has no candidates at all.
	_, err := extremum.Global(x(), nil, []string{"x"})
	require.ErrorIs(t, err, extremum.ErrNoCriticalPoints)
}

func TestGlobal_MinimumTies(t *testing.T) {
	// x^4 - 2x^2 on [-2,2] attains its minimum -1 at both x = -1 and x = 1.
	f := gosymbol.AddOf(
		gosymbol.PowOf(x(), gosymbol.N(4)),
		gosymbol.MulOf(gosymbol.N(-2), gosymbol.PowOf(x(), gosymbol.N(2))),
	)
	res, err := extremum.Global(f, nil, []string{"x"},
		extremum.WithBound("x", algebra.Interval(gosymbol.N(-2), gosymbol.N(2))))
	require.NoError(t, err)
	expectValue(t, res.Min, -1)
	require.Len(t, res.MinPoints, 2)
	expectValue(t, res.Max, 8)
}

func TestMinimizeMaximize_OnLine(t *testing.T) {
	// xy on x+y=1: the only critical value is 1/4 at (1/2,1/2); it is the
	// maximum, and the minimizer set of the same candidate set is the same
	// single point.
	f := gosymbol.MulOf(x(), y())
	h := kkt.Eq(gosymbol.AddOf(x(), y(), gosymbol.N(-1)))
	maxVal, maxPts, err := extremum.Maximize(f, []kkt.Constraint{h}, []string{"x", "y"})
	require.NoError(t, err)
	expectValue(t, maxVal, 0.25)
	require.Len(t, maxPts, 1)
	expectPoint(t, maxPts[0], 0.5, 0.5)

	minVal, _, err := extremum.Minimize(f, []kkt.Constraint{h}, []string{"x", "y"})
	require.NoError(t, err)
	expectValue(t, minVal, 0.25)
}

func TestGlobal_InequalityConstraint(t *testing.T) {
	// min(x^2+y^2) subject to x >= 1: the boundary point (1,0).
	f := gosymbol.AddOf(gosymbol.PowOf(x(), gosymbol.N(2)), gosymbol.PowOf(y(), gosymbol.N(2)))
	g := kkt.Ge(gosymbol.AddOf(x(), gosymbol.N(-1)))
	res, err := extremum.Global(f, []kkt.Constraint{g}, []string{"x", "y"})
	require.NoError(t, err)
	expectValue(t, res.Min, 1)
	require.Len(t, res.MinPoints, 1)
	expectPoint(t, res.MinPoints[0], 1, 0)
}

func TestGlobal_UnivariateOneSidedConstraint(t *testing.T) {
	// min(x^2) subject to x >= 1: no interior critical point survives, so
	// the inequality itself must supply the boundary candidate x=1.
	f := gosymbol.PowOf(x(), gosymbol.N(2))
	g := kkt.Ge(gosymbol.AddOf(x(), gosymbol.N(-1)))
	res, err := extremum.Global(f, []kkt.Constraint{g}, []string{"x"})
	require.NoError(t, err)
	expectValue(t, res.Min, 1)
	require.Len(t, res.MinPoints, 1)
	expectPoint(t, res.MinPoints[0], 1)
}

func TestGlobal_UnivariateTwoSidedConstraints(t *testing.T) {
	// -x on 1-x <= 0 and x-3 <= 0: both inequality endpoints are candidates,
	// min -3 at x=3, max -1 at x=1.
	f := gosymbol.MulOf(gosymbol.N(-1), x())
	cs := []kkt.Constraint{
		kkt.Le(gosymbol.AddOf(gosymbol.N(1), gosymbol.MulOf(gosymbol.N(-1), x()))),
		kkt.Le(gosymbol.AddOf(x(), gosymbol.N(-3))),
	}
	res, err := extremum.Global(f, cs, []string{"x"})
	require.NoError(t, err)
	expectValue(t, res.Min, -3)
	require.Len(t, res.MinPoints, 1)
	expectPoint(t, res.MinPoints[0], 3)
	expectValue(t, res.Max, -1)
}

func TestGlobalPiecewise(t *testing.T) {
	// f = x^2 for x < 1, 2-x otherwise, on [-2,2]: the minimum 0 is attained
	// at x=0 and x=2, the maximum 4 at x=-2.
	p := &kkt.Piecewise{
		Cases: []kkt.Case{
			{Op: kkt.RelLt, Threshold: gosymbol.N(1), Value: gosymbol.PowOf(x(), gosymbol.N(2))},
		},
		Default: gosymbol.AddOf(gosymbol.N(2), gosymbol.MulOf(gosymbol.N(-1), x())),
	}
	res, err := extremum.GlobalPiecewise(p, "x",
		extremum.WithBound("x", algebra.Interval(gosymbol.N(-2), gosymbol.N(2))))
	require.NoError(t, err)
	expectValue(t, res.Min, 0)
	require.Len(t, res.MinPoints, 2)
	expectValue(t, res.Max, 4)
}
