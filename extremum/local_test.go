package extremum_test

import (
	"testing"

	"github.com/njchilds90/gosymbol"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/extremum"
)

func classOf(t *testing.T, pts []extremum.CriticalPoint, want ...float64) extremum.Class {
	t.Helper()
	for _, cp := range pts {
		if len(cp.Point) != len(want) {
			continue
		}
		match := true
		for i, c := range cp.Point {
			v, ok := algebra.EvalFloat(c)
			if !ok || !algebra.EqualWithin(v, want[i]) {
				match = false

				break
			}
		}
		if match {
			return cp.Class
		}
	}
	t.Fatalf("no critical point at %v among %v", want, pts)

	return extremum.Unclassified
}

func TestLocal_UnconstrainedMin(t *testing.T) {
	f := gosymbol.AddOf(gosymbol.PowOf(x(), gosymbol.N(2)), gosymbol.PowOf(y(), gosymbol.N(2)))
	pts, err := extremum.Local(f, nil, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, pts, 1)
	require.Equal(t, extremum.Min, classOf(t, pts, 0, 0))
}

func TestLocal_UnconstrainedSaddle(t *testing.T) {
	f := gosymbol.AddOf(
		gosymbol.PowOf(x(), gosymbol.N(2)),
		gosymbol.MulOf(gosymbol.N(-1), gosymbol.PowOf(y(), gosymbol.N(2))),
	)
	pts, err := extremum.Local(f, nil, []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, extremum.Saddle, classOf(t, pts, 0, 0))
}

func TestLocal_ConstrainedMax(t *testing.T) {
	// xy on x+y=1 has a strict local maximum 1/4 at (1/2,1/2).
	f := gosymbol.MulOf(x(), y())
	g := gosymbol.AddOf(x(), y(), gosymbol.N(-1))
	pts, err := extremum.Local(f, []gosymbol.Expr{g}, []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, extremum.Max, classOf(t, pts, 0.5, 0.5))
}

func TestLocal_UnivariateInflection(t *testing.T) {
	pts, err := extremum.Local(gosymbol.PowOf(x(), gosymbol.N(3)), nil, []string{"x"})
	require.NoError(t, err)
	require.Equal(t, extremum.Saddle, classOf(t, pts, 0))
}

func TestLocal_UnivariateQuarticMin(t *testing.T) {
	// x^4: the second and third derivatives vanish at 0, the fourth decides.
	pts, err := extremum.Local(gosymbol.PowOf(x(), gosymbol.N(4)), nil, []string{"x"})
	require.NoError(t, err)
	require.Equal(t, extremum.Min, classOf(t, pts, 0))
}

func TestLocal_TaylorFallbackQuartic(t *testing.T) {
	// x^4 + y^4 has a zero Hessian at the origin; the order-4 Taylor term is
	// positive definite on the unit sphere, so the origin is a minimum.
	f := gosymbol.AddOf(gosymbol.PowOf(x(), gosymbol.N(4)), gosymbol.PowOf(y(), gosymbol.N(4)))
	pts, err := extremum.Local(f, nil, []string{"x", "y"})
	require.NoError(t, err)
	require.Equal(t, extremum.Min, classOf(t, pts, 0, 0))
}

func TestLocal_OrderBudgetExhausted(t *testing.T) {
	// With the budget capped below the deciding order, the origin of x^4+y^4
	// stays undecided instead of being misclassified.
	f := gosymbol.AddOf(gosymbol.PowOf(x(), gosymbol.N(4)), gosymbol.PowOf(y(), gosymbol.N(4)))
	pts, err := extremum.Local(f, nil, []string{"x", "y"}, extremum.WithMaxOrder(3))
	require.NoError(t, err)
	require.Equal(t, extremum.Undecided, classOf(t, pts, 0, 0))
}

func TestLocal_LagrangeUnclassified(t *testing.T) {
	f := gosymbol.MulOf(x(), y())
	g := gosymbol.AddOf(x(), y(), gosymbol.N(-1))
	pts, err := extremum.Local(f, []gosymbol.Expr{g}, []string{"x", "y"}, extremum.WithMaxOrder(0))
	require.NoError(t, err)
	require.Len(t, pts, 1)
	require.Equal(t, extremum.Unclassified, pts[0].Class)

	_, err = extremum.Local(f, nil, []string{"x", "y"}, extremum.WithMaxOrder(0))
	require.ErrorIs(t, err, extremum.ErrInvalidArity)
}

func TestLocal_TooManyConstraints(t *testing.T) {
	g := []gosymbol.Expr{x(), y()}
	_, err := extremum.Local(gosymbol.MulOf(x(), y()), g, []string{"x", "y"})
	require.ErrorIs(t, err, extremum.ErrInvalidArity)
}

func TestImplicitDiff(t *testing.T) {
	// y^3 + x^2 = 1: dy/dx = -2x/(3y^2).
	g := gosymbol.AddOf(
		gosymbol.PowOf(y(), gosymbol.N(3)),
		gosymbol.PowOf(x(), gosymbol.N(2)),
		gosymbol.N(-1),
	)
	d, err := extremum.ImplicitDiff(y(), []gosymbol.Expr{g}, []string{"x", "y"}, "x")
	require.NoError(t, err)
	v, ok := algebra.EvalFloat(algebra.SubstPoint(d, []string{"x", "y"}, []gosymbol.Expr{gosymbol.N(3), gosymbol.N(2)}))
	require.True(t, ok)
	require.InDelta(t, -0.5, v, 1e-8)
}

func TestTaylorExpansion_Constrained(t *testing.T) {
	// x*y with x+y=1 reduces to x - x^2; its order-2 expansion around (0,1)
	// reproduces it exactly.
	f := gosymbol.MulOf(x(), y())
	g := gosymbol.AddOf(x(), y(), gosymbol.N(-1))
	T, err := extremum.TaylorExpansion(f, []gosymbol.Expr{g}, []string{"x", "y"},
		[]gosymbol.Expr{gosymbol.N(0), gosymbol.N(1)}, 2)
	require.NoError(t, err)
	v, ok := algebra.EvalFloat(gosymbol.Sub(T, "x", gosymbol.N(3)))
	require.True(t, ok)
	require.InDelta(t, -6, v, 1e-8)
}

func TestNthPartial(t *testing.T) {
	// Second implicit derivative of y on x^2 + y = 1 is the constant -2.
	g := gosymbol.AddOf(gosymbol.PowOf(x(), gosymbol.N(2)), y(), gosymbol.N(-1))
	d, err := extremum.NthPartial(y(), []gosymbol.Expr{g}, []string{"x", "y"}, []int{2})
	require.NoError(t, err)
	v, ok := algebra.EvalFloat(d)
	require.True(t, ok)
	require.InDelta(t, -2, v, 1e-8)
}
