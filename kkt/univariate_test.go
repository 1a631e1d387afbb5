package kkt_test

import (
	"testing"

	"github.com/njchilds90/gosymbol"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/kkt"
)

func numCands(t *testing.T, cands []gosymbol.Expr) []float64 {
	t.Helper()
	out := make([]float64, 0, len(cands))
	for _, c := range cands {
		if v, ok := algebra.EvalFloat(c); ok {
			out = append(out, v)
		}
	}

	return out
}

func containsValue(vals []float64, want float64) bool {
	for _, v := range vals {
		if algebra.EqualWithin(v, want) {
			return true
		}
	}

	return false
}

func TestUnivariateCandidates_Cubic(t *testing.T) {
	// f = x^3 - 3x on [-3, 3]: derivative zeros at ±1 plus both endpoints.
	f := gosymbol.AddOf(
		gosymbol.PowOf(x(), gosymbol.N(3)),
		gosymbol.MulOf(gosymbol.N(-3), x()),
	)
	cands := kkt.UnivariateCandidates(f, "x", algebra.Interval(gosymbol.N(-3), gosymbol.N(3)), nil)
	vals := numCands(t, cands)
	require.Len(t, vals, 4)
	for _, want := range []float64{-1, 1, -3, 3} {
		require.True(t, containsValue(vals, want), "missing candidate %v", want)
	}
}

func TestUnivariateCandidates_PoleOutsideRange(t *testing.T) {
	// f = 1/x on [1, 2]: the pole at 0 falls outside, only the endpoints stay.
	f := gosymbol.PowOf(x(), gosymbol.N(-1))
	cands := kkt.UnivariateCandidates(f, "x", algebra.Interval(gosymbol.N(1), gosymbol.N(2)), nil)
	vals := numCands(t, cands)
	require.Len(t, vals, 2)
	require.True(t, containsValue(vals, 1))
	require.True(t, containsValue(vals, 2))
}

func TestUnivariateCandidates_BoundNoInteriorZero(t *testing.T) {
	// f = x^2 on [1, 3]: the derivative zero at 0 is out of range, so the
	// endpoints are the only candidates.
	f := gosymbol.PowOf(x(), gosymbol.N(2))
	cands := kkt.UnivariateCandidates(f, "x", algebra.Interval(gosymbol.N(1), gosymbol.N(3)), nil)
	vals := numCands(t, cands)
	require.Len(t, vals, 2)
	require.True(t, containsValue(vals, 1))
	require.True(t, containsValue(vals, 3))
}

func TestPiecewiseCandidates(t *testing.T) {
	// f = x^2 for x < 1, 2-x otherwise, on [-2, 2]: branch critical point 0,
	// spike at the transition 1, endpoints -2 and 2.
	p := &kkt.Piecewise{
		Cases: []kkt.Case{
			{Op: kkt.RelLt, Threshold: gosymbol.N(1), Value: gosymbol.PowOf(x(), gosymbol.N(2))},
		},
		Default: gosymbol.AddOf(gosymbol.N(2), gosymbol.MulOf(gosymbol.N(-1), x())),
	}
	cands := kkt.PiecewiseCandidates(p, "x", algebra.Interval(gosymbol.N(-2), gosymbol.N(2)), nil)
	vals := numCands(t, cands)
	for _, want := range []float64{0, 1, -2, 2} {
		require.True(t, containsValue(vals, want), "missing candidate %v", want)
	}
}

func TestPiecewise_ValueAt(t *testing.T) {
	p := &kkt.Piecewise{
		Cases: []kkt.Case{
			{Op: kkt.RelLt, Threshold: gosymbol.N(1), Value: gosymbol.PowOf(x(), gosymbol.N(2))},
		},
		Default: gosymbol.AddOf(gosymbol.N(2), gosymbol.MulOf(gosymbol.N(-1), x())),
	}
	v, err := p.ValueAt("x", gosymbol.N(0))
	require.NoError(t, err)
	val, ok := algebra.EvalFloat(v)
	require.True(t, ok)
	require.InDelta(t, 0, val, 1e-12)

	v, err = p.ValueAt("x", gosymbol.N(2))
	require.NoError(t, err)
	val, ok = algebra.EvalFloat(v)
	require.True(t, ok)
	require.InDelta(t, 0, val, 1e-12)

	_, err = p.ValueAt("x", gosymbol.S("a"))
	require.ErrorIs(t, err, kkt.ErrBadRelation)
}
