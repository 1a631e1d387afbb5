package main

import (
	"testing"

	"github.com/njchilds90/gosymbol"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/kkt"
)

func evalParsed(t *testing.T, src string, vars []string, point []gosymbol.Expr) float64 {
	t.Helper()
	e, err := parseExpr(src)
	require.NoError(t, err)
	v, ok := algebra.EvalFloat(algebra.SubstPoint(e, vars, point))
	require.True(t, ok, "non-numeric result for %q", src)

	return v
}

func TestParseExpr(t *testing.T) {
	pt := []gosymbol.Expr{gosymbol.N(2), gosymbol.N(3)}
	vars := []string{"x", "y"}
	require.InDelta(t, 22, evalParsed(t, "x^2+2*y^2", vars, pt), 1e-9)
	require.InDelta(t, -2, evalParsed(t, "x-2*y+x*y/3", vars, pt), 1e-9)
	require.InDelta(t, -4, evalParsed(t, "-x^2", vars, pt), 1e-9)
	require.InDelta(t, 0.5, evalParsed(t, "1/x", vars, pt), 1e-9)
	require.InDelta(t, 3, evalParsed(t, "sqrt(x+7)", vars, pt), 1e-9)
	require.InDelta(t, 1, evalParsed(t, "cos(x-2)", vars, pt), 1e-9)
}

func TestParseExpr_Errors(t *testing.T) {
	for _, src := range []string{"", "x+", "(x", "foo(x)", "x)"} {
		_, err := parseExpr(src)
		require.ErrorIs(t, err, errParse, "input %q", src)
	}
}

func TestParseConstraint(t *testing.T) {
	c, err := parseConstraint("x+y=1")
	require.NoError(t, err)
	require.Equal(t, kkt.RelEq, c.Op)
	v, ok := algebra.EvalFloat(algebra.SubstPoint(c.Expr, []string{"x", "y"},
		[]gosymbol.Expr{gosymbol.N(2), gosymbol.N(3)}))
	require.True(t, ok)
	require.InDelta(t, 4, v, 1e-9)

	c, err = parseConstraint("x^2<=4")
	require.NoError(t, err)
	require.Equal(t, kkt.RelLe, c.Op)

	_, err = parseConstraint("x+y")
	require.ErrorIs(t, err, errParse)
}

func TestParseVars(t *testing.T) {
	vars, bounds, err := parseVars("x=-3..3, y")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, vars)
	r, ok := bounds["x"]
	require.True(t, ok)
	v, ok := algebra.EvalFloat(r.Lo)
	require.True(t, ok)
	require.InDelta(t, -3, v, 1e-12)
	_, ok = bounds["y"]
	require.False(t, ok)
}
