package extremum

import (
	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/implicit"
	"github.com/katalvlaran/extrema/kkt"
)

// Minimize returns the global minimum of f under the constraints, together
// with every point attaining it.
func Minimize(f gosymbol.Expr, constraints []kkt.Constraint, vars []string, opts ...Option) (gosymbol.Expr, [][]gosymbol.Expr, error) {
	res, err := Global(f, constraints, vars, opts...)
	if err != nil {
		return nil, nil, err
	}

	return res.Min, res.MinPoints, nil
}

// Maximize returns the global maximum of f under the constraints, together
// with every point attaining it. It minimizes -f and negates the value, so
// the maximizer set comes out as exact as the minimizer set does.
func Maximize(f gosymbol.Expr, constraints []kkt.Constraint, vars []string, opts ...Option) (gosymbol.Expr, [][]gosymbol.Expr, error) {
	neg := gosymbol.MulOf(gosymbol.N(-1), f).Simplify()
	res, err := Global(neg, constraints, vars, opts...)
	if err != nil {
		return nil, nil, err
	}

	return gosymbol.MulOf(gosymbol.N(-1), res.Min).Simplify(), res.MinPoints, nil
}

// ImplicitDiff differentiates f once per listed variable, the trailing
// len(g) problem variables being implicit functions of the leading ones.
// Only free variables may be listed.
func ImplicitDiff(f gosymbol.Expr, g []gosymbol.Expr, vars []string, diffVars ...string) (gosymbol.Expr, error) {
	cache, err := implicit.New(f, g, vars)
	if err != nil {
		return nil, err
	}

	return cache.DerivativeVars(diffVars...)
}

// TaylorExpansion returns the Taylor polynomial of f around point up to the
// given total order, the trailing len(g) variables treated implicitly. The
// point supplies one value per variable, dependent ones included.
func TaylorExpansion(f gosymbol.Expr, g []gosymbol.Expr, vars []string, point []gosymbol.Expr, order int) (gosymbol.Expr, error) {
	cache, err := implicit.New(f, g, vars)
	if err != nil {
		return nil, err
	}

	return cache.Taylor(point, order)
}
