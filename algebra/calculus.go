package algebra

import (
	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/multiindex"
)

// DiffVar differentiates e k times with respect to name.
func DiffVar(e gosymbol.Expr, name string, k int) gosymbol.Expr {
	return gosymbol.DiffN(e, name, k)
}

// DiffMulti applies the multi-index sig to e: sig[i] differentiations with
// respect to vars[i]. sig may be shorter than vars; missing entries are zero.
func DiffMulti(e gosymbol.Expr, vars []string, sig multiindex.MultiIndex) gosymbol.Expr {
	out := e
	for i, k := range sig {
		if i >= len(vars) || k == 0 {
			continue
		}
		out = gosymbol.DiffN(out, vars[i], k)
	}

	return out.Simplify()
}

// GradientOf returns the gradient of e with respect to vars.
func GradientOf(e gosymbol.Expr, vars []string) []gosymbol.Expr {
	return gosymbol.Gradient(e, vars)
}

// HessianOf returns the Hessian matrix of e with respect to vars.
func HessianOf(e gosymbol.Expr, vars []string) *gosymbol.Matrix {
	return gosymbol.Hessian(e, vars)
}

// JacobianOf returns the m×n Jacobian of exprs with respect to vars.
func JacobianOf(exprs []gosymbol.Expr, vars []string) *gosymbol.Matrix {
	return gosymbol.Jacobian(exprs, vars)
}
