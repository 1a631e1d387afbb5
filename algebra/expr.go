package algebra

import (
	"math"
	"math/big"

	"github.com/njchilds90/gosymbol"
)

// RatNormal expands and fully simplifies e; the canonical form used before
// zero tests and map-key comparisons.
func RatNormal(e gosymbol.Expr) gosymbol.Expr {
	return gosymbol.Canonicalize(e)
}

// SubstPoint substitutes point[i] for vars[i] in e and simplifies.
// len(point) may be shorter than len(vars); extra vars stay symbolic.
func SubstPoint(e gosymbol.Expr, vars []string, point []gosymbol.Expr) gosymbol.Expr {
	out := e
	for i, v := range vars {
		if i >= len(point) || point[i] == nil {
			continue
		}
		out = out.Sub(v, point[i])
	}

	return out.Simplify()
}

// EvalFloat evaluates e to a float64 if every leaf is numeric.
func EvalFloat(e gosymbol.Expr) (float64, bool) {
	n, ok := e.Simplify().Eval()
	if !ok {
		return 0, false
	}

	return n.Float64(), true
}

// IsConstantIn reports whether e is free of every variable in vars.
func IsConstantIn(e gosymbol.Expr, vars ...string) bool {
	for _, v := range vars {
		if dependsOn(e, v) {
			return false
		}
	}

	return true
}

// dependsOn walks the expression tree looking for the symbol name.
func dependsOn(e gosymbol.Expr, name string) bool {
	switch v := e.(type) {
	case *gosymbol.Sym:
		return v.Name() == name
	case *gosymbol.Add:
		for _, t := range v.Terms() {
			if dependsOn(t, name) {
				return true
			}
		}
	case *gosymbol.Mul:
		for _, f := range v.Factors() {
			if dependsOn(f, name) {
				return true
			}
		}
	case *gosymbol.Pow:
		return dependsOn(v.Base(), name) || dependsOn(v.ExpExpr(), name)
	case *gosymbol.Func:
		return dependsOn(v.Arg(), name)
	}

	return false
}

// Denominator collects the denominator of a rational expression: the product
// of base^|k| over every power factor with a negative numeric exponent k.
// For sums, the product of the distinct term denominators is taken, which is
// a multiple of the true common denominator and therefore safe for clearing.
func Denominator(e gosymbol.Expr) gosymbol.Expr {
	switch v := e.Simplify().(type) {
	case *gosymbol.Pow:
		if n, ok := v.ExpExpr().(*gosymbol.Num); ok && n.IsNegative() {
			return gosymbol.PowOf(v.Base(), negateNum(n))
		}
	case *gosymbol.Mul:
		factors := []gosymbol.Expr{gosymbol.N(1)}
		for _, f := range v.Factors() {
			factors = append(factors, Denominator(f))
		}

		return gosymbol.MulOf(factors...)
	case *gosymbol.Add:
		seen := make(map[string]bool)
		factors := []gosymbol.Expr{gosymbol.N(1)}
		for _, t := range v.Terms() {
			d := Denominator(t)
			key := d.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			factors = append(factors, d)
		}

		return gosymbol.MulOf(factors...)
	}

	return gosymbol.N(1)
}

// ClearDenominator multiplies e by its denominator and expands, turning a
// rational expression into a polynomial one. Spurious roots this can add are
// filtered out later by residual verification on the original equations.
func ClearDenominator(e gosymbol.Expr) gosymbol.Expr {
	d := Denominator(e)
	if n, ok := d.(*gosymbol.Num); ok && n.IsOne() {
		return RatNormal(e)
	}

	return RatNormal(gosymbol.MulOf(e, d))
}

// negateNum returns -n as an expression.
func negateNum(n *gosymbol.Num) gosymbol.Expr {
	return gosymbol.MulOf(gosymbol.N(-1), n).Simplify()
}

// IsPolynomialIn reports whether e is a polynomial in name: name occurs only
// under sums, products and nonnegative integer powers.
func IsPolynomialIn(e gosymbol.Expr, name string) bool {
	switch v := e.(type) {
	case *gosymbol.Num:
		return true
	case *gosymbol.Sym:
		return true
	case *gosymbol.Add:
		for _, t := range v.Terms() {
			if !IsPolynomialIn(t, name) {
				return false
			}
		}

		return true
	case *gosymbol.Mul:
		for _, f := range v.Factors() {
			if !IsPolynomialIn(f, name) {
				return false
			}
		}

		return true
	case *gosymbol.Pow:
		if !dependsOn(v.Base(), name) && !dependsOn(v.ExpExpr(), name) {
			return true
		}
		n, ok := v.ExpExpr().(*gosymbol.Num)
		if !ok || !n.IsInteger() || n.IsNegative() {
			return false
		}

		return IsPolynomialIn(v.Base(), name)
	case *gosymbol.Func:
		return !dependsOn(v.Arg(), name)
	}

	return !dependsOn(e, name)
}

// SnapRational tries to recover an exact rational p/q (q ≤ 64) from a float
// produced by a numeric root finder. Returns the original float wrapped as
// an expression when no small rational is close enough.
func SnapRational(x float64) gosymbol.Expr {
	for q := int64(1); q <= 64; q++ {
		p := math.Round(x * float64(q))
		if math.Abs(x-p/float64(q)) < Tolerance {
			return gosymbol.F(int64(p), q)
		}
	}

	return gosymbol.NFloat(x)
}

// RatOf exposes the exact rational value of a numeric expression.
func RatOf(e gosymbol.Expr) (*big.Rat, bool) {
	n, ok := e.Simplify().Eval()
	if !ok {
		return nil, false
	}

	return n.Rat(), true
}
