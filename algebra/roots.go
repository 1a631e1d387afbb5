package algebra

import (
	"math"

	"github.com/njchilds90/gosymbol"
)

// evalAt evaluates a univariate expression at x.
func evalAt(e gosymbol.Expr, name string, x float64) (float64, bool) {
	return EvalFloat(e.Sub(name, gosymbol.NFloat(x)))
}

// RootInInterval finds a root of e (as a function of name) inside [a, b] by
// bisection on a sign change, polished by a few Newton steps. ok is false
// when the endpoints do not bracket a root or evaluation fails.
func RootInInterval(e gosymbol.Expr, name string, a, b float64) (float64, bool) {
	f := e.Simplify()
	fa, oka := evalAt(f, name, a)
	fb, okb := evalAt(f, name, b)
	if !oka || !okb {
		return 0, false
	}
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if fa*fb > 0 {
		return 0, false
	}
	lo, hi, flo := a, b, fa
	for i := 0; i < 200 && hi-lo > 1e-15; i++ {
		mid := (lo + hi) / 2
		fm, ok := evalAt(f, name, mid)
		if !ok {
			return 0, false
		}
		if fm == 0 {
			return mid, true
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fm
		}
	}

	return polishNewton(f, name, (lo+hi)/2)
}

// polishNewton refines x with Newton iterations; falls back to x itself if
// the derivative vanishes or iteration diverges.
func polishNewton(f gosymbol.Expr, name string, x float64) (float64, bool) {
	df := gosymbol.Diff(f, name)
	cur := x
	for i := 0; i < 50; i++ {
		fv, ok1 := evalAt(f, name, cur)
		dv, ok2 := evalAt(df, name, cur)
		if !ok1 || !ok2 {
			return x, true
		}
		if math.Abs(fv) < 1e-14 {
			return cur, true
		}
		if math.Abs(dv) < 1e-14 {
			return cur, true
		}
		next := cur - fv/dv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return cur, true
		}
		if math.Abs(next-cur) < 1e-15 {
			return next, true
		}
		cur = next
	}

	return cur, true
}
