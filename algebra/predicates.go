package algebra

import (
	"math"

	"github.com/njchilds90/gosymbol"
	"gonum.org/v1/gonum/floats/scalar"
)

// Sign determines the sign of e: -1, 0 or +1. ok is false when the sign
// cannot be decided. Numeric expressions are evaluated; symbolic ones go
// through structural inference that consults the assumption store.
func Sign(e gosymbol.Expr, asm *Assumptions) (int, bool) {
	s := RatNormal(e)
	if n, ok := s.Eval(); ok {
		return numSign(n), true
	}

	return structuralSign(s, asm)
}

// numSign maps a rational to its sign, treating float-derived values within
// Tolerance of zero as zero.
func numSign(n *gosymbol.Num) int {
	v := n.Float64()
	if scalar.EqualWithinAbs(v, 0, Tolerance) {
		return 0
	}
	if v > 0 {
		return 1
	}

	return -1
}

// structuralSign infers the sign of a symbolic expression from its shape:
// products multiply signs, even powers are nonnegative, sums of same-signed
// terms keep the sign, assumed-positive symbols are positive.
func structuralSign(e gosymbol.Expr, asm *Assumptions) (int, bool) {
	switch v := e.(type) {
	case *gosymbol.Num:
		return numSign(v), true
	case *gosymbol.Sym:
		return assumedSign(v.Name(), asm)
	case *gosymbol.Mul:
		sign := 1
		for _, f := range v.Factors() {
			s, ok := structuralSign(f.Simplify(), asm)
			if !ok {
				return 0, false
			}
			if s == 0 {
				return 0, true
			}
			sign *= s
		}

		return sign, true
	case *gosymbol.Pow:
		if n, ok := v.ExpExpr().(*gosymbol.Num); ok && n.IsInteger() {
			k := int64(0)
			if r, okr := RatOf(n); okr {
				k = r.Num().Int64()
			}
			bs, ok2 := structuralSign(v.Base().Simplify(), asm)
			if k%2 == 0 {
				// Even power: nonnegative; strictly positive when the base
				// is known nonzero.
				if ok2 && bs != 0 {
					return 1, true
				}

				return 0, false
			}
			if ok2 {
				return bs, true
			}

			return 0, false
		}
		// Fractional powers (roots) of known-positive bases are positive.
		if bs, ok := structuralSign(v.Base().Simplify(), asm); ok && bs > 0 {
			return 1, true
		}

		return 0, false
	case *gosymbol.Add:
		pos, neg, zero := 0, 0, 0
		for _, t := range v.Terms() {
			s, ok := structuralSign(t.Simplify(), asm)
			if !ok {
				return 0, false
			}
			switch {
			case s > 0:
				pos++
			case s < 0:
				neg++
			default:
				zero++
			}
		}
		if pos > 0 && neg == 0 {
			return 1, true
		}
		if neg > 0 && pos == 0 {
			return -1, true
		}
		if pos == 0 && neg == 0 {
			return 0, true
		}

		return 0, false
	case *gosymbol.Func:
		switch v.FuncName() {
		case "exp", "cosh":
			return 1, true
		case "abs":
			if s, ok := structuralSign(v.Arg().Simplify(), asm); ok && s != 0 {
				return 1, true
			}

			return 0, false
		}

		return 0, false
	}

	return 0, false
}

// assumedSign derives a symbol's sign from its assumed range.
func assumedSign(name string, asm *Assumptions) (int, bool) {
	r, ok := asm.RangeOf(name)
	if !ok {
		return 0, false
	}
	if r.Lo != nil {
		if lo, okf := EvalFloat(r.Lo); okf && (lo > 0 || (lo == 0 && r.LoOpen)) {
			return 1, true
		}
	}
	if r.Hi != nil {
		if hi, okf := EvalFloat(r.Hi); okf && (hi < 0 || (hi == 0 && r.HiOpen)) {
			return -1, true
		}
	}

	return 0, false
}

// IsZero reports whether e is exactly zero after normalization. Values that
// originate from floating-point roots are zero within Tolerance.
func IsZero(e gosymbol.Expr, asm *Assumptions) bool {
	s, ok := Sign(e, asm)

	return ok && s == 0
}

// IsStrictlyPositive reports a provably positive expression.
func IsStrictlyPositive(e gosymbol.Expr, asm *Assumptions) bool {
	s, ok := Sign(e, asm)

	return ok && s > 0
}

// IsStrictlyGreater reports a > b when the sign of a-b can be decided.
func IsStrictlyGreater(a, b gosymbol.Expr, asm *Assumptions) bool {
	return IsStrictlyPositive(gosymbol.AddOf(a, gosymbol.MulOf(gosymbol.N(-1), b)), asm)
}

// EqualWithin reports |a-b| below the tolerance for numeric a, b.
func EqualWithin(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}

	return scalar.EqualWithinAbs(a, b, Tolerance)
}
