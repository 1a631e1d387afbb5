package algebra

import (
	"errors"

	"github.com/njchilds90/gosymbol"
)

// Tolerance is the absolute tolerance used whenever an exact comparison has
// to fall back to floating-point evaluation.
const Tolerance = 1e-9

// Sentinel errors returned by the algebra boundary.
var (
	// ErrSingularMatrix indicates a singular matrix where a nonsingular one
	// is required (inversion, implicit-derivative systems).
	ErrSingularMatrix = errors.New("algebra: matrix is singular")

	// ErrNonNumeric indicates that an operation requiring numeric entries
	// (eigenvalues, numeric rank) met symbolic ones.
	ErrNonNumeric = errors.New("algebra: expression does not evaluate to a number")

	// ErrSolverFailed indicates that no solving strategy could be applied to
	// the given system. Note that an empty solution set is NOT a failure.
	ErrSolverFailed = errors.New("algebra: equation solver failed")
)

// Range is a variable range used in the assumption store. A nil bound means
// unbounded on that side.
type Range struct {
	Lo, Hi         gosymbol.Expr
	LoOpen, HiOpen bool
}

// Positive is the open range (0, +inf).
func Positive() Range { return Range{Lo: gosymbol.N(0), LoOpen: true} }

// Interval is the closed range [lo, hi].
func Interval(lo, hi gosymbol.Expr) Range { return Range{Lo: lo, Hi: hi} }

// assumption binds one variable to a range for the lifetime of a scope.
type assumption struct {
	name string
	r    Range
}

// Assumptions is a scoped store of variable ranges. Callers Push a range
// before a solve and Pop it afterwards; the innermost entry for a variable
// wins. The zero value is an empty store ready for use.
type Assumptions struct {
	stack []assumption
}

// Push binds name to r until the matching Pop.
func (a *Assumptions) Push(name string, r Range) {
	a.stack = append(a.stack, assumption{name: name, r: r})
}

// Pop removes the most recent binding. Popping an empty store is a no-op.
func (a *Assumptions) Pop() {
	if n := len(a.stack); n > 0 {
		a.stack = a.stack[:n-1]
	}
}

// PopN removes the k most recent bindings.
func (a *Assumptions) PopN(k int) {
	for i := 0; i < k; i++ {
		a.Pop()
	}
}

// RangeOf returns the innermost range bound to name.
func (a *Assumptions) RangeOf(name string) (Range, bool) {
	if a == nil {
		return Range{}, false
	}
	for i := len(a.stack) - 1; i >= 0; i-- {
		if a.stack[i].name == name {
			return a.stack[i].r, true
		}
	}

	return Range{}, false
}

// Admits reports whether the numeric value v is compatible with the range
// bound to name, if any. Non-numeric bounds admit everything.
func (a *Assumptions) Admits(name string, v float64) bool {
	r, ok := a.RangeOf(name)
	if !ok {
		return true
	}
	if r.Lo != nil {
		if lo, ok := EvalFloat(r.Lo); ok {
			if v < lo-Tolerance || (r.LoOpen && v <= lo+Tolerance) {
				return false
			}
		}
	}
	if r.Hi != nil {
		if hi, ok := EvalFloat(r.Hi); ok {
			if v > hi+Tolerance || (r.HiOpen && v >= hi-Tolerance) {
				return false
			}
		}
	}

	return true
}
