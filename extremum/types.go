package extremum

import (
	"errors"
	"fmt"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/implicit"
)

// DefaultMaxOrder is the default derivative-order budget of the local
// classifier.
const DefaultMaxOrder = 5

// Sentinel errors.
var (
	// ErrInvalidArity indicates an unusable combination of variables and
	// constraints, such as the Lagrange path without any constraint.
	ErrInvalidArity = errors.New("extremum: invalid variable/constraint arity")

	// ErrNoCriticalPoints indicates that no critical candidate was found;
	// for Global this is an expected outcome on unbounded problems.
	ErrNoCriticalPoints = errors.New("extremum: no critical points found")

	// ErrSingularJacobian mirrors the implicit-package condition: no
	// variable arrangement satisfies the implicit function theorem.
	ErrSingularJacobian = implicit.ErrSingularJacobian
)

// Class is the outcome of classifying one critical point.
type Class int

const (
	// Unclassified marks a point no classification was attempted for.
	Unclassified Class = iota
	// Min marks a strict local minimum.
	Min
	// Max marks a strict local maximum.
	Max
	// Saddle marks a saddle point, or an inflection point in one variable.
	Saddle
	// PossibleMin marks a point whose lowest nonvanishing Taylor term is
	// nonnegative but not definite; a minimum cannot be confirmed.
	PossibleMin
	// PossibleMax is the mirror image of PossibleMin.
	PossibleMax
	// Undecided marks a point the tests could not classify within the
	// order budget. Terminal: no further tests apply.
	Undecided
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case Unclassified:
		return "unclassified"
	case Min:
		return "minimum"
	case Max:
		return "maximum"
	case Saddle:
		return "saddle"
	case PossibleMin:
		return "possible minimum"
	case PossibleMax:
		return "possible maximum"
	case Undecided:
		return "undecided"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// CriticalPoint is one candidate with its classification. Note carries
// diagnostic context for Undecided and Possible* outcomes.
type CriticalPoint struct {
	Point []gosymbol.Expr
	Class Class
	Note  string
}

// Result is the outcome of a global search: the minimum value with every
// point attaining it, and the maximum value. Maximizer locations are not
// tracked; Maximize recovers them by negating the objective.
type Result struct {
	Min       gosymbol.Expr
	MinPoints [][]gosymbol.Expr
	Max       gosymbol.Expr
}

type options struct {
	maxOrder int
	tol      float64
	bounds   map[string]algebra.Range
	asm      *algebra.Assumptions
}

// Option configures a search.
type Option func(*options)

// WithMaxOrder bounds the derivative order inspected by the local
// classifier. Zero selects the plain Lagrange-multiplier path, which finds
// critical points without classifying them.
func WithMaxOrder(k int) Option {
	return func(o *options) {
		if k >= 0 {
			o.maxOrder = k
		}
	}
}

// WithTolerance overrides the numeric comparison tolerance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tol = tol
		}
	}
}

// WithBound restricts a variable to the given range.
func WithBound(name string, r algebra.Range) Option {
	return func(o *options) {
		if o.bounds == nil {
			o.bounds = make(map[string]algebra.Range)
		}
		o.bounds[name] = r
	}
}

// WithAssumptions supplies an assumption store shared with the caller.
// Assumptions pushed during a search are popped before returning.
func WithAssumptions(asm *algebra.Assumptions) Option {
	return func(o *options) { o.asm = asm }
}

func buildOptions(opts []Option) *options {
	o := &options{
		maxOrder: DefaultMaxOrder,
		tol:      algebra.Tolerance,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.asm == nil {
		o.asm = &algebra.Assumptions{}
	}

	return o
}
