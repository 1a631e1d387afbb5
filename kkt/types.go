package kkt

import (
	"errors"
	"fmt"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
)

// MaxInequalities bounds the number of inequality constraints accepted by
// Solve; the active-set enumeration visits 2^m patterns.
const MaxInequalities = 16

// Sentinel errors.
var (
	// ErrTooManyInequalities indicates more than MaxInequalities
	// inequality constraints.
	ErrTooManyInequalities = errors.New("kkt: too many inequality constraints")

	// ErrBadRelation indicates a relational operator outside the closed
	// enumeration.
	ErrBadRelation = errors.New("kkt: unsupported relational operator")
)

// RelOp is a relational operator. The enumeration is closed: every switch
// over it handles all six values and rejects anything else.
type RelOp int

const (
	RelEq RelOp = iota // =
	RelNe              // ≠
	RelLt              // <
	RelLe              // ≤
	RelGt              // >
	RelGe              // ≥
)

// String implements fmt.Stringer.
func (op RelOp) String() string {
	switch op {
	case RelEq:
		return "="
	case RelNe:
		return "!="
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelGt:
		return ">"
	case RelGe:
		return ">="
	default:
		return fmt.Sprintf("RelOp(%d)", int(op))
	}
}

// Constraint relates an expression to zero: Expr Op 0.
type Constraint struct {
	Expr gosymbol.Expr
	Op   RelOp
}

// Eq builds the equality constraint e = 0.
func Eq(e gosymbol.Expr) Constraint { return Constraint{Expr: e, Op: RelEq} }

// Le builds the inequality constraint e ≤ 0.
func Le(e gosymbol.Expr) Constraint { return Constraint{Expr: e, Op: RelLe} }

// Ge builds the inequality constraint e ≥ 0.
func Ge(e gosymbol.Expr) Constraint { return Constraint{Expr: e, Op: RelGe} }

// Split separates constraints into equalities h = 0 and inequalities
// g ≤ 0, normalizing e ≥ 0 and e > 0 to -e ≤ 0. Strict inequalities are
// relaxed to their closure, as a critical-point search cannot distinguish
// them. RelNe is rejected.
func Split(cs []Constraint) (g, h []gosymbol.Expr, err error) {
	for _, c := range cs {
		switch c.Op {
		case RelEq:
			h = append(h, c.Expr)
		case RelLe, RelLt:
			g = append(g, c.Expr)
		case RelGe, RelGt:
			g = append(g, gosymbol.MulOf(gosymbol.N(-1), c.Expr).Simplify())
		case RelNe:
			return nil, nil, fmt.Errorf("%w: %s", ErrBadRelation, c.Op)
		default:
			return nil, nil, fmt.Errorf("%w: %s", ErrBadRelation, c.Op)
		}
	}

	return g, h, nil
}

// Case is one branch of a piecewise objective: Value applies while the
// variable relates to Threshold under Op.
type Case struct {
	Op        RelOp
	Threshold gosymbol.Expr
	Value     gosymbol.Expr
}

// Piecewise is a one-variable objective defined case by case. Cases are
// tried in order and the first holding condition wins; Default applies when
// none does. Nested piecewise objectives are not supported.
type Piecewise struct {
	Cases   []Case
	Default gosymbol.Expr
}

// Branches returns every branch expression, Default last.
func (p *Piecewise) Branches() []gosymbol.Expr {
	out := make([]gosymbol.Expr, 0, len(p.Cases)+1)
	for _, c := range p.Cases {
		out = append(out, c.Value)
	}
	if p.Default != nil {
		out = append(out, p.Default)
	}

	return out
}

// Spikes returns the transition thresholds, regardless of the inequality
// sign; the objective is treated as non-differentiable there.
func (p *Piecewise) Spikes() []gosymbol.Expr {
	out := make([]gosymbol.Expr, 0, len(p.Cases))
	for _, c := range p.Cases {
		out = append(out, c.Threshold)
	}

	return out
}

// ValueAt evaluates the piecewise objective at a numeric point, selecting
// the first branch whose condition holds. Symbolic points or thresholds
// make the selection undecidable and yield ErrBadRelation.
func (p *Piecewise) ValueAt(name string, at gosymbol.Expr) (gosymbol.Expr, error) {
	x, ok := algebra.EvalFloat(at)
	if !ok {
		return nil, fmt.Errorf("%w: non-numeric point %s", ErrBadRelation, at.String())
	}
	for _, c := range p.Cases {
		thr, tok := algebra.EvalFloat(c.Threshold)
		if !tok {
			return nil, fmt.Errorf("%w: non-numeric threshold %s", ErrBadRelation, c.Threshold.String())
		}
		holds, err := relHolds(c.Op, x, thr)
		if err != nil {
			return nil, err
		}
		if holds {
			return gosymbol.Sub(c.Value, name, at), nil
		}
	}
	if p.Default == nil {
		return nil, fmt.Errorf("%w: no branch covers %s", ErrBadRelation, at.String())
	}

	return gosymbol.Sub(p.Default, name, at), nil
}

// relHolds decides x Op thr for numeric operands. Equality uses the shared
// numeric tolerance.
func relHolds(op RelOp, x, thr float64) (bool, error) {
	switch op {
	case RelEq:
		return algebra.EqualWithin(x, thr), nil
	case RelNe:
		return !algebra.EqualWithin(x, thr), nil
	case RelLt:
		return x < thr, nil
	case RelLe:
		return x < thr || algebra.EqualWithin(x, thr), nil
	case RelGt:
		return x > thr, nil
	case RelGe:
		return x > thr || algebra.EqualWithin(x, thr), nil
	default:
		return false, fmt.Errorf("%w: %s", ErrBadRelation, op)
	}
}
