package extremum

import (
	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/kkt"
)

// Global computes the exact global minimum and maximum of f over the
// region cut out by the constraints and the variable bounds. One variable
// without equality constraints takes the univariate route (derivative
// zeros, poles and endpoints); everything else evaluates f on the KKT
// critical candidates. The minimum comes with every point attaining it.
//
// A compact feasible region guarantees both extrema exist; on unbounded
// regions the result only covers the critical candidates, and an empty
// candidate set yields ErrNoCriticalPoints.
func Global(f gosymbol.Expr, constraints []kkt.Constraint, vars []string, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	g, h, err := kkt.Split(constraints)
	if err != nil {
		return Result{}, err
	}
	tmp, pushed := kkt.TempVars(vars, o.bounds, o.asm)
	defer o.asm.PopN(pushed)
	ff := kkt.ToTemp(f, vars, tmp)

	var cands [][]gosymbol.Expr
	if len(vars) == 1 && len(h) == 0 {
		r := boundRange(o.bounds[vars[0]], g, vars[0], o.asm)
		for _, c := range kkt.UnivariateCandidates(ff, tmp[0], r, o.asm) {
			cands = append(cands, []gosymbol.Expr{c})
		}
	} else {
		gg := make([]gosymbol.Expr, len(g))
		for i, e := range g {
			gg[i] = kkt.ToTemp(e, vars, tmp)
		}
		hh := make([]gosymbol.Expr, len(h))
		for i, e := range h {
			hh[i] = kkt.ToTemp(e, vars, tmp)
		}
		cands, err = kkt.Solve(ff, gg, hh, tmp, o.asm)
		if err != nil {
			return Result{}, err
		}
	}
	// Candidates on the wrong side of an inequality are infeasible.
	cands = feasible(cands, g, vars, o.asm)
	if len(cands) == 0 {
		return Result{}, ErrNoCriticalPoints
	}

	return evaluate(f, vars, tmp, cands, o)
}

// GlobalPiecewise is the univariate Global for piecewise objectives: the
// candidates of every branch plus the transition thresholds, evaluated
// through branch selection.
func GlobalPiecewise(p *kkt.Piecewise, x string, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	r := o.bounds[x]
	cands := kkt.PiecewiseCandidates(p, x, r, o.asm)
	res := Result{}
	set := false
	for _, c := range cands {
		val, err := p.ValueAt(x, c)
		if err != nil {
			continue // branch selection needs a numeric point
		}
		val = algebra.RatNormal(val)
		res, set = accumulate(res, set, val, []gosymbol.Expr{c}, o)
	}
	if !set {
		return Result{}, ErrNoCriticalPoints
	}

	return res, nil
}

// boundRange tightens the explicit range of x with every inequality that
// is linear in x, so one-sided constraints like x-1 ≤ 0 contribute interval
// endpoints to the candidate set instead of acting only as a post-hoc
// feasibility filter. Constraints that are not linear in x are left to the
// filter.
func boundRange(r algebra.Range, g []gosymbol.Expr, x string, asm *algebra.Assumptions) algebra.Range {
	for _, e := range g {
		a := algebra.DiffVar(e, x, 1).Simplify()
		if !algebra.IsConstantIn(a, x) {
			continue
		}
		s, ok := algebra.Sign(a, asm)
		if !ok || s == 0 {
			continue
		}
		// a·x + b ≤ 0 crosses zero at -b/a
		end := algebra.RatNormal(gosymbol.MulOf(
			gosymbol.N(-1),
			gosymbol.MulOf(gosymbol.Sub(e, x, gosymbol.N(0)), gosymbol.PowOf(a, gosymbol.N(-1))),
		))
		if s > 0 {
			if r.Hi == nil || algebra.IsStrictlyGreater(r.Hi, end, asm) {
				r.Hi, r.HiOpen = end, false
			}
		} else if r.Lo == nil || algebra.IsStrictlyGreater(end, r.Lo, asm) {
			r.Lo, r.LoOpen = end, false
		}
	}

	return r
}

// feasible drops candidates that provably violate an inequality g ≤ 0.
func feasible(cands [][]gosymbol.Expr, g []gosymbol.Expr, vars []string, asm *algebra.Assumptions) [][]gosymbol.Expr {
	if len(g) == 0 {
		return cands
	}
	kept := cands[:0]
	for _, p := range cands {
		ok := true
		for _, c := range g {
			if algebra.IsStrictlyPositive(algebra.SubstPoint(c, vars, p), asm) {
				ok = false

				break
			}
		}
		if ok {
			kept = append(kept, p)
		}
	}

	return kept
}

// evaluate substitutes every candidate into f, tracking the running
// minimum with its locations and the running maximum. Ties on the minimum
// are detected exactly, on the normalized difference of values.
func evaluate(f gosymbol.Expr, vars, tmp []string, cands [][]gosymbol.Expr, o *options) (Result, error) {
	res := Result{}
	set := false
	for _, p := range cands {
		pt := make([]gosymbol.Expr, len(p))
		for i, c := range p {
			pt[i] = kkt.FromTemp(c, vars, tmp)
		}
		val := algebra.RatNormal(algebra.SubstPoint(f, vars, pt))
		res, set = accumulate(res, set, val, pt, o)
	}
	if !set {
		return Result{}, ErrNoCriticalPoints
	}

	return res, nil
}

func accumulate(res Result, set bool, val gosymbol.Expr, pt []gosymbol.Expr, o *options) (Result, bool) {
	if !set {
		return Result{Min: val, MinPoints: [][]gosymbol.Expr{pt}, Max: val}, true
	}
	diff := algebra.RatNormal(gosymbol.AddOf(val, gosymbol.MulOf(gosymbol.N(-1), res.Min)))
	switch {
	case algebra.IsZero(diff, o.asm):
		if !containsPoint(res.MinPoints, pt) {
			res.MinPoints = append(res.MinPoints, pt)
		}
	case algebra.IsStrictlyGreater(res.Min, val, o.asm):
		res.Min = val
		res.MinPoints = [][]gosymbol.Expr{pt}
	}
	if algebra.IsStrictlyGreater(val, res.Max, o.asm) {
		res.Max = val
	}

	return res, true
}

func containsPoint(pts [][]gosymbol.Expr, p []gosymbol.Expr) bool {
	for _, q := range pts {
		if len(q) != len(p) {
			continue
		}
		same := true
		for i := range q {
			d := algebra.RatNormal(gosymbol.AddOf(q[i], gosymbol.MulOf(gosymbol.N(-1), p[i])))
			if !algebra.IsZero(d, nil) {
				same = false

				break
			}
		}
		if same {
			return true
		}
	}

	return false
}
