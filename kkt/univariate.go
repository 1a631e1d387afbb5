package kkt

import (
	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
)

// UnivariateCandidates returns the critical candidates of a one-variable
// objective on the range r: zeros of the derivative, zeros of the
// derivative's denominator (where the objective is not differentiable) and
// the finite endpoints of r. Candidates provably outside r are dropped.
func UnivariateCandidates(f gosymbol.Expr, x string, r algebra.Range, asm *algebra.Assumptions) []gosymbol.Expr {
	df := algebra.DiffVar(f, x, 1).Simplify()
	cands := algebra.SolveUnivariate(df, x, asm)
	den := algebra.Denominator(df)
	if !algebra.IsConstantIn(den, x) {
		cands = append(cands, algebra.SolveUnivariate(den, x, asm)...)
	}
	cands = appendEndpoints(cands, r)

	return filterRange(cands, r)
}

// PiecewiseCandidates returns the critical candidates of a piecewise
// objective: the derivative and pole candidates of every branch, the
// transition thresholds, and the finite endpoints of r.
func PiecewiseCandidates(p *Piecewise, x string, r algebra.Range, asm *algebra.Assumptions) []gosymbol.Expr {
	var cands []gosymbol.Expr
	for _, br := range p.Branches() {
		cands = append(cands, UnivariateCandidates(br, x, r, asm)...)
	}
	cands = append(cands, p.Spikes()...)

	return filterRange(cands, r)
}

// appendEndpoints adds the finite bounds of r as candidates. A closed or
// open endpoint alike can carry the extremum of a continuous objective on
// the closure; openness matters to feasibility, not candidacy.
func appendEndpoints(cands []gosymbol.Expr, r algebra.Range) []gosymbol.Expr {
	if r.Lo != nil {
		cands = append(cands, r.Lo)
	}
	if r.Hi != nil {
		cands = append(cands, r.Hi)
	}

	return cands
}

// filterRange drops duplicates and candidates that provably lie outside r.
// Symbolic candidates are kept, since exclusion cannot be decided.
func filterRange(cands []gosymbol.Expr, r algebra.Range) []gosymbol.Expr {
	lo, hasLo := boundValue(r.Lo)
	hi, hasHi := boundValue(r.Hi)
	var out []gosymbol.Expr
	for _, c := range cands {
		if v, ok := algebra.EvalFloat(c); ok {
			if hasLo && v < lo && !algebra.EqualWithin(v, lo) {
				continue
			}
			if hasHi && v > hi && !algebra.EqualWithin(v, hi) {
				continue
			}
		}
		dup := false
		for _, prev := range out {
			if samePoint([]gosymbol.Expr{prev}, []gosymbol.Expr{c}) {
				dup = true

				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}

	return out
}

func boundValue(e gosymbol.Expr) (float64, bool) {
	if e == nil {
		return 0, false
	}

	return algebra.EvalFloat(e)
}
