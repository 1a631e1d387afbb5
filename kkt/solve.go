package kkt

import (
	"fmt"
	"strconv"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
)

// Solve returns the KKT critical points of f over vars under the
// constraints g ≤ 0 (componentwise) and h = 0. The stationarity system
//
//	∇f + Σ μ_j ∇g_j + Σ λ_j ∇h_j = 0,  h = 0
//
// is solved once per active set of the inequalities: an inactive
// constraint has its multiplier forced to zero, an active one contributes
// g_j = 0 together with the scoped assumption μ_j > 0. Candidates
// violating an inactive inequality are discarded, and duplicates across
// patterns are merged. Each returned point has len(vars) coordinates; the
// multipliers are stripped.
func Solve(f gosymbol.Expr, g, h []gosymbol.Expr, vars []string, asm *algebra.Assumptions) ([][]gosymbol.Expr, error) {
	n, m, l := len(vars), len(g), len(h)
	if m > MaxInequalities {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyInequalities, m, MaxInequalities)
	}
	if asm == nil {
		asm = &algebra.Assumptions{}
	}

	// 1) Stationarity equations over variables and multipliers.
	grF := algebra.GradientOf(f, vars)
	grG := make([][]gosymbol.Expr, m)
	mu := make([]string, m)
	for j := 0; j < m; j++ {
		grG[j] = algebra.GradientOf(g[j], vars)
		mu[j] = "·mu" + strconv.Itoa(j)
	}
	grH := make([][]gosymbol.Expr, l)
	lam := make([]string, l)
	for j := 0; j < l; j++ {
		grH[j] = algebra.GradientOf(h[j], vars)
		lam[j] = "·lambda" + strconv.Itoa(j)
	}
	base := make([]gosymbol.Expr, 0, n+l)
	for i := 0; i < n; i++ {
		eq := grF[i]
		for j := 0; j < m; j++ {
			eq = gosymbol.AddOf(eq, gosymbol.MulOf(gosymbol.S(mu[j]), grG[j][i]))
		}
		for j := 0; j < l; j++ {
			eq = gosymbol.AddOf(eq, gosymbol.MulOf(gosymbol.S(lam[j]), grH[j][i]))
		}
		base = append(base, eq)
	}
	base = append(base, h...)

	// 2) Walk the 2^m active sets with an explicit bounded iterator.
	var points [][]gosymbol.Expr
	inactive := make([]bool, m)
	for {
		sols, err := solvePattern(base, g, vars, mu, lam, inactive, asm)
		if err != nil {
			return nil, err
		}
		for _, sol := range sols {
			points = appendPoint(points, sol[:n])
		}
		if !nextPattern(inactive) {
			break
		}
	}

	// 3) Discard candidates on the wrong side of any inequality.
	kept := points[:0]
	for _, p := range points {
		ok := true
		for j := 0; j < m; j++ {
			if algebra.IsStrictlyPositive(algebra.SubstPoint(g[j], vars, p), asm) {
				ok = false

				break
			}
		}
		if ok {
			kept = append(kept, p)
		}
	}

	return kept, nil
}

// solvePattern solves the stationarity system for one active set. inactive
// multipliers are substituted by zero and removed from the unknowns; active
// inequalities join the system as equalities with μ > 0 assumed.
func solvePattern(base, g []gosymbol.Expr, vars, mu, lam []string, inactive []bool, asm *algebra.Assumptions) ([][]gosymbol.Expr, error) {
	eqs := make([]gosymbol.Expr, len(base), len(base)+len(g))
	copy(eqs, base)
	unknowns := make([]string, 0, len(vars)+len(mu)+len(lam))
	unknowns = append(unknowns, vars...)
	pushed := 0
	for j, off := range inactive {
		if off {
			for i := range eqs {
				eqs[i] = gosymbol.Sub(eqs[i], mu[j], gosymbol.N(0))
			}

			continue
		}
		eqs = append(eqs, g[j])
		unknowns = append(unknowns, mu[j])
		asm.Push(mu[j], algebra.Positive())
		pushed++
	}
	unknowns = append(unknowns, lam...)
	sols, err := algebra.SolveSystem(eqs, unknowns, asm)
	asm.PopN(pushed)
	if err != nil {
		return nil, err
	}

	return sols, nil
}

// nextPattern advances the active-set indicator like a binary counter,
// reporting false after the all-true pattern wraps around.
func nextPattern(p []bool) bool {
	for i := len(p) - 1; i >= 0; i-- {
		p[i] = !p[i]
		if p[i] {
			return true
		}
	}

	return false
}

// appendPoint adds p to points unless an equal point is already present.
func appendPoint(points [][]gosymbol.Expr, p []gosymbol.Expr) [][]gosymbol.Expr {
	for _, q := range points {
		if samePoint(p, q) {
			return points
		}
	}

	return append(points, p)
}

func samePoint(a, b []gosymbol.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := algebra.RatNormal(gosymbol.AddOf(a[i], gosymbol.MulOf(gosymbol.N(-1), b[i])))
		if !algebra.IsZero(d, nil) {
			va, oka := algebra.EvalFloat(a[i])
			vb, okb := algebra.EvalFloat(b[i])
			if !oka || !okb || !algebra.EqualWithin(va, vb) {
				return false
			}
		}
	}

	return true
}
