package extremum

import (
	"sort"
	"strconv"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/implicit"
	"github.com/katalvlaran/extrema/kkt"
	"github.com/katalvlaran/extrema/multiindex"
)

// Local finds the critical points of f under the equality constraints g
// and classifies each one. With a zero order budget the Lagrange-multiplier
// system is solved and the points are returned Unclassified; that path
// requires at least one constraint. With a positive budget the constrained
// problem runs once per valid variable arrangement through an
// implicit-differentiation cache, and per-point classifications from
// different arrangements are merged, the first conclusive one winning.
//
// Classification order: bordered-Hessian minors for constrained problems,
// the second partial derivative test, then sign-definiteness of the lowest
// nonvanishing Taylor term over the unit sphere. Points that survive every
// test within the budget come back Undecided.
func Local(f gosymbol.Expr, g []gosymbol.Expr, vars []string, opts ...Option) ([]CriticalPoint, error) {
	o := buildOptions(opts)
	n, m := len(vars), len(g)
	if n == 0 || m >= n && m > 0 {
		return nil, ErrInvalidArity
	}
	pushed := pushBounds(vars, o)
	defer o.asm.PopN(pushed)

	if o.maxOrder == 0 {
		if m == 0 {
			return nil, ErrInvalidArity
		}

		return lagrangePoints(f, g, vars, o)
	}

	var arrs [][]int
	if m > 0 {
		var err error
		arrs, err = implicit.Arrangements(g, vars, o.asm)
		if err != nil {
			return nil, err
		}
	} else {
		arr := make([]int, n)
		for i := range arr {
			arr[i] = i
		}
		arrs = [][]int{arr}
	}

	merged := make(map[string]*CriticalPoint)
	for _, arr := range arrs {
		classifyArrangement(merged, f, g, vars, arr, o)
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]CriticalPoint, 0, len(merged))
	for _, k := range keys {
		out = append(out, *merged[k])
	}

	return out, nil
}

// pushBounds registers the configured variable bounds as assumptions.
func pushBounds(vars []string, o *options) int {
	pushed := 0
	for _, v := range vars {
		if r, ok := o.bounds[v]; ok {
			o.asm.Push(v, r)
			pushed++
		}
	}

	return pushed
}

// lagrangePoints solves the stationarity system of the Lagrangian and
// returns the critical points without classification.
func lagrangePoints(f gosymbol.Expr, g []gosymbol.Expr, vars []string, o *options) ([]CriticalPoint, error) {
	m := len(g)
	L := f
	lam := make([]string, m)
	for i := 0; i < m; i++ {
		lam[i] = "·lambda" + strconv.Itoa(i)
		L = gosymbol.AddOf(L, gosymbol.MulOf(gosymbol.N(-1), gosymbol.S(lam[i]), g[i]))
	}
	unknowns := append(append([]string{}, lam...), vars...)
	eqs := algebra.GradientOf(L, unknowns)
	eqs = append(eqs, g...)
	sols, err := algebra.SolveSystem(eqs, unknowns, o.asm)
	if err != nil {
		return nil, err
	}
	if len(sols) == 0 {
		return nil, ErrNoCriticalPoints
	}
	out := make([]CriticalPoint, 0, len(sols))
	for _, sol := range sols {
		out = append(out, CriticalPoint{Point: sol[m:], Class: Unclassified})
	}

	return out, nil
}

// classifyArrangement finds the critical points for one variable
// arrangement and classifies them, merging into cpts keyed by the point in
// original variable order. An arrangement that fails to produce a cache or
// candidates contributes nothing; other arrangements may still succeed.
func classifyArrangement(cpts map[string]*CriticalPoint, f gosymbol.Expr, g []gosymbol.Expr, vars []string, arr []int, o *options) {
	n := len(vars)
	avars := make([]string, n)
	for i, j := range arr {
		avars[i] = vars[j]
	}
	cache, err := implicit.New(f, g, avars)
	if err != nil {
		return
	}
	grad, err := cache.Gradient()
	if err != nil {
		return
	}
	eqs := append(append([]gosymbol.Expr{}, grad...), g...)
	sols, err := algebra.SolveSystem(eqs, avars, o.asm)
	if err != nil || len(sols) == 0 {
		return
	}
	for _, sol := range sols {
		// Back to original variable order for merging across arrangements.
		pt := make([]gosymbol.Expr, n)
		for j, v := range sol {
			pt[arr[j]] = algebra.RatNormal(v)
		}
		key := pointKey(pt)
		if prev, ok := cpts[key]; ok && conclusive(prev.Class) {
			continue
		}
		cls, note := classifyPoint(cache, f, g, avars, sol, o)
		if prev, ok := cpts[key]; ok && !betterClass(cls, prev.Class) {
			continue
		}
		cpts[key] = &CriticalPoint{Point: pt, Class: cls, Note: note}
	}
}

func conclusive(c Class) bool {
	return c == Min || c == Max || c == Saddle || c == PossibleMin || c == PossibleMax
}

// betterClass reports whether a new classification should replace an old
// one: any conclusive class beats Unclassified and Undecided.
func betterClass(next, prev Class) bool {
	return conclusive(next) && !conclusive(prev)
}

func pointKey(pt []gosymbol.Expr) string {
	key := ""
	for i, c := range pt {
		if i > 0 {
			key += ";"
		}
		if v, ok := algebra.EvalFloat(c); ok {
			key += strconv.FormatFloat(v, 'g', 12, 64)

			continue
		}
		key += c.String()
	}

	return key
}

// classifyPoint runs the classification ladder for one critical point
// given in arrangement order (free variables first).
func classifyPoint(cache *implicit.Cache, f gosymbol.Expr, g []gosymbol.Expr, avars []string, sol []gosymbol.Expr, o *options) (Class, string) {
	n, m := len(avars), len(g)
	if n == 1 {
		return classifyUnivariate(f, avars[0], sol[0], o), ""
	}
	cls := Undecided
	if m > 0 {
		cls = borderedHessianWalk(f, g, avars, sol, o)
	}
	if cls == Undecided {
		cls = eigenvalueTest(cache, avars, sol, o)
	}
	if cls == Undecided && o.maxOrder >= 2 {
		return taylorFallback(cache, avars, sol, n-m, o)
	}

	return cls, ""
}

// classifyUnivariate walks the derivative orders at a univariate critical
// point: the first nonvanishing derivative decides, odd order meaning an
// inflection point.
func classifyUnivariate(f gosymbol.Expr, x string, x0 gosymbol.Expr, o *options) Class {
	for k := 2; k <= o.maxOrder; k++ {
		d := gosymbol.Sub(gosymbol.DiffN(f, x, k), x, x0).Simplify()
		if algebra.IsZero(d, o.asm) {
			continue
		}
		if k%2 != 0 {
			return Saddle
		}
		if algebra.IsStrictlyPositive(d, o.asm) {
			return Min
		}

		return Max
	}

	return Undecided
}

// borderedHessianWalk classifies a constrained critical point by the signs
// of the leading principal minors of the bordered Hessian: with m
// constraints and k = 1..n-m, the minor of size 2m+k must carry sign
// (-1)^m throughout for a minimum and sign (-1)^(m+k) for a maximum. A
// consistent violation of both patterns is a saddle; a vanishing minor
// leaves the point undecided.
func borderedHessianWalk(f gosymbol.Expr, g []gosymbol.Expr, avars []string, sol []gosymbol.Expr, o *options) Class {
	n, m := len(avars), len(g)
	lam := make([]string, m)
	L := f
	for j := 0; j < m; j++ {
		lam[j] = "·lambda" + strconv.Itoa(j)
		L = gosymbol.AddOf(L, gosymbol.MulOf(gosymbol.N(-1), gosymbol.S(lam[j]), g[j]))
	}
	// Multiplier values at the point: stationarity is linear in λ.
	stat := algebra.GradientOf(L, avars)
	for i := range stat {
		stat[i] = algebra.SubstPoint(stat[i], avars, sol)
	}
	lsols, err := algebra.SolveSystem(stat, lam, o.asm)
	if err != nil || len(lsols) == 0 {
		return Undecided
	}
	allvars := append(append([]string{}, lam...), avars...)
	H := algebra.HessianOf(L, allvars)
	point := append(append([]gosymbol.Expr{}, lsols[0]...), sol...)
	Hn := gosymbol.NewMatrix(H.Rows(), H.Cols())
	for i := 0; i < H.Rows(); i++ {
		for j := 0; j < H.Cols(); j++ {
			Hn.Set(i, j, algebra.SubstPoint(H.Get(i, j), allvars, point))
		}
	}
	cls := Undecided
	for k := 1; k <= n-m; k++ {
		d := algebra.LeadingMinor(Hn, 2*m+k)
		s, ok := algebra.Sign(d, o.asm)
		if !ok || s == 0 {
			return Undecided
		}
		if cls == Saddle {
			continue
		}
		switch {
		case cls != Max && s*parity(m) > 0:
			cls = Min
		case cls != Min && s*parity(m+k) > 0:
			cls = Max
		default:
			cls = Saddle
		}
	}

	return cls
}

func parity(k int) int {
	if k%2 == 0 {
		return 1
	}

	return -1
}

// eigenvalueTest applies the second partial derivative test to the reduced
// Hessian: eigenvalues all positive give a minimum, all negative a
// maximum, mixed signs a saddle, and a near-zero eigenvalue no decision.
func eigenvalueTest(cache *implicit.Cache, avars []string, sol []gosymbol.Expr, o *options) Class {
	H, err := cache.Hessian()
	if err != nil {
		return Undecided
	}
	Hn := gosymbol.NewMatrix(H.Rows(), H.Cols())
	for i := 0; i < H.Rows(); i++ {
		for j := 0; j < H.Cols(); j++ {
			Hn.Set(i, j, algebra.SubstPoint(H.Get(i, j), avars, sol))
		}
	}
	eig, err := algebra.Eigenvalues(Hn)
	if err != nil {
		return Undecided
	}
	cls := Undecided
	for _, e := range eig {
		switch {
		case e > o.tol:
			if cls == Max {
				return Saddle
			}
			cls = Min
		case e < -o.tol:
			if cls == Min {
				return Saddle
			}
			cls = Max
		default:
			return Undecided
		}
	}

	return cls
}

// taylorFallback inspects the lowest nonvanishing homogeneous Taylor term
// at the point. Its extrema over the unit sphere decide: an odd-order
// nonzero term or indefinite signs mean a saddle, strict definiteness a
// strict extremum, and a vanishing one-sided bound only a possible
// extremum. A sphere sub-problem with no critical points leaves the point
// Undecided with a diagnostic note.
func taylorFallback(cache *implicit.Cache, avars []string, sol []gosymbol.Expr, nfree int, o *options) (Class, string) {
	free := avars[:nfree]
	for k := 2; k <= o.maxOrder; k++ {
		term, err := cache.TaylorTerm(sol, k)
		if err != nil {
			return Undecided, "higher-order term unavailable: " + err.Error()
		}
		p := gosymbol.Expand(term)
		if algebra.IsZero(p, o.asm) {
			continue
		}
		sphere := gosymbol.Expr(gosymbol.N(-1))
		for j := 0; j < nfree; j++ {
			step := gosymbol.AddOf(gosymbol.S(free[j]), gosymbol.MulOf(gosymbol.N(-1), sol[j]))
			sphere = gosymbol.AddOf(sphere, gosymbol.PowOf(step, gosymbol.N(2)))
		}
		sub, err := Global(p, []kkt.Constraint{kkt.Eq(sphere)}, free,
			WithMaxOrder(o.maxOrder), WithTolerance(o.tol))
		if err != nil {
			return Undecided, "no critical points on the unit sphere at order " + strconv.Itoa(k)
		}
		pmin, pmax := sub.Min, sub.Max
		if algebra.IsZero(pmin, o.asm) && algebra.IsZero(pmax, o.asm) {
			continue // term vanishes on the sphere
		}
		switch {
		case k%2 != 0:
			return Saddle, ""
		case algebra.IsStrictlyPositive(pmin, o.asm):
			return Min, ""
		case algebra.IsStrictlyPositive(gosymbol.MulOf(gosymbol.N(-1), pmax), o.asm):
			return Max, ""
		case algebra.IsStrictlyPositive(gosymbol.MulOf(gosymbol.N(-1), pmin), o.asm) &&
			algebra.IsStrictlyPositive(pmax, o.asm):
			return Saddle, ""
		case algebra.IsZero(pmin, o.asm):
			return PossibleMin, "lowest nonvanishing term is semidefinite"
		case algebra.IsZero(pmax, o.asm):
			return PossibleMax, "lowest nonvanishing term is semidefinite"
		default:
			return Undecided, ""
		}
	}

	return Undecided, ""
}

// NthPartial returns a single partial derivative of f with the trailing
// len(g) variables treated as implicit functions of the leading ones. The
// multi-index sig ranges over the free variables.
func NthPartial(f gosymbol.Expr, g []gosymbol.Expr, vars []string, sig multiindex.MultiIndex) (gosymbol.Expr, error) {
	cache, err := implicit.New(f, g, vars)
	if err != nil {
		return nil, err
	}

	return cache.Derivative(sig)
}
