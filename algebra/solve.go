package algebra

import (
	"math"
	"sort"
	"strings"

	"github.com/njchilds90/gosymbol"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/extrema/multiindex"
)

// maxEliminationDepth bounds the recursive elimination/splitting search.
const maxEliminationDepth = 8

// univariateScanBound is the half-width of the interval scanned for roots of
// equations that resist exact treatment.
const univariateScanBound = 32.0

// univariateScanSteps is the number of subintervals inspected for sign
// changes inside the scan interval.
const univariateScanSteps = 1 << 12

// SolveSystem solves eqs = 0 over the given unknowns. The result is a list
// of solution vectors ordered like unknowns; an empty list is a legitimate
// outcome. Solutions are exact whenever an exact strategy applies, numeric
// otherwise. Every candidate is verified against the original equations and
// filtered through the assumption store.
//
// Strategies, in order: joint linear solve, elimination of an unknown that
// some equation is linear (or purely quadratic) in, monomial-factor branch
// splitting, the univariate endgame, multi-start Newton iteration.
func SolveSystem(eqs []gosymbol.Expr, unknowns []string, asm *Assumptions) ([][]gosymbol.Expr, error) {
	norm, contradictory := normalizeSystem(eqs, unknowns)
	if contradictory {
		return nil, nil
	}
	if len(norm) == 0 {
		// Every equation is identically zero; nothing pins the unknowns.
		return nil, nil
	}
	cand := solveRec(norm, unknowns, asm, 0)
	var out [][]gosymbol.Expr
	for _, sol := range cand {
		if !verifySolution(eqs, unknowns, sol, asm) {
			continue
		}
		out = appendSolution(out, sol)
	}

	return out, nil
}

// normalizeSystem canonicalizes the equations, drops identical zeros and
// detects contradictions (nonzero constants).
func normalizeSystem(eqs []gosymbol.Expr, unknowns []string) ([]gosymbol.Expr, bool) {
	var norm []gosymbol.Expr
	for _, e := range eqs {
		c := RatNormal(e)
		if n, ok := c.(*gosymbol.Num); ok {
			if n.IsZero() {
				continue
			}

			return nil, true
		}
		if IsConstantIn(c, unknowns...) {
			// Constant with respect to the unknowns but symbolic in outer
			// parameters: undecidable here, keep it for residual filtering.
			continue
		}
		norm = append(norm, c)
	}

	return norm, false
}

func solveRec(eqs []gosymbol.Expr, unknowns []string, asm *Assumptions, depth int) [][]gosymbol.Expr {
	if depth > maxEliminationDepth {
		return nil
	}
	if len(unknowns) == 0 {
		return nil
	}
	if len(unknowns) == 1 {
		return solveUnivariateSystem(eqs, unknowns[0], asm)
	}
	if sols := solveLinearSystem(eqs, unknowns, asm); sols != nil {
		return sols
	}
	if sols := solveByElimination(eqs, unknowns, asm, depth); sols != nil {
		return sols
	}
	if sols := solveBySplitting(eqs, unknowns, asm, depth); sols != nil {
		return sols
	}

	return solveNewton(eqs, unknowns, asm)
}

// ---------- linear path ----------

// isAffineIn reports whether every monomial of the expanded e has total
// degree at most one in the unknowns.
func isAffineIn(e gosymbol.Expr, unknowns []string) bool {
	for _, u := range unknowns {
		if !IsPolynomialIn(e, u) {
			return false
		}
	}
	x := gosymbol.Expand(e)
	terms := []gosymbol.Expr{x}
	if a, ok := x.(*gosymbol.Add); ok {
		terms = a.Terms()
	}
	for _, t := range terms {
		deg := 0
		for _, u := range unknowns {
			deg += gosymbol.Degree(t, u)
		}
		if deg > 1 {
			return false
		}
	}

	return true
}

// solveLinearSystem solves a jointly affine system by symbolic matrix
// inversion. Returns nil (not empty) when the system is not affine or no
// nonsingular square subsystem exists, so the caller can try other paths.
func solveLinearSystem(eqs []gosymbol.Expr, unknowns []string, asm *Assumptions) [][]gosymbol.Expr {
	n := len(unknowns)
	if len(eqs) < n {
		return nil
	}
	for _, e := range eqs {
		if !isAffineIn(e, unknowns) {
			return nil
		}
	}
	// Coefficient extraction: for an affine equation the coefficient of u is
	// its partial derivative and the constant term is the value at zero.
	rows := make([][]gosymbol.Expr, len(eqs))
	rhs := make([]gosymbol.Expr, len(eqs))
	zero := make([]gosymbol.Expr, n)
	for i := range zero {
		zero[i] = gosymbol.N(0)
	}
	for i, e := range eqs {
		rows[i] = make([]gosymbol.Expr, n)
		for j, u := range unknowns {
			rows[i][j] = RatNormal(gosymbol.Diff(e, u))
		}
		rhs[i] = RatNormal(gosymbol.MulOf(gosymbol.N(-1), SubstPoint(e, unknowns, zero)))
	}
	// Try square subsystems until one inverts; extra equations are checked
	// by the caller's residual verification.
	subsets := [][]int{}
	if len(eqs) == n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		subsets = append(subsets, idx)
	} else if combs, err := multiindex.Combinations(len(eqs), n); err == nil {
		subsets = combs
	}
	for _, rowsIdx := range subsets {
		a := gosymbol.NewMatrix(n, n)
		b := gosymbol.NewMatrix(n, 1)
		for i, r := range rowsIdx {
			for j := 0; j < n; j++ {
				a.Set(i, j, rows[r][j])
			}
			b.Set(i, 0, rhs[r])
		}
		inv, err := Invert(a)
		if err != nil {
			continue
		}
		x := inv.MatMul(b)
		sol := make([]gosymbol.Expr, n)
		for i := 0; i < n; i++ {
			sol[i] = RatNormal(x.Get(i, 0))
		}

		return [][]gosymbol.Expr{sol}
	}

	return nil
}

// ---------- elimination path ----------

// solveByElimination looks for an (equation, unknown) pair where the
// unknown appears linearly or purely quadratically, expresses it in terms
// of the others, substitutes, and recurses on the reduced system.
func solveByElimination(eqs []gosymbol.Expr, unknowns []string, asm *Assumptions, depth int) [][]gosymbol.Expr {
	type pivot struct {
		eq, un  int
		numeric bool // coefficient of the pivot power is a plain number
		quad    bool
	}
	var pivots []pivot
	for i, e := range eqs {
		for j, u := range unknowns {
			if !IsPolynomialIn(e, u) {
				continue
			}
			coeffs := gosymbol.PolyCoeffs(gosymbol.Expand(e), u)
			switch deg := polyDeg(coeffs); deg {
			case 1:
				_, numeric := coeffs[1].(*gosymbol.Num)
				pivots = append(pivots, pivot{eq: i, un: j, numeric: numeric})
			case 2:
				if c1, ok := coeffs[1]; !ok || IsZero(c1, asm) {
					_, numeric := coeffs[2].(*gosymbol.Num)
					pivots = append(pivots, pivot{eq: i, un: j, numeric: numeric, quad: true})
				}
			}
		}
	}
	// Prefer linear pivots with numeric coefficients: no case split and no
	// risk of dividing by a vanishing symbolic coefficient.
	sort.SliceStable(pivots, func(a, b int) bool {
		if pivots[a].quad != pivots[b].quad {
			return !pivots[a].quad
		}

		return pivots[a].numeric && !pivots[b].numeric
	})
	for _, p := range pivots {
		u := unknowns[p.un]
		coeffs := gosymbol.PolyCoeffs(gosymbol.Expand(eqs[p.eq]), u)
		var exprs []gosymbol.Expr
		if !p.quad {
			// u = -c0/c1
			exprs = []gosymbol.Expr{gosymbol.Cancel(
				gosymbol.MulOf(gosymbol.N(-1), coeffAt(coeffs, 0)),
				coeffAt(coeffs, 1),
			)}
		} else {
			// u = ±sqrt(-c0/c2); both branches explored, residual
			// verification discards squaring artifacts.
			radicand := gosymbol.Cancel(
				gosymbol.MulOf(gosymbol.N(-1), coeffAt(coeffs, 0)),
				coeffAt(coeffs, 2),
			)
			root := gosymbol.SqrtOf(radicand)
			exprs = []gosymbol.Expr{root, gosymbol.MulOf(gosymbol.N(-1), root).Simplify()}
		}
		rest := removeAt(unknowns, p.un)
		var all [][]gosymbol.Expr
		solved := false
		for _, val := range exprs {
			reduced := make([]gosymbol.Expr, 0, len(eqs)-1)
			for i, e := range eqs {
				if i == p.eq {
					continue
				}
				r := ClearDenominator(gosymbol.Sub(e, u, val))
				if n, ok := r.(*gosymbol.Num); ok {
					if n.IsZero() {
						continue
					}
					// Contradiction along this branch.
					reduced = nil
					break
				}
				reduced = append(reduced, r)
			}
			if reduced == nil && len(eqs) > 1 {
				solved = true
				continue
			}
			subSols := solveRec(reduced, rest, asm, depth+1)
			if subSols != nil {
				solved = true
			}
			for _, s := range subSols {
				full := make([]gosymbol.Expr, len(unknowns))
				for i, name := range rest {
					full[indexOf(unknowns, name)] = s[i]
				}
				full[p.un] = RatNormal(SubstPoint(val, rest, s))
				all = append(all, full)
			}
		}
		if solved || all != nil {
			return all
		}
	}

	return nil
}

// solveBySplitting factors a common monomial out of some equation and
// branches: either a factored-out unknown is zero, or the cofactor is.
func solveBySplitting(eqs []gosymbol.Expr, unknowns []string, asm *Assumptions, depth int) [][]gosymbol.Expr {
	for i, e := range eqs {
		for j, u := range unknowns {
			if !IsPolynomialIn(e, u) {
				continue
			}
			k := minDegree(e, u)
			if k < 1 {
				continue
			}
			// Branch A: u = 0.
			var all [][]gosymbol.Expr
			zeroEqs := make([]gosymbol.Expr, 0, len(eqs))
			contradiction := false
			for _, q := range eqs {
				r := RatNormal(gosymbol.Sub(q, u, gosymbol.N(0)))
				if n, ok := r.(*gosymbol.Num); ok {
					if n.IsZero() {
						continue
					}
					contradiction = true
					break
				}
				zeroEqs = append(zeroEqs, r)
			}
			if !contradiction {
				rest := removeAt(unknowns, j)
				for _, s := range solveRec(zeroEqs, rest, asm, depth+1) {
					full := make([]gosymbol.Expr, len(unknowns))
					for idx, name := range rest {
						full[indexOf(unknowns, name)] = s[idx]
					}
					full[j] = gosymbol.N(0)
					all = append(all, full)
				}
			}
			// Branch B: divide the equation by u^k and keep solving.
			cofactor := RatNormal(gosymbol.MulOf(e, gosymbol.PowOf(gosymbol.S(u), gosymbol.N(int64(-k)))))
			coEqs := make([]gosymbol.Expr, len(eqs))
			copy(coEqs, eqs)
			coEqs[i] = cofactor
			all = append(all, solveRec(coEqs, unknowns, asm, depth+1)...)

			return all
		}
	}

	return nil
}

// ---------- univariate endgame ----------

// SolveUnivariate returns the roots of e = 0 in the single unknown name:
// exact through cubic polynomials, a numeric sign-change scan beyond that
// and for non-polynomial equations.
func SolveUnivariate(e gosymbol.Expr, name string, asm *Assumptions) []gosymbol.Expr {
	c := RatNormal(ClearDenominator(e))
	if _, ok := c.(*gosymbol.Num); ok {
		return nil
	}
	if IsPolynomialIn(c, name) {
		coeffs := gosymbol.PolyCoeffs(gosymbol.Expand(c), name)
		switch deg := polyDeg(coeffs); {
		case deg <= 0:
			return nil
		case deg == 1:
			return []gosymbol.Expr{RatNormal(gosymbol.Cancel(
				gosymbol.MulOf(gosymbol.N(-1), coeffAt(coeffs, 0)),
				coeffAt(coeffs, 1),
			))}
		case deg == 2:
			res := gosymbol.SolveQuadraticExact(coeffAt(coeffs, 2), coeffAt(coeffs, 1), coeffAt(coeffs, 0))
			if res.Error != "" {
				return nil
			}

			return simplifyRoots(res.Solutions)
		case deg == 3:
			res := gosymbol.SolveCubic(coeffAt(coeffs, 3), coeffAt(coeffs, 2), coeffAt(coeffs, 1), coeffAt(coeffs, 0))
			if res.Error == "" {
				return snapRoots(c, name, res.Solutions)
			}
			// Symbolic cubic coefficients: numeric scan below.
		}
	}

	return scanRoots(c, name)
}

// solveUnivariateSystem solves each equation for the single unknown and
// keeps the roots every other equation agrees with.
func solveUnivariateSystem(eqs []gosymbol.Expr, name string, asm *Assumptions) [][]gosymbol.Expr {
	if len(eqs) == 0 {
		return nil
	}
	roots := SolveUnivariate(eqs[0], name, asm)
	var out [][]gosymbol.Expr
	for _, r := range roots {
		ok := true
		for _, e := range eqs[1:] {
			if !IsZero(gosymbol.Sub(e, name, r), asm) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, []gosymbol.Expr{r})
		}
	}

	return out
}

// scanRoots walks the scan interval looking for sign changes and brackets
// each into a root. Results are snapped back to small rationals when exact.
func scanRoots(e gosymbol.Expr, name string) []gosymbol.Expr {
	f := e.Simplify()
	var roots []gosymbol.Expr
	step := 2 * univariateScanBound / float64(univariateScanSteps)
	prevX := -univariateScanBound
	prevF, prevOK := evalAt(f, name, prevX)
	for i := 1; i <= univariateScanSteps; i++ {
		x := -univariateScanBound + float64(i)*step
		fx, ok := evalAt(f, name, x)
		if prevOK && ok {
			if prevF == 0 {
				roots = appendRoot(roots, e, name, prevX)
			} else if prevF*fx < 0 {
				if r, found := RootInInterval(f, name, prevX, x); found {
					roots = appendRoot(roots, e, name, r)
				}
			}
		}
		prevX, prevF, prevOK = x, fx, ok
	}

	return roots
}

// appendRoot snaps, verifies and dedupes a numeric root.
func appendRoot(roots []gosymbol.Expr, e gosymbol.Expr, name string, x float64) []gosymbol.Expr {
	r := SnapRational(x)
	if v, ok := EvalFloat(gosymbol.Sub(e, name, r)); !ok || !EqualWithin(v, 0) {
		r = gosymbol.NFloat(x)
	}
	for _, existing := range roots {
		a, ok1 := EvalFloat(existing)
		b, ok2 := EvalFloat(r)
		if ok1 && ok2 && EqualWithin(a, b) {
			return roots
		}
	}

	return append(roots, r)
}

// snapRoots converts float roots of a solved polynomial to exact rationals
// whenever substitution confirms them.
func snapRoots(e gosymbol.Expr, name string, sols []gosymbol.Expr) []gosymbol.Expr {
	out := make([]gosymbol.Expr, 0, len(sols))
	for _, s := range sols {
		if v, ok := EvalFloat(s); ok {
			out = appendRoot(out, e, name, v)
		} else {
			out = append(out, RatNormal(s))
		}
	}

	return out
}

func simplifyRoots(sols []gosymbol.Expr) []gosymbol.Expr {
	out := make([]gosymbol.Expr, len(sols))
	for i, s := range sols {
		out[i] = RatNormal(s)
	}

	return out
}

// ---------- numeric fallback ----------

// solveNewton runs a multi-start Newton iteration on a square (or taller)
// system, using the symbolic Jacobian and gonum for the linear step.
func solveNewton(eqs []gosymbol.Expr, unknowns []string, asm *Assumptions) [][]gosymbol.Expr {
	n := len(unknowns)
	if len(eqs) < n {
		return nil
	}
	sys := eqs[:n]
	jac := JacobianOf(sys, unknowns)
	var out [][]gosymbol.Expr
	for _, start := range newtonStarts(n) {
		x, ok := newtonIterate(sys, jac, unknowns, start)
		if !ok {
			continue
		}
		sol := make([]gosymbol.Expr, n)
		for i, v := range x {
			sol[i] = SnapRational(v)
		}
		out = appendSolution(out, sol)
	}

	return out
}

// newtonStarts yields a coarse grid of starting points, capped to keep the
// fallback bounded in higher dimensions.
func newtonStarts(n int) [][]float64 {
	axis := []float64{0, 1, -1, 0.5, -0.5, 2, -2}
	total := 1
	for i := 0; i < n; i++ {
		total *= len(axis)
		if total > 512 {
			total = 512
			break
		}
	}
	var starts [][]float64
	idx := make([]int, n)
	for len(starts) < total {
		p := make([]float64, n)
		for i, k := range idx {
			p[i] = axis[k%len(axis)]
		}
		starts = append(starts, p)
		// odometer increment
		i := 0
		for ; i < n; i++ {
			idx[i]++
			if idx[i] < len(axis) {
				break
			}
			idx[i] = 0
		}
		if i == n {
			break
		}
	}

	return starts
}

// newtonIterate runs a damped Newton iteration from start.
func newtonIterate(sys []gosymbol.Expr, jac *gosymbol.Matrix, unknowns []string, start []float64) ([]float64, bool) {
	n := len(unknowns)
	x := make([]float64, n)
	copy(x, start)
	fv := make([]float64, n)
	jv := mat.NewDense(n, n, nil)
	for iter := 0; iter < 80; iter++ {
		point := floatPoint(x)
		maxRes := 0.0
		for i, e := range sys {
			v, ok := EvalFloat(SubstPoint(e, unknowns, point))
			if !ok {
				return nil, false
			}
			fv[i] = v
			if a := math.Abs(v); a > maxRes {
				maxRes = a
			}
		}
		if maxRes < 1e-12 {
			return x, true
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v, ok := EvalFloat(SubstPoint(jac.Get(i, j), unknowns, point))
				if !ok {
					return nil, false
				}
				jv.Set(i, j, v)
			}
		}
		var delta mat.VecDense
		if err := delta.SolveVec(jv, mat.NewVecDense(n, fv)); err != nil {
			return nil, false
		}
		for i := 0; i < n; i++ {
			x[i] -= delta.AtVec(i)
			if math.IsNaN(x[i]) || math.Abs(x[i]) > 1e6 {
				return nil, false
			}
		}
	}

	return nil, false
}

func floatPoint(x []float64) []gosymbol.Expr {
	p := make([]gosymbol.Expr, len(x))
	for i, v := range x {
		p[i] = gosymbol.NFloat(v)
	}

	return p
}

// ---------- shared helpers ----------

// verifySolution substitutes sol into every original equation and checks
// the residual, then filters through the assumption store. Residuals that
// stay symbolic in outer parameters are accepted; deciding them is beyond
// this package's guarantees.
func verifySolution(eqs []gosymbol.Expr, unknowns []string, sol []gosymbol.Expr, asm *Assumptions) bool {
	for _, e := range eqs {
		res := RatNormal(SubstPoint(e, unknowns, sol))
		if v, ok := EvalFloat(res); ok {
			if !EqualWithin(v, 0) {
				return false
			}
			continue
		}
		if s, ok := Sign(res, asm); ok && s != 0 {
			return false
		}
	}
	for i, u := range unknowns {
		if v, ok := EvalFloat(sol[i]); ok && !asm.Admits(u, v) {
			return false
		}
	}

	return true
}

// appendSolution dedupes by the canonical key of the solution vector, with
// a numeric near-equality pass for float-derived solutions.
func appendSolution(out [][]gosymbol.Expr, sol []gosymbol.Expr) [][]gosymbol.Expr {
	key := solutionKey(sol)
	for _, s := range out {
		if solutionKey(s) == key {
			return out
		}
		if numericallyEqual(s, sol) {
			return out
		}
	}

	return append(out, sol)
}

func solutionKey(sol []gosymbol.Expr) string {
	parts := make([]string, len(sol))
	for i, e := range sol {
		parts[i] = RatNormal(e).String()
	}

	return strings.Join(parts, "|")
}

func numericallyEqual(a, b []gosymbol.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		va, ok1 := EvalFloat(a[i])
		vb, ok2 := EvalFloat(b[i])
		if !ok1 || !ok2 || !EqualWithin(va, vb) {
			return false
		}
	}

	return true
}

func polyDeg(coeffs gosymbol.PolyCoeffsResult) int {
	deg := -1
	for d, c := range coeffs {
		if n, ok := c.(*gosymbol.Num); ok && n.IsZero() {
			continue
		}
		if d > deg {
			deg = d
		}
	}

	return deg
}

func coeffAt(coeffs gosymbol.PolyCoeffsResult, d int) gosymbol.Expr {
	if c, ok := coeffs[d]; ok {
		return c
	}

	return gosymbol.N(0)
}

// minDegree returns the minimum degree of name across the terms of the
// expanded e; a positive value means name divides every term.
func minDegree(e gosymbol.Expr, name string) int {
	x := gosymbol.Expand(e)
	terms := []gosymbol.Expr{x}
	if a, ok := x.(*gosymbol.Add); ok {
		terms = a.Terms()
	}
	min := math.MaxInt32
	for _, t := range terms {
		d := gosymbol.Degree(t, name)
		if d < min {
			min = d
		}
	}
	if min == math.MaxInt32 {
		return 0
	}

	return min
}

func removeAt(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)

	return append(out, s[i+1:]...)
}

func indexOf(s []string, name string) int {
	for i, v := range s {
		if v == name {
			return i
		}
	}

	return -1
}
