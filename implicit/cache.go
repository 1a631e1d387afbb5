package implicit

import (
	"fmt"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/multiindex"
)

// Cache computes and memoizes partial derivatives of f(x₁..xₙ, y₁..yₘ)
// where the dependent variables y₁..yₘ are defined implicitly by the
// constraints g₁ = ... = gₘ = 0. Variables are ordered free first,
// dependent last. A Cache grows order by order: results of lower orders
// feed the linear systems of the next one, so they are never recomputed.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	f    gosymbol.Expr
	g    []gosymbol.Expr
	vars []string

	nfree   int
	nconstr int
	ord     int // highest fully resolved order

	pdv    map[string]gosymbol.Expr   // resolved derivatives of f, by free-var multi-index
	pdf    map[string]gosymbol.Expr   // direct derivatives of f, by all-vars multi-index
	pdg    []map[string]gosymbol.Expr // direct derivatives per constraint
	pdh    map[string]gosymbol.Expr   // implicit derivatives of the dependents
	cterms map[string]TermSet         // chain-rule expansions, by free-var multi-index
}

// New builds a derivative cache for f under the constraints g. vars lists
// every variable f depends on, dependent ones last; len(g) of them are
// dependent. g may be empty, in which case every variable is free and the
// cache degenerates to plain memoized differentiation.
func New(f gosymbol.Expr, g []gosymbol.Expr, vars []string) (*Cache, error) {
	nconstr := len(g)
	nfree := len(vars) - nconstr
	if nfree <= 0 {
		return nil, fmt.Errorf("%w: %d constraints for %d variables", ErrInvalidArity, nconstr, len(vars))
	}
	c := &Cache{
		f:       f,
		g:       g,
		vars:    vars,
		nfree:   nfree,
		nconstr: nconstr,
		pdv:     make(map[string]gosymbol.Expr),
		pdf:     make(map[string]gosymbol.Expr),
		pdg:     make([]map[string]gosymbol.Expr, nconstr),
		pdh:     make(map[string]gosymbol.Expr),
		cterms:  make(map[string]TermSet),
	}
	for i := range c.pdg {
		c.pdg[i] = make(map[string]gosymbol.Expr)
	}
	// Order zero is available from the start.
	c.pdv[make(multiindex.MultiIndex, nfree).Key()] = f

	return c, nil
}

// FreeVars returns the free-variable names, in problem order.
func (c *Cache) FreeVars() []string { return c.vars[:c.nfree] }

// DependentVars returns the dependent-variable names, in problem order.
func (c *Cache) DependentVars() []string { return c.vars[c.nfree:] }

// direct returns the memoized direct derivative of e along the all-vars
// multi-index sig, computing and storing it on first use.
func (c *Cache) direct(e gosymbol.Expr, memo map[string]gosymbol.Expr, sig multiindex.MultiIndex) gosymbol.Expr {
	if sig.IsZero() {
		return e
	}
	key := sig.Key()
	if pd, ok := memo[key]; ok {
		return pd
	}
	pd := algebra.DiffMulti(e, c.vars, sig)
	memo[key] = pd

	return pd
}

// raiseOrder resolves every implicit derivative of the dependents up to and
// including order, one order at a time. For each order it expands the
// chain-rule terms of every partition, then solves the linear system the
// total-differentiated constraints impose on the top-order unknowns.
func (c *Cache) raiseOrder(order int) error {
	if c.nconstr == 0 || order <= c.ord {
		return nil
	}
	for k := c.ord + 1; k <= order; k++ {
		parts, err := multiindex.Partitions(k, c.nfree)
		if err != nil {
			return err
		}
		grv := make([]TermSet, 0, len(parts))
		for _, sig := range parts {
			terms, excess := c.nearestTerms(sig)
			if excess.Order() > 0 {
				terms = c.deriveTerms(terms, excess)
				c.cterms[sig.Key()] = terms
			}
			grv = append(grv, terms)
		}
		if err := c.computeH(grv, k); err != nil {
			return err
		}
		c.ord = k
	}

	return nil
}

// computeH resolves the implicit derivatives of order `order`. Applying the
// expansion of each partition to each constraint yields an identity that is
// linear in the order-`order` unknowns, because every other factor is
// already known from lower orders. One equation per (constraint, partition)
// pair gives a square system, solved by inversion.
func (c *Cache) computeH(grv []TermSet, order int) error {
	n := c.nconstr * len(grv)
	rows := make([]map[string]gosymbol.Expr, n)
	b := make([]gosymbol.Expr, n)
	var unknownOrder []string
	seen := make(map[string]int)
	for i := 0; i < c.nconstr; i++ {
		for j, terms := range grv {
			row := make(map[string]gosymbol.Expr)
			rhs := gosymbol.Expr(gosymbol.N(0))
			for _, e := range terms {
				t := gosymbol.MulOf(
					gosymbol.N(int64(e.coeff)),
					c.direct(c.g[i], c.pdg[i], e.term.direct),
				)
				top := ""
				for key, p := range e.term.unknowns {
					if p == 0 {
						continue
					}
					sig, _, err := splitUnknownKey(key)
					if err != nil {
						return err
					}
					if sig.Order() < order {
						h, ok := c.pdh[key]
						if !ok {
							return fmt.Errorf("%w: unresolved derivative %s at order %d",
								ErrImplicitSystem, key, order)
						}
						t = gosymbol.MulOf(t, gosymbol.PowOf(h, gosymbol.N(int64(p))))
					} else {
						// A top-order unknown always enters linearly.
						top = key
					}
				}
				if top == "" {
					rhs = gosymbol.AddOf(rhs, gosymbol.MulOf(gosymbol.N(-1), t))

					continue
				}
				if _, ok := seen[top]; !ok {
					seen[top] = len(unknownOrder)
					unknownOrder = append(unknownOrder, top)
				}
				if prev, ok := row[top]; ok {
					row[top] = gosymbol.AddOf(prev, t)
				} else {
					row[top] = t
				}
			}
			rows[i*len(grv)+j] = row
			b[i*len(grv)+j] = algebra.RatNormal(rhs)
		}
	}
	if len(unknownOrder) > n {
		return fmt.Errorf("%w: %d unknowns for %d equations at order %d",
			ErrImplicitSystem, len(unknownOrder), n, order)
	}
	A := gosymbol.NewMatrix(n, n)
	for r, row := range rows {
		for key, coeff := range row {
			A.Set(r, seen[key], algebra.RatNormal(coeff))
		}
	}
	sol, err := algebra.SolveLinear(A, b)
	if err != nil {
		return fmt.Errorf("%w: order %d", ErrImplicitSystem, order)
	}
	for col, key := range unknownOrder {
		c.pdh[key] = algebra.RatNormal(sol[col])
	}

	return nil
}

// computePD assembles the resolved derivatives of f at the given order from
// the chain-rule expansions and the implicit derivatives of the dependents.
// A non-nil only restricts the work to that single partition.
func (c *Cache) computePD(order int, only multiindex.MultiIndex) error {
	parts, err := multiindex.Partitions(order, c.nfree)
	if err != nil {
		return err
	}
	for _, sig := range parts {
		if only != nil && !only.Equal(sig) {
			continue
		}
		if c.nconstr == 0 {
			c.pdv[sig.Key()] = c.direct(c.f, c.pdf, sig)

			continue
		}
		terms, ok := c.cterms[sig.Key()]
		if !ok {
			return fmt.Errorf("%w: missing expansion for %s", ErrImplicitSystem, sig)
		}
		pd := gosymbol.Expr(gosymbol.N(0))
		for _, e := range terms {
			t := gosymbol.MulOf(
				gosymbol.N(int64(e.coeff)),
				c.direct(c.f, c.pdf, e.term.direct),
			)
			for key, p := range e.term.unknowns {
				if p == 0 {
					continue
				}
				h, hok := c.pdh[key]
				if !hok {
					return fmt.Errorf("%w: unresolved derivative %s", ErrImplicitSystem, key)
				}
				t = gosymbol.MulOf(t, gosymbol.PowOf(h, gosymbol.N(int64(p))))
			}
			pd = gosymbol.AddOf(pd, t)
		}
		c.pdv[sig.Key()] = algebra.RatNormal(pd)
	}

	return nil
}

// Derivative returns ∂^|sig| f / ∂x^sig, the multi-index ranging over the
// free variables, with the dependents treated as implicit functions of
// them. Lower orders are resolved first and reused on later calls.
func (c *Cache) Derivative(sig multiindex.MultiIndex) (gosymbol.Expr, error) {
	if len(sig) != c.nfree {
		return nil, fmt.Errorf("%w: multi-index of length %d for %d free variables",
			ErrInvalidArity, len(sig), c.nfree)
	}
	if c.nconstr == 0 {
		return c.direct(c.f, c.pdf, sig), nil
	}
	if err := c.raiseOrder(sig.Order()); err != nil {
		return nil, err
	}
	if _, ok := c.pdv[sig.Key()]; !ok {
		if err := c.computePD(sig.Order(), sig); err != nil {
			return nil, err
		}
	}

	return c.pdv[sig.Key()], nil
}

// DerivativeVars is Derivative with the multi-index spelled out as a list
// of free-variable names, one occurrence per differentiation.
func (c *Cache) DerivativeVars(names ...string) (gosymbol.Expr, error) {
	sig := make(multiindex.MultiIndex, c.nfree)
	for _, name := range names {
		found := false
		for i := 0; i < c.nfree; i++ {
			if c.vars[i] == name {
				sig[i]++
				found = true

				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
		}
	}

	return c.Derivative(sig)
}

// Gradient returns the gradient of f with respect to the free variables,
// accounting for the implicit dependents.
func (c *Cache) Gradient() ([]gosymbol.Expr, error) {
	if c.nconstr == 0 {
		return algebra.GradientOf(c.f, c.vars), nil
	}
	res := make([]gosymbol.Expr, c.nfree)
	sig := make(multiindex.MultiIndex, c.nfree)
	for i := 0; i < c.nfree; i++ {
		sig[i] = 1
		pd, err := c.Derivative(sig)
		if err != nil {
			return nil, err
		}
		res[i] = pd
		sig[i] = 0
	}

	return res, nil
}

// Hessian returns the Hessian of f with respect to the free variables,
// accounting for the implicit dependents.
func (c *Cache) Hessian() (*gosymbol.Matrix, error) {
	if c.nconstr == 0 {
		return algebra.HessianOf(c.f, c.vars), nil
	}
	res := gosymbol.NewMatrix(c.nfree, c.nfree)
	sig := make(multiindex.MultiIndex, c.nfree)
	for i := 0; i < c.nfree; i++ {
		sig[i]++
		for j := 0; j < c.nfree; j++ {
			sig[j]++
			pd, err := c.Derivative(sig)
			if err != nil {
				return nil, err
			}
			res.Set(i, j, pd)
			sig[j]--
		}
		sig[i]--
	}

	return res, nil
}

// Derivatives returns every partial derivative of f of the given total
// order, keyed by the Key of its free-variable multi-index.
func (c *Cache) Derivatives(order int) (map[string]gosymbol.Expr, error) {
	parts, err := multiindex.Partitions(order, c.nfree)
	if err != nil {
		return nil, err
	}
	out := make(map[string]gosymbol.Expr, len(parts))
	for _, sig := range parts {
		pd, derr := c.Derivative(sig)
		if derr != nil {
			return nil, derr
		}
		out[sig.Key()] = pd
	}

	return out, nil
}

// TaylorTerm returns the order-k homogeneous term of the Taylor expansion
// of f around the point a, which must supply a value for every variable,
// dependent ones included.
func (c *Cache) TaylorTerm(a []gosymbol.Expr, k int) (gosymbol.Expr, error) {
	if len(a) != len(c.vars) {
		return nil, fmt.Errorf("%w: point of length %d for %d variables",
			ErrInvalidArity, len(a), len(c.vars))
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: negative order %d", ErrInvalidArity, k)
	}
	if k == 0 {
		return algebra.SubstPoint(c.f, c.vars, a), nil
	}
	parts, err := multiindex.Partitions(k, c.nfree)
	if err != nil {
		return nil, err
	}
	term := gosymbol.Expr(gosymbol.N(0))
	for _, sig := range parts {
		pd, derr := c.Derivative(sig)
		if derr != nil {
			return nil, derr
		}
		pd = algebra.SubstPoint(pd, c.vars, a)
		for i := 0; i < c.nfree; i++ {
			ki := sig[i]
			if ki == 0 {
				continue
			}
			step := gosymbol.AddOf(gosymbol.S(c.vars[i]), gosymbol.MulOf(gosymbol.N(-1), a[i]))
			pd = gosymbol.MulOf(pd,
				gosymbol.PowOf(step, gosymbol.N(int64(ki))),
				gosymbol.F(1, factorial(ki)),
			)
		}
		term = gosymbol.AddOf(term, pd)
	}

	return term.Simplify(), nil
}

// Taylor returns the Taylor polynomial of f around a up to the given total
// order, with the dependents treated implicitly.
func (c *Cache) Taylor(a []gosymbol.Expr, order int) (gosymbol.Expr, error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: negative order %d", ErrInvalidArity, order)
	}
	sum := gosymbol.Expr(gosymbol.N(0))
	for k := 0; k <= order; k++ {
		t, err := c.TaylorTerm(a, k)
		if err != nil {
			return nil, err
		}
		sum = gosymbol.AddOf(sum, t)
	}

	return sum.Simplify(), nil
}

func factorial(k int) int64 {
	f := int64(1)
	for i := int64(2); i <= int64(k); i++ {
		f *= i
	}

	return f
}
