package implicit

import (
	"github.com/katalvlaran/extrema/multiindex"
)

// deriveTerms differentiates the formal expansion ts with respect to the
// free variables, sig[i] times with respect to variable i. Differentiation
// proceeds one unit at a time, consuming the right-most nonzero entry of
// sig first, so that a memoized expansion for a lower multi-index can be
// extended by the excess alone.
func (c *Cache) deriveTerms(ts TermSet, sig multiindex.MultiIndex) TermSet {
	s := sig.Clone()
	for len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	if len(s) == 0 {
		return ts
	}
	k := len(s) - 1
	out := make(TermSet, 3*len(ts))
	for _, e := range ts {
		c.deriveTerm(out, e.term, e.coeff, k)
	}
	s[k]--

	return c.deriveTerms(out, s)
}

// deriveTerm expands d/dx_k of a single term into out. Each term is a
// product of one direct partial derivative of the underlying function and a
// multiset of implicit-derivative unknowns, so the derivative is a sum of
// three kinds of contributions:
//
//  1. the direct partial bumped once in the x_k slot,
//  2. the power rule applied to each unknown factor, raising that factor's
//     own multi-index in the x_k slot,
//  3. the chain rule through each dependent variable, bumping the direct
//     partial in the dependent slot and attaching a fresh first-order
//     unknown ∂y_i/∂x_k.
func (c *Cache) deriveTerm(out TermSet, t Term, coeff, k int) {
	// 1) Direct derivative with respect to the free variable.
	d := t.clone()
	d.direct[k]++
	out.add(d, coeff)

	// 2) Power rule on every unknown factor.
	for key, p := range t.unknowns {
		if p == 0 {
			continue
		}
		sig, dep, err := splitUnknownKey(key)
		if err != nil {
			continue // cannot happen for keys built by unknownKey
		}
		b := t.clone()
		if p == 1 {
			delete(b.unknowns, key)
		} else {
			b.unknowns[key]--
		}
		sig[k]++
		b.unknowns[unknownKey(sig, dep)]++
		out.add(b, coeff*p)
	}

	// 3) Chain rule through every dependent variable.
	u := make(multiindex.MultiIndex, c.nfree)
	u[k] = 1
	for i := 0; i < c.nconstr; i++ {
		ch := t.clone()
		ch.direct[c.nfree+i]++
		ch.unknowns[unknownKey(u, i)]++
		out.add(ch, coeff)
	}
}

// nearestTerms locates the memoized expansion whose multi-index is closest
// below sig componentwise and returns it together with the excess still to
// be applied. With an empty memo it returns the order-zero seed term and the
// whole of sig as excess.
func (c *Cache) nearestTerms(sig multiindex.MultiIndex) (TermSet, multiindex.MultiIndex) {
	seed := Term{
		direct:   make(multiindex.MultiIndex, c.nfree+c.nconstr),
		unknowns: make(map[string]int),
	}
	best := make(TermSet)
	best.add(seed, 1)
	excess := sig.Clone()
	for key, ts := range c.cterms {
		base, err := multiindex.ParseKey(key)
		if err != nil || !base.LessEq(sig) {
			continue
		}
		if ex := base.Sub(sig); ex.Order() < excess.Order() {
			excess = ex
			best = ts.clone()
		}
	}

	return best, excess
}
