package implicit

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/extrema/multiindex"
)

// Sentinel errors returned by the implicit-differentiation engine.
var (
	// ErrInvalidArity indicates that the number of constraints is not
	// strictly less than the number of variables.
	ErrInvalidArity = errors.New("implicit: constraint count must be less than variable count")

	// ErrUnknownVariable indicates a differentiation variable that is not
	// among the problem variables.
	ErrUnknownVariable = errors.New("implicit: unknown differentiation variable")

	// ErrImplicitSystem indicates a singular linear system while resolving
	// implicit derivatives at some order.
	ErrImplicitSystem = errors.New("implicit: singular implicit-derivative system")

	// ErrSingularJacobian indicates that no dependent-variable subset yields
	// a nonsingular Jacobian block, so the implicit function theorem does
	// not apply under any arrangement.
	ErrSingularJacobian = errors.New("implicit: no valid variable arrangement")
)

// Term is one formal term of the chain-rule expansion: the multi-index of
// direct differentiations applied to the underlying function (over all
// variables, free then dependent) and a multiset of unresolved
// implicit-derivative unknowns.
//
// An unknown is keyed by the Key of a multi-index of length nfree+1: the
// differentiation orders with respect to the free variables followed by the
// index of the dependent variable it belongs to.
type Term struct {
	direct   multiindex.MultiIndex
	unknowns map[string]int
}

// key returns the canonical identity of the term: the direct multi-index
// plus the sorted unknown multiset. Two terms with equal keys are merged by
// coefficient accumulation.
func (t Term) key() string {
	parts := make([]string, 0, len(t.unknowns))
	for sig, p := range t.unknowns {
		if p == 0 {
			continue
		}
		parts = append(parts, sig+"^"+strconv.Itoa(p))
	}
	sort.Strings(parts)

	return t.direct.Key() + "|" + strings.Join(parts, " ")
}

// clone deep-copies the term.
func (t Term) clone() Term {
	c := Term{direct: t.direct.Clone(), unknowns: make(map[string]int, len(t.unknowns))}
	for sig, p := range t.unknowns {
		if p != 0 {
			c.unknowns[sig] = p
		}
	}

	return c
}

// TermSet is a sparse formal polynomial: term → integer coefficient.
// Zero-coefficient entries are pruned on insertion.
type TermSet map[string]termEntry

type termEntry struct {
	term  Term
	coeff int
}

// add accumulates c into the coefficient of t.
func (ts TermSet) add(t Term, c int) {
	if c == 0 {
		return
	}
	k := t.key()
	e, ok := ts[k]
	if !ok {
		ts[k] = termEntry{term: t.clone(), coeff: c}

		return
	}
	e.coeff += c
	if e.coeff == 0 {
		delete(ts, k)

		return
	}
	ts[k] = e
}

// clone deep-copies the set.
func (ts TermSet) clone() TermSet {
	c := make(TermSet, len(ts))
	for k, e := range ts {
		c[k] = termEntry{term: e.term.clone(), coeff: e.coeff}
	}

	return c
}

// unknownKey builds the map key of the implicit-derivative unknown
// ∂^sig y_dep / ∂x^sig, where sig ranges over the free variables.
func unknownKey(sig multiindex.MultiIndex, dep int) string {
	full := make(multiindex.MultiIndex, len(sig)+1)
	copy(full, sig)
	full[len(sig)] = dep

	return full.Key()
}

// splitUnknownKey reverses unknownKey.
func splitUnknownKey(key string) (multiindex.MultiIndex, int, error) {
	full, err := multiindex.ParseKey(key)
	if err != nil {
		return nil, 0, err
	}

	return full[:len(full)-1], full[len(full)-1], nil
}
