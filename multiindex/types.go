package multiindex

import (
	"errors"
	"strconv"
	"strings"
)

// MaxVars bounds the number of variables accepted by Combinations. The
// arrangement selector enumerates C(n, m) subsets, so the bound keeps the
// enumeration tractable and is part of the documented contract.
const MaxVars = 32

// Sentinel errors returned by the enumeration functions.
var (
	// ErrBadOrder indicates a negative differentiation order.
	ErrBadOrder = errors.New("multiindex: order must be nonnegative")

	// ErrBadDimension indicates a dimension that is not positive.
	ErrBadDimension = errors.New("multiindex: dimension must be positive")

	// ErrTooManyVariables indicates that the variable count exceeds MaxVars.
	ErrTooManyVariables = errors.New("multiindex: variable count exceeds MaxVars")

	// ErrBadSubsetSize indicates k < 0 or k > n in Combinations.
	ErrBadSubsetSize = errors.New("multiindex: subset size out of range")
)

// MultiIndex is a vector of nonnegative integers, one entry per variable.
// Its length is fixed per problem context.
type MultiIndex []int

// Order returns the total differentiation order, i.e. the sum of entries.
func (s MultiIndex) Order() int {
	total := 0
	for _, k := range s {
		total += k
	}

	return total
}

// Clone returns an independent copy of s.
func (s MultiIndex) Clone() MultiIndex {
	c := make(MultiIndex, len(s))
	copy(c, s)

	return c
}

// Equal reports whether s and t have the same length and entries.
func (s MultiIndex) Equal(t MultiIndex) bool {
	if len(s) != len(t) {
		return false
	}
	for i, k := range s {
		if t[i] != k {
			return false
		}
	}

	return true
}

// LessEq reports whether s ≤ t componentwise. Both must have equal length.
func (s MultiIndex) LessEq(t MultiIndex) bool {
	if len(s) != len(t) {
		return false
	}
	for i, k := range s {
		if k > t[i] {
			return false
		}
	}

	return true
}

// Sub returns t - s componentwise. The caller must ensure s.LessEq(t).
func (s MultiIndex) Sub(t MultiIndex) MultiIndex {
	d := make(MultiIndex, len(s))
	for i := range s {
		d[i] = t[i] - s[i]
	}

	return d
}

// IsZero reports whether every entry of s is zero.
func (s MultiIndex) IsZero() bool {
	for _, k := range s {
		if k != 0 {
			return false
		}
	}

	return true
}

// Key returns a canonical string form of s, usable as a map key.
func (s MultiIndex) Key() string {
	var b strings.Builder
	for i, k := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(k))
	}

	return b.String()
}

// ParseKey reverses Key. It is the inverse used by the diffterm bookkeeping
// to recover a multi-index stored as a map key.
func ParseKey(key string) (MultiIndex, error) {
	parts := strings.Split(key, ",")
	s := make(MultiIndex, len(parts))
	for i, p := range parts {
		k, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.New("multiindex: malformed key " + strconv.Quote(key))
		}
		s[i] = k
	}

	return s, nil
}

// String implements fmt.Stringer.
func (s MultiIndex) String() string { return "[" + s.Key() + "]" }
