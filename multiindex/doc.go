// Package multiindex defines the MultiIndex type and the combinatorial
// enumerations used by the implicit-differentiation engine.
//
// A multi-index is a fixed-length vector of nonnegative integers giving
// the differentiation order per variable; its order is the sum of its
// entries. Partitions enumerates all multi-indices of a given order and
// dimension, i.e. all weak compositions of the order into dim parts.
// Combinations enumerates k-element subsets of {0,...,n-1}, used by the
// variable-arrangement selector to pick candidate dependent variables.
//
// Complexity:
//
//   - Partitions(order, dim): C(order+dim-1, dim-1) indices, each produced
//     exactly once; the recursion fixes a growing nonzero prefix and
//     backtracks as soon as the partial sum exceeds the order.
//   - Combinations(n, k): C(n, k) strictly increasing tuples. The variable
//     count n is bounded by MaxVars; the bound is an explicit, documented
//     limit rather than an implicit bitmask width.
//
// Errors (sentinel):
//
//   - ErrBadOrder         if a negative differentiation order is given.
//   - ErrBadDimension     if the dimension is not positive.
//   - ErrTooManyVariables if n exceeds MaxVars in Combinations.
package multiindex
