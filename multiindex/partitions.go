package multiindex

// Partitions enumerates every MultiIndex of length dim whose entries sum to
// order, each produced exactly once. The count is C(order+dim-1, dim-1).
//
// The recursion grows a candidate index one unit at a time: for each slot
// that is still untouched in the current prefix it increments the slot,
// records the index when the running sum hits the order, recurses while the
// sum is below it, and backtracks as soon as the sum would overshoot.
func Partitions(order, dim int) ([]MultiIndex, error) {
	if order < 0 {
		return nil, ErrBadOrder
	}
	if dim < 1 {
		return nil, ErrBadDimension
	}
	if order == 0 {
		return []MultiIndex{make(MultiIndex, dim)}, nil
	}
	var out []MultiIndex
	partition(order, dim, nil, &out)

	return out, nil
}

// partition fixes the nonzero prefix p and extends it slot by slot.
// A nil prefix means "start from the all-zero index".
func partition(order, dim int, p MultiIndex, out *[]MultiIndex) {
	for i := 0; i < dim; i++ {
		if p != nil && p[i] != 0 {
			continue // slot already fixed by an enclosing call
		}
		var r MultiIndex
		if p == nil {
			r = make(MultiIndex, dim)
		} else {
			r = p.Clone()
		}
		for j := 0; j < order; j++ {
			r[i]++
			s := r.Order()
			if s >= order {
				if s == order {
					appendUnique(out, r.Clone())
				}
				break // slot i exhausted, keep scanning the remaining slots
			}
			partition(order, dim, r, out)
		}
	}
}

// appendUnique adds s to out unless an equal index is already present.
// The prefix-fixing recursion can reach the same composition along several
// slot orders; uniqueness is part of the Partitions contract.
func appendUnique(out *[]MultiIndex, s MultiIndex) {
	for _, t := range *out {
		if t.Equal(s) {
			return
		}
	}
	*out = append(*out, s)
}

// Combinations enumerates all k-element subsets of {0,...,n-1} as strictly
// increasing index tuples, in lexicographic order. It replaces bitmask
// subset scans with an explicit bounded iterator: n must not exceed MaxVars.
func Combinations(n, k int) ([][]int, error) {
	if n < 1 {
		return nil, ErrBadDimension
	}
	if n > MaxVars {
		return nil, ErrTooManyVariables
	}
	if k < 0 || k > n {
		return nil, ErrBadSubsetSize
	}
	if k == 0 {
		return [][]int{{}}, nil
	}
	// Classic lexicographic successor walk over index tuples.
	cur := make([]int, k)
	for i := range cur {
		cur[i] = i
	}
	var out [][]int
	for {
		c := make([]int, k)
		copy(c, cur)
		out = append(out, c)
		// Find the rightmost position that can still advance.
		i := k - 1
		for i >= 0 && cur[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		cur[i]++
		for j := i + 1; j < k; j++ {
			cur[j] = cur[j-1] + 1
		}
	}

	return out, nil
}
