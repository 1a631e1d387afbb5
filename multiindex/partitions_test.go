package multiindex_test

import (
	"testing"

	"github.com/katalvlaran/extrema/multiindex"
	"github.com/stretchr/testify/require"
)

// binomial computes C(n, k) with small integers.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	res := 1
	for i := 0; i < k; i++ {
		res = res * (n - i) / (i + 1)
	}
	return res
}

func TestPartitions_CountLengthSum(t *testing.T) {
	for order := 0; order <= 5; order++ {
		for dim := 1; dim <= 4; dim++ {
			parts, err := multiindex.Partitions(order, dim)
			require.NoError(t, err)
			// exactly C(order+dim-1, dim-1) compositions
			require.Len(t, parts, binomial(order+dim-1, dim-1), "order=%d dim=%d", order, dim)
			for _, p := range parts {
				require.Len(t, []int(p), dim)
				require.Equal(t, order, p.Order())
			}
		}
	}
}

func TestPartitions_TrailingSlots(t *testing.T) {
	// Compositions whose weight sits entirely past the first slot must
	// still be enumerated after an earlier slot overshoots.
	parts, err := multiindex.Partitions(2, 3)
	require.NoError(t, err)
	require.Len(t, parts, 6)
	found := false
	for _, p := range parts {
		if p.Equal(multiindex.MultiIndex{0, 1, 1}) {
			found = true
		}
	}
	require.True(t, found, "missing composition [0 1 1] in %v", parts)
}

func TestPartitions_NoDuplicates(t *testing.T) {
	parts, err := multiindex.Partitions(4, 3)
	require.NoError(t, err)
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		require.False(t, seen[p.Key()], "duplicate %v", p)
		seen[p.Key()] = true
	}
}

func TestPartitions_BadInput(t *testing.T) {
	_, err := multiindex.Partitions(-1, 2)
	require.ErrorIs(t, err, multiindex.ErrBadOrder)
	_, err = multiindex.Partitions(2, 0)
	require.ErrorIs(t, err, multiindex.ErrBadDimension)
}

func TestCombinations_CountAndOrder(t *testing.T) {
	combs, err := multiindex.Combinations(5, 3)
	require.NoError(t, err)
	require.Len(t, combs, binomial(5, 3))
	for _, c := range combs {
		require.Len(t, c, 3)
		for i := 1; i < len(c); i++ {
			require.Less(t, c[i-1], c[i], "tuple %v must be strictly increasing", c)
		}
	}
	// first and last tuples in lexicographic order
	require.Equal(t, []int{0, 1, 2}, combs[0])
	require.Equal(t, []int{2, 3, 4}, combs[len(combs)-1])
}

func TestCombinations_Bounds(t *testing.T) {
	_, err := multiindex.Combinations(33, 2)
	require.ErrorIs(t, err, multiindex.ErrTooManyVariables)
	_, err = multiindex.Combinations(4, 5)
	require.ErrorIs(t, err, multiindex.ErrBadSubsetSize)
}

func TestMultiIndex_KeyRoundTrip(t *testing.T) {
	s := multiindex.MultiIndex{2, 0, 1}
	back, err := multiindex.ParseKey(s.Key())
	require.NoError(t, err)
	require.True(t, s.Equal(back))
}

func TestMultiIndex_Componentwise(t *testing.T) {
	s := multiindex.MultiIndex{1, 0, 2}
	u := multiindex.MultiIndex{2, 0, 2}
	require.True(t, s.LessEq(u))
	require.False(t, u.LessEq(s))
	require.Equal(t, multiindex.MultiIndex{1, 0, 0}, s.Sub(u))
}
