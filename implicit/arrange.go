package implicit

import (
	"fmt"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/algebra"
	"github.com/katalvlaran/extrema/multiindex"
)

// ConstraintJacobian returns the m×n Jacobian of the constraints g with
// respect to vars.
func ConstraintJacobian(g []gosymbol.Expr, vars []string) *gosymbol.Matrix {
	return algebra.JacobianOf(g, vars)
}

// Arrangements enumerates every ordering of vars in which the last m
// variables can serve as dependents: an ordering qualifies when the m×m
// block of the constraint Jacobian over the chosen dependents has a
// determinant that is not identically zero. Each arrangement is returned as
// a permutation of variable indices, free variables first.
//
// The subsets are walked with a bounded combination iterator, so
// len(vars) must not exceed multiindex.MaxVars. ErrSingularJacobian is
// returned when no subset qualifies.
func Arrangements(g []gosymbol.Expr, vars []string, asm *algebra.Assumptions) ([][]int, error) {
	m, n := len(g), len(vars)
	if m >= n {
		return nil, fmt.Errorf("%w: %d constraints for %d variables", ErrInvalidArity, m, n)
	}
	J := ConstraintJacobian(g, vars)
	subsets, err := multiindex.Combinations(n, m)
	if err != nil {
		return nil, err
	}
	var arrs [][]int
	for _, dep := range subsets {
		S := gosymbol.NewMatrix(m, m)
		for r := 0; r < m; r++ {
			for c, j := range dep {
				S.Set(r, c, J.Get(r, j))
			}
		}
		if algebra.IsZero(algebra.Det(S), asm) {
			continue
		}
		// Free variables keep their relative order, dependents go last.
		arr := make([]int, 0, n)
		inDep := make(map[int]bool, m)
		for _, j := range dep {
			inDep[j] = true
		}
		for j := 0; j < n; j++ {
			if !inDep[j] {
				arr = append(arr, j)
			}
		}
		arr = append(arr, dep...)
		arrs = append(arrs, arr)
	}
	if len(arrs) == 0 {
		return nil, ErrSingularJacobian
	}

	return arrs, nil
}

// CheckJacobian reports whether the default arrangement, with the last m
// variables dependent, satisfies the implicit function theorem: the
// Jacobian has full rank and the dependent block is nonsingular.
func CheckJacobian(g []gosymbol.Expr, vars []string, asm *algebra.Assumptions) bool {
	m := len(g)
	n := len(vars) - m
	if n <= 0 {
		return false
	}
	J := ConstraintJacobian(g, vars)
	if algebra.Rank(J, asm) < m {
		return false
	}
	S := gosymbol.NewMatrix(m, m)
	for r := 0; r < m; r++ {
		for c := 0; c < m; c++ {
			S.Set(r, c, J.Get(r, n+c))
		}
	}

	return !algebra.IsZero(algebra.Det(S), asm)
}
