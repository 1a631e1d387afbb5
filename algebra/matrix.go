package algebra

import (
	"fmt"
	"math"

	"github.com/njchilds90/gosymbol"
	"gonum.org/v1/gonum/mat"
)

// Det returns the determinant of a square symbolic matrix.
func Det(m *gosymbol.Matrix) gosymbol.Expr {
	return m.Det().Simplify()
}

// SolveLinear solves the square symbolic system a·x = b by Gaussian
// elimination, pivoting on the first column entry that is not provably
// zero. The cofactor-based Matrix.Inverse is deliberately not used here:
// its 1x1 cofactor is the determinant of an empty minor, which collapses
// every one-unknown system to zero. Returns ErrSingularMatrix when a pivot
// column is exhausted.
func SolveLinear(a *gosymbol.Matrix, b []gosymbol.Expr) ([]gosymbol.Expr, error) {
	n := a.Rows()
	if a.Cols() != n || len(b) != n {
		return nil, fmt.Errorf("algebra: linear solve of a %dx%d matrix with %d right-hand sides",
			a.Rows(), a.Cols(), len(b))
	}
	m := make([][]gosymbol.Expr, n)
	rhs := make([]gosymbol.Expr, n)
	for i := 0; i < n; i++ {
		m[i] = make([]gosymbol.Expr, n)
		for j := 0; j < n; j++ {
			m[i][j] = a.Get(i, j)
		}
		rhs[i] = b[i]
	}
	for col := 0; col < n; col++ {
		piv := -1
		for r := col; r < n; r++ {
			if !IsZero(m[r][col], nil) {
				piv = r
				break
			}
		}
		if piv < 0 {
			return nil, ErrSingularMatrix
		}
		m[col], m[piv] = m[piv], m[col]
		rhs[col], rhs[piv] = rhs[piv], rhs[col]
		p := m[col][col]
		for r := 0; r < n; r++ {
			if r == col || IsZero(m[r][col], nil) {
				continue
			}
			f := RatNormal(gosymbol.MulOf(m[r][col], gosymbol.PowOf(p, gosymbol.N(-1))))
			negF := gosymbol.MulOf(gosymbol.N(-1), f)
			for k := col; k < n; k++ {
				m[r][k] = RatNormal(gosymbol.AddOf(m[r][k], gosymbol.MulOf(negF, m[col][k])))
			}
			rhs[r] = RatNormal(gosymbol.AddOf(rhs[r], gosymbol.MulOf(negF, rhs[col])))
		}
	}
	x := make([]gosymbol.Expr, n)
	for i := 0; i < n; i++ {
		x[i] = RatNormal(gosymbol.MulOf(rhs[i], gosymbol.PowOf(m[i][i], gosymbol.N(-1))))
	}

	return x, nil
}

// Invert returns the inverse of a square symbolic matrix, or
// ErrSingularMatrix when no set of nonzero pivots exists. Built on
// column-wise SolveLinear for the same reason SolveLinear avoids the
// cofactor expansion.
func Invert(m *gosymbol.Matrix) (*gosymbol.Matrix, error) {
	n := m.Rows()
	if m.Cols() != n {
		return nil, fmt.Errorf("algebra: inverse of a %dx%d matrix", m.Rows(), m.Cols())
	}
	inv := gosymbol.NewMatrix(n, n)
	e := make([]gosymbol.Expr, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = gosymbol.N(0)
		}
		e[col] = gosymbol.N(1)
		x, err := SolveLinear(m, e)
		if err != nil {
			return nil, err
		}
		for r := 0; r < n; r++ {
			inv.Set(r, col, x[r])
		}
	}

	return inv, nil
}

// NumericDense converts a symbolic matrix to a gonum dense matrix; ok is
// false when any entry fails to evaluate to a number.
func NumericDense(m *gosymbol.Matrix) (*mat.Dense, bool) {
	r, c := m.Rows(), m.Cols()
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, ok := EvalFloat(m.Get(i, j))
			if !ok {
				return nil, false
			}
			d.Set(i, j, v)
		}
	}

	return d, true
}

// Eigenvalues returns the real eigenvalues of a symmetric numeric matrix
// (a Hessian evaluated at a point). ErrNonNumeric is returned when some
// entry stays symbolic, which the classifier treats as inconclusive.
func Eigenvalues(m *gosymbol.Matrix) ([]float64, error) {
	d, ok := NumericDense(m)
	if !ok {
		return nil, ErrNonNumeric
	}
	n, c := d.Dims()
	if n != c {
		return nil, fmt.Errorf("algebra: eigenvalues of a %dx%d matrix", n, c)
	}
	// Hessians are symmetric up to simplification noise; symmetrize before
	// handing the matrix to the symmetric eigensolver.
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (d.At(i, j)+d.At(j, i))/2)
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(s, false) {
		return nil, fmt.Errorf("%w: eigendecomposition did not converge", ErrSolverFailed)
	}
	vals := make([]float64, n)
	eig.Values(vals)

	return vals, nil
}

// Rank returns the rank of a symbolic matrix. Numeric matrices use a
// singular value decomposition; symbolic ones fall back to Gaussian
// elimination where a pivot is taken whenever it is not provably zero.
func Rank(m *gosymbol.Matrix, asm *Assumptions) int {
	if d, ok := NumericDense(m); ok {
		var svd mat.SVD
		if svd.Factorize(d, mat.SVDNone) {
			vals := svd.Values(nil)
			rank := 0
			for _, v := range vals {
				if math.Abs(v) > Tolerance {
					rank++
				}
			}

			return rank
		}
	}

	return symbolicRank(m, asm)
}

// symbolicRank performs fraction-free Gaussian elimination on a copy of m,
// counting pivots. An undecidable pivot zero-test is treated as nonzero;
// simplification correctness is outside this package's guarantees.
func symbolicRank(m *gosymbol.Matrix, asm *Assumptions) int {
	rows, cols := m.Rows(), m.Cols()
	a := make([][]gosymbol.Expr, rows)
	for i := 0; i < rows; i++ {
		a[i] = make([]gosymbol.Expr, cols)
		for j := 0; j < cols; j++ {
			a[i][j] = RatNormal(m.Get(i, j))
		}
	}
	rank := 0
	for col := 0; col < cols && rank < rows; col++ {
		// 1) Find a pivot row with a nonzero entry in this column.
		pivot := -1
		for r := rank; r < rows; r++ {
			if !IsZero(a[r][col], asm) {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		a[rank], a[pivot] = a[pivot], a[rank]
		// 2) Eliminate the column below the pivot.
		for r := rank + 1; r < rows; r++ {
			if IsZero(a[r][col], asm) {
				continue
			}
			for c := col + 1; c < cols; c++ {
				a[r][c] = RatNormal(gosymbol.AddOf(
					gosymbol.MulOf(a[rank][col], a[r][c]),
					gosymbol.MulOf(gosymbol.N(-1), a[r][col], a[rank][c]),
				))
			}
			a[r][col] = gosymbol.N(0)
		}
		rank++
	}

	return rank
}

// LeadingMinor returns the determinant of the k×k leading principal
// submatrix of m. Used by the bordered-Hessian sign walk.
func LeadingMinor(m *gosymbol.Matrix, k int) gosymbol.Expr {
	sub := gosymbol.NewMatrix(k, k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			sub.Set(i, j, m.Get(i, j))
		}
	}

	return Det(sub)
}
