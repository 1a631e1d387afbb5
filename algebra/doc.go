// Package algebra is the boundary to the symbolic-algebra engine.
//
// Every symbolic operation the extrema toolkit consumes lives here:
// differentiation and calculus operators, linear algebra (determinant,
// inverse, rank, eigenvalues), equation solving, numeric root bracketing,
// normalization, substitution, three-valued sign predicates and a scoped
// assumption store. The rest of the module never imports the underlying
// engine directly, so swapping it means touching this package only.
//
// The symbolic kernel is gosymbol (github.com/njchilds90/gosymbol): exact
// big.Rat arithmetic over immutable Expr trees. Numeric linear algebra
// (eigenvalues, rank) is delegated to gonum/mat once matrix entries
// evaluate to numbers.
//
// Equation solving:
//
//	SolveSystem resolves a system over the given unknowns through a chain of
//	strategies: joint linear solve, elimination of unknowns that appear
//	linearly (or purely quadratically) in some equation, monomial-factor
//	branch splitting, a univariate polynomial endgame (exact through cubic,
//	numeric scan beyond) and finally a multi-start Newton iteration. Every
//	candidate is verified against the original equations and filtered by the
//	assumption store before it is returned. An empty result is a legitimate
//	outcome, not an error.
//
// Assumptions:
//
//	Assumptions is an explicit scoped store: Push a variable range before a
//	solve, Pop it after. It is passed by pointer to the operations that need
//	sign information; there is no process-wide state.
//
// Errors (sentinel):
//
//   - ErrSingularMatrix if an inverse of a singular matrix is requested.
//   - ErrNonNumeric     if a numeric operation meets symbolic entries.
//   - ErrSolverFailed   if no solving strategy applies to a system.
package algebra
