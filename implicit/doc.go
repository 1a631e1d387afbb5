// Package implicit computes arbitrary-order partial derivatives of a
// function whose trailing variables are implicitly defined by equality
// constraints.
//
// Given f(x₁..xₙ, y₁..yₘ) and constraints g₁..gₘ = 0 that define each yᵢ
// as a function of the free variables x₁..xₙ (implicit function theorem),
// the Cache produces ∂^σ f/∂x^σ for any multi-index σ without ever solving
// for the yᵢ in closed form.
//
// The machinery is a generalized chain-rule (Faà di Bruno) expansion over
// a formal sparse polynomial of "implicit-derivative" unknowns:
//
//   - Term    — a direct-derivative multi-index over all variables plus a
//     multiset of still-unresolved implicit-derivative symbols.
//   - TermSet — Term → integer coefficient, zero-coefficient terms pruned.
//   - derive  — expands a TermSet one differentiation step at a time via
//     three alternatives: bump the direct derivative, raise an existing
//     unknown one order (generalized power rule), or introduce a fresh
//     first-order unknown chained through a constraint.
//   - computeH — at each order, total-differentiates the constraint
//     identities; the resulting equations are linear in the top-order
//     unknowns and are solved in one matrix inversion.
//
// The Cache grows strictly order by order: all multi-indices of order k
// must be resolved before order k+1 is attempted, because computeH folds
// every lower-order unknown into its constant terms. Cache instances are
// exclusively owned by one (objective, constraints, arrangement)
// computation and must not be shared.
//
// Arrangements enumerates the dependent-variable choices for which the
// constraint Jacobian sub-block is nonsingular, as permutations placing
// the chosen dependents last.
//
// Errors (sentinel):
//
//   - ErrInvalidArity     if the constraint count reaches the variable count.
//   - ErrUnknownVariable  if a differentiation variable is not a problem variable.
//   - ErrImplicitSystem   if an implicit-derivative linear system is singular.
//   - ErrSingularJacobian if no valid dependent-variable arrangement exists.
package implicit
