// Package kkt locates critical points of a smooth objective under equality
// and inequality constraints using the Karush-Kuhn-Tucker conditions.
//
// What you get:
//   - Solve - stationary points of f under g ≤ 0 and h = 0, found by
//     enumerating the 2^m active sets of the inequality constraints and
//     solving the stationarity system per pattern
//   - UnivariateCandidates - critical candidates of a one-variable
//     objective: zeros of the derivative, poles of the derivative and
//     interval endpoints
//   - PiecewiseCandidates - the same for piecewise objectives, with the
//     transition thresholds included as candidates
//   - TempVars - bounded surrogate variables carrying range assumptions
//     through the solver
//
// Inequality multipliers are assumed strictly positive while their
// constraint is active; the assumption is pushed for the duration of one
// pattern and popped afterwards. Candidates violating an inactive
// inequality are discarded.
//
// The active-set walk is exponential in the number of inequality
// constraints, which is bounded by MaxInequalities.
package kkt
