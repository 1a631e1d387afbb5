// Package extremum finds and classifies extrema of differentiable
// multivariate functions, with or without constraints.
//
// Two complementary entry points:
//   - Global - exact global minimum and maximum of an objective over a
//     constrained region, by evaluating the objective on the KKT critical
//     candidates (plus derivative zeros, poles and endpoints in the
//     univariate case)
//   - Local - strict local extrema of an objective under equality
//     constraints, classified by the bordered-Hessian test, the second
//     partial derivative test and, where those are inconclusive, by
//     sign-definiteness of higher-order Taylor terms over the unit sphere
//
// Minimize and Maximize wrap Global for the common one-sided case;
// NthPartial, ImplicitDiff and TaylorExpansion expose the underlying
// implicit-differentiation cache directly.
//
// Results are exact when the problem data is exact and the candidate
// systems admit exact solutions; otherwise coordinates degrade to floats.
// Classification inspects derivatives up to the order budget set with
// WithMaxOrder; points still inconclusive at the budget are reported as
// Undecided rather than silently dropped.
package extremum
