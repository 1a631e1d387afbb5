// Package extrema is a toolkit for finding and classifying extrema of
// multivariate differentiable functions, including arbitrary-order
// implicit partial derivatives of variables defined by equality
// constraints.
//
// 🚀 What is extrema?
//
//	A library that brings together:
//		• Multi-index combinatorics: compositions of a differentiation order
//		• Implicit differentiation: gradients, Hessians and arbitrary-order
//		  partials of functions whose variables are tied by constraints
//		• Critical-point search: Karush-Kuhn-Tucker systems over inequality
//		  and equality constraints
//		• Global extrema: exact minimum value, minimizer set and maximum value
//		  over a bounded feasible region
//		• Local classification: bordered-Hessian test, eigenvalue test and a
//		  higher-order homogeneous-polynomial fallback
//
// ✨ Why choose extrema?
//
//   - Exact first – rational arithmetic end to end, numeric only as fallback
//   - Clear API – small per-concern packages, sentinel errors, options
//   - Extensible – the algebra boundary is one package, easy to swap
//
// Everything is organized under five subpackages:
//
//	multiindex/ — multi-index type, partition and combination enumeration
//	algebra/    — the symbolic-algebra boundary: calculus, linear algebra,
//	              equation solving, scoped assumptions
//	implicit/   — diffterm algebra, implicit-derivative solver, the partial
//	              derivative cache and variable arrangement selection
//	kkt/        — KKT critical-point solver and univariate candidates
//	extremum/   — global evaluator, local classifier and the public entry
//	              points Minimize, Maximize, Global, Local
//
// Quick example:
//
//	res, err := extremum.Minimize(f, constraints, vars)
//
// finds the exact global minimum of f over the region cut out by the
// constraints. See each package's doc.go for details and complexity notes.
//
//	go get github.com/katalvlaran/extrema
package extrema
