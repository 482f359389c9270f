// Package shrink minimizes failing integer candidates by bisection.
//
// A Node tracks three points of an integer domain:
//
//	low      closest-to-zero bound not yet known to fail (starts at 0)
//	high     smallest-magnitude value known to fail
//	current  midpoint of low and high, the next value to try
//
// Simplify moves high down to current and re-bisects; Complicate moves low
// one step past current and re-bisects. Both return a new Node and never
// modify the receiver, so each step can be inspected on its own. A Node
// seeded from a fixture is fixed and never moves.
//
// Search drives a Node against a predicate that re-runs the program, accepting
// every value that still fails. Each accepted or rejected probe halves the
// interval, so a search over an n-bit domain costs at most n+1 executions.
package shrink
