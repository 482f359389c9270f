// Package fixture provides precomputed candidates for fuzz parameters.
//
// Fixtures come from two places: literals listed in a suite manifest, and
// fixture getters of the program itself. A getter is an entry point named
// fixture_<param> whose result stack is the sequence of candidates for
// <param>. When a parameter has fixtures, generators sample from them instead
// of drawing random values, and the shrinker leaves that parameter alone.
package fixture
