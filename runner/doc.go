// Package runner runs the test entry points of one module as a suite.
//
// Entry points named test_<name> are single-shot tests: one call without
// input decides the result. Entry points named testFuzz_<name> are fuzz
// tests: their parameters are declared in the manifest, and package fuzz
// runs them with generated rows. Every other entry point is ignored, except
// fixture_<param> getters, which provide fixtures.
//
// Per-test configuration comes from doc-block annotations merged over the
// manifest defaults (see package annotation). Counterexamples found by fuzz
// tests can be stored in a corpus and replayed first on the next run.
package runner
