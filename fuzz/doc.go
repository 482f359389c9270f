// Package fuzz runs property tests against an executor.
//
// A fuzz run for an entry point with R configured runs:
//
//  1. builds one shuffled column of R candidates per parameter
//  2. runs one trial per row, strictly one after another
//  3. classifies each trial as passed, failed or skipped from its debug
//     stream and exit code
//  4. on the first failure, shrinks every integer parameter in declaration
//     order with the others held fixed, and reports the minimized row
//
// Trial errors (assertions, malformed traces, executor refusals, exit codes)
// become failed trials and never stop the run. Errors about the test itself,
// such as an unsupported parameter type, abort before the first trial.
//
// RunOnce is the single-shot variant for tests without parameters.
package fuzz
