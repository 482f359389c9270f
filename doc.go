// Package proptest is a property-based testing engine for smart contract
// test modules.
//
// A test module exports entry points. Entries named test_* run once; entries
// named testFuzz_* take typed parameters and run against generated inputs.
// The program under test talks back through a debug log: assertions, expected
// exit codes and assumptions are encoded as tagged entries and decoded into
// pass, fail or skip verdicts. Failing integer inputs are shrunk to a minimal
// counterexample.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	proptest/
//	├── value/       Parameter types and candidate values (ints, bools, cells)
//	├── strategy/    Random generators and per-parameter input columns
//	├── shrink/      Bisection shrinking of integer counterexamples
//	├── trace/       Debug log splitting and typed entry decoding
//	├── assert/      Assertion tags and verdicts
//	├── executor/    Executor interface and the wazero-backed implementation
//	├── fuzz/        Trial loop: generate, execute, classify, shrink
//	├── fixture/     Fixed candidate lists from manifests and fixture getters
//	├── schema/      TL-B Args constructors refining slice and int parameters
//	├── annotation/  @runs, @scope, @exitCode and friends in doc comments
//	├── manifest/    YAML suite manifests
//	├── corpus/      SQLite store of counterexamples replayed as seeds
//	├── runner/      Suite runner tying the above together
//	├── report/      Text and JSON reports
//	├── metrics/     Prometheus collectors for trials, shrinks and tests
//	├── errors/      Structured error types
//	└── cmd/run/     Command line interface
//
// # Quick Start
//
// Run a single fuzz test against an executor:
//
//	exec, _ := executor.NewWasm(ctx, moduleBytes, nil)
//	defer exec.Close(ctx)
//
//	params := []value.Param{{Name: "x", Type: value.Int(8, true)}}
//	rep, err := fuzz.Run(ctx, exec, fuzz.Test{Name: "testFuzz_x", Params: params}, fuzz.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	fmt.Println(report.FuzzFailure(rep, report.Plain()))
//
// Or run a whole suite from the command line:
//
//	proptest run suite.yaml --corpus proptest.db
package proptest
