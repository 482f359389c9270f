// Package errors provides structured error types for the property testing engine.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: parameter path, offending value, and cause chain.
//
// The engine distinguishes five failure categories:
//
//	fixture_type_mismatch  fixture kind differs from the requested kind (fatal to a trial)
//	unsupported_type       parameter type cannot be generated (fatal to the entry point)
//	protocol_decode        malformed trace text (fatal to a trial)
//	assertion              AssertionError decoded from the trace (fatal to a trial)
//	execution_failure      executor reported an unsuccessful run (fatal to a trial)
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindProtocolDecode).
//		Path("ASSERT_BOOL").
//		Detail("unexpected end of trace").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FixtureTypeMismatch("amount", "int", "slice")
//	err := errors.UnsupportedParameterType("payload", "cell")
//
// Sentinels match on Kind alone:
//
//	if errors.Is(err, errors.ErrProtocolDecode) { ... }
package errors
