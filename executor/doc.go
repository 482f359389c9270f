// Package executor runs entry points of a program under test.
//
// Executor is the contract the fuzz loop consumes: one call, one Result with
// the exit code, the debug stream and the VM log. A Go error is returned only
// when the executor itself cannot work (instantiation failure, cancelled
// context); a call that the executor refused is reported with
// Result.Success set to false.
//
// Wasm implements Executor for core WebAssembly modules on wazero. Modules
// import their environment from the "proptest" host module:
//
//	debug(ptr i32, len i32)        append one entry to the debug stream
//	gas(units i64)                 consume gas, exit -14 past the limit
//	throw(code i32)                stop with the given exit code
//	now() i64                      unix time of the environment
//	balance() i64                  balance of the environment
//	push_int(ptr i32)              push a 32-byte little-endian integer
//	push_cell(ptr i32, len i32)    push a bag of cells
//
// Entry points are exported functions with signature () or (ptr, len) and an
// optional i32 result used as the exit code. Input is one 32-byte
// little-endian word per parameter followed by the bag-of-cells bytes of
// slice parameters; see EncodeInput.
package executor
