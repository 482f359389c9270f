// Package value defines the data model shared by generators, executors and reports.
//
// A Param is a named parameter of a test entry point with a Type:
//
//	Kind      Domain
//	─────────────────────────────────────────────────
//	int       [-(2^(bits-1)), 2^(bits-1)-1] signed, [0, 2^bits-1] unsigned
//	bool      0 or 1
//	address   cell holding a serialized address (none, internal or external)
//	slice     opaque cell, optionally refined to an address by a schema
//
// A Value is one candidate for one parameter. Integer candidates use math/big
// so that 256-bit domains are represented exactly; cells use tonutils-go.
package value
