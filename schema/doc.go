// Package schema reads the TL-B description attached to a fuzz test.
//
// A test may describe its parameters with an Args type:
//
//	args#_ amount:Coins to:MsgAddress flags:(## 8) = Args;
//
// The first Args constructor refines the declared parameters: integer fields
// get an exact width and signedness, and slice fields typed as an address are
// generated from the address domain. Other types in the text are parsed but
// only their names are kept.
package schema
