// Package report turns run results into text and JSON.
//
// Suite and Test are the records a suite run produces. FuzzFailure renders
// the failure text of a fuzz test:
//
//	Fuzz test failed (3 passed, 2 failed, 0 skipped).
//
//	Run #1: Test case has failed with an error code 5.
//	├ a = 17
//	└ to = EQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAM9c
//
// Text styling goes through Styles so the same output can be printed plain
// or colored for a terminal.
package report
