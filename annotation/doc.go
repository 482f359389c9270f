// Package annotation extracts per-test configuration from doc blocks.
//
// A doc block is the comment written above an entry point. Each line may
// carry one annotation:
//
//	@runs 50            number of fuzz trials
//	@scope math         group name in reports
//	@gasLimit 100000    gas available to each call
//	@exitCode 3010      exit code a passing call ends with
//	@unixTime 1735231203
//	@balance 20000000
//	@skip               report the test as pending
//	@todo               report the test as todo
//	@fuzzTlb _ a:int32 = Args;
//
// Text after the value is ignored, and comment markers at the start of a
// line are stripped.
package annotation
