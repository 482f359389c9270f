// Package trace decodes the debug stream a program under test writes while
// it runs.
//
// The stream is a sequence of entries, each introduced by the "#DEBUG#: "
// marker. An entry is either a tag (ASSERT_COMPARE_INT, TEST_EXIT_CODE, ...)
// or a value dumped from the VM stack, for example:
//
//	#DEBUG#: ASSERT_COMPARE_INT
//	#DEBUG#: EQ
//	#DEBUG#: s0 = 5
//	#DEBUG#: s1 = 7
//	#DEBUG#: total mismatch
//
// Stack values keep their "sN = " prefix in the stream; the typed readers
// strip it. Slices are rendered as
//
//	CS{Cell{<hex of the raw cell representation>} bits: A..B; refs: C..D}
//
// and are rebuilt into a tonutils-go slice positioned on bits A..B.
//
// A Reader is a forward-only cursor over an immutable entry list. It is owned
// by a single trial and never shared.
package trace
