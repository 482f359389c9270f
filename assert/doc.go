// Package assert turns assertion tags of the debug stream into failures.
//
// Each assertion tag is followed by a fixed list of fields that Decode reads
// in order and without lookahead:
//
//	ASSERT_COMPARE_INT    comparator, expected, actual, label
//	ASSERT_TUPLE_SIZE     actual, expected, label
//	ASSERT_ADDRESS_TYPE   expected class, actual slice, label
//	ASSERT_IS_NULL        expect-null flag, label
//	ASSERT_EQUAL_ADDRESS  actual slice, expected slice, label
//	ASSERT_BOOL           actual, expected, label
//	ASSERT_CONSUME_LESS   actual gas, expected ceiling, label
//	ASSERT_FAIL           message, label
//
// TEST_EXIT_CODE and TEST_ASSUME are control tags; they are recognized by
// ParseTag but handled by the trial loop, not by Decode.
package assert
