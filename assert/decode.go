package assert

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/trace"
	"github.com/wippyai/proptest/value"
)

// Decode reads the fields of an assertion tag and returns the failure it
// reports. A malformed record yields a protocol decode error instead.
func Decode(tag Tag, r *trace.Reader) (*errors.AssertionError, error) {
	switch tag {
	case CompareInt:
		return decodeCompareInt(r)
	case TupleSize:
		return decodeTupleSize(r)
	case AddressType:
		return decodeAddressType(r)
	case IsNull:
		return decodeIsNull(r)
	case EqualAddress:
		return decodeEqualAddress(r)
	case Bool:
		return decodeBool(r)
	case ConsumeLess:
		return decodeConsumeLess(r)
	case Fail:
		return decodeFail(r)
	case ExitCode, Assume, Unknown:
		return nil, errors.InvalidInput(errors.PhaseAssert, fmt.Sprintf("%s is not an assertion tag", tag))
	}
	return nil, errors.InvalidInput(errors.PhaseAssert, fmt.Sprintf("tag %d out of range", tag))
}

func decodeCompareInt(r *trace.Reader) (*errors.AssertionError, error) {
	kind, err := r.Next()
	if err != nil {
		return nil, err
	}
	expected, err := r.NextBigInt()
	if err != nil {
		return nil, err
	}
	actual, err := r.NextBigInt()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	msg, ok := compareMessage(Comparator(kind), actual, expected)
	if !ok {
		return nil, errors.ProtocolDecode("Unknown comparison kind", kind)
	}
	return errors.NewAssertion(CompareInt.String(), label, "%s", msg), nil
}

func compareMessage(c Comparator, actual, expected *big.Int) (string, bool) {
	var format string
	switch c {
	case EQ:
		format = `Value "%s" does not equal expected value "%s"`
	case NEQ:
		format = `Value "%s" was not expected to be equal to value "%s"`
	case LT:
		format = `Provided "%s" is not less than "%s"`
	case LTE:
		format = `Provided "%s" is not less than or equal to "%s"`
	case GT:
		format = `Provided "%s" is not greater than "%s"`
	case GTE:
		format = `Provided "%s" is not greater than or equal to "%s"`
	default:
		return "", false
	}
	return fmt.Sprintf(format, actual, expected) + fmt.Sprintf(" (%s).", c), true
}

func decodeTupleSize(r *trace.Reader) (*errors.AssertionError, error) {
	actual, err := r.NextInt()
	if err != nil {
		return nil, err
	}
	expected, err := r.NextInt()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	return errors.NewAssertion(TupleSize.String(), label,
		"Tuple does not contain exactly %d elements (%d given).", expected, actual), nil
}

func decodeAddressType(r *trace.Reader) (*errors.AssertionError, error) {
	expected, err := r.Next()
	if err != nil {
		return nil, err
	}
	addr, err := r.NextAddress()
	if err != nil {
		return nil, err
	}
	label := r.Label()
	actual := value.AddressClass(addr)

	switch expected {
	case ClassInternal, ClassNone, ClassExternal:
	default:
		return nil, errors.ProtocolDecode("Unknown address type", expected)
	}
	return errors.NewAssertion(AddressType.String(), label,
		"Address was expected to be %s (%s given).", strings.ToLower(expected), actual), nil
}

func decodeIsNull(r *trace.Reader) (*errors.AssertionError, error) {
	expectNull, err := r.NextBool()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	if expectNull {
		return errors.NewAssertion(IsNull.String(), label, "Value is not null, but null value was expected."), nil
	}
	return errors.NewAssertion(IsNull.String(), label, "Value is null, but non null value was expected."), nil
}

func decodeEqualAddress(r *trace.Reader) (*errors.AssertionError, error) {
	actual, err := r.NextAddress()
	if err != nil {
		return nil, err
	}
	expected, err := r.NextAddress()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	return errors.NewAssertion(EqualAddress.String(), label,
		"Address does not equal expected one.\n\nExpected: %q\nReceived: %q\n",
		value.FormatAddress(expected), value.FormatAddress(actual)), nil
}

func decodeBool(r *trace.Reader) (*errors.AssertionError, error) {
	actual, err := r.NextBool()
	if err != nil {
		return nil, err
	}
	expected, err := r.NextBool()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	return errors.NewAssertion(Bool.String(), label, "Value \"%t\" is not %t.", actual, expected), nil
}

func decodeConsumeLess(r *trace.Reader) (*errors.AssertionError, error) {
	actual, err := r.NextInt()
	if err != nil {
		return nil, err
	}
	expected, err := r.NextInt()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	return errors.NewAssertion(ConsumeLess.String(), label,
		"Function consumed more than %d gas units (%d consumed).", expected, actual), nil
}

func decodeFail(r *trace.Reader) (*errors.AssertionError, error) {
	msg, err := r.Next()
	if err != nil {
		return nil, err
	}
	label := r.Label()

	return errors.NewAssertion(Fail.String(), label, "%s", msg), nil
}
