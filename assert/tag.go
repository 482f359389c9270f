package assert

// Tag identifies an entry of the debug stream that starts a record.
type Tag uint8

const (
	Unknown Tag = iota
	CompareInt
	TupleSize
	AddressType
	IsNull
	EqualAddress
	Bool
	ConsumeLess
	Fail
	ExitCode
	Assume
)

var tagNames = [...]string{
	Unknown:      "UNKNOWN",
	CompareInt:   "ASSERT_COMPARE_INT",
	TupleSize:    "ASSERT_TUPLE_SIZE",
	AddressType:  "ASSERT_ADDRESS_TYPE",
	IsNull:       "ASSERT_IS_NULL",
	EqualAddress: "ASSERT_EQUAL_ADDRESS",
	Bool:         "ASSERT_BOOL",
	ConsumeLess:  "ASSERT_CONSUME_LESS",
	Fail:         "ASSERT_FAIL",
	ExitCode:     "TEST_EXIT_CODE",
	Assume:       "TEST_ASSUME",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for t, name := range tagNames {
		if Tag(t) != Unknown {
			m[name] = Tag(t)
		}
	}
	return m
}()

// ParseTag maps a raw entry to its tag. Anything else is Unknown.
func ParseTag(entry string) Tag {
	return tagsByName[entry]
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return tagNames[Unknown]
}

// IsAssertion reports whether Decode handles t.
func (t Tag) IsAssertion() bool {
	return t >= CompareInt && t <= Fail
}

// IsControl reports whether t is handled by the trial loop.
func (t Tag) IsControl() bool {
	return t == ExitCode || t == Assume
}

// Comparator is the sub-kind of ASSERT_COMPARE_INT.
type Comparator string

const (
	EQ  Comparator = "EQ"
	NEQ Comparator = "NEQ"
	LT  Comparator = "LT"
	LTE Comparator = "LTE"
	GT  Comparator = "GT"
	GTE Comparator = "GTE"
)

// Address classes named by ASSERT_ADDRESS_TYPE.
const (
	ClassInternal = "INTERNAL"
	ClassNone     = "NONE"
	ClassExternal = "EXTERNAL"
)
