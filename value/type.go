package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wippyai/proptest/errors"
)

// Kind is the category of a parameter or candidate.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindBool
	KindAddress
	KindSlice
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindSlice:
		return "slice"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "int":
		return KindInt, true
	case "bool":
		return KindBool, true
	case "address":
		return KindAddress, true
	case "slice":
		return KindSlice, true
	}
	return KindInvalid, false
}

// MaxBits is the widest integer domain the engine generates.
const MaxBits = 256

// CoinsBits is the width of the variable-length Coins/Grams amount.
const CoinsBits = 120

// Type describes the domain of one parameter.
type Type struct {
	Kind   Kind
	Bits   int  // KindInt only
	Signed bool // KindInt only
	// AddressLike marks a KindSlice parameter that a schema declared as an address.
	AddressLike bool
}

// Int returns an integer type of the given width.
func Int(bits int, signed bool) Type {
	return Type{Kind: KindInt, Bits: bits, Signed: signed}
}

func Bool() Type    { return Type{Kind: KindBool} }
func Address() Type { return Type{Kind: KindAddress} }
func Slice() Type   { return Type{Kind: KindSlice} }

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		if t.Signed {
			return "int" + strconv.Itoa(t.Bits)
		}
		return "uint" + strconv.Itoa(t.Bits)
	case KindSlice:
		if t.AddressLike {
			return "slice<address>"
		}
	}
	return t.Kind.String()
}

// Validate checks that the type can be generated.
func (t Type) Validate() error {
	switch t.Kind {
	case KindInt:
		if t.Bits < 1 || t.Bits > MaxBits {
			return errors.UnsupportedParameterType("", t.String())
		}
	case KindBool, KindAddress, KindSlice:
	default:
		return errors.UnsupportedParameterType("", t.String())
	}
	return nil
}

var intTypeRe = regexp.MustCompile(`^(u?)int(\d*)$`)

// ParseType parses a declared parameter type: int, intN, uintN, bool,
// address, slice, coins.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)

	if m := intTypeRe.FindStringSubmatch(s); m != nil {
		bits := MaxBits
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return Type{}, errors.UnsupportedParameterType("", s)
			}
			bits = n
		}
		t := Int(bits, m[1] != "u")
		if err := t.Validate(); err != nil {
			return Type{}, err
		}
		return t, nil
	}

	switch strings.ToLower(s) {
	case "bool":
		return Bool(), nil
	case "address":
		return Address(), nil
	case "slice":
		return Slice(), nil
	case "coins", "grams":
		return Int(CoinsBits, false), nil
	}

	return Type{}, errors.UnsupportedParameterType("", s)
}

// Param is a named, typed parameter of a test entry point.
type Param struct {
	Name string
	Type Type
}

func (p Param) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}
