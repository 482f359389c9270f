package value

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Value is one concrete candidate for one parameter.
// Integers and booleans carry Int; addresses and slices carry Cell.
type Value struct {
	Int  *big.Int
	Cell *cell.Cell
	Kind Kind
}

// IntValue wraps an integer candidate. The value is copied.
func IntValue(v *big.Int) Value {
	return Value{Kind: KindInt, Int: new(big.Int).Set(v)}
}

// BoolValue encodes a boolean as 0 or 1.
func BoolValue(b bool) Value {
	v := Value{Kind: KindBool, Int: new(big.Int)}
	if b {
		v.Int.SetInt64(1)
	}
	return v
}

// SliceValue wraps an opaque cell candidate.
func SliceValue(c *cell.Cell) Value {
	return Value{Kind: KindSlice, Cell: c}
}

// AddressValue wraps a cell holding a serialized address.
func AddressValue(c *cell.Cell) Value {
	return Value{Kind: KindAddress, Cell: c}
}

// Bool reports the truth value of a boolean or integer candidate.
func (v Value) Bool() bool {
	return v.Int != nil && v.Int.Sign() != 0
}

// Address loads the address stored at the beginning of the cell.
func (v Value) Address() (*address.Address, error) {
	return v.Cell.BeginParse().LoadAddr()
}

// WithInt returns a copy of an integer candidate holding n.
func (v Value) WithInt(n *big.Int) Value {
	out := v
	out.Int = new(big.Int).Set(n)
	return out
}

// Equal compares two candidates by kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt, KindBool:
		if v.Int == nil || o.Int == nil {
			return v.Int == o.Int
		}
		return v.Int.Cmp(o.Int) == 0
	case KindAddress, KindSlice:
		if v.Cell == nil || o.Cell == nil {
			return v.Cell == o.Cell
		}
		return bytes.Equal(v.Cell.Hash(), o.Cell.Hash())
	}
	return false
}

// Render formats a candidate for humans according to the declared type.
func (v Value) Render(t Type) string {
	switch v.Kind {
	case KindInt:
		if t.Kind == KindBool {
			return boolString(v.Bool())
		}
		if v.Int == nil {
			return "null"
		}
		return v.Int.String()
	case KindBool:
		return boolString(v.Bool())
	case KindAddress:
		return renderAddressCell(v.Cell)
	case KindSlice:
		if t.AddressLike {
			return renderAddressCell(v.Cell)
		}
		if v.Cell == nil {
			return "null"
		}
		return strings.TrimSpace(v.Cell.Dump())
	}
	return "unknown"
}

func (v Value) String() string {
	return v.Render(Type{Kind: v.Kind})
}

func renderAddressCell(c *cell.Cell) string {
	if c == nil {
		return "null"
	}
	addr, err := c.BeginParse().LoadAddr()
	if err != nil {
		return strings.TrimSpace(c.Dump())
	}
	return FormatAddress(addr)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
