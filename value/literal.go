package value

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/wippyai/proptest/errors"
)

// ParseLiteral parses a textual candidate of type t.
//
//	int      decimal or 0x-prefixed hex, checked against the domain
//	bool     true/false/1/0
//	address  none, raw (0:abcd...) or user-friendly form
//	slice    base64 or 0x-prefixed hex bag of cells; address literals when AddressLike
func ParseLiteral(t Type, s string) (Value, error) {
	s = strings.TrimSpace(s)

	switch t.Kind {
	case KindInt:
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return Value{}, errors.InvalidData(errors.PhaseParse, nil, "invalid integer literal "+s)
		}
		if !t.Contains(n) {
			return Value{}, errors.OutOfRange(errors.PhaseParse, nil, n, t.Domain())
		}
		return Value{Kind: KindInt, Int: n}, nil

	case KindBool:
		switch strings.ToLower(s) {
		case "true", "1":
			return BoolValue(true), nil
		case "false", "0":
			return BoolValue(false), nil
		}
		return Value{}, errors.InvalidData(errors.PhaseParse, nil, "invalid bool literal "+s)

	case KindAddress:
		c, err := parseAddressCell(s)
		if err != nil {
			return Value{}, err
		}
		return AddressValue(c), nil

	case KindSlice:
		if t.AddressLike {
			if c, err := parseAddressCell(s); err == nil {
				return SliceValue(c), nil
			}
		}
		c, err := parseBOC(s)
		if err != nil {
			return Value{}, err
		}
		return SliceValue(c), nil
	}

	return Value{}, errors.UnsupportedParameterType("", t.String())
}

func parseAddressCell(s string) (*cell.Cell, error) {
	var (
		addr *address.Address
		err  error
	)
	switch {
	case s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null"):
		addr = address.NewAddressNone()
	case strings.Contains(s, ":"):
		addr, err = address.ParseRawAddr(s)
	default:
		addr, err = address.ParseAddr(s)
	}
	if err != nil {
		return nil, errors.ParseFailed("address "+s, err)
	}
	return AddressCell(addr)
}

func parseBOC(s string) (*cell.Cell, error) {
	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(s, "0x") {
		raw, err = hex.DecodeString(s[2:])
	} else {
		raw, err = base64.StdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, errors.ParseFailed("bag of cells", err)
	}
	c, err := cell.FromBOC(raw)
	if err != nil {
		return nil, errors.ParseFailed("bag of cells", err)
	}
	return c, nil
}

// Encoded is the portable form of a candidate used by the corpus and JSON reports.
type Encoded struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Encode converts a candidate to its portable form. Cells are stored as base64 BOC.
func (v Value) Encode() Encoded {
	e := Encoded{Kind: v.Kind.String()}
	switch v.Kind {
	case KindInt, KindBool:
		if v.Int != nil {
			e.Value = v.Int.String()
		}
	case KindAddress, KindSlice:
		if v.Cell != nil {
			e.Value = base64.StdEncoding.EncodeToString(v.Cell.ToBOC())
		}
	}
	return e
}

// Decode restores a candidate from its portable form.
func (e Encoded) Decode() (Value, error) {
	kind, ok := ParseKind(e.Kind)
	if !ok {
		return Value{}, errors.InvalidData(errors.PhaseParse, nil, "unknown value kind "+e.Kind)
	}
	switch kind {
	case KindInt, KindBool:
		n, ok := new(big.Int).SetString(e.Value, 10)
		if !ok {
			return Value{}, errors.InvalidData(errors.PhaseParse, nil, "invalid integer "+e.Value)
		}
		return Value{Kind: kind, Int: n}, nil
	default:
		c, err := parseBOC(e.Value)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Cell: c}, nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Encode())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var e Encoded
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	decoded, err := e.Decode()
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
