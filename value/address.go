package value

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"
)

// ExternalMaxBits is the longest payload an external address can carry.
const ExternalMaxBits = 511

// Address classes reported by AddressClass.
const (
	ClassNone     = "none"
	ClassInternal = "internal"
	ClassExternal = "external"
)

// StdAddress builds an internal address on the given workchain.
func StdAddress(workchain int32, hash []byte) *address.Address {
	return address.NewAddress(0, byte(workchain), hash)
}

// ExternalAddress builds an external address whose payload is the
// bits-long big-endian encoding of payload.
func ExternalAddress(bits uint, payload *big.Int) *address.Address {
	if bits == 0 {
		return address.NewAddressExt(0, 0, nil)
	}
	size := (bits + 7) / 8
	shifted := new(big.Int).Lsh(payload, size*8-bits)
	data := shifted.FillBytes(make([]byte, size))
	return address.NewAddressExt(0, bits, data)
}

// ExternalPayload returns the payload of an external address as an integer.
func ExternalPayload(a *address.Address) *big.Int {
	data := a.Data()
	v := new(big.Int).SetBytes(data)
	pad := uint(len(data))*8 - a.BitsLen()
	return v.Rsh(v, pad)
}

// AddressCell serializes an address into its own cell.
func AddressCell(a *address.Address) (*cell.Cell, error) {
	b := cell.BeginCell()
	if err := b.StoreAddr(a); err != nil {
		return nil, err
	}
	return b.EndCell(), nil
}

// AddressClass classifies an address as internal, external or none.
func AddressClass(a *address.Address) string {
	if a == nil {
		return ClassNone
	}
	switch a.Type() {
	case address.StdAddress, address.VarAddress:
		return ClassInternal
	case address.ExtAddress:
		return ClassExternal
	}
	return ClassNone
}

// FormatAddress renders internal addresses in user-friendly form, external
// addresses as External<bits:payload> and the none address as null.
func FormatAddress(a *address.Address) string {
	switch AddressClass(a) {
	case ClassInternal:
		return a.String()
	case ClassExternal:
		return fmt.Sprintf("External<%d:%s>", a.BitsLen(), ExternalPayload(a))
	}
	return "null"
}
