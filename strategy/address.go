package strategy

import (
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/wippyai/proptest/value"
)

// EdgeAddresses is the edge set of the address domain: the none address and
// the two extreme external encodings.
func EdgeAddresses() []*address.Address {
	maxPayload := new(big.Int).Lsh(big.NewInt(1), value.ExternalMaxBits)
	maxPayload.Sub(maxPayload, big.NewInt(1))

	return []*address.Address{
		address.NewAddressNone(),
		value.ExternalAddress(0, new(big.Int)),
		value.ExternalAddress(value.ExternalMaxBits, maxPayload),
	}
}

// EdgeSliceAddresses is the edge set of slices declared as addresses:
// the all-zero addresses of the basechain and the masterchain.
func EdgeSliceAddresses() []*address.Address {
	return []*address.Address{
		value.StdAddress(0, make([]byte, 32)),
		value.StdAddress(-1, make([]byte, 32)),
	}
}

// RandomAddress returns an internal address with a random 32-byte hash on
// workchain 0 or -1.
func RandomAddress(src Source) *address.Address {
	workchain := int32(0)
	if src.IntN(2) == 1 {
		workchain = -1
	}
	return value.StdAddress(workchain, randomBytes(src, 32))
}

// Address draws an address candidate.
func Address(src Source, p value.Param, fixtures []value.Value) (value.Value, error) {
	if len(fixtures) > 0 {
		return sample(src, p, fixtures)
	}

	var addr *address.Address
	if pickEdge(src) {
		edges := EdgeAddresses()
		addr = edges[src.IntN(len(edges))]
	} else {
		addr = RandomAddress(src)
	}

	c, err := addressCell(p, addr)
	if err != nil {
		return value.Value{}, err
	}
	return value.AddressValue(c), nil
}

func addressCell(p value.Param, addr *address.Address) (*cell.Cell, error) {
	c, err := value.AddressCell(addr)
	if err != nil {
		return nil, wrapGenerate(p, "store address", err)
	}
	return c, nil
}
