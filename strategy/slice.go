package strategy

import (
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/wippyai/proptest/value"
)

// Slice payload limits.
const (
	MaxSliceBytes = 126
	MaxSliceRefs  = 3
)

// RandomSlice builds a cell of 0..126 random bytes with 0..3 references,
// each reference sized independently the same way.
func RandomSlice(src Source) (*cell.Cell, error) {
	b, err := randomLeaf(src)
	if err != nil {
		return nil, err
	}

	refs := src.IntN(MaxSliceRefs + 1)
	for i := 0; i < refs; i++ {
		ref, err := randomLeaf(src)
		if err != nil {
			return nil, err
		}
		if err := b.StoreRef(ref.EndCell()); err != nil {
			return nil, err
		}
	}
	return b.EndCell(), nil
}

func randomLeaf(src Source) (*cell.Builder, error) {
	size := src.IntN(MaxSliceBytes + 1)
	b := cell.BeginCell()
	if err := b.StoreSlice(randomBytes(src, size), uint(size*8)); err != nil {
		return nil, err
	}
	return b, nil
}

// Slice draws an opaque slice candidate. Slices that a schema declared as
// addresses draw from the address domain instead.
func Slice(src Source, p value.Param, fixtures []value.Value) (value.Value, error) {
	if len(fixtures) > 0 {
		return sample(src, p, fixtures)
	}

	if p.Type.AddressLike {
		addr := RandomAddress(src)
		if pickEdge(src) {
			edges := EdgeSliceAddresses()
			addr = edges[src.IntN(len(edges))]
		}
		c, err := addressCell(p, addr)
		if err != nil {
			return value.Value{}, err
		}
		return value.SliceValue(c), nil
	}

	c, err := RandomSlice(src)
	if err != nil {
		return value.Value{}, wrapGenerate(p, "build slice", err)
	}
	return value.SliceValue(c), nil
}
