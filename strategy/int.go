package strategy

import (
	"math/big"

	"github.com/wippyai/proptest/value"
)

// RandomInt returns a uniform integer of the domain. Signed values draw the
// magnitude from bits-1 random bits and apply a fair-coin sign.
func RandomInt(src Source, bits int, signed bool) *big.Int {
	if !signed {
		return randomBits(src, bits)
	}
	v := randomBits(src, bits-1)
	if src.IntN(2) == 0 {
		v.Neg(v)
	}
	return v
}

// EdgeInt picks one value of the edge set uniformly.
func EdgeInt(src Source, bits int, signed bool) *big.Int {
	edges := value.EdgeCases(bits, signed)
	return edges[src.IntN(len(edges))]
}

// Int draws an integer candidate. Fixture values are sampled verbatim and are
// not checked against the declared width.
func Int(src Source, p value.Param, fixtures []value.Value) (value.Value, error) {
	if len(fixtures) > 0 {
		return sample(src, p, fixtures)
	}
	if pickEdge(src) {
		return value.IntValue(EdgeInt(src, p.Type.Bits, p.Type.Signed)), nil
	}
	return value.Value{Kind: value.KindInt, Int: RandomInt(src, p.Type.Bits, p.Type.Signed)}, nil
}
