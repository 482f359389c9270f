package value

import (
	"fmt"
	"math/big"
)

var one = big.NewInt(1)

// Bounds returns the inclusive domain of an integer of the given width:
// [-(2^(bits-1)), 2^(bits-1)-1] when signed, [0, 2^bits-1] otherwise.
func Bounds(bits int, signed bool) (lo, hi *big.Int) {
	if signed {
		half := new(big.Int).Lsh(one, uint(bits-1))
		return new(big.Int).Neg(half), new(big.Int).Sub(half, one)
	}
	return new(big.Int), new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
}

// Min returns the smallest value of an integer type.
func (t Type) Min() *big.Int {
	lo, _ := Bounds(t.Bits, t.Signed)
	return lo
}

// Max returns the largest value of an integer type.
func (t Type) Max() *big.Int {
	_, hi := Bounds(t.Bits, t.Signed)
	return hi
}

// Contains reports whether v lies inside the integer domain of t.
func (t Type) Contains(v *big.Int) bool {
	lo, hi := Bounds(t.Bits, t.Signed)
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}

// Domain renders the integer domain for messages.
func (t Type) Domain() string {
	lo, hi := Bounds(t.Bits, t.Signed)
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// EdgeCases returns the boundary values of an integer domain in a fixed order:
// {0, 1, -1, max, min} when signed, {0, 1, max} otherwise. Values that fall
// outside of very narrow domains and duplicates are dropped.
func EdgeCases(bits int, signed bool) []*big.Int {
	lo, hi := Bounds(bits, signed)

	var candidates []*big.Int
	if signed {
		candidates = []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(-1), hi, lo}
	} else {
		candidates = []*big.Int{big.NewInt(0), big.NewInt(1), hi}
	}

	edges := make([]*big.Int, 0, len(candidates))
	for _, c := range candidates {
		if c.Cmp(lo) < 0 || c.Cmp(hi) > 0 {
			continue
		}
		dup := false
		for _, e := range edges {
			if e.Cmp(c) == 0 {
				dup = true
				break
			}
		}
		if !dup {
			edges = append(edges, c)
		}
	}
	return edges
}
