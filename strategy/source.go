package strategy

import (
	"math/big"
	"math/rand/v2"
	"time"
)

// Source is the random handle threaded through every generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Uint64() uint64
}

// NewSource returns a deterministic source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomSeed returns a seed for runs that did not ask for one.
func RandomSeed() uint64 {
	return rand.Uint64() ^ uint64(time.Now().UnixNano())
}

// Edge weights out of 100 draws.
const (
	EdgeWeight   = 10
	RandomWeight = 90
	totalWeight  = EdgeWeight + RandomWeight
)

func pickEdge(src Source) bool {
	return src.IntN(totalWeight) < EdgeWeight
}

// randomBits returns a uniform integer in [0, 2^n).
func randomBits(src Source, n int) *big.Int {
	v := new(big.Int)
	if n <= 0 {
		return v
	}
	words := (n + 63) / 64
	w := new(big.Int)
	for i := 0; i < words; i++ {
		v.Lsh(v, 64)
		w.SetUint64(src.Uint64())
		v.Or(v, w)
	}
	return v.Rsh(v, uint(words*64-n))
}

func randomBytes(src Source, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i += 8 {
		x := src.Uint64()
		for j := i; j < n && j < i+8; j++ {
			out[j] = byte(x)
			x >>= 8
		}
	}
	return out
}

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
