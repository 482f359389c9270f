package shrink

import (
	"math/big"

	"github.com/wippyai/proptest/value"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Node is the bisection state of one integer parameter.
type Node struct {
	Low     *big.Int
	High    *big.Int
	Current *big.Int
	Min     *big.Int
	Max     *big.Int
	Fixed   bool
}

// NewNode starts a search at a known failing value of the given domain.
func NewNode(start *big.Int, bits int, signed, fixed bool) Node {
	lo, hi := value.Bounds(bits, signed)
	return Node{
		Low:     new(big.Int),
		High:    new(big.Int).Set(start),
		Current: new(big.Int).Set(start),
		Min:     lo,
		Max:     hi,
		Fixed:   fixed,
	}
}

// CanMove reports whether the interval still has room towards zero.
func (n Node) CanMove() bool {
	return !n.Fixed && magnitudeGreater(n.High, n.Low)
}

// Simplify narrows the interval to [low, current] and moves to its midpoint.
// It reports false, returning n unchanged, when no move is possible.
func (n Node) Simplify() (Node, bool) {
	if !n.CanMove() {
		return n, false
	}
	next := n
	next.High = new(big.Int).Set(n.Current)
	return next.reposition(n)
}

// Complicate moves low one step past current, away from zero, and moves to
// the new midpoint. Domain extremes are never stepped past.
func (n Node) Complicate() (Node, bool) {
	if !n.CanMove() {
		return n, false
	}
	next := n
	switch {
	case n.Current.Cmp(n.Min) == 0 || n.Current.Cmp(n.Max) == 0:
		next.Low = new(big.Int).Set(n.Current)
	case n.High.Sign() < 0:
		next.Low = new(big.Int).Sub(n.Current, one)
	default:
		next.Low = new(big.Int).Add(n.Current, one)
	}
	return next.reposition(n)
}

// reposition moves current to low + (high-low)/2, truncating towards low.
func (n Node) reposition(prev Node) (Node, bool) {
	interval := new(big.Int).Sub(n.High, n.Low)
	mid := interval.Quo(interval, two)
	mid.Add(mid, n.Low)

	if mid.Cmp(n.Current) == 0 {
		return prev, false
	}
	n.Current = mid
	return n, true
}

// magnitudeGreater reports whether lhs is further from zero than rhs on the
// side of lhs.
func magnitudeGreater(lhs, rhs *big.Int) bool {
	switch lhs.Sign() {
	case 0:
		return false
	case -1:
		return lhs.Cmp(rhs) < 0
	}
	return lhs.Cmp(rhs) > 0
}
