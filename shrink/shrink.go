package shrink

import (
	"context"
	"math/big"
)

// Predicate re-runs the program with candidate n and reports whether the
// failure still reproduces.
type Predicate func(ctx context.Context, n *big.Int) (bool, error)

// Result is the outcome of a search.
type Result struct {
	Value      *big.Int // smallest failing value reached
	Executions int      // predicate calls made
	Steps      int      // accepted simplifications
}

// Search bisects from node.Current, which must already be known to fail,
// towards zero. Every probe runs the predicate once; a probe that still fails
// becomes the best value. The search stops when neither step can move.
func Search(ctx context.Context, node Node, fails Predicate) (Result, error) {
	res := Result{Value: new(big.Int).Set(node.Current)}

	node, ok := node.Simplify()
	for ok {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		failed, err := fails(ctx, new(big.Int).Set(node.Current))
		res.Executions++
		if err != nil {
			return res, err
		}

		if failed {
			res.Value = new(big.Int).Set(node.Current)
			res.Steps++
			node, ok = node.Simplify()
		} else {
			node, ok = node.Complicate()
		}
	}

	return res, nil
}
