// This file declares the sentinel errors and the strand-pair
// decomposition shared by the construct and remove passes.
package braid

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/tnplan/texpr"
)

var (
	// ErrUnresolvedSpace indicates the fixed-point closure cannot
	// determine the required space for one or more braiding legs.
	ErrUnresolvedSpace = errors.New("braid: cannot determine required space for braiding legs in this expression")

	// ErrUnsafeRemoval indicates a crossing term whose legs are not
	// mutually transposed; removing it would change the expression.
	ErrUnsafeRemoval = errors.New("braid: crossing legs are not mutually transposed, removal would change the expression")

	// ErrBadPlaceholder indicates a crossing placeholder without
	// exactly two outgoing and two incoming legs.
	ErrBadPlaceholder = errors.New("braid: crossing placeholder must have two outgoing and two incoming legs")
)

// strandPairs decomposes a placeholder's four legs into its two
// ordered strand pairs (over first). The decomposition follows the
// adjoint flag: the plain crossing routes the first outgoing leg to
// the second incoming leg, its adjoint undoes that routing.
func strandPairs(t *texpr.TensorTerm) ([2][2]texpr.Index, error) {
	if len(t.Left) != 2 || len(t.Right) != 2 {
		return [2][2]texpr.Index{}, fmt.Errorf("%w: %s", ErrBadPlaceholder, t)
	}
	if t.Adjoint {
		return [2][2]texpr.Index{
			{t.Left[0], t.Right[0]},
			{t.Left[1], t.Right[1]},
		}, nil
	}
	return [2][2]texpr.Index{
		{t.Left[0], t.Right[1]},
		{t.Left[1], t.Right[0]},
	}, nil
}

// placeholders returns the unresolved crossing terms of n in
// appearance order.
func placeholders(n texpr.Node) []*texpr.TensorTerm {
	var out []*texpr.TensorTerm
	for _, t := range texpr.Terms(n) {
		if t.IsBraid() {
			out = append(out, t)
		}
	}
	return out
}

// transposed reports whether the placeholder's legs are mutually
// transposed: for the plain crossing, leg 1 of the outputs equals
// leg 2 of the inputs and vice versa (the adjoint case checks its own
// strand routing). Only such a crossing is a structural no-op.
func transposed(t *texpr.TensorTerm) bool {
	pairs, err := strandPairs(t)
	if err != nil {
		return false
	}
	return pairs[0][0] == pairs[0][1] && pairs[1][0] == pairs[1][1]
}
