package braid

import (
	"fmt"

	"github.com/katalvlaran/tnplan/texpr"
)

// Remove eliminates crossing placeholders by rewiring index
// identities instead of constructing crossing tensors; it is the pass
// used when the surface syntax forbids explicit crossings. lhs, when
// non-nil, marks which indices are output-bound (free).
//
// Per strand pair the canonical representative is the free index when
// one side is output-bound, otherwise the larger index under the
// deterministic total order, so repeated folding converges. The
// identity map is closed transitively, substituted through the whole
// expression, and the placeholder terms are purged structurally.
func Remove(rhs texpr.Node, lhs *texpr.TensorTerm) (texpr.Node, error) {
	phs := placeholders(rhs)
	if len(phs) == 0 {
		return rhs, nil
	}

	free := make(map[texpr.Index]bool)
	if lhs != nil {
		for _, idx := range lhs.Indices() {
			free[idx] = true
		}
	}

	m := make(map[texpr.Index]texpr.Index)
	for _, ph := range phs {
		pairs, err := strandPairs(ph)
		if err != nil {
			return nil, err
		}
		for _, pair := range pairs {
			x, y := pair[0], pair[1]
			if x == y {
				continue
			}
			rep, other := canonical(x, y, free)
			if prev, taken := m[other]; taken && prev != rep {
				// The leg was already rewired by another placeholder;
				// relate the two representatives instead.
				rep2, other2 := canonical(prev, rep, free)
				m[other2] = rep2
				continue
			}
			m[other] = rep
		}
	}

	m = closeMap(m)
	sub := texpr.Substitute(rhs, m)
	return Purge(sub)
}

// canonical picks the representative of a rewired pair: a free
// (output-bound) index wins, otherwise the larger index under the
// total order.
func canonical(x, y texpr.Index, free map[texpr.Index]bool) (rep, other texpr.Index) {
	switch {
	case free[x] && !free[y]:
		return x, y
	case free[y] && !free[x]:
		return y, x
	case x.Less(y):
		return y, x
	default:
		return x, y
	}
}

// closeMap closes the identity map transitively: a→b, b→c collapses
// to a→c, b→c. Each pass works on an immutable snapshot; the loop
// ends when a pass changes nothing, which is guaranteed within
// len(m) passes because chains only shorten.
func closeMap(m map[texpr.Index]texpr.Index) map[texpr.Index]texpr.Index {
	for range m {
		next := make(map[texpr.Index]texpr.Index, len(m))
		changed := false
		for from, to := range m {
			if onward, chained := m[to]; chained && onward != from {
				next[from] = onward
				changed = true
				continue
			}
			next[from] = to
		}
		m = next
		if !changed {
			break
		}
	}
	return m
}

// Purge removes resolved crossing terms from an expression tree. A
// term is removable only when its strand pairs carry identical
// indices on both legs (mutually transposed); anything else refuses
// with ErrUnsafeRemoval, since blind removal would silently change
// the value of the expression.
func Purge(n texpr.Node) (texpr.Node, error) {
	out, err := purge(n)
	if err != nil {
		return nil, err
	}
	if out == nil {
		// A placeholder with nothing to absorb it cannot be removed.
		return nil, fmt.Errorf("%w: %s has no remaining factor", ErrUnsafeRemoval, n)
	}
	return out, nil
}

// purge returns nil (no error) for a subtree consisting entirely of
// removable crossings; product parents splice the surviving side.
func purge(n texpr.Node) (texpr.Node, error) {
	switch v := n.(type) {
	case *texpr.TensorTerm:
		if !v.IsBraid() {
			return v, nil
		}
		if !transposed(v) {
			return nil, fmt.Errorf("%w: %s", ErrUnsafeRemoval, v)
		}
		return nil, nil
	case *texpr.Product:
		l, err := purge(v.L)
		if err != nil {
			return nil, err
		}
		r, err := purge(v.R)
		if err != nil {
			return nil, err
		}
		switch {
		case l == nil:
			return r, nil
		case r == nil:
			return l, nil
		}
		return &texpr.Product{L: l, R: r}, nil
	case *texpr.Sum:
		out := &texpr.Sum{Terms: make([]texpr.Summand, len(v.Terms))}
		for i, s := range v.Terms {
			t, err := purge(s.Term)
			if err != nil {
				return nil, err
			}
			if t == nil {
				return nil, fmt.Errorf("%w: summand %s has no remaining factor", ErrUnsafeRemoval, s.Term)
			}
			out.Terms[i] = texpr.Summand{Sign: s.Sign, Term: t}
		}
		return out, nil
	case *texpr.Assign:
		rhs, err := Purge(v.RHS)
		if err != nil {
			return nil, err
		}
		return &texpr.Assign{LHS: v.LHS, RHS: rhs, Define: v.Define}, nil
	case *texpr.OpaqueBlock:
		out := &texpr.OpaqueBlock{Body: make([]texpr.Node, len(v.Body))}
		for i, b := range v.Body {
			nb, err := Purge(b)
			if err != nil {
				return nil, err
			}
			out.Body[i] = nb
		}
		return out, nil
	default:
		return n, nil
	}
}
