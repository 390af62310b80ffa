package normalize

import "github.com/katalvlaran/tnplan/texpr"

// Normalize returns an equivalent tree in which every conjugation of a
// tensor reference is an adjoint-tagged term with its leg lists
// swapped. The input tree is not modified. Normalize has no failure
// modes and is idempotent.
//
// Complexity: O(size of the tree).
func Normalize(n texpr.Node) texpr.Node {
	switch v := n.(type) {
	case *texpr.Conj:
		inner := Normalize(v.X)
		if t, ok := inner.(*texpr.TensorTerm); ok {
			return adjointOf(t)
		}
		// Conjugation of a non-reference is left for the backend.
		return &texpr.Conj{X: inner}
	case *texpr.TensorTerm, *texpr.ScalarTerm, *texpr.AnnotatedBlock, nil:
		return n
	case *texpr.Sum:
		out := &texpr.Sum{Terms: make([]texpr.Summand, len(v.Terms))}
		for i, s := range v.Terms {
			out.Terms[i] = texpr.Summand{Sign: s.Sign, Term: Normalize(s.Term)}
		}
		return out
	case *texpr.Product:
		return &texpr.Product{L: Normalize(v.L), R: Normalize(v.R)}
	case *texpr.Assign:
		return &texpr.Assign{LHS: v.LHS.Clone(), RHS: Normalize(v.RHS), Define: v.Define}
	case *texpr.OpaqueBlock:
		out := &texpr.OpaqueBlock{Body: make([]texpr.Node, len(v.Body))}
		for i, b := range v.Body {
			out.Body[i] = Normalize(b)
		}
		return out
	default:
		return n
	}
}

// adjointOf returns the adjoint-tagged equivalent of t: the adjoint
// flag flips and the left/right leg lists swap, so the same underlying
// tensor is denoted.
func adjointOf(t *texpr.TensorTerm) *texpr.TensorTerm {
	return &texpr.TensorTerm{
		Obj:     t.Obj,
		Adjoint: !t.Adjoint,
		Left:    append([]texpr.Index(nil), t.Right...),
		Right:   append([]texpr.Index(nil), t.Left...),
	}
}
