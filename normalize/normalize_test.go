package normalize_test

import (
	"testing"

	"github.com/katalvlaran/tnplan/normalize"
	"github.com/katalvlaran/tnplan/texpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syms(names ...string) []texpr.Index {
	out := make([]texpr.Index, len(names))
	for i, n := range names {
		out[i] = texpr.Sym(n)
	}
	return out
}

// TestNormalize_ConjOfReference rewrites conj(A[a;b]) into the
// adjoint-tagged term with swapped leg lists.
func TestNormalize_ConjOfReference(t *testing.T) {
	a := &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("b")}

	got := normalize.Normalize(&texpr.Conj{X: a})
	term, ok := got.(*texpr.TensorTerm)
	require.True(t, ok, "conjugated reference must become a term")
	assert.True(t, term.Adjoint)
	assert.Equal(t, syms("b"), term.Left, "leg lists swap sides")
	assert.Equal(t, syms("a"), term.Right)
}

// TestNormalize_DoubleConj cancels: conj(conj(A)) is A again.
func TestNormalize_DoubleConj(t *testing.T) {
	a := &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("b")}

	got := normalize.Normalize(&texpr.Conj{X: &texpr.Conj{X: a}})
	term := got.(*texpr.TensorTerm)
	assert.False(t, term.Adjoint)
	assert.Equal(t, syms("a"), term.Left)
	assert.Equal(t, syms("b"), term.Right)
}

// TestNormalize_ConjOfComposite keeps the conjugation wrapped when the
// operand is not a single reference.
func TestNormalize_ConjOfComposite(t *testing.T) {
	p := &texpr.Product{
		L: &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("c")},
		R: &texpr.TensorTerm{Obj: texpr.Named("B"), Left: syms("c"), Right: syms("b")},
	}

	got := normalize.Normalize(&texpr.Conj{X: p})
	_, stillConj := got.(*texpr.Conj)
	assert.True(t, stillConj, "conjugation of a product is left for the backend")
}

// TestNormalize_RecursesAndPreservesInput verifies deep rewriting
// through assignment and sum, without mutating the input tree.
func TestNormalize_RecursesAndPreservesInput(t *testing.T) {
	a := &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("b")}
	assign := &texpr.Assign{
		LHS: &texpr.TensorTerm{Obj: texpr.Named("E"), Left: syms("b"), Right: syms("a")},
		RHS: &texpr.Sum{Terms: []texpr.Summand{
			{Sign: texpr.Plus, Term: &texpr.Conj{X: a}},
		}},
		Define: true,
	}

	got := normalize.Normalize(assign).(*texpr.Assign)
	sum := got.RHS.(*texpr.Sum)
	term := sum.Terms[0].Term.(*texpr.TensorTerm)
	assert.True(t, term.Adjoint)

	// The input tree is untouched.
	_, stillConj := assign.RHS.(*texpr.Sum).Terms[0].Term.(*texpr.Conj)
	assert.True(t, stillConj, "input must not be rewritten in place")
}

// TestNormalize_Idempotent applies the pass twice and compares renders.
func TestNormalize_Idempotent(t *testing.T) {
	a := &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("b"), Adjoint: true}
	n := &texpr.Product{L: &texpr.Conj{X: a}, R: &texpr.ScalarTerm{Text: "2"}}

	once := normalize.Normalize(n)
	twice := normalize.Normalize(once)
	assert.Equal(t, once.String(), twice.String())
}

// TestNormalize_SkipsAnnotated leaves @ignore regions untouched.
func TestNormalize_SkipsAnnotated(t *testing.T) {
	inner := &texpr.Conj{X: &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a")}}
	blk := &texpr.AnnotatedBlock{Body: inner}

	got := normalize.Normalize(blk)
	assert.Same(t, texpr.Node(blk), got, "annotated blocks pass through unchanged")
}
