package texpr_test

import (
	"testing"

	"github.com/katalvlaran/tnplan/texpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIndex_Order verifies the deterministic total order: positional
// below symbolic, then by magnitude / name.
func TestIndex_Order(t *testing.T) {
	assert.True(t, texpr.Pos(3).Less(texpr.Sym("a")), "positional ranks below symbolic")
	assert.False(t, texpr.Sym("a").Less(texpr.Pos(3)))
	assert.True(t, texpr.Pos(1).Less(texpr.Pos(2)))
	assert.True(t, texpr.Sym("a").Less(texpr.Sym("b")))
	assert.False(t, texpr.Sym("a").Less(texpr.Sym("a")))
}

// TestTensorTerm_Natural checks the boundary convention: left legs in
// order, then right legs reversed.
func TestTensorTerm_Natural(t *testing.T) {
	term := &texpr.TensorTerm{
		Obj:   texpr.Named("A"),
		Left:  syms("a", "b"),
		Right: syms("c", "d"),
	}

	assert.Equal(t, syms("a", "b", "d", "c"), term.Natural())
	assert.Equal(t, syms("a", "b", "c", "d"), term.Indices(), "Indices keeps list order")
	outs, ins := term.Arity()
	assert.Equal(t, 2, outs)
	assert.Equal(t, 2, ins)
}

// TestTensorTerm_Clone ensures clones share nothing with the original.
func TestTensorTerm_Clone(t *testing.T) {
	orig := &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("b")}
	c := orig.Clone()
	c.Left[0] = texpr.Sym("x")
	c.Obj = texpr.Named("Z")

	assert.Equal(t, syms("a"), orig.Left, "clone mutation must not leak")
	assert.Equal(t, "A", orig.Obj.Name)
}

// TestTensorTerm_IsBraid recognizes the reserved crossing generator.
func TestTensorTerm_IsBraid(t *testing.T) {
	ph := &texpr.TensorTerm{Obj: texpr.Named(texpr.ReservedBraid), Left: syms("p", "q"), Right: syms("r", "s")}
	assert.True(t, ph.IsBraid())
	assert.False(t, (&texpr.TensorTerm{Obj: texpr.Named("A")}).IsBraid())

	// A temporary named like the generator is not a placeholder.
	tmp := &texpr.TensorTerm{Obj: texpr.TempRef(0)}
	assert.False(t, tmp.IsBraid())
}

// TestObject_String checks surface vs temporary display names.
func TestObject_String(t *testing.T) {
	assert.Equal(t, "A", texpr.Named("A").String())
	assert.Equal(t, "_t2", texpr.TempRef(2).String())
	assert.True(t, texpr.TempRef(0).IsTemp())
	assert.False(t, texpr.Named("A").IsTemp())
}

// TestSpace_Dual verifies dualization is an involution.
func TestSpace_Dual(t *testing.T) {
	v := texpr.Space{Name: "V"}
	assert.True(t, v.DualOf().Dual)
	assert.Equal(t, v, v.DualOf().DualOf())
}

// TestRender covers the surface rendering of composite nodes.
func TestRender(t *testing.T) {
	a := &texpr.TensorTerm{Obj: texpr.Named("A"), Left: syms("a"), Right: syms("c")}
	b := &texpr.TensorTerm{Obj: texpr.Named("B"), Left: syms("c"), Right: syms("b")}
	e := &texpr.TensorTerm{Obj: texpr.Named("E"), Left: syms("a", "b")}

	assign := &texpr.Assign{LHS: e, RHS: &texpr.Product{L: a, R: b}, Define: true}
	assert.Equal(t, "E[a,b] := A[a;c] * B[c;b]", assign.String())

	adj := a.Clone()
	adj.Adjoint = true
	assert.Equal(t, "A'[a;c]", adj.String())

	sum := &texpr.Sum{Terms: []texpr.Summand{
		{Sign: texpr.Plus, Term: a},
		{Sign: texpr.Minus, Term: b},
	}}
	assert.Equal(t, "A[a;c] - B[c;b]", sum.String())
	assert.Equal(t, "conj(A[a;c])", (&texpr.Conj{X: a}).String())
}

// TestPlan_Temps exercises arena allocation and the declared leg orders.
func TestPlan_Temps(t *testing.T) {
	p := texpr.NewPlan()
	id0 := p.NewTemp(syms("a", "b"))
	id1 := p.NewTemp(nil)

	require.Equal(t, texpr.TempID(0), id0)
	require.Equal(t, texpr.TempID(1), id1)
	assert.Equal(t, syms("a", "b"), p.TempLegs(id0))
	assert.Empty(t, p.TempLegs(id1))
	assert.NotEqual(t, p.ID.String(), texpr.NewPlan().ID.String(), "plans carry distinct diagnostic IDs")
}
