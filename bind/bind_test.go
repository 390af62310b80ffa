package bind_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/tnplan/bind"
	"github.com/katalvlaran/tnplan/texpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInv answers arity queries from a fixed table; every leg lives in
// the same space.
type fakeInv map[string][2]int

func (f fakeInv) Arity(obj string) (outs, ins int, err error) {
	a, ok := f[obj]
	if !ok {
		return 0, 0, fmt.Errorf("no such object %s", obj)
	}
	return a[0], a[1], nil
}

func (f fakeInv) LegSpace(obj string, leg int) (texpr.Space, error) {
	return texpr.Space{Name: "V"}, nil
}

func syms(names ...string) []texpr.Index {
	out := make([]texpr.Index, len(names))
	for i, n := range names {
		out[i] = texpr.Sym(n)
	}
	return out
}

func term(name string, left, right []texpr.Index) *texpr.TensorTerm {
	return &texpr.TensorTerm{Obj: texpr.Named(name), Left: left, Right: right}
}

// TestBind_AliasesFirstAppearance checks stable o0, o1, ... aliasing
// and that repeated references share one binding.
func TestBind_AliasesFirstAppearance(t *testing.T) {
	// E[a,b] := A[a;c] * B[c;b]
	assign := &texpr.Assign{
		LHS: term("E", syms("a", "b"), nil),
		RHS: &texpr.Product{
			L: term("A", syms("a"), syms("c")),
			R: term("B", syms("c"), syms("b")),
		},
		Define: true,
	}

	res, err := bind.Bind(assign, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"E", "A", "B"}, res.Objects)
	require.Len(t, res.Bindings, 3)
	assert.Equal(t, texpr.Binding{Alias: "o0", Object: "E"}, res.Bindings[0])
	assert.Equal(t, texpr.Binding{Alias: "o1", Object: "A"}, res.Bindings[1])
	assert.Equal(t, texpr.Binding{Alias: "o2", Object: "B"}, res.Bindings[2])

	out := res.Node.(*texpr.Assign)
	assert.Equal(t, "o0", out.LHS.Obj.Name)
	assert.Equal(t, "o1", out.RHS.(*texpr.Product).L.(*texpr.TensorTerm).Obj.Name)

	// Original tree keeps its surface names.
	assert.Equal(t, "E", assign.LHS.Obj.Name, "input must not be rewritten in place")
}

// TestBind_DefineTargetExemptFromChecks: a := target comes into
// existence, so only pre-existing objects get arity guards.
func TestBind_DefineTargetExemptFromChecks(t *testing.T) {
	assign := &texpr.Assign{
		LHS:    term("E", syms("a", "b"), nil),
		RHS:    &texpr.Product{L: term("A", syms("a"), syms("c")), R: term("B", syms("c"), syms("b"))},
		Define: true,
	}

	res, err := bind.Bind(assign, nil)
	require.NoError(t, err)
	require.Len(t, res.Checks, 2, "only A and B are guarded")
	assert.Equal(t, "A", res.Checks[0].Object)
	assert.Equal(t, 1, res.Checks[0].UsedOut)
	assert.Equal(t, 1, res.Checks[0].UsedIn)
}

// TestBind_MutationTargetChecked: with = the target must pre-exist and
// is guarded like any other object.
func TestBind_MutationTargetChecked(t *testing.T) {
	assign := &texpr.Assign{
		LHS:    term("E", syms("a"), nil),
		RHS:    term("A", syms("a"), nil),
		Define: false,
	}

	res, err := bind.Bind(assign, nil)
	require.NoError(t, err)
	require.Len(t, res.Checks, 2)
	assert.Equal(t, "E", res.Checks[0].Object)
}

// TestBind_EagerArityMismatch: with an inventory present, an occurrence
// using the wrong leg counts fails immediately.
func TestBind_EagerArityMismatch(t *testing.T) {
	// A is a 1;1 map but the diagram writes both its legs as outputs.
	assign := &texpr.Assign{
		LHS:    term("E", syms("a", "b"), nil),
		RHS:    &texpr.Product{L: term("A", syms("a", "c"), nil), R: term("B", syms("c", "b"), nil)},
		Define: true,
	}
	inv := fakeInv{"A": {1, 1}, "B": {2, 0}}

	_, err := bind.Bind(assign, inv)
	assert.ErrorIs(t, err, bind.ErrArityMismatch)
}

// TestBind_AdjointSwapsUsage: an adjoint occurrence uses the object's
// legs from the opposite side.
func TestBind_AdjointSwapsUsage(t *testing.T) {
	adj := term("A", syms("b"), syms("a"))
	adj.Adjoint = true
	assign := &texpr.Assign{
		LHS:    term("E", syms("b"), syms("a")),
		RHS:    adj,
		Define: true,
	}
	inv := fakeInv{"A": {1, 1}}

	res, err := bind.Bind(assign, inv)
	require.NoError(t, err)
	require.Len(t, res.Checks, 1)
	assert.Equal(t, 1, res.Checks[0].UsedOut)
	assert.Equal(t, 1, res.Checks[0].UsedIn)
}

// TestBind_ReservedTarget rejects assigning to the crossing generator.
func TestBind_ReservedTarget(t *testing.T) {
	assign := &texpr.Assign{
		LHS:    term(texpr.ReservedBraid, syms("p", "q"), syms("r", "s")),
		RHS:    term("A", syms("p", "q"), syms("r", "s")),
		Define: true,
	}

	_, err := bind.Bind(assign, nil)
	assert.ErrorIs(t, err, bind.ErrReservedName)
}

// TestBind_PlaceholderNotBound: the crossing generator is not an
// object; it keeps its reserved name and gets no alias or check.
func TestBind_PlaceholderNotBound(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("F", syms("p", "q"), nil),
		RHS: &texpr.Product{
			L: term(texpr.ReservedBraid, syms("p", "q"), syms("r", "s")),
			R: term("G", syms("r", "s"), nil),
		},
		Define: true,
	}

	res, err := bind.Bind(assign, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"F", "G"}, res.Objects)

	ph := res.Node.(*texpr.Assign).RHS.(*texpr.Product).L.(*texpr.TensorTerm)
	assert.True(t, ph.IsBraid(), "placeholder keeps the reserved name")
}
