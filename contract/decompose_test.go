package contract_test

import (
	"testing"

	"github.com/katalvlaran/tnplan/contract"
	"github.com/katalvlaran/tnplan/planar"
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

func term(name string, left, right []texpr.Index) *texpr.TensorTerm {
	return &texpr.TensorTerm{Obj: texpr.Named(name), Left: left, Right: right}
}

func chain(terms ...*texpr.TensorTerm) texpr.Node {
	var n texpr.Node = terms[0]
	for _, t := range terms[1:] {
		n = &texpr.Product{L: n, R: t}
	}
	return n
}

// TestDecompose_SingleContraction leaves an already-binary product in
// the final expression with no pre-statements.
func TestDecompose_SingleContraction(t *testing.T) {
	assign := &texpr.Assign{
		LHS:    term("E", syms("a", "b"), nil),
		RHS:    chain(term("A", syms("a"), syms("c")), term("B", syms("c"), syms("b"))),
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps, "a binary product needs no temporary")
	assert.Equal(t, "E[a,b] := A[a;c] * B[c;b]", plan.Final.String())
}

// TestDecompose_ThreeFactorChain materializes the inner pair into a
// temporary, then contracts it with the remaining factor.
func TestDecompose_ThreeFactorChain(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("F", syms("a", "d"), nil),
		RHS: chain(
			term("A", syms("a"), syms("b")),
			term("B", syms("b"), syms("c")),
			term("C", syms("c"), syms("d")),
		),
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)

	cs, ok := plan.Steps[0].(*texpr.ContractStep)
	require.True(t, ok)
	assert.Equal(t, texpr.TempID(0), cs.Dst)
	assert.Equal(t, "A", cs.A.Obj.Name)
	assert.Equal(t, "B", cs.B.Obj.Name)
	assert.Equal(t, [][2]int{{1, 0}}, cs.Pairs, "b sits on A's right leg and B's left leg")
	assert.Equal(t, syms("a", "c"), cs.Output)

	assert.Equal(t, syms("a", "c"), plan.TempLegs(cs.Dst), "arena order matches the step output")
	assert.Equal(t, "F[a,d] := _t0[a,c] * C[c;d]", plan.Final.String())
}

// TestDecompose_TraceMaterialized: implicit traces never survive into
// the final expression.
func TestDecompose_TraceMaterialized(t *testing.T) {
	assign := &texpr.Assign{
		LHS:    term("T", syms("a"), nil),
		RHS:    term("M", syms("a", "b"), syms("b")),
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)

	ts, ok := plan.Steps[0].(*texpr.TraceStep)
	require.True(t, ok)
	assert.Equal(t, [][2]int{{1, 2}}, ts.Pairs, "left leg 1 pairs with right leg offset 2")
	assert.Equal(t, syms("a"), ts.Output)
	assert.Equal(t, "T[a] := _t0[a]", plan.Final.String())
}

// TestDecompose_SumOfProducts lowers each summand against the shared
// target.
func TestDecompose_SumOfProducts(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("S", syms("a", "b"), nil),
		RHS: &texpr.Sum{Terms: []texpr.Summand{
			{Sign: texpr.Plus, Term: chain(term("A", syms("a"), syms("c")), term("B", syms("c"), syms("b")))},
			{Sign: texpr.Minus, Term: term("D", syms("a", "b"), nil)},
		}},
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
	assert.Equal(t, "S[a,b] := A[a;c] * B[c;b] - D[a,b]", plan.Final.String())
}

// TestDecompose_ScalarCoefficient keeps a top-level scalar factor raw
// but materializes it inside a larger contraction.
func TestDecompose_ScalarCoefficient(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("E", syms("a", "b"), nil),
		RHS: &texpr.Product{
			L: &texpr.ScalarTerm{Text: "2"},
			R: chain(term("A", syms("a"), syms("c")), term("B", syms("c"), syms("b"))),
		},
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps, "top-level coefficient stays in the final expression")
	assert.Equal(t, "E[a,b] := 2 * A[a;c] * B[c;b]", plan.Final.String())
}

// TestDecompose_ScaledOperand: a scalar-times-tensor used as a
// contraction operand becomes a scale temporary.
func TestDecompose_ScaledOperand(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("E", syms("a", "b"), nil),
		RHS: &texpr.Product{
			L: &texpr.Product{
				L: &texpr.ScalarTerm{Text: "2"},
				R: term("A", syms("a"), syms("c")),
			},
			R: term("B", syms("c"), syms("b")),
		},
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)

	ss, ok := plan.Steps[0].(*texpr.ScaleStep)
	require.True(t, ok)
	assert.Equal(t, "2", ss.Coeff)
	assert.Equal(t, "A", ss.Src.Obj.Name)
	assert.Equal(t, "E[a,b] := _t0[a,c] * B[c;b]", plan.Final.String())
}

// TestDecompose_NonPlanar rejects a product whose splits cannot reach
// the target order.
func TestDecompose_NonPlanar(t *testing.T) {
	ring := chain(
		term("A", []texpr.Index{texpr.Pos(1), texpr.Pos(2)}, nil),
		term("B", []texpr.Index{texpr.Pos(2), texpr.Pos(3)}, nil),
		term("C", []texpr.Index{texpr.Pos(3), texpr.Pos(1)}, nil),
	)
	assign := &texpr.Assign{LHS: term("D", syms("x"), nil), RHS: ring, Define: true}

	_, err := contract.Decompose(assign)
	assert.ErrorIs(t, err, planar.ErrNonPlanar)
}

// TestDecompose_SumAsOperand rejects products of sums.
func TestDecompose_SumAsOperand(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("E", syms("a", "b", "c", "d"), nil),
		RHS: &texpr.Product{
			L: &texpr.Sum{Terms: []texpr.Summand{
				{Sign: texpr.Plus, Term: term("A", syms("a", "b"), nil)},
				{Sign: texpr.Plus, Term: term("X", syms("a", "b"), nil)},
			}},
			R: term("B", syms("c", "d"), nil),
		},
		Define: true,
	}

	_, err := contract.Decompose(assign)
	assert.ErrorIs(t, err, contract.ErrUnrecognized)
}

// TestDecompose_DisconnectedRotation: a disconnected product whose
// target rotates the first factor's boundary stays a single product.
func TestDecompose_DisconnectedRotation(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("D", syms("y", "z", "x", "u", "v"), nil),
		RHS: &texpr.Product{
			L: term("A", syms("x", "y", "z"), nil),
			R: term("B", syms("u", "v"), nil),
		},
		Define: true,
	}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
	assert.Equal(t, "D[y,z,x,u,v] := A[x,y,z] * B[u,v]", plan.Final.String())
}

// TestDecompose_IndexOveruse propagates the occurrence-count guard.
func TestDecompose_IndexOveruse(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("E", syms("a"), nil),
		RHS: chain(
			term("A", syms("a"), nil),
			term("B", syms("a"), nil),
			term("C", syms("a"), nil),
		),
		Define: true,
	}

	_, err := contract.Decompose(assign)
	assert.ErrorIs(t, err, texpr.ErrIndexCount)
}

// TestDecompose_IndexConservation: the lowered final expression keeps
// exactly the input's free indices; consumed pairs never resurface.
func TestDecompose_IndexConservation(t *testing.T) {
	rhs := chain(
		term("A", syms("a"), syms("b")),
		term("B", syms("b"), syms("c")),
		term("C", syms("c"), syms("d")),
	)
	assign := &texpr.Assign{LHS: term("F", syms("a", "d"), nil), RHS: rhs, Define: true}

	plan, err := contract.Decompose(assign)
	require.NoError(t, err)

	final := plan.Final.(*texpr.Assign).RHS
	assert.Equal(t, texpr.FreeIndices(rhs), texpr.FreeIndices(final))
	counts := texpr.Census(final)
	assert.Zero(t, counts[texpr.Sym("b")], "b was consumed by the materialized pair")
}

// TestDecompose_OnStep observes every emitted pre-statement in order.
func TestDecompose_OnStep(t *testing.T) {
	assign := &texpr.Assign{
		LHS: term("F", syms("a", "d"), nil),
		RHS: chain(
			term("A", syms("a"), syms("b")),
			term("B", syms("b"), syms("c")),
			term("C", syms("c"), syms("d")),
		),
		Define: true,
	}

	var seen []texpr.Step
	plan, err := contract.Decompose(assign, contract.WithOnStep(func(s texpr.Step) {
		seen = append(seen, s)
	}))
	require.NoError(t, err)
	require.Len(t, seen, len(plan.Steps))
	assert.Same(t, plan.Steps[0], seen[0])
}

// TestDecompose_ExtendsSeededPlan appends to a caller-provided plan.
func TestDecompose_ExtendsSeededPlan(t *testing.T) {
	seed := texpr.NewPlan()
	seed.Bindings = []texpr.Binding{{Alias: "o0", Object: "F"}}

	assign := &texpr.Assign{
		LHS:    term("F", syms("a"), nil),
		RHS:    term("M", syms("a", "b"), syms("b")),
		Define: true,
	}

	plan, err := contract.Decompose(assign, contract.WithPlan(seed))
	require.NoError(t, err)
	assert.Same(t, seed, plan, "the seeded plan is extended in place")
	assert.Len(t, plan.Bindings, 1)
	assert.Len(t, plan.Steps, 1)
}
