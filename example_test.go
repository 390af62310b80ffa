package tnplan_test

import (
	"fmt"

	"github.com/katalvlaran/tnplan"
	"github.com/katalvlaran/tnplan/parse"
	"github.com/katalvlaran/tnplan/registry"
)

// ExampleCompile lowers a three-factor chain: the inner pair becomes a
// temporary, the outer contraction stays in the final expression.
func ExampleCompile() {
	doc := []byte(`
objects:
  A: {outs: [V], ins: [V]}
  B: {outs: [V], ins: [V]}
  C: {outs: [V], ins: [V]}
`)
	reg, err := registry.Parse(doc)
	if err != nil {
		panic(err)
	}
	stmt, err := parse.ParseAssign("F[a,d] := A[a;b] * B[b;c] * C[c;d]")
	if err != nil {
		panic(err)
	}

	plan, err := tnplan.Compile(stmt, tnplan.WithInventory(reg))
	if err != nil {
		panic(err)
	}
	fmt.Print(plan)
	// Output:
	// check o1 = A : 1;1
	// check o2 = B : 1;1
	// check o3 = C : 1;1
	// _t0[a,c] = contract(o1[a;b], o2[b;c], [[1 0]])
	// o0[a,d] := _t0[a,c] * o3[c;d]
}

// ExampleCompile_removeBraids elides an explicit crossing by rewiring
// the indices across it.
func ExampleCompile_removeBraids() {
	stmt, err := parse.ParseAssign("F[p,q] := braid[p,q;r,s] * G[r,s]")
	if err != nil {
		panic(err)
	}

	plan, err := tnplan.Compile(stmt, tnplan.WithMode(tnplan.RemoveBraids))
	if err != nil {
		panic(err)
	}
	fmt.Print(plan)
	// Output:
	// check o1 = G : 2;0
	// o0[p,q] := o1[q,p]
}
