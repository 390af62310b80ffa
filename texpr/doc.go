// Package texpr defines the symbolic expression tree, index and plan
// types shared by every compilation pass of tnplan.
//
// 🚀 What is texpr?
//
//	The data model of the planar contraction compiler:
//	  • Index       — a named or positional tensor leg
//	  • Node        — closed union of expression shapes (TensorTerm,
//	    ScalarTerm, Sum, Product, Assign, Conj, OpaqueBlock,
//	    AnnotatedBlock)
//	  • TensorTerm  — an object reference with ordered left (outgoing)
//	    and right (incoming) leg lists and an adjoint flag
//	  • Plan        — the compiled artifact: an arena of temporaries,
//	    an ordered step list, and the lowered final expression
//
// ✨ Key conventions:
//
//   - Expression trees are immutable inputs: passes return new trees,
//     never mutate in place.
//   - An index occurring exactly twice across the terms of an
//     expression is contracted; occurring once it is free and must
//     appear on the enclosing assignment's left-hand side.
//   - A term's natural boundary order is Left ++ reverse(Right); two
//     boundary orders are equivalent up to cyclic rotation, never
//     reversal.
//   - Temporaries are integer handles into Plan.Temps, so plans are
//     self-contained and serializable; handles render as _t0, _t1, …
//   - The reserved identifier "braid" denotes the implicit crossing
//     generator and may never be assigned to.
//
// See contract/ for plan emission and exec/ for plan execution.
package texpr
