// Package tnplan compiles symbolic tensor-network diagram expressions
// into ordered plans of elementary binary contractions.
//
// 🚀 What is tnplan?
//
//	A planar contraction compiler: it takes a named-index diagram
//	expression (tensors multiplied, traced, summed, assigned) and
//	lowers it into a flat sequence of two-operand contractions that a
//	numeric tensor backend can execute, while
//		• verifying the diagram is realizable without leg crossings
//		  (required when the braiding is not symmetric, e.g. anyons)
//		• synthesizing and space-resolving explicit crossing tensors
//		  where crossings are unavoidable
//		• preserving cyclic leg ordering at every intermediate step
//
// ✨ Why choose tnplan?
//
//   - Deterministic – identical input trees always yield identical plans
//   - Purely functional – immutable expression trees, no shared state
//   - Self-contained plans – temporaries are integer handles in an arena,
//     so a plan can be serialized and replayed against any backend
//   - Explicit failures – every structural defect of a diagram maps to a
//     named sentinel error with the offending sub-expression attached
//
// The pipeline is organized as one subpackage per pass:
//
//	texpr/     — expression tree, indices, plans, temporaries arena
//	parse/     — surface-syntax parser for the named-index notation
//	normalize/ — conjugation → adjoint-tagged term rewriting
//	bind/      — object discovery, stable aliases, arity checks
//	braid/     — crossing-tensor construction and removal
//	planar/    — admissible-ordering enumeration & planarity checking
//	contract/  — n-ary → binary contraction decomposition (the core)
//	registry/  — YAML-backed object inventories (leg counts & spaces)
//	exec/      — space-level plan executor (reference backend)
//
// Quick ASCII example:
//
//	E[a,b] := A[a;c] * B[c;b]
//
//	    a ──A── c ──B── b      one contraction over c,
//	                           open boundary (a, b) matches E
//
// Compilation order: normalize → bind → braid (construct or remove) →
// planar check → contract. See each package's doc.go for details.
package tnplan
