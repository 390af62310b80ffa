// Package exec replays contraction plans against concrete objects at
// the vector-space level: it implements the binary contraction
// primitive and the crossing-tensor constructor the compiler treats as
// external collaborators, tracking leg spaces instead of numeric data.
//
// The runner executes a plan exactly as a numeric backend would:
// arity checks first, then every pre-statement in order (traces,
// scales, braids, binary contractions), then the lowered final
// expression. Contracted legs must carry matching spaces, so a plan
// that runs to completion proves the diagram composes: the final
// object's leg spaces equal those predicted by composing the input
// objects along the contracted legs.
//
// Adjoint occurrences are resolved before any primitive call: an
// adjoint's occurrence legs are the object's opposite-side legs,
// dualized. Temporaries live in a per-run arena indexed by the plan's
// handles; nothing persists between runs.
//
// Errors:
//
//	ErrUnknownObject - a referenced object is missing from the env.
//	ErrArityCheck    - an arity guard failed at run time.
//	ErrSpaceMismatch - contracted legs carry different spaces.
//	ErrBadPlan       - a step references an undefined temporary or an
//	                   out-of-range leg.
package exec
