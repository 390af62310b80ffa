// Package bind discovers the distinct tensor objects an expression
// references, binds them to stable local aliases, and emits arity
// checks against each object's actual leg counts.
//
// A reference and its adjoint collapse to one object: A[a;b] and
// A'[b;a] bind the same alias. Aliases are assigned by first
// appearance (o0, o1, …), so identical input trees always produce
// identical bindings.
//
// One arity check is emitted per pre-existing object (objects
// introduced by a `:=` definition are exempt); the executor compares
// the object's actual outgoing/incoming leg counts against the counts
// the diagram used. When an Inventory is available at compile time the
// same comparison runs eagerly and a mismatch aborts compilation.
//
// Errors:
//
//	ErrArityMismatch - leg counts used in the diagram disagree with the
//	                   object's actual counts.
//	ErrReservedName  - the crossing-generator identifier appears as an
//	                   assignment target.
package bind
