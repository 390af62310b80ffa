// Package braid resolves crossing-tensor placeholders: the reserved
// two-in/two-out terms standing for unavoidable leg crossings in
// diagrams whose braiding is not symmetric.
//
// Two complementary passes exist, selected by compilation mode:
//
//   - Construct synthesizes concrete crossing tensors. For every
//     placeholder it derives the vector space of each leg from a
//     neighboring resolved term carrying the paired index (dualized
//     when that neighbor is an adjoint), propagates spaces along the
//     placeholder's strand pairs to a fixed point, emits one braid
//     construction pre-statement per placeholder, and rewrites the
//     occurrences to reference the constructed objects.
//
//   - Remove eliminates placeholders when the surface syntax forbids
//     explicit crossings: instead of resolving spaces it rewires index
//     identities. Per strand pair the canonical representative is the
//     free (output-bound) index when one exists, otherwise the larger
//     index under the deterministic total order; the identity map is
//     closed transitively, substituted through the expression, and the
//     placeholders are purged. Purging refuses a placeholder whose
//     legs are not mutually transposed, since blind removal would
//     change the expression's value.
//
// The four legs of a placeholder are logically paired into an
// over-strand pair and an under-strand pair; the decomposition depends
// on the placeholder's adjoint flag.
//
// Errors:
//
//	ErrUnresolvedSpace - the fixed-point closure left crossing legs
//	                     without a derivable space.
//	ErrUnsafeRemoval   - a placeholder's legs are not mutually
//	                     transposed, so purging it is unsound.
//	ErrBadPlaceholder  - a placeholder does not carry exactly two
//	                     outgoing and two incoming legs.
package braid
