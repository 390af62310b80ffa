// Package contract lowers a sum-of-products tensor expression into a
// flat contraction plan: an ordered list of pre-statements, each
// defining a temporary by one elementary operation (trace, scale, or
// binary contraction) with an explicit output leg order, terminated by
// the lowered top-level expression.
//
// Algorithm Outline (per assignment):
//  1. The target order is the left-hand side's natural boundary
//     Left ++ reverse(Right).
//  2. Scalars pass through. A single term with self-paired trace legs
//     is materialized as a trace temporary when a concrete order is
//     required by context.
//  3. A binary product searches the admissible planar orderings of its
//     operands (see planar.Orders) for a combination whose open-leg
//     concatenation is a cyclic rotation of the target; the first
//     match wins and a missing match is a planarity violation. Operand
//     roles swap when the target's leading segment aligns with the
//     right operand's open legs. Each operand is then decomposed
//     recursively against its own matched split, the true split is
//     re-derived from the lowered terms' actual leg lists, and the
//     product is returned raw when its natural (or operand-swapped)
//     order already equals the required one, or materialized as a
//     contraction temporary with an explicit leg order otherwise.
//  4. Sums decompose summand-wise against the same target, preserving
//     the sign structure.
//
// Planarity is preserved inductively: the open boundary of every
// emitted step is a cyclic rotation of the order its consumer
// requires, so the whole plan realizes the diagram without crossings.
//
// Errors:
//
//	planar.ErrNonPlanar - no binary split matches the target order.
//	ErrUnrecognized     - a node is neither scalar, tensor term,
//	                      product, nor sum/difference.
package contract
