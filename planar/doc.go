// Package planar decides whether a tensor-network expression is
// realizable without leg crossings.
//
// 🚀 What is planarity here?
//
//	A diagram is planar when it can be drawn in the plane with its
//	boundary legs in a fixed cyclic order and no two legs crossing.
//	Structurally:
//	  • a single term admits exactly the cyclic rotations of its
//	    natural boundary order Left ++ reverse(Right); self-paired
//	    (trace) legs must nest without crossing and then disappear
//	    from the boundary
//	  • a binary product admits an order when each operand can be
//	    rotated so the contracted legs form one contiguous segment,
//	    the two segments run in mutually reversed order, and the open
//	    remainders concatenate
//	  • a sum admits only the orders admissible for every summand
//
// Orders enumerates the admissible cyclic classes of an expression
// (one canonical representative each). Check verifies, per assignment,
// that some admissible class of the right-hand side is a cyclic
// rotation of the left-hand side's declared order, recursing through
// opaque blocks and skipping annotated ones.
//
// Errors:
//
//	ErrNonPlanar - no admissible ordering matches the required target.
package planar
