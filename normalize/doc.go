// Package normalize rewrites explicit conjugation wrappers into
// adjoint-tagged tensor terms, so every later pass sees one canonical
// tensor-term shape.
//
// The rewrite is purely structural and total: conj(A[a;b]) becomes
// A'[b;a] (adjoint flag flipped, left/right leg lists swapped), all
// other node shapes pass through unchanged with their children
// normalized. Applying Normalize twice yields the same tree as once.
package normalize
