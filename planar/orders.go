// This file enumerates the admissible planar boundary orders of an
// expression. The same search drives the contraction decomposer; the
// checker uses it in enumeration-only mode.
//
// Algorithm Outline:
//  1. A term's boundary class is its natural order Left ++ reverse(Right)
//     with self-paired (trace) legs peeled off innermost-first; peeling
//     gets stuck exactly when a trace chord crosses another chord or
//     traps an open leg, in which case the term admits no order.
//  2. A product combines one class of each operand: the legs shared by
//     the operands must form one contiguous run in each class, the two
//     runs must read in mutually reversed order, and the open
//     remainders concatenate into the result class. Disconnected
//     operands (no shared legs) sit side by side at every pair of
//     rotations.
//  3. A sum keeps only the classes admissible for every summand.
//
// Classes are cyclic: each is represented by its canonical (lexico-
// graphically smallest) rotation, and membership tests are rotation-
// insensitive.
//
// Complexity: O(t·n³) for t terms of boundary length n (rotation scans
// dominate); expressions are small, so the enumeration is effectively
// instantaneous.
package planar

import (
	"errors"

	"github.com/katalvlaran/tnplan/texpr"
)

// ErrNonPlanar indicates no admissible index ordering of an expression
// is a cyclic rotation of its required target order.
var ErrNonPlanar = errors.New("planar: expression admits no planar index ordering for its target")

// Orders returns the admissible boundary classes of n, one canonical
// representative per class. An empty result means n admits no planar
// realization; a class of length zero is a fully contracted (scalar)
// boundary.
func Orders(n texpr.Node) [][]texpr.Index {
	switch v := n.(type) {
	case *texpr.TensorTerm:
		seq, ok := ReducedOrder(v)
		if !ok {
			return nil
		}
		return [][]texpr.Index{texpr.CanonicalRotation(seq)}
	case *texpr.ScalarTerm:
		return [][]texpr.Index{nil}
	case *texpr.Product:
		shared := Shared(v.L, v.R)
		return combine(Orders(v.L), Orders(v.R), shared)
	case *texpr.Sum:
		return sumOrders(v)
	default:
		return nil
	}
}

// ReducedOrder returns the term's natural boundary order with trace
// pairs removed, or ok=false when the trace chords cannot be drawn
// without crossing (a chord crosses another, or traps an open leg).
//
// Peeling strategy: a nested innermost trace pair is cyclically
// adjacent; remove it and repeat. If trace legs remain and no pair is
// adjacent, some chord is crossed or blocked.
func ReducedOrder(t *texpr.TensorTerm) ([]texpr.Index, bool) {
	seq := t.Natural()
	counts := make(map[texpr.Index]int, len(seq))
	for _, idx := range seq {
		counts[idx]++
	}
	traced := 0
	for _, c := range counts {
		if c == 2 {
			traced++
		}
	}
	for traced > 0 {
		n := len(seq)
		hit := -1
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if counts[seq[i]] == 2 && seq[i] == seq[j] {
				hit = i
				break
			}
		}
		if hit < 0 {
			return nil, false
		}
		next := make([]texpr.Index, 0, n-2)
		for i, idx := range seq {
			if i == hit || i == (hit+1)%n {
				continue
			}
			next = append(next, idx)
		}
		delete(counts, seq[hit])
		seq = next
		traced--
	}
	return seq, true
}

// Shared returns the indices carried by terms on both sides of
// a product; these are the legs the product contracts.
func Shared(l, r texpr.Node) map[texpr.Index]bool {
	left := make(map[texpr.Index]bool)
	for _, t := range texpr.Terms(l) {
		for _, idx := range t.Indices() {
			left[idx] = true
		}
	}
	shared := make(map[texpr.Index]bool)
	for _, t := range texpr.Terms(r) {
		for _, idx := range t.Indices() {
			if left[idx] {
				shared[idx] = true
			}
		}
	}
	return shared
}

// Split is one concrete planar alignment of a binary product: each
// operand rotated so the contracted run sits at A's suffix and B's
// prefix, reading in mutually reversed order.
type Split struct {
	// OpenA and OpenB are the operands' open legs in boundary order.
	OpenA, OpenB []texpr.Index

	// ConA lists the contracted legs in A's boundary order; B carries
	// them reversed.
	ConA []texpr.Index
}

// Open returns the split's open boundary, OpenA ++ OpenB.
func (s Split) Open() []texpr.Index {
	out := make([]texpr.Index, 0, len(s.OpenA)+len(s.OpenB))
	out = append(out, s.OpenA...)
	out = append(out, s.OpenB...)
	return out
}

// AlignProduct computes the planar splits of one (a-class, b-class)
// combination. Connected operands yield at most one split;
// disconnected operands yield one side-by-side split per pair of
// operand rotations.
func AlignProduct(sa, sb []texpr.Index, shared map[texpr.Index]bool) []Split {
	if len(shared) == 0 {
		if len(sa) == 0 || len(sb) == 0 {
			return []Split{{OpenA: sa, OpenB: sb}}
		}
		// Each operand's circle may be cut anywhere before the two sit
		// side by side, so every rotation pair is a distinct alignment.
		splits := make([]Split, 0, len(sa)*len(sb))
		for j := 0; j < len(sa); j++ {
			ra := texpr.Rotate(sa, j)
			for k := 0; k < len(sb); k++ {
				splits = append(splits, Split{OpenA: ra, OpenB: texpr.Rotate(sb, k)})
			}
		}
		return splits
	}
	openA, conA, ok := cutRun(sa, shared, true)
	if !ok {
		return nil
	}
	openB, conB, ok := cutRun(sb, shared, false)
	if !ok {
		return nil
	}
	// A fully contracted operand is a closed sub-diagram: its cyclic
	// class rotates freely against the other side's run.
	if len(openA) == 0 {
		for k := range conA {
			ra := texpr.Rotate(conA, k)
			if reversedEqual(ra, conB) {
				return []Split{{OpenB: openB, ConA: ra}}
			}
		}
		return nil
	}
	if len(openB) == 0 {
		for k := range conB {
			if reversedEqual(conA, texpr.Rotate(conB, k)) {
				return []Split{{OpenA: openA, ConA: conA}}
			}
		}
		return nil
	}
	// The shared runs must traverse the cut in opposite directions.
	if !reversedEqual(conA, conB) {
		return nil
	}
	return []Split{{OpenA: openA, OpenB: openB, ConA: conA}}
}

// reversedEqual reports whether a reads b backwards.
func reversedEqual(a, b []texpr.Index) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[len(b)-1-i] {
			return false
		}
	}
	return true
}

// cutRun rotates seq so the legs in set form one contiguous run at the
// suffix (suffix=true) or prefix (suffix=false), returning the open
// remainder and the run. ok=false when the set is not cyclically
// contiguous in seq.
func cutRun(seq []texpr.Index, set map[texpr.Index]bool, suffix bool) (open, run []texpr.Index, ok bool) {
	n := len(seq)
	inRun := make([]bool, n)
	size := 0
	for i, idx := range seq {
		if set[idx] {
			inRun[i] = true
			size++
		}
	}
	if size == 0 || size > n {
		return nil, nil, false
	}
	if size == n {
		return nil, append([]texpr.Index(nil), seq...), true
	}
	start := -1
	for i := 0; i < n; i++ {
		if inRun[i] && !inRun[(i-1+n)%n] {
			if start >= 0 {
				// Two disjoint runs: the contracted legs cross.
				return nil, nil, false
			}
			start = i
		}
	}
	for k := 0; k < size; k++ {
		if !inRun[(start+k)%n] {
			return nil, nil, false
		}
	}
	rot := texpr.Rotate(seq, (start+size)%n)
	if suffix {
		return rot[:n-size], rot[n-size:], true
	}
	rot = texpr.Rotate(seq, start)
	return rot[size:], rot[:size], true
}

// combine merges operand classes through AlignProduct, canonicalizing
// and deduplicating the resulting open boundaries.
func combine(ca, cb [][]texpr.Index, shared map[texpr.Index]bool) [][]texpr.Index {
	var out [][]texpr.Index
	for _, sa := range ca {
		for _, sb := range cb {
			for _, split := range AlignProduct(sa, sb, shared) {
				out = appendClass(out, texpr.CanonicalRotation(split.Open()))
			}
		}
	}
	return out
}

// sumOrders intersects the classes of every summand.
func sumOrders(s *texpr.Sum) [][]texpr.Index {
	if len(s.Terms) == 0 {
		return nil
	}
	classes := Orders(s.Terms[0].Term)
	for _, sm := range s.Terms[1:] {
		next := Orders(sm.Term)
		var kept [][]texpr.Index
		for _, c := range classes {
			for _, d := range next {
				if texpr.CyclicEqual(c, d) {
					kept = append(kept, c)
					break
				}
			}
		}
		classes = kept
		if len(classes) == 0 {
			return nil
		}
	}
	return classes
}

// appendClass adds a canonical class unless an equal one is present.
func appendClass(classes [][]texpr.Index, c []texpr.Index) [][]texpr.Index {
	for _, have := range classes {
		if texpr.CyclicEqual(have, c) {
			return classes
		}
	}
	return append(classes, c)
}
