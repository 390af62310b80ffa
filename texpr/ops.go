// This file provides the shared structural utilities: cyclic-order
// arithmetic, index census, the index locator, and index substitution.
package texpr

import "fmt"

// Rotate returns seq rotated left by k positions (a fresh slice).
func Rotate(seq []Index, k int) []Index {
	n := len(seq)
	if n == 0 {
		return nil
	}
	k = ((k % n) + n) % n
	out := make([]Index, 0, n)
	out = append(out, seq[k:]...)
	out = append(out, seq[:k]...)
	return out
}

// CyclicEqual reports whether b is a cyclic rotation of a (no reversal).
func CyclicEqual(a, b []Index) bool {
	return RotationOf(a, b) >= 0
}

// RotationOf returns the k such that Rotate(a, k) equals b, or -1 when
// no rotation matches. Two empty sequences rotate onto each other at 0.
func RotationOf(a, b []Index) int {
	if len(a) != len(b) {
		return -1
	}
	if len(a) == 0 {
		return 0
	}
	for k := 0; k < len(a); k++ {
		match := true
		for i := range a {
			if a[(k+i)%len(a)] != b[i] {
				match = false
				break
			}
		}
		if match {
			return k
		}
	}
	return -1
}

// CanonicalRotation returns the lexicographically smallest rotation of
// seq under Index.Less, giving cyclic orders a unique representative.
func CanonicalRotation(seq []Index) []Index {
	if len(seq) == 0 {
		return nil
	}
	best := 0
	for k := 1; k < len(seq); k++ {
		for i := 0; i < len(seq); i++ {
			x, y := seq[(k+i)%len(seq)], seq[(best+i)%len(seq)]
			if x == y {
				continue
			}
			if x.Less(y) {
				best = k
			}
			break
		}
	}
	return Rotate(seq, best)
}

// Terms collects every TensorTerm reachable in n, left to right,
// recursing through sums, products, conjugations and opaque blocks.
// Annotated blocks are excluded from rewriting and contribute nothing.
func Terms(n Node) []*TensorTerm {
	var out []*TensorTerm
	collectTerms(n, &out)
	return out
}

func collectTerms(n Node, out *[]*TensorTerm) {
	switch v := n.(type) {
	case *TensorTerm:
		*out = append(*out, v)
	case *ScalarTerm, *AnnotatedBlock, nil:
	case *Sum:
		for _, s := range v.Terms {
			collectTerms(s.Term, out)
		}
	case *Product:
		collectTerms(v.L, out)
		collectTerms(v.R, out)
	case *Assign:
		collectTerms(v.RHS, out)
	case *Conj:
		collectTerms(v.X, out)
	case *OpaqueBlock:
		for _, b := range v.Body {
			collectTerms(b, out)
		}
	}
}

// Census counts index occurrences across all terms of n. An index with
// count 1 is free, count 2 contracted; higher counts violate the data
// model and are reported by VerifyCounts.
func Census(n Node) map[Index]int {
	counts := make(map[Index]int)
	for _, t := range Terms(n) {
		for _, idx := range t.Indices() {
			counts[idx]++
		}
	}
	return counts
}

// FreeIndices returns the indices occurring exactly once in n, in first
// occurrence order.
func FreeIndices(n Node) []Index {
	counts := Census(n)
	var out []Index
	seen := make(map[Index]bool)
	for _, t := range Terms(n) {
		for _, idx := range t.Indices() {
			if counts[idx] == 1 && !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	return out
}

// VerifyCounts checks the index-occurrence invariant: no index may
// appear more than twice across the terms of one expression.
func VerifyCounts(n Node) error {
	for idx, c := range Census(n) {
		if c > 2 {
			return fmt.Errorf("%w: %s occurs %d times in %s", ErrIndexCount, idx, c, n)
		}
	}
	return nil
}

// Locate returns the position of the term currently carrying idx and
// the leg position within that term. Left legs come first; right legs
// are offset past the left count. ok is false when no term carries idx,
// which callers read as "external or not yet placed".
func Locate(idx Index, terms []*TensorTerm) (term, leg int, ok bool) {
	for ti, t := range terms {
		for li, l := range t.Left {
			if l == idx {
				return ti, li, true
			}
		}
		for ri, r := range t.Right {
			if r == idx {
				return ti, len(t.Left) + ri, true
			}
		}
	}
	return 0, 0, false
}

// Substitute returns a copy of n with every index occurrence rewritten
// through m (identity for unmapped indices). The input tree is not
// modified. Annotated blocks pass through untouched.
func Substitute(n Node, m map[Index]Index) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *TensorTerm:
		c := v.Clone()
		for i, idx := range c.Left {
			if to, hit := m[idx]; hit {
				c.Left[i] = to
			}
		}
		for i, idx := range c.Right {
			if to, hit := m[idx]; hit {
				c.Right[i] = to
			}
		}
		return c
	case *ScalarTerm:
		return v
	case *Sum:
		out := &Sum{Terms: make([]Summand, len(v.Terms))}
		for i, s := range v.Terms {
			out.Terms[i] = Summand{Sign: s.Sign, Term: Substitute(s.Term, m)}
		}
		return out
	case *Product:
		return &Product{L: Substitute(v.L, m), R: Substitute(v.R, m)}
	case *Assign:
		lhs, _ := Substitute(v.LHS, m).(*TensorTerm)
		return &Assign{LHS: lhs, RHS: Substitute(v.RHS, m), Define: v.Define}
	case *Conj:
		return &Conj{X: Substitute(v.X, m)}
	case *OpaqueBlock:
		out := &OpaqueBlock{Body: make([]Node, len(v.Body))}
		for i, b := range v.Body {
			out.Body[i] = Substitute(b, m)
		}
		return out
	case *AnnotatedBlock:
		return v
	default:
		return n
	}
}
