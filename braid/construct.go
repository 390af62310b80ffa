package braid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/tnplan/texpr"
)

// Construct synthesizes concrete crossing tensors for every
// placeholder in rhs. lhs, when non-nil, participates in neighbor
// search as an additional resolved term (its legs are the assignment
// target's). One BraidStep is appended to plan per placeholder, in
// appearance order, and the returned tree references the constructed
// objects instead of the reserved name.
//
// Resolution:
//  1. Direct: a leg's space is the paired index's space on a
//     neighboring resolved term, queried from the inventory and
//     dualized when that neighbor is an adjoint.
//  2. Fixed point: an unresolved leg adopts the space of its strand
//     partner once that partner resolves; legs shared between two
//     placeholders resolve through the common index. The loop stops
//     when nothing progresses.
//
// Legs still unresolved after the closure are ErrUnresolvedSpace.
func Construct(rhs texpr.Node, lhs *texpr.TensorTerm, inv texpr.Inventory, plan *texpr.Plan) (texpr.Node, error) {
	phs := placeholders(rhs)
	if len(phs) == 0 {
		return rhs, nil
	}

	neighbors := resolvedNeighbors(rhs, lhs)
	spaces := make(map[texpr.Index]texpr.Space)
	var work []pending

	for _, ph := range phs {
		pairs, err := strandPairs(ph)
		if err != nil {
			return nil, err
		}
		for _, pair := range pairs {
			for side, leg := range pair {
				if _, done := spaces[leg]; done {
					continue
				}
				s, found, err := neighborSpace(leg, neighbors, inv)
				if err != nil {
					return nil, err
				}
				if found {
					spaces[leg] = s
					continue
				}
				work = append(work, pending{leg: leg, partner: pair[1-side]})
			}
		}
	}

	// Fixed-point closure over the co-dependent leg worklist.
	for len(work) > 0 {
		progress := false
		var rest []pending
		for _, p := range work {
			if _, done := spaces[p.leg]; done {
				progress = true
				continue
			}
			if s, ok := spaces[p.partner]; ok {
				spaces[p.leg] = s
				progress = true
				continue
			}
			rest = append(rest, p)
		}
		work = rest
		if !progress {
			break
		}
	}
	if len(work) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedSpace, pendingLegs(work))
	}

	repl := make(map[*texpr.TensorTerm]*texpr.TensorTerm, len(phs))
	for _, ph := range phs {
		pairs, _ := strandPairs(ph)
		// Arena legs follow occurrence order, matching the legs the
		// constructed crossing object carries.
		id := plan.NewTemp(ph.Indices())
		plan.Steps = append(plan.Steps, &texpr.BraidStep{
			Dst:   id,
			Over:  spaces[pairs[0][0]],
			Under: spaces[pairs[1][0]],
		})
		c := ph.Clone()
		c.Obj = texpr.TempRef(id)
		repl[ph] = c
	}
	return replaceTerms(rhs, repl), nil
}

// resolvedNeighbors lists the terms usable for direct space lookup:
// every non-placeholder, non-temporary term of rhs, plus the
// left-hand side.
func resolvedNeighbors(rhs texpr.Node, lhs *texpr.TensorTerm) []*texpr.TensorTerm {
	var out []*texpr.TensorTerm
	for _, t := range texpr.Terms(rhs) {
		if t.IsBraid() || t.Obj.IsTemp() {
			continue
		}
		out = append(out, t)
	}
	if lhs != nil {
		out = append(out, lhs)
	}
	return out
}

// neighborSpace resolves one leg's space from the term carrying its
// paired index. The occurrence leg position maps onto the object's
// own leg numbering (adjoint occurrences swap sides), and the space
// dualizes when the neighbor is an adjoint.
func neighborSpace(leg texpr.Index, neighbors []*texpr.TensorTerm, inv texpr.Inventory) (texpr.Space, bool, error) {
	if inv == nil {
		return texpr.Space{}, false, nil
	}
	ti, pos, ok := texpr.Locate(leg, neighbors)
	if !ok {
		return texpr.Space{}, false, nil
	}
	t := neighbors[ti]
	objLeg := pos
	if t.Adjoint {
		// Occurrence left legs are the object's incoming legs.
		if pos < len(t.Left) {
			objLeg = len(t.Right) + pos
		} else {
			objLeg = pos - len(t.Left)
		}
	}
	s, err := inv.LegSpace(t.Obj.Name, objLeg)
	if err != nil {
		return texpr.Space{}, false, fmt.Errorf("braid: query %s leg %d: %w", t.Obj.Name, objLeg, err)
	}
	if t.Adjoint {
		s = s.DualOf()
	}
	return s, true, nil
}

// pending is one unresolved leg on the fixed-point worklist, keyed
// with its co-dependent strand partner.
type pending struct{ leg, partner texpr.Index }

// pendingLegs renders the unresolved legs deterministically for the
// failure diagnostic.
func pendingLegs(work []pending) string {
	legs := make([]texpr.Index, 0, len(work))
	seen := make(map[texpr.Index]bool)
	for _, p := range work {
		if !seen[p.leg] {
			seen[p.leg] = true
			legs = append(legs, p.leg)
		}
	}
	sort.Slice(legs, func(i, j int) bool { return legs[i].Less(legs[j]) })
	parts := make([]string, len(legs))
	for i, l := range legs {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

// replaceTerms rebuilds n substituting placeholder occurrences by
// pointer identity.
func replaceTerms(n texpr.Node, repl map[*texpr.TensorTerm]*texpr.TensorTerm) texpr.Node {
	switch v := n.(type) {
	case *texpr.TensorTerm:
		if r, hit := repl[v]; hit {
			return r
		}
		return v
	case *texpr.Sum:
		out := &texpr.Sum{Terms: make([]texpr.Summand, len(v.Terms))}
		for i, s := range v.Terms {
			out.Terms[i] = texpr.Summand{Sign: s.Sign, Term: replaceTerms(s.Term, repl)}
		}
		return out
	case *texpr.Product:
		return &texpr.Product{L: replaceTerms(v.L, repl), R: replaceTerms(v.R, repl)}
	case *texpr.Assign:
		return &texpr.Assign{LHS: v.LHS, RHS: replaceTerms(v.RHS, repl), Define: v.Define}
	case *texpr.Conj:
		return &texpr.Conj{X: replaceTerms(v.X, repl)}
	case *texpr.OpaqueBlock:
		out := &texpr.OpaqueBlock{Body: make([]texpr.Node, len(v.Body))}
		for i, b := range v.Body {
			out.Body[i] = replaceTerms(b, repl)
		}
		return out
	default:
		return n
	}
}
