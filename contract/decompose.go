package contract

import (
	"fmt"

	"github.com/katalvlaran/tnplan/planar"
	"github.com/katalvlaran/tnplan/texpr"
)

// Decompose lowers one assignment into a contraction plan. The
// right-hand side must be a linear combination of products of general
// tensor terms; the target order is the left-hand side's natural
// boundary Left ++ reverse(Right).
//
// The emitted plan contains one pre-statement per temporary (trace,
// scale, or binary contraction, each with an explicit output leg
// order) followed by the lowered final expression. Decompose never
// returns a partial plan: any structural defect aborts the whole
// compilation.
//
// Complexity: O(k·n³) for k product nodes and boundary length n.
func Decompose(a *texpr.Assign, opts ...Option) (*texpr.Plan, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Plan == nil {
		o.Plan = texpr.NewPlan()
	}
	if err := texpr.VerifyCounts(a.RHS); err != nil {
		return nil, err
	}
	d := &decomposer{plan: o.Plan, onStep: o.OnStep}
	target := a.LHS.Natural()
	lowered, err := d.lower(a.RHS, target, false)
	if err != nil {
		return nil, err
	}
	d.plan.Final = &texpr.Assign{LHS: a.LHS.Clone(), RHS: lowered, Define: a.Define}
	return d.plan, nil
}

// decomposer threads the plan and hooks through the recursion.
type decomposer struct {
	plan   *texpr.Plan
	onStep func(texpr.Step)
}

func (d *decomposer) emit(s texpr.Step) {
	d.plan.Steps = append(d.plan.Steps, s)
	if d.onStep != nil {
		d.onStep(s)
	}
}

// lower decomposes n against target. When needTerm is set the result
// must be a single available term (a reference or a materialized
// temporary), so it can serve as an operand of an enclosing binary
// contraction.
func (d *decomposer) lower(n texpr.Node, target []texpr.Index, needTerm bool) (texpr.Node, error) {
	switch v := n.(type) {
	case *texpr.ScalarTerm:
		return v, nil
	case *texpr.TensorTerm:
		return d.lowerTerm(v, target, needTerm)
	case *texpr.Product:
		return d.lowerProduct(v, target, needTerm)
	case *texpr.Sum:
		if needTerm {
			// Products of sums are outside the accepted shape.
			return nil, fmt.Errorf("%w: sum used as contraction operand in %s", ErrUnrecognized, v)
		}
		out := &texpr.Sum{Terms: make([]texpr.Summand, len(v.Terms))}
		for i, s := range v.Terms {
			t, err := d.lower(s.Term, target, false)
			if err != nil {
				return nil, err
			}
			out.Terms[i] = texpr.Summand{Sign: s.Sign, Term: t}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnrecognized, n)
	}
}

// lowerTerm handles a general tensor term: terms without self-paired
// legs are available as-is; traced terms are materialized so no
// implicit trace survives into the plan.
func (d *decomposer) lowerTerm(t *texpr.TensorTerm, target []texpr.Index, needTerm bool) (texpr.Node, error) {
	reduced, ok := planar.ReducedOrder(t)
	if !ok {
		return nil, fmt.Errorf("%w: trace legs of %s cross", planar.ErrNonPlanar, t)
	}
	if target != nil && !texpr.CyclicEqual(reduced, target) {
		return nil, fmt.Errorf("%w: %s does not reach target order %s", planar.ErrNonPlanar, t, legsString(target))
	}
	if len(reduced) == len(t.Left)+len(t.Right) {
		// No trace legs; the term itself is an available operand.
		return t, nil
	}
	out := target
	if out == nil {
		out = reduced
	}
	id := d.plan.NewTemp(out)
	d.emit(&texpr.TraceStep{
		Dst:    id,
		Src:    t.Clone(),
		Pairs:  tracePairs(t),
		Output: append([]texpr.Index(nil), out...),
	})
	return tempTerm(id, out), nil
}

func (d *decomposer) lowerProduct(v *texpr.Product, target []texpr.Index, needTerm bool) (texpr.Node, error) {
	lScalar := len(texpr.Terms(v.L)) == 0
	rScalar := len(texpr.Terms(v.R)) == 0
	switch {
	case lScalar && rScalar:
		// Pure scalar sub-expression: unchanged.
		return v, nil
	case lScalar:
		return d.lowerScaled(v.L, v.R, target, needTerm, false)
	case rScalar:
		return d.lowerScaled(v.R, v.L, target, needTerm, true)
	}

	shared := planar.Shared(v.L, v.R)
	split, err := d.matchSplit(v, shared, target)
	if err != nil {
		return nil, err
	}
	if target == nil {
		target = split.Open()
	}

	lOp, rOp := v.L, v.R
	// Swap operand roles when the target's leading segment aligns with
	// the right operand's open legs.
	if k := texpr.RotationOf(split.Open(), target); k >= len(split.OpenA) && len(split.OpenB) > 0 {
		lOp, rOp = rOp, lOp
		s := swapSplit(*split)
		split = &s
	}

	targetA := append(append([]texpr.Index(nil), split.OpenA...), split.ConA...)
	targetB := append(reverseLegs(split.ConA), split.OpenB...)
	aLow, err := d.lower(lOp, targetA, true)
	if err != nil {
		return nil, err
	}
	bLow, err := d.lower(rOp, targetB, true)
	if err != nil {
		return nil, err
	}

	aT, aTerm := aLow.(*texpr.TensorTerm)
	bT, bTerm := bLow.(*texpr.TensorTerm)
	if !aTerm || !bTerm {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognized, v)
	}

	// Re-derive the true split from the lowered terms' actual legs;
	// the materialized orders may differ from the suggestion.
	pair, sp, exact, err := chooseOrientation(aT, bT, shared, target)
	if err != nil {
		return nil, err
	}
	if !needTerm && exact {
		return &texpr.Product{L: pair[0], R: pair[1]}, nil
	}
	id := d.plan.NewTemp(target)
	d.emit(&texpr.ContractStep{
		Dst:    id,
		A:      pair[0].Clone(),
		B:      pair[1].Clone(),
		Pairs:  contractionPairs(pair[0], pair[1], sp.ConA),
		Output: append([]texpr.Index(nil), target...),
	})
	return tempTerm(id, target), nil
}

// lowerScaled handles a scalar factor times a tensor sub-expression.
// The raw product is returned when no single term is required;
// otherwise the tensor side is materialized and scaled into a
// temporary.
func (d *decomposer) lowerScaled(coeff, tens texpr.Node, target []texpr.Index, needTerm, coeffRight bool) (texpr.Node, error) {
	low, err := d.lower(tens, target, needTerm)
	if err != nil {
		return nil, err
	}
	if !needTerm {
		if coeffRight {
			return &texpr.Product{L: low, R: coeff}, nil
		}
		return &texpr.Product{L: coeff, R: low}, nil
	}
	t, ok := low.(*texpr.TensorTerm)
	if !ok {
		return nil, fmt.Errorf("%w: scalar factor on %s", ErrUnrecognized, tens)
	}
	out := target
	if out == nil {
		out = t.Natural()
	}
	id := d.plan.NewTemp(out)
	d.emit(&texpr.ScaleStep{
		Dst:    id,
		Coeff:  coeff.String(),
		Src:    t.Clone(),
		Output: append([]texpr.Index(nil), out...),
	})
	return tempTerm(id, out), nil
}

// matchSplit searches the admissible ordering combinations of the two
// operands for the first split whose open boundary is a cyclic
// rotation of the target. Zero matches is a planarity violation.
func (d *decomposer) matchSplit(v *texpr.Product, shared map[texpr.Index]bool, target []texpr.Index) (*planar.Split, error) {
	for _, sa := range planar.Orders(v.L) {
		for _, sb := range planar.Orders(v.R) {
			for _, sp := range planar.AlignProduct(sa, sb, shared) {
				if target == nil || texpr.CyclicEqual(sp.Open(), target) {
					s := sp
					return &s, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("%w: no binary split of %s matches target order %s",
		planar.ErrNonPlanar, v, legsString(target))
}

// chooseOrientation aligns the lowered operand terms against the
// target, preferring an orientation whose open boundary equals the
// target verbatim (exact=true), then any cyclically matching one.
func chooseOrientation(a, b *texpr.TensorTerm, shared map[texpr.Index]bool, target []texpr.Index) ([2]*texpr.TensorTerm, planar.Split, bool, error) {
	pairs := [2][2]*texpr.TensorTerm{{a, b}, {b, a}}
	for _, pair := range pairs {
		for _, sp := range planar.AlignProduct(pair[0].Natural(), pair[1].Natural(), shared) {
			if legsEqual(sp.Open(), target) {
				return pair, sp, true, nil
			}
		}
	}
	for _, pair := range pairs {
		for _, sp := range planar.AlignProduct(pair[0].Natural(), pair[1].Natural(), shared) {
			if texpr.CyclicEqual(sp.Open(), target) {
				return pair, sp, false, nil
			}
		}
	}
	return pairs[0], planar.Split{}, false, fmt.Errorf(
		"%w: lowered operands %s and %s do not realize target order %s",
		planar.ErrNonPlanar, a, b, legsString(target))
}

// contractionPairs maps each contracted index (in A's boundary order)
// to its leg positions in A and B, left legs first.
func contractionPairs(a, b *texpr.TensorTerm, conA []texpr.Index) [][2]int {
	pairs := make([][2]int, 0, len(conA))
	for _, c := range conA {
		_, pa, _ := texpr.Locate(c, []*texpr.TensorTerm{a})
		_, pb, _ := texpr.Locate(c, []*texpr.TensorTerm{b})
		pairs = append(pairs, [2]int{pa, pb})
	}
	return pairs
}

// tracePairs returns the matched leg positions of each self-paired
// index of t, left legs first, right legs offset past the left count.
func tracePairs(t *texpr.TensorTerm) [][2]int {
	first := make(map[texpr.Index]int)
	var pairs [][2]int
	for pos, idx := range t.Indices() {
		if p, seen := first[idx]; seen {
			pairs = append(pairs, [2]int{p, pos})
			continue
		}
		first[idx] = pos
	}
	return pairs
}

func tempTerm(id texpr.TempID, legs []texpr.Index) *texpr.TensorTerm {
	return &texpr.TensorTerm{Obj: texpr.TempRef(id), Left: append([]texpr.Index(nil), legs...)}
}

func swapSplit(sp planar.Split) planar.Split {
	return planar.Split{OpenA: sp.OpenB, OpenB: sp.OpenA, ConA: reverseLegs(sp.ConA)}
}

func reverseLegs(legs []texpr.Index) []texpr.Index {
	out := make([]texpr.Index, len(legs))
	for i, l := range legs {
		out[len(legs)-1-i] = l
	}
	return out
}

func legsEqual(a, b []texpr.Index) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func legsString(legs []texpr.Index) string {
	s := "["
	for i, l := range legs {
		if i > 0 {
			s += ","
		}
		s += l.String()
	}
	return s + "]"
}
