package exec

import (
	"fmt"

	"github.com/katalvlaran/tnplan/texpr"
)

// Option configures a Runner.
type Option func(*Runner)

// WithBackend replaces the binary contraction primitive.
func WithBackend(b Backend) Option {
	return func(r *Runner) {
		if b != nil {
			r.backend = b
		}
	}
}

// WithCrossings replaces the crossing-tensor constructor.
func WithCrossings(c Crossings) Option {
	return func(r *Runner) {
		if c != nil {
			r.crossings = c
		}
	}
}

// Runner replays plans against an environment of concrete objects.
// The zero configuration uses the space-level reference primitives.
type Runner struct {
	backend   Backend
	crossings Crossings
}

// NewRunner returns a Runner with the given options applied.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{backend: SpaceBackend{}, crossings: SpaceCrossings{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes p against env: arity checks, every pre-statement in
// order, then the final expression. It returns the final object.
func (r *Runner) Run(p *texpr.Plan, env Env) (Object, error) {
	st := &runState{
		runner:  r,
		env:     env,
		aliases: make(map[string]string, len(p.Bindings)),
		temps:   make([]Object, len(p.Temps)),
		defined: make([]bool, len(p.Temps)),
	}
	for _, b := range p.Bindings {
		st.aliases[b.Alias] = b.Object
	}
	for _, c := range p.Checks {
		obj, ok := env[c.Object]
		if !ok {
			return Object{}, fmt.Errorf("%w: %s", ErrUnknownObject, c.Object)
		}
		outs, ins := obj.Arity()
		if outs != c.UsedOut || ins != c.UsedIn {
			return Object{}, fmt.Errorf("%w: %s has %d;%d legs, diagram used %d;%d",
				ErrArityCheck, c.Object, outs, ins, c.UsedOut, c.UsedIn)
		}
	}
	for _, step := range p.Steps {
		if err := st.step(step); err != nil {
			return Object{}, err
		}
	}
	return st.final(p.Final)
}

// runState is the per-run temporary arena and name resolution state.
type runState struct {
	runner  *Runner
	env     Env
	aliases map[string]string
	temps   []Object
	defined []bool
}

func (st *runState) setTemp(id texpr.TempID, o Object) error {
	if int(id) >= len(st.temps) {
		return fmt.Errorf("%w: temporary _t%d not in arena", ErrBadPlan, int(id))
	}
	o.Name = fmt.Sprintf("_t%d", int(id))
	st.temps[int(id)] = o
	st.defined[int(id)] = true
	return nil
}

// resolve returns the occurrence-level object for a term: adjoint
// occurrences present the object's opposite-side legs, dualized.
func (st *runState) resolve(t *texpr.TensorTerm) (Object, error) {
	var obj Object
	if t.Obj.IsTemp() {
		id := int(t.Obj.Temp)
		if id >= len(st.temps) || !st.defined[id] {
			return Object{}, fmt.Errorf("%w: temporary %s used before definition", ErrBadPlan, t.Obj)
		}
		obj = st.temps[id]
	} else {
		name := t.Obj.Name
		if surface, ok := st.aliases[name]; ok {
			name = surface
		}
		var ok bool
		obj, ok = st.env[name]
		if !ok {
			return Object{}, fmt.Errorf("%w: %s", ErrUnknownObject, name)
		}
	}
	if t.Adjoint {
		obj = occurrenceAdjoint(obj)
	}
	if len(t.Indices()) != len(obj.Legs()) {
		return Object{}, fmt.Errorf("%w: %s has %d legs, occurrence %s uses %d",
			ErrArityCheck, obj.Name, len(obj.Legs()), t, len(t.Indices()))
	}
	return obj, nil
}

func occurrenceAdjoint(o Object) Object {
	return Object{Name: o.Name + "'", Outs: dualAll(o.Ins), Ins: dualAll(o.Outs)}
}

func dualAll(spaces []texpr.Space) []texpr.Space {
	out := make([]texpr.Space, len(spaces))
	for i, s := range spaces {
		out[i] = s.DualOf()
	}
	return out
}

// legSpaces zips a term's indices with its occurrence leg spaces.
func legSpaces(t *texpr.TensorTerm, o Object) map[texpr.Index]texpr.Space {
	m := make(map[texpr.Index]texpr.Space)
	for i, idx := range t.Indices() {
		m[idx] = o.Legs()[i]
	}
	return m
}

func (st *runState) step(s texpr.Step) error {
	switch v := s.(type) {
	case *texpr.BraidStep:
		obj, err := st.runner.crossings.New(v.Over, v.Under)
		if err != nil {
			return err
		}
		return st.setTemp(v.Dst, obj)
	case *texpr.TraceStep:
		src, err := st.resolve(v.Src)
		if err != nil {
			return err
		}
		legs := src.Legs()
		for _, p := range v.Pairs {
			if p[0] >= len(legs) || p[1] >= len(legs) {
				return fmt.Errorf("%w: trace pair %v out of range on %s", ErrBadPlan, p, src.Name)
			}
			if legs[p[0]] != legs[p[1]] {
				return fmt.Errorf("%w: trace on %s pairs %s with %s",
					ErrSpaceMismatch, src.Name, legs[p[0]], legs[p[1]])
			}
		}
		out, err := selectSpaces(v.Src, src, v.Output)
		if err != nil {
			return err
		}
		return st.setTemp(v.Dst, Object{Outs: out})
	case *texpr.ScaleStep:
		src, err := st.resolve(v.Src)
		if err != nil {
			return err
		}
		out, err := selectSpaces(v.Src, src, v.Output)
		if err != nil {
			return err
		}
		return st.setTemp(v.Dst, Object{Outs: out})
	case *texpr.ContractStep:
		a, err := st.resolve(v.A)
		if err != nil {
			return err
		}
		b, err := st.resolve(v.B)
		if err != nil {
			return err
		}
		refs, err := outputRefs(v.A, v.B, v.Output)
		if err != nil {
			return err
		}
		obj, err := st.runner.backend.Contract(a, b, v.Pairs, refs)
		if err != nil {
			return err
		}
		return st.setTemp(v.Dst, obj)
	default:
		return fmt.Errorf("%w: unknown step %s", ErrBadPlan, s)
	}
}

// selectSpaces picks the occurrence spaces of out's indices on a term.
func selectSpaces(t *texpr.TensorTerm, o Object, out []texpr.Index) ([]texpr.Space, error) {
	m := legSpaces(t, o)
	spaces := make([]texpr.Space, len(out))
	for i, idx := range out {
		s, ok := m[idx]
		if !ok {
			return nil, fmt.Errorf("%w: output leg %s missing on %s", ErrBadPlan, idx, t)
		}
		spaces[i] = s
	}
	return spaces, nil
}

// outputRefs maps each output index to the operand leg carrying it.
func outputRefs(a, b *texpr.TensorTerm, out []texpr.Index) ([]LegRef, error) {
	refs := make([]LegRef, len(out))
	for i, idx := range out {
		if _, pos, ok := texpr.Locate(idx, []*texpr.TensorTerm{a}); ok {
			refs[i] = LegRef{Operand: 0, Leg: pos}
			continue
		}
		if _, pos, ok := texpr.Locate(idx, []*texpr.TensorTerm{b}); ok {
			refs[i] = LegRef{Operand: 1, Leg: pos}
			continue
		}
		return nil, fmt.Errorf("%w: output leg %s on neither operand", ErrBadPlan, idx)
	}
	return refs, nil
}

// final evaluates the lowered top-level expression.
func (st *runState) final(n texpr.Node) (Object, error) {
	if a, ok := n.(*texpr.Assign); ok {
		return st.eval(a.RHS, a.LHS.Natural())
	}
	return st.eval(n, nil)
}

// eval evaluates a lowered expression whose tensor factors are all
// available terms, producing an object with legs in target order.
func (st *runState) eval(n texpr.Node, target []texpr.Index) (Object, error) {
	switch v := n.(type) {
	case *texpr.ScalarTerm:
		return Object{Name: v.Text}, nil
	case *texpr.TensorTerm:
		obj, err := st.resolve(v)
		if err != nil {
			return Object{}, err
		}
		if target == nil {
			return obj, nil
		}
		out, err := selectSpaces(v, obj, target)
		if err != nil {
			return Object{}, err
		}
		return Object{Name: obj.Name, Outs: out}, nil
	case *texpr.Product:
		return st.evalProduct(v, target)
	case *texpr.Sum:
		var result Object
		for i, s := range v.Terms {
			o, err := st.eval(s.Term, target)
			if err != nil {
				return Object{}, err
			}
			if i == 0 {
				result = o
				continue
			}
			if !sameLegs(result, o) {
				return Object{}, fmt.Errorf("%w: summand %s has leg spaces incompatible with the sum",
					ErrSpaceMismatch, s.Term)
			}
		}
		return result, nil
	default:
		return Object{}, fmt.Errorf("%w: final expression %s", ErrBadPlan, n)
	}
}

func (st *runState) evalProduct(v *texpr.Product, target []texpr.Index) (Object, error) {
	terms := texpr.Terms(v)
	switch len(terms) {
	case 0:
		return Object{Name: v.String()}, nil
	case 1:
		return st.eval(terms[0], target)
	case 2:
		a, b := terms[0], terms[1]
		oa, err := st.resolve(a)
		if err != nil {
			return Object{}, err
		}
		ob, err := st.resolve(b)
		if err != nil {
			return Object{}, err
		}
		pairs := sharedPairs(a, b)
		if target == nil {
			target = openOrder(a, b)
		}
		refs, err := outputRefs(a, b, target)
		if err != nil {
			return Object{}, err
		}
		return st.runner.backend.Contract(oa, ob, pairs, refs)
	default:
		// The decomposer never leaves more than one contraction in
		// the final expression.
		return Object{}, fmt.Errorf("%w: final product with %d factors", ErrBadPlan, len(terms))
	}
}

// sharedPairs lists matched leg positions of the indices carried by
// both terms.
func sharedPairs(a, b *texpr.TensorTerm) [][2]int {
	var pairs [][2]int
	for pa, idx := range a.Indices() {
		if _, pb, ok := texpr.Locate(idx, []*texpr.TensorTerm{b}); ok {
			pairs = append(pairs, [2]int{pa, pb})
		}
	}
	return pairs
}

// openOrder concatenates the operands' uncontracted legs in term
// order.
func openOrder(a, b *texpr.TensorTerm) []texpr.Index {
	shared := make(map[texpr.Index]bool)
	for _, p := range sharedPairs(a, b) {
		shared[a.Indices()[p[0]]] = true
	}
	var out []texpr.Index
	for _, idx := range a.Natural() {
		if !shared[idx] {
			out = append(out, idx)
		}
	}
	for _, idx := range b.Natural() {
		if !shared[idx] {
			out = append(out, idx)
		}
	}
	return out
}

func sameLegs(a, b Object) bool {
	la, lb := a.Legs(), b.Legs()
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if la[i] != lb[i] {
			return false
		}
	}
	return true
}
