// This file declares the Contraction Plan: the compiled artifact handed
// to the execution backend. A plan is an ordered sequence of
// pre-statements (trace, binary contraction, braid construction), each
// defining a temporary with an explicit output leg order, terminated by
// the lowered top-level expression.
package texpr

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Binding records one stable local alias introduced by the object
// binder. Adjoint and non-adjoint references collapse to one binding.
type Binding struct {
	// Alias is the stable local name (o0, o1, … by first appearance).
	Alias string

	// Object is the surface name the alias binds.
	Object string
}

// ArityCheck is a runtime guard emitted per pre-existing object: the
// executor compares the object's actual leg counts against the counts
// used in the diagram.
type ArityCheck struct {
	// Alias is the bound local name the check applies to.
	Alias string

	// Object is the display name used in diagnostics.
	Object string

	// UsedOut and UsedIn are the leg counts the diagram used.
	UsedOut, UsedIn int
}

// TempDef records the declared leg order of one plan temporary. The
// order must exactly match the order produced by the step defining it.
type TempDef struct {
	ID   TempID
	Legs []Index
}

// Step is one pre-statement of a plan.
type Step interface {
	fmt.Stringer

	// Temp returns the temporary the step defines.
	Temp() TempID
}

// TraceStep materializes a single term whose self-paired legs are
// traced out, producing a temporary with the remaining legs in Output
// order. Pairs lists the matched leg positions of Src (left legs first,
// right legs offset past the left count).
type TraceStep struct {
	Dst    TempID
	Src    *TensorTerm
	Pairs  [][2]int
	Output []Index
}

// ContractStep contracts two previously available terms over the
// matched leg positions in Pairs, producing a temporary whose legs
// follow Output exactly.
type ContractStep struct {
	Dst    TempID
	A, B   *TensorTerm
	Pairs  [][2]int
	Output []Index
}

// BraidStep constructs a concrete crossing tensor from two fully
// resolved leg spaces.
type BraidStep struct {
	Dst         TempID
	Over, Under Space
}

// ScaleStep multiplies a term by a scalar factor, producing a
// temporary with the same legs in Output order. Legs and spaces are
// unchanged; only the numeric content scales.
type ScaleStep struct {
	Dst    TempID
	Coeff  string
	Src    *TensorTerm
	Output []Index
}

func (s *TraceStep) Temp() TempID    { return s.Dst }
func (s *ContractStep) Temp() TempID { return s.Dst }
func (s *BraidStep) Temp() TempID    { return s.Dst }
func (s *ScaleStep) Temp() TempID    { return s.Dst }

func (s *TraceStep) String() string {
	return fmt.Sprintf("_t%d%s = trace(%s, %v)", int(s.Dst), legList(s.Output), s.Src, s.Pairs)
}

func (s *ContractStep) String() string {
	return fmt.Sprintf("_t%d%s = contract(%s, %s, %v)", int(s.Dst), legList(s.Output), s.A, s.B, s.Pairs)
}

func (s *BraidStep) String() string {
	return fmt.Sprintf("_t%d = braid(%s, %s)", int(s.Dst), s.Over, s.Under)
}

func (s *ScaleStep) String() string {
	return fmt.Sprintf("_t%d%s = scale(%s, %s)", int(s.Dst), legList(s.Output), s.Coeff, s.Src)
}

// Plan is the compiled contraction plan. Plans are self-contained:
// every temporary reference resolves through the Temps arena, and the
// binding list maps surface names to the objects the steps consume.
// A plan is generated once per call site and replayed for every
// subsequent execution with different numeric data.
type Plan struct {
	// ID tags the plan for diagnostics and log correlation.
	ID uuid.UUID

	// Bindings lists the stable aliases of every referenced object.
	Bindings []Binding

	// Checks lists the arity guards the executor runs before any step.
	Checks []ArityCheck

	// Temps is the arena of temporaries; Temps[i] describes TempID(i).
	Temps []TempDef

	// Steps is the ordered pre-statement list.
	Steps []Step

	// Final is the lowered top-level expression.
	Final Node
}

// NewPlan returns an empty plan with a fresh diagnostic ID.
func NewPlan() *Plan {
	return &Plan{ID: uuid.New()}
}

// NewTemp allocates a temporary with the given declared leg order and
// returns its handle.
func (p *Plan) NewTemp(legs []Index) TempID {
	id := TempID(len(p.Temps))
	p.Temps = append(p.Temps, TempDef{ID: id, Legs: append([]Index(nil), legs...)})
	return id
}

// TempLegs returns the declared leg order of a temporary.
func (p *Plan) TempLegs(id TempID) []Index {
	return p.Temps[int(id)].Legs
}

// String renders the plan in execution order: checks, steps, final.
func (p *Plan) String() string {
	var b strings.Builder
	for _, c := range p.Checks {
		fmt.Fprintf(&b, "check %s = %s : %d;%d\n", c.Alias, c.Object, c.UsedOut, c.UsedIn)
	}
	for _, s := range p.Steps {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	if p.Final != nil {
		b.WriteString(p.Final.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// legList renders a leg order as [a,b,c]; empty orders render as [].
func legList(legs []Index) string {
	parts := make([]string, len(legs))
	for i, l := range legs {
		parts[i] = l.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
