// This file declares the concrete object model, the external
// primitive interfaces, and the space-level reference implementations.
package exec

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/tnplan/texpr"
)

var (
	// ErrUnknownObject indicates a referenced object is absent from
	// the execution environment.
	ErrUnknownObject = errors.New("exec: unknown object")

	// ErrArityCheck indicates a runtime arity guard failed.
	ErrArityCheck = errors.New("exec: arity check failed")

	// ErrSpaceMismatch indicates two contracted legs carry different
	// spaces.
	ErrSpaceMismatch = errors.New("exec: contracted legs carry mismatched spaces")

	// ErrBadPlan indicates a structurally invalid plan (undefined
	// temporary, out-of-range leg reference, unsupported final shape).
	ErrBadPlan = errors.New("exec: malformed plan")
)

// Object is a concrete tensor at the space level: a name and the
// spaces of its outgoing and incoming legs.
type Object struct {
	Name string
	Outs []texpr.Space
	Ins  []texpr.Space
}

// Arity returns the object's leg counts.
func (o Object) Arity() (outs, ins int) { return len(o.Outs), len(o.Ins) }

// Legs returns all leg spaces, outgoing first.
func (o Object) Legs() []texpr.Space {
	out := make([]texpr.Space, 0, len(o.Outs)+len(o.Ins))
	out = append(out, o.Outs...)
	out = append(out, o.Ins...)
	return out
}

// Env maps surface object names to concrete objects.
type Env map[string]Object

// LegRef addresses one leg of a contraction's operands: Operand 0 is
// the first operand, 1 the second.
type LegRef struct {
	Operand int
	Leg     int
}

// Backend is the binary contraction primitive consumed from the
// numeric runtime: contract two concrete objects over explicitly
// matched leg positions, producing a new object whose legs follow
// out.
type Backend interface {
	Contract(a, b Object, pairs [][2]int, out []LegRef) (Object, error)
}

// Crossings is the crossing-tensor constructor: build a concrete
// braid object from two resolved strand spaces.
type Crossings interface {
	New(over, under texpr.Space) (Object, error)
}

// SpaceBackend is the reference Backend: it validates that every
// matched pair carries equal spaces and assembles the output legs.
type SpaceBackend struct{}

// Contract implements Backend.
func (SpaceBackend) Contract(a, b Object, pairs [][2]int, out []LegRef) (Object, error) {
	la, lb := a.Legs(), b.Legs()
	for _, p := range pairs {
		if p[0] >= len(la) || p[1] >= len(lb) {
			return Object{}, fmt.Errorf("%w: leg pair %v out of range for %s, %s", ErrBadPlan, p, a.Name, b.Name)
		}
		if la[p[0]] != lb[p[1]] {
			return Object{}, fmt.Errorf("%w: %s leg %d is %s, %s leg %d is %s",
				ErrSpaceMismatch, a.Name, p[0], la[p[0]], b.Name, p[1], lb[p[1]])
		}
	}
	legs := make([]texpr.Space, len(out))
	for i, ref := range out {
		src := la
		if ref.Operand == 1 {
			src = lb
		}
		if ref.Leg >= len(src) {
			return Object{}, fmt.Errorf("%w: output leg %v out of range", ErrBadPlan, ref)
		}
		legs[i] = src[ref.Leg]
	}
	return Object{Name: "(" + a.Name + "*" + b.Name + ")", Outs: legs}, nil
}

// SpaceCrossings is the reference Crossings: the constructed braid
// carries the over strand on legs 1 and 4 and the under strand on
// legs 2 and 3, matching the placeholder's strand pairing.
type SpaceCrossings struct{}

// New implements Crossings.
func (SpaceCrossings) New(over, under texpr.Space) (Object, error) {
	return Object{
		Name: "braid(" + over.String() + "," + under.String() + ")",
		Outs: []texpr.Space{over, under},
		Ins:  []texpr.Space{under, over},
	}, nil
}
