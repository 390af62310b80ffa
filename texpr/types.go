// This file declares Index, Object, Space and the closed Node union.
//
// Errors:
//
//	ErrIndexCount - an index occurs more than twice in one expression.
package texpr

import (
	"errors"
	"fmt"
	"strconv"
)

// ReservedBraid is the identifier of the implicit crossing generator.
// It may appear as a placeholder term but never as an assignment target.
const ReservedBraid = "braid"

var (
	// ErrIndexCount indicates an index occurs more than twice across the
	// terms of a single expression, which no diagram can realize.
	ErrIndexCount = errors.New("texpr: index occurs more than twice")
)

// Index identifies one tensor leg. It is symbolic (Name non-empty) or
// positional (Name empty, Num meaningful). Positional indices come from
// numeric labels in the surface syntax.
type Index struct {
	// Name is the symbolic identifier; empty for positional indices.
	Name string

	// Num is the positional label; meaningful only when Name is empty.
	Num int
}

// Sym returns a symbolic index.
func Sym(name string) Index { return Index{Name: name} }

// Pos returns a positional index.
func Pos(n int) Index { return Index{Num: n} }

// Symbolic reports whether i carries a symbolic name.
func (i Index) Symbolic() bool { return i.Name != "" }

// Less imposes a stable total order on indices: positional indices rank
// below symbolic ones, positional compare by magnitude, symbolic
// lexicographically. Used as the deterministic tie-break when choosing a
// canonical index representative during crossing removal.
func (i Index) Less(j Index) bool {
	if i.Symbolic() != j.Symbolic() {
		return !i.Symbolic()
	}
	if i.Symbolic() {
		return i.Name < j.Name
	}
	return i.Num < j.Num
}

// String renders the index as it appears in the surface syntax.
func (i Index) String() string {
	if i.Symbolic() {
		return i.Name
	}
	return strconv.Itoa(i.Num)
}

// TempID is a handle into a Plan's temporaries arena. NoTemp marks an
// Object that refers to a surface name instead.
type TempID int

// NoTemp is the TempID of a non-temporary Object.
const NoTemp TempID = -1

// Object identifies the tensor an occurrence refers to: either a surface
// name or a plan temporary.
type Object struct {
	// Name is the surface identifier; empty for temporaries.
	Name string

	// Temp is the arena handle; NoTemp for named objects.
	Temp TempID
}

// Named returns an Object referring to a surface name.
func Named(name string) Object { return Object{Name: name, Temp: NoTemp} }

// TempRef returns an Object referring to a plan temporary.
func TempRef(id TempID) Object { return Object{Temp: id} }

// IsTemp reports whether o refers to a plan temporary.
func (o Object) IsTemp() bool { return o.Temp != NoTemp }

// String renders the object's display name (_tN for temporaries).
func (o Object) String() string {
	if o.IsTemp() {
		return fmt.Sprintf("_t%d", int(o.Temp))
	}
	return o.Name
}

// Space describes the vector space attached to a tensor leg, as reported
// by an object inventory. Dual marks the dual space V*.
type Space struct {
	Name string
	Dual bool
}

// DualOf returns the dual of s. It is an involution.
func (s Space) DualOf() Space { return Space{Name: s.Name, Dual: !s.Dual} }

// String renders the space, with a trailing * for duals.
func (s Space) String() string {
	if s.Dual {
		return s.Name + "*"
	}
	return s.Name
}

// Node is the closed union of expression shapes. Every compilation pass
// handles each variant exhaustively; no other implementations exist.
type Node interface {
	fmt.Stringer

	// node restricts implementations to this package.
	node()
}

// TensorTerm is a single tensor occurrence: an object reference with
// ordered outgoing (Left) and incoming (Right) leg lists.
//
// Two terms referencing the same object with adjoint flags flipped and
// leg lists swapped denote the same underlying tensor.
type TensorTerm struct {
	// Obj names the tensor (surface name or plan temporary).
	Obj Object

	// Adjoint marks the occurrence as the adjoint of Obj.
	Adjoint bool

	// Left lists the outgoing (codomain-side) legs in order.
	Left []Index

	// Right lists the incoming (domain-side) legs in order.
	Right []Index
}

// ScalarTerm is a scalar factor (a literal or scalar-valued reference);
// it carries no legs and passes through lowering unchanged.
type ScalarTerm struct {
	Text string
}

// Sign is the sign of a summand inside a Sum.
type Sign int

const (
	// Plus marks a summand added to the sum.
	Plus Sign = iota
	// Minus marks a summand subtracted from the sum.
	Minus
)

// Summand is one signed term of a Sum.
type Summand struct {
	Sign Sign
	Term Node
}

// Sum is a linear combination of terms. Signs travel with summands so
// lowering can preserve the operator structure verbatim.
type Sum struct {
	Terms []Summand
}

// Product is a strictly binary product at the lowering boundary; the
// surface syntax's n-ary products arrive left-nested.
type Product struct {
	L, R Node
}

// Assign binds an expression to a left-hand tensor term. Define
// distinguishes `:=` (introducing a new object) from `=` (mutating an
// existing one); only pre-existing objects receive arity checks.
type Assign struct {
	LHS    *TensorTerm
	RHS    Node
	Define bool
}

// Conj is the explicit conjugation wrapper of the surface syntax. The
// adjoint normalizer eliminates every Conj node; later passes never see
// one.
type Conj struct {
	X Node
}

// OpaqueBlock is a control construct passed through compilation
// unchanged; passes recurse into its body.
type OpaqueBlock struct {
	Body []Node
}

// AnnotatedBlock is a region excluded from rewriting; passes skip it
// entirely.
type AnnotatedBlock struct {
	Body Node
}

func (*TensorTerm) node()     {}
func (*ScalarTerm) node()     {}
func (*Sum) node()            {}
func (*Product) node()        {}
func (*Assign) node()         {}
func (*Conj) node()           {}
func (*OpaqueBlock) node()    {}
func (*AnnotatedBlock) node() {}

// IsBraid reports whether t is an unresolved crossing placeholder.
func (t *TensorTerm) IsBraid() bool {
	return !t.Obj.IsTemp() && t.Obj.Name == ReservedBraid
}

// Arity returns the occurrence's used leg counts (outs, ins).
func (t *TensorTerm) Arity() (outs, ins int) {
	return len(t.Left), len(t.Right)
}

// Indices returns all legs, left first, then right.
func (t *TensorTerm) Indices() []Index {
	out := make([]Index, 0, len(t.Left)+len(t.Right))
	out = append(out, t.Left...)
	out = append(out, t.Right...)
	return out
}

// Natural returns the term's natural boundary order:
// Left ++ reverse(Right). Admissible planar orders are exactly the
// cyclic rotations of this sequence.
func (t *TensorTerm) Natural() []Index {
	out := make([]Index, 0, len(t.Left)+len(t.Right))
	out = append(out, t.Left...)
	for i := len(t.Right) - 1; i >= 0; i-- {
		out = append(out, t.Right[i])
	}
	return out
}

// Clone returns a deep copy of t.
func (t *TensorTerm) Clone() *TensorTerm {
	c := &TensorTerm{Obj: t.Obj, Adjoint: t.Adjoint}
	c.Left = append([]Index(nil), t.Left...)
	c.Right = append([]Index(nil), t.Right...)
	return c
}
