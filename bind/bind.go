package bind

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/tnplan/texpr"
)

var (
	// ErrArityMismatch indicates the diagram used a different number of
	// legs than the object actually has.
	ErrArityMismatch = errors.New("bind: arity mismatch")

	// ErrReservedName indicates an attempt to assign to the reserved
	// crossing-generator identifier.
	ErrReservedName = errors.New("bind: cannot assign to reserved crossing generator")
)

// Result carries the outcome of binding one expression.
type Result struct {
	// Objects lists the distinct surface names in first-appearance
	// order (adjoint and non-adjoint references collapsed).
	Objects []string

	// Bindings maps each stable alias to its surface name.
	Bindings []texpr.Binding

	// Checks holds one arity guard per pre-existing object.
	Checks []texpr.ArityCheck

	// Node is the rewritten expression with aliased references.
	Node texpr.Node
}

// Bind discovers every distinct object referenced by n, rewrites each
// reference to a stable local alias, and emits arity checks for
// pre-existing objects. inv may be nil; when present, every occurrence
// is verified eagerly and a mismatch aborts with ErrArityMismatch.
//
// The crossing placeholder is not an object: it keeps its reserved
// name for the braiding resolver, and using it as an assignment target
// is ErrReservedName.
//
// Complexity: O(size of the tree).
func Bind(n texpr.Node, inv texpr.Inventory) (*Result, error) {
	b := &binder{
		inv:     inv,
		alias:   make(map[string]string),
		defined: make(map[string]bool),
	}
	out, err := b.rewrite(n)
	if err != nil {
		return nil, err
	}
	return &Result{
		Objects:  b.objects,
		Bindings: b.bindings,
		Checks:   b.checks,
		Node:     out,
	}, nil
}

// binder accumulates aliases, checks and definitions while rewriting.
type binder struct {
	inv      texpr.Inventory
	alias    map[string]string // surface name -> alias
	defined  map[string]bool   // objects introduced by := in this expression
	objects  []string
	bindings []texpr.Binding
	checks   []texpr.ArityCheck
}

func (b *binder) rewrite(n texpr.Node) (texpr.Node, error) {
	switch v := n.(type) {
	case nil:
		return nil, nil
	case *texpr.TensorTerm:
		return b.term(v)
	case *texpr.ScalarTerm, *texpr.AnnotatedBlock:
		return n, nil
	case *texpr.Sum:
		out := &texpr.Sum{Terms: make([]texpr.Summand, len(v.Terms))}
		for i, s := range v.Terms {
			t, err := b.rewrite(s.Term)
			if err != nil {
				return nil, err
			}
			out.Terms[i] = texpr.Summand{Sign: s.Sign, Term: t}
		}
		return out, nil
	case *texpr.Product:
		l, err := b.rewrite(v.L)
		if err != nil {
			return nil, err
		}
		r, err := b.rewrite(v.R)
		if err != nil {
			return nil, err
		}
		return &texpr.Product{L: l, R: r}, nil
	case *texpr.Assign:
		return b.assign(v)
	case *texpr.Conj:
		x, err := b.rewrite(v.X)
		if err != nil {
			return nil, err
		}
		return &texpr.Conj{X: x}, nil
	case *texpr.OpaqueBlock:
		out := &texpr.OpaqueBlock{Body: make([]texpr.Node, len(v.Body))}
		for i, body := range v.Body {
			nb, err := b.rewrite(body)
			if err != nil {
				return nil, err
			}
			out.Body[i] = nb
		}
		return out, nil
	default:
		return n, nil
	}
}

func (b *binder) assign(a *texpr.Assign) (texpr.Node, error) {
	if !a.LHS.Obj.IsTemp() && a.LHS.Obj.Name == texpr.ReservedBraid {
		return nil, fmt.Errorf("%w: %s", ErrReservedName, a)
	}
	if a.Define {
		// The target comes into existence here; no arity check applies.
		b.defined[a.LHS.Obj.Name] = true
	}
	lhs, err := b.term(a.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := b.rewrite(a.RHS)
	if err != nil {
		return nil, err
	}
	return &texpr.Assign{LHS: lhs.(*texpr.TensorTerm), RHS: rhs, Define: a.Define}, nil
}

func (b *binder) term(t *texpr.TensorTerm) (texpr.Node, error) {
	if t.Obj.IsTemp() || t.IsBraid() {
		return t.Clone(), nil
	}
	name := t.Obj.Name
	alias, bound := b.alias[name]
	if !bound {
		alias = fmt.Sprintf("o%d", len(b.bindings))
		b.alias[name] = alias
		b.objects = append(b.objects, name)
		b.bindings = append(b.bindings, texpr.Binding{Alias: alias, Object: name})
		if !b.defined[name] {
			b.checks = append(b.checks, texpr.ArityCheck{
				Alias:   alias,
				Object:  name,
				UsedOut: usedOut(t),
				UsedIn:  usedIn(t),
			})
		}
	}
	if b.inv != nil && !b.defined[name] {
		if err := b.verify(t); err != nil {
			return nil, err
		}
	}
	c := t.Clone()
	c.Obj = texpr.Named(alias)
	return c, nil
}

// verify compares one occurrence's used leg counts against the
// object's actual counts from the inventory.
func (b *binder) verify(t *texpr.TensorTerm) error {
	outs, ins, err := b.inv.Arity(t.Obj.Name)
	if err != nil {
		return fmt.Errorf("bind: query %s: %w", t.Obj.Name, err)
	}
	if usedOut(t) != outs || usedIn(t) != ins {
		return fmt.Errorf("%w: %s has %d;%d legs, used %d;%d in %s",
			ErrArityMismatch, t.Obj.Name, outs, ins, usedOut(t), usedIn(t), t)
	}
	return nil
}

// usedOut and usedIn report the occurrence's leg usage from the
// underlying object's perspective: an adjoint occurrence swaps sides.
func usedOut(t *texpr.TensorTerm) int {
	if t.Adjoint {
		return len(t.Right)
	}
	return len(t.Left)
}

func usedIn(t *texpr.TensorTerm) int {
	if t.Adjoint {
		return len(t.Left)
	}
	return len(t.Right)
}
