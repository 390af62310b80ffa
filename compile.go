// This file declares the top-level compilation driver tying the
// passes together.
package tnplan

import (
	"fmt"

	"github.com/katalvlaran/tnplan/bind"
	"github.com/katalvlaran/tnplan/braid"
	"github.com/katalvlaran/tnplan/contract"
	"github.com/katalvlaran/tnplan/normalize"
	"github.com/katalvlaran/tnplan/planar"
	"github.com/katalvlaran/tnplan/texpr"
)

// Mode selects how crossing placeholders in the input are treated.
type Mode int

const (
	// ConstructBraids resolves each crossing placeholder's strand
	// spaces and emits a construction step for it.
	ConstructBraids Mode = iota

	// RemoveBraids rewires indices across each crossing placeholder
	// and elides it, for diagrams over a symmetric braiding.
	RemoveBraids
)

func (m Mode) String() string {
	if m == RemoveBraids {
		return "remove"
	}
	return "construct"
}

// Option configures one compilation.
type Option func(*Options)

// Options holds configurable parameters for Compile.
type Options struct {
	// Inventory answers object arity and leg-space queries. Required
	// in ConstructBraids mode when the input contains crossing
	// placeholders; optional otherwise (binding then checks arity
	// lazily at execution time).
	Inventory texpr.Inventory

	// Mode selects crossing treatment. Default is ConstructBraids.
	Mode Mode

	// OnStep, if non-nil, observes every emitted pre-statement in
	// order.
	OnStep func(texpr.Step)
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{Mode: ConstructBraids}
}

// WithInventory supplies the object inventory.
func WithInventory(inv texpr.Inventory) Option {
	return func(o *Options) { o.Inventory = inv }
}

// WithMode selects the crossing treatment.
func WithMode(m Mode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithOnStep registers a pre-statement observer.
func WithOnStep(fn func(texpr.Step)) Option {
	return func(o *Options) { o.OnStep = fn }
}

// Compile lowers one diagram assignment into an executable plan:
// normalize, bind, resolve crossings, check planarity, decompose.
func Compile(a *texpr.Assign, opts ...Option) (*texpr.Plan, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	norm, ok := normalize.Normalize(a).(*texpr.Assign)
	if !ok {
		return nil, fmt.Errorf("tnplan: normalization changed statement shape of %s", a)
	}

	bound, err := bind.Bind(norm, o.Inventory)
	if err != nil {
		return nil, err
	}
	stmt, ok := bound.Node.(*texpr.Assign)
	if !ok {
		return nil, fmt.Errorf("tnplan: binding changed statement shape of %s", a)
	}

	plan := texpr.NewPlan()
	plan.Bindings = bound.Bindings
	plan.Checks = bound.Checks

	var rhs texpr.Node
	switch o.Mode {
	case RemoveBraids:
		rhs, err = braid.Remove(stmt.RHS, stmt.LHS)
	default:
		rhs, err = braid.Construct(stmt.RHS, stmt.LHS, unalias(o.Inventory, bound.Bindings), plan)
	}
	if err != nil {
		return nil, err
	}
	stmt = &texpr.Assign{LHS: stmt.LHS, RHS: rhs, Define: stmt.Define}
	if o.OnStep != nil {
		for _, s := range plan.Steps {
			o.OnStep(s)
		}
	}

	if err := planar.Check(stmt); err != nil {
		return nil, err
	}

	return contract.Decompose(stmt, contract.WithPlan(plan), contract.WithOnStep(o.OnStep))
}

// aliasInv answers inventory queries for aliased references by
// translating each alias back to its surface name.
type aliasInv struct {
	inv     texpr.Inventory
	surface map[string]string
}

// unalias wraps inv so that bound aliases resolve; nil stays nil.
func unalias(inv texpr.Inventory, bindings []texpr.Binding) texpr.Inventory {
	if inv == nil {
		return nil
	}
	surface := make(map[string]string, len(bindings))
	for _, b := range bindings {
		surface[b.Alias] = b.Object
	}
	return aliasInv{inv: inv, surface: surface}
}

func (ai aliasInv) name(obj string) string {
	if s, ok := ai.surface[obj]; ok {
		return s
	}
	return obj
}

// Arity implements texpr.Inventory.
func (ai aliasInv) Arity(obj string) (outs, ins int, err error) {
	return ai.inv.Arity(ai.name(obj))
}

// LegSpace implements texpr.Inventory.
func (ai aliasInv) LegSpace(obj string, leg int) (texpr.Space, error) {
	return ai.inv.LegSpace(ai.name(obj), leg)
}
