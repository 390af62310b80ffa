// This file declares options and sentinel errors for the decomposer.
package contract

import (
	"errors"

	"github.com/katalvlaran/tnplan/texpr"
)

// ErrUnrecognized indicates an expression node outside the accepted
// shape (scalar, general tensor term, binary product, sum/difference).
var ErrUnrecognized = errors.New("contract: unrecognized expression shape")

// Option configures the decomposer. Use with Decompose(a, opts...).
type Option func(*Options)

// Options holds configurable parameters for one decomposition.
type Options struct {
	// Plan, if non-nil, is extended instead of starting fresh. The
	// braiding resolver seeds a plan with construction steps before
	// decomposition continues into it.
	Plan *texpr.Plan

	// OnStep, if non-nil, is invoked after each emitted pre-statement,
	// in plan order. Useful for tracing and diagnostics.
	OnStep func(texpr.Step)
}

// DefaultOptions returns Options with a fresh plan and no hooks.
func DefaultOptions() Options {
	return Options{}
}

// WithPlan returns an Option that extends an existing plan.
func WithPlan(p *texpr.Plan) Option {
	return func(o *Options) {
		if p != nil {
			o.Plan = p
		}
	}
}

// WithOnStep returns an Option that installs fn as a per-step hook.
func WithOnStep(fn func(texpr.Step)) Option {
	return func(o *Options) {
		o.OnStep = fn
	}
}
