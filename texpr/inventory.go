// This file declares the object query capability consumed from the
// surrounding tensor runtime: leg counts and per-leg vector spaces.
package texpr

// Inventory answers structural queries about concrete tensor objects.
// Implementations live outside the compiler (see registry for a
// YAML-backed one); passes only consume it.
type Inventory interface {
	// Arity returns the object's number of outgoing and incoming legs.
	Arity(obj string) (outs, ins int, err error)

	// LegSpace returns the vector space of one leg. Legs are numbered
	// over the outgoing legs first, then the incoming ones, matching
	// the Locate convention.
	LegSpace(obj string, leg int) (Space, error)
}
