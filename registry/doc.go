// Package registry loads tensor object inventories from YAML
// documents and serves the compiler's object query capability: leg
// counts and per-leg vector spaces.
//
// Document shape:
//
//	objects:
//	  A:
//	    outs: [V, W]
//	    ins:  [U]
//	  B:
//	    outs: [U]
//	    ins:  [W*]
//
// A trailing * marks a dual space. Legs are numbered over the
// outgoing legs first, then the incoming ones, matching the
// compiler's locate convention. The same document also seeds a
// space-level execution environment (see Env).
//
// Errors:
//
//	ErrUnknownObject - a queried object is not in the registry.
//	ErrLegRange      - a queried leg number is out of range.
package registry
