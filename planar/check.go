package planar

import (
	"fmt"

	"github.com/katalvlaran/tnplan/texpr"
)

// Check verifies every assignment reachable in n: some admissible
// boundary class of the right-hand side must be a cyclic rotation of
// the left-hand side's natural order Left ++ reverse(Right), else the
// diagram cannot be drawn without crossings and compilation must stop.
//
// Check recurses into opaque blocks and skips annotated blocks
// entirely. Nodes that are not assignments and contain none are
// trivially planar.
func Check(n texpr.Node) error {
	switch v := n.(type) {
	case *texpr.Assign:
		return checkAssign(v)
	case *texpr.OpaqueBlock:
		for _, b := range v.Body {
			if err := Check(b); err != nil {
				return err
			}
		}
		return nil
	case *texpr.AnnotatedBlock, nil:
		return nil
	default:
		return nil
	}
}

func checkAssign(a *texpr.Assign) error {
	if len(texpr.Terms(a.RHS)) == 0 {
		// Pure scalar right-hand side; nothing to order.
		return nil
	}
	target := a.LHS.Natural()
	for _, class := range Orders(a.RHS) {
		if texpr.CyclicEqual(class, target) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNonPlanar, a)
}
