// This file renders expression nodes back into the surface notation,
// used by error diagnostics and plan printing.
package texpr

import "strings"

// String renders the term as name[left;right], with a trailing ' for
// adjoints. The right list is omitted when empty.
func (t *TensorTerm) String() string {
	var b strings.Builder
	b.WriteString(t.Obj.String())
	if t.Adjoint {
		b.WriteByte('\'')
	}
	b.WriteByte('[')
	for i, idx := range t.Left {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(idx.String())
	}
	if len(t.Right) > 0 {
		b.WriteByte(';')
		for i, idx := range t.Right {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(idx.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}

func (s *ScalarTerm) String() string { return s.Text }

func (s *Sum) String() string {
	var b strings.Builder
	for i, term := range s.Terms {
		switch {
		case i == 0 && term.Sign == Minus:
			b.WriteString("-")
		case i > 0 && term.Sign == Minus:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(term.Term.String())
	}
	return b.String()
}

func (p *Product) String() string {
	return renderFactor(p.L) + " * " + renderFactor(p.R)
}

// renderFactor parenthesizes sums inside products.
func renderFactor(n Node) string {
	if _, isSum := n.(*Sum); isSum {
		return "(" + n.String() + ")"
	}
	return n.String()
}

func (a *Assign) String() string {
	op := " = "
	if a.Define {
		op = " := "
	}
	return a.LHS.String() + op + a.RHS.String()
}

func (c *Conj) String() string { return "conj(" + c.X.String() + ")" }

func (o *OpaqueBlock) String() string {
	parts := make([]string, len(o.Body))
	for i, b := range o.Body {
		parts[i] = b.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (a *AnnotatedBlock) String() string {
	return "@ignore { " + a.Body.String() + " }"
}
