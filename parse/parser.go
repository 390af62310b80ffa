// This file declares the recursive-descent parser over the scanned
// token stream.
package parse

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/tnplan/texpr"
)

// Parse reads a full source text into its statement list.
func Parse(src string) ([]texpr.Node, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var stmts []texpr.Node
	for p.peek().kind != tokEOF {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.peek().kind == tokSemi {
			p.next()
		}
	}
	return stmts, nil
}

// ParseStatement reads exactly one statement.
func ParseStatement(src string) (texpr.Node, error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, fmt.Errorf("%w: expected one statement, got %d", ErrSyntax, len(stmts))
	}
	return stmts[0], nil
}

// ParseAssign reads one statement and requires it to be an assignment.
func ParseAssign(src string) (*texpr.Assign, error) {
	stmt, err := ParseStatement(src)
	if err != nil {
		return nil, err
	}
	a, ok := stmt.(*texpr.Assign)
	if !ok {
		return nil, fmt.Errorf("%w: expected an assignment, got %s", ErrSyntax, stmt)
	}
	return a, nil
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expect(k kind) (token, error) {
	t := p.next()
	if t.kind != k {
		return token{}, fmt.Errorf("%w: expected %s, got %s at offset %d", ErrSyntax, k, t, t.pos)
	}
	return t, nil
}

// statement := "@" IDENT block | block | expr ((":=" | "=") expr)?
func (p *parser) statement() (texpr.Node, error) {
	switch p.peek().kind {
	case tokAt:
		p.next()
		tag, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if tag.text != "ignore" {
			return nil, fmt.Errorf("%w: unknown annotation @%s at offset %d", ErrSyntax, tag.text, tag.pos)
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		return &texpr.AnnotatedBlock{Body: body}, nil
	case tokLBrace:
		return p.block()
	}
	lhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	op := p.peek()
	if op.kind != tokDefine && op.kind != tokEq {
		return lhs, nil
	}
	p.next()
	target, ok := lhs.(*texpr.TensorTerm)
	if !ok {
		return nil, fmt.Errorf("%w: assignment target %s is not a tensor reference", ErrSyntax, lhs)
	}
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &texpr.Assign{LHS: target, RHS: rhs, Define: op.kind == tokDefine}, nil
}

// block := "{" statement* "}"
func (p *parser) block() (texpr.Node, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var body []texpr.Node
	for p.peek().kind != tokRBrace {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("%w: unterminated block", ErrSyntax)
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if p.peek().kind == tokSemi {
			p.next()
		}
	}
	p.next()
	return &texpr.OpaqueBlock{Body: body}, nil
}

// expr := "-"? addend (("+" | "-") addend)*
func (p *parser) expr() (texpr.Node, error) {
	sign := texpr.Plus
	if p.peek().kind == tokMinus {
		p.next()
		sign = texpr.Minus
	}
	first, err := p.addend()
	if err != nil {
		return nil, err
	}
	if sign == texpr.Plus && p.peek().kind != tokPlus && p.peek().kind != tokMinus {
		return first, nil
	}
	sum := &texpr.Sum{Terms: []texpr.Summand{{Sign: sign, Term: first}}}
	for {
		var next texpr.Sign
		switch p.peek().kind {
		case tokPlus:
			next = texpr.Plus
		case tokMinus:
			next = texpr.Minus
		default:
			return sum, nil
		}
		p.next()
		term, err := p.addend()
		if err != nil {
			return nil, err
		}
		sum.Terms = append(sum.Terms, texpr.Summand{Sign: next, Term: term})
	}
}

// addend := factor ("*" factor)*
func (p *parser) addend() (texpr.Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokStar {
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &texpr.Product{L: left, R: right}
	}
	return left, nil
}

// factor := NUMBER | "conj" "(" expr ")" | "(" expr ")" | reference
func (p *parser) factor() (texpr.Node, error) {
	switch t := p.peek(); t.kind {
	case tokNumber:
		p.next()
		if _, err := strconv.ParseFloat(t.text, 64); err != nil {
			return nil, fmt.Errorf("%w: bad number %q at offset %d", ErrSyntax, t.text, t.pos)
		}
		return &texpr.ScalarTerm{Text: t.text}, nil
	case tokLParen:
		p.next()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokIdent:
		if t.text == "conj" && p.toks[p.i+1].kind == tokLParen {
			p.next()
			p.next()
			inner, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			return &texpr.Conj{X: inner}, nil
		}
		return p.reference()
	default:
		return nil, fmt.Errorf("%w: expected a factor, got %s at offset %d", ErrSyntax, t, t.pos)
	}
}

// reference := IDENT "'"? ("[" indices (";" indices)? "]")?
//
// An identifier without a leg list is a named scalar.
func (p *parser) reference() (texpr.Node, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	adjoint := false
	if p.peek().kind == tokPrime {
		p.next()
		adjoint = true
	}
	if p.peek().kind != tokLBrack {
		if adjoint {
			return nil, fmt.Errorf("%w: adjoint scalar %s' at offset %d", ErrSyntax, name.text, name.pos)
		}
		return &texpr.ScalarTerm{Text: name.text}, nil
	}
	p.next()
	left, err := p.indices()
	if err != nil {
		return nil, err
	}
	var right []texpr.Index
	if p.peek().kind == tokSemi {
		p.next()
		if right, err = p.indices(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBrack); err != nil {
		return nil, err
	}
	return &texpr.TensorTerm{Obj: texpr.Named(name.text), Adjoint: adjoint, Left: left, Right: right}, nil
}

// indices := (index ("," index)*)?
func (p *parser) indices() ([]texpr.Index, error) {
	var out []texpr.Index
	if k := p.peek().kind; k == tokRBrack || k == tokSemi {
		return out, nil
	}
	for {
		idx, err := p.index()
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
		if p.peek().kind != tokComma {
			return out, nil
		}
		p.next()
	}
}

// index := IDENT | NUMBER
func (p *parser) index() (texpr.Index, error) {
	switch t := p.next(); t.kind {
	case tokIdent:
		return texpr.Sym(t.text), nil
	case tokNumber:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return texpr.Index{}, fmt.Errorf("%w: bad numeric index %q at offset %d", ErrSyntax, t.text, t.pos)
		}
		return texpr.Pos(n), nil
	default:
		return texpr.Index{}, fmt.Errorf("%w: expected an index, got %s at offset %d", ErrSyntax, t, t.pos)
	}
}
