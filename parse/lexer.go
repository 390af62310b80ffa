// This file declares the token model and the hand-rolled scanner.
package parse

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax indicates malformed surface input.
var ErrSyntax = errors.New("parse: syntax error")

// kind enumerates the token classes of the surface notation.
type kind int

const (
	tokEOF kind = iota
	tokIdent
	tokNumber
	tokLBrack // [
	tokRBrack // ]
	tokLParen // (
	tokRParen // )
	tokLBrace // {
	tokRBrace // }
	tokComma  // ,
	tokSemi   // ; and newlines
	tokStar   // *
	tokPlus   // +
	tokMinus  // -
	tokDefine // :=
	tokEq     // =
	tokPrime  // '
	tokAt     // @
)

var kindNames = map[kind]string{
	tokEOF:    "end of input",
	tokIdent:  "identifier",
	tokNumber: "number",
	tokLBrack: "'['",
	tokRBrack: "']'",
	tokLParen: "'('",
	tokRParen: "')'",
	tokLBrace: "'{'",
	tokRBrace: "'}'",
	tokComma:  "','",
	tokSemi:   "';'",
	tokStar:   "'*'",
	tokPlus:   "'+'",
	tokMinus:  "'-'",
	tokDefine: "':='",
	tokEq:     "'='",
	tokPrime:  "'''",
	tokAt:     "'@'",
}

func (k kind) String() string { return kindNames[k] }

// token is one scanned lexeme with its byte offset in the source.
type token struct {
	kind kind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokIdent, tokNumber:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	default:
		return t.kind.String()
	}
}

// scan tokenizes src in one pass. Newlines become statement
// separators; spaces and # comments are skipped.
func scan(src string) ([]token, error) {
	var toks []token
	emit := func(k kind, text string, pos int) {
		// Collapse separator runs and drop leading separators.
		if k == tokSemi {
			if len(toks) == 0 || toks[len(toks)-1].kind == tokSemi ||
				toks[len(toks)-1].kind == tokLBrace {
				return
			}
		}
		toks = append(toks, token{kind: k, text: text, pos: pos})
	}
	i := 0
	for i < len(src) {
		r, width := utf8.DecodeRuneInString(src[i:])
		start := i
		switch {
		case r == ' ' || r == '\t' || r == '\r':
			i += width
		case r == '\n' || r == ';':
			emit(tokSemi, ";", start)
			i += width
		case r == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case r == '[':
			emit(tokLBrack, "[", start)
			i += width
		case r == ']':
			emit(tokRBrack, "]", start)
			i += width
		case r == '(':
			emit(tokLParen, "(", start)
			i += width
		case r == ')':
			emit(tokRParen, ")", start)
			i += width
		case r == '{':
			emit(tokLBrace, "{", start)
			i += width
		case r == '}':
			// A separator before } is noise.
			if len(toks) > 0 && toks[len(toks)-1].kind == tokSemi {
				toks = toks[:len(toks)-1]
			}
			emit(tokRBrace, "}", start)
			i += width
		case r == ',':
			emit(tokComma, ",", start)
			i += width
		case r == '*':
			emit(tokStar, "*", start)
			i += width
		case r == '+':
			emit(tokPlus, "+", start)
			i += width
		case r == '-':
			emit(tokMinus, "-", start)
			i += width
		case r == '\'':
			emit(tokPrime, "'", start)
			i += width
		case r == '@':
			emit(tokAt, "@", start)
			i += width
		case r == '=':
			emit(tokEq, "=", start)
			i += width
		case r == ':':
			if i+1 >= len(src) || src[i+1] != '=' {
				return nil, fmt.Errorf("%w: lone ':' at offset %d", ErrSyntax, start)
			}
			emit(tokDefine, ":=", start)
			i += 2
		case unicode.IsDigit(r):
			j := i
			for j < len(src) && isNumberByte(src[j]) {
				j++
			}
			emit(tokNumber, src[i:j], start)
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(src) {
				rr, w := utf8.DecodeRuneInString(src[j:])
				if !unicode.IsLetter(rr) && !unicode.IsDigit(rr) && rr != '_' {
					break
				}
				j += w
			}
			emit(tokIdent, src[i:j], start)
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, r, start)
		}
	}
	// Trim a trailing separator so EOF follows the last statement.
	if len(toks) > 0 && toks[len(toks)-1].kind == tokSemi {
		toks = toks[:len(toks)-1]
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isNumberByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.'
}
