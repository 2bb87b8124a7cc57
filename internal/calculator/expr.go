package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"saki/internal/core"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrDivisionByZero = core.NewValidationError("division by zero")
)

const maxDepth = 64

// SyntaxError reports where an expression stopped making sense. It matches
// ErrSyntax and core.ErrValidation.
type SyntaxError struct {
	Pos int // byte offset into the expression
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax || target == core.ErrValidation
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	pos  int
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{tokOp, i, string(c)})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, i, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, i, ")"})
			i++
		case isDigit(c) || c == '.':
			start, dots := i, 0
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				if src[i] == '.' {
					dots++
				}
				i++
			}
			text := src[start:i]
			if dots > 1 || text == "." {
				return nil, &SyntaxError{Pos: start, Msg: fmt.Sprintf("malformed number %q", text)}
			}
			toks = append(toks, token{tokNumber, start, text})
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{tokEOF, len(src), ""}), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parser is a recursive-descent evaluator for
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type parser struct {
	toks  []token
	pos   int
	depth int
}

// Eval evaluates an arithmetic expression over decimal numbers. Only
// numbers, + - * /, unary signs and parentheses are understood.
func Eval(src string) (decimal.Decimal, error) {
	toks, err := tokenize(src)
	if err != nil {
		return decimal.Zero, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return decimal.Zero, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	v, err := p.expr()
	if err != nil {
		return decimal.Zero, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return decimal.Zero, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return v, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr() (decimal.Decimal, error) {
	left, err := p.term()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "+" {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *parser) term() (decimal.Decimal, error) {
	left, err := p.unary()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "*" {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		left = left.Div(right)
	}
}

func (p *parser) unary() (decimal.Decimal, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-") {
		if p.depth++; p.depth > maxDepth {
			return decimal.Zero, &SyntaxError{Pos: t.pos, Msg: "expression nested too deeply"}
		}
		defer func() { p.depth-- }()
		p.next()
		v, err := p.unary()
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "-" {
			return v.Neg(), nil
		}
		return v, nil
	}
	return p.primary()
}

func (p *parser) primary() (decimal.Decimal, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		text := t.text
		if text[0] == '.' {
			text = "0" + text
		}
		if text[len(text)-1] == '.' {
			text += "0"
		}
		v, err := decimal.NewFromString(text)
		if err != nil {
			return decimal.Zero, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("malformed number %q", t.text)}
		}
		return v, nil
	case tokLParen:
		if p.depth++; p.depth > maxDepth {
			return decimal.Zero, &SyntaxError{Pos: t.pos, Msg: "expression nested too deeply"}
		}
		defer func() { p.depth-- }()
		v, err := p.expr()
		if err != nil {
			return decimal.Zero, err
		}
		if c := p.next(); c.kind != tokRParen {
			return decimal.Zero, &SyntaxError{Pos: c.pos, Msg: "missing closing parenthesis"}
		}
		return v, nil
	case tokEOF:
		return decimal.Zero, &SyntaxError{Pos: t.pos, Msg: "unexpected end of expression"}
	default:
		return decimal.Zero, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
}
