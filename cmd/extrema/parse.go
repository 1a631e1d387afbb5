package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/njchilds90/gosymbol"

	"github.com/katalvlaran/extrema/kkt"
)

// errParse reports malformed command-line expressions.
var errParse = errors.New("extrema: parse error")

// parseExpr reads an arithmetic expression into a gosymbol tree. The
// grammar covers numbers, identifiers, the operators + - * / ^ with the
// usual precedence, parentheses and single-argument function calls.
func parseExpr(src string) (gosymbol.Expr, error) {
	p := &parser{src: src}
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("%w: trailing input %q", errParse, p.src[p.pos:])
	}

	return e, nil
}

// parseConstraint reads one relational constraint, e.g. "x+y=1" or
// "x^2<=4". Both sides move to the left of the relation.
func parseConstraint(src string) (kkt.Constraint, error) {
	ops := []struct {
		token string
		op    kkt.RelOp
	}{
		{"<=", kkt.RelLe},
		{">=", kkt.RelGe},
		{"=", kkt.RelEq},
	}
	for _, c := range ops {
		i := strings.Index(src, c.token)
		if i < 0 {
			continue
		}
		lhs, err := parseExpr(src[:i])
		if err != nil {
			return kkt.Constraint{}, err
		}
		rhs, err := parseExpr(src[i+len(c.token):])
		if err != nil {
			return kkt.Constraint{}, err
		}
		diff := gosymbol.AddOf(lhs, gosymbol.MulOf(gosymbol.N(-1), rhs)).Simplify()

		return kkt.Constraint{Expr: diff, Op: c.op}, nil
	}

	return kkt.Constraint{}, fmt.Errorf("%w: no relation in %q", errParse, src)
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) accept(c byte) bool {
	if p.peek() == c {
		p.pos++

		return true
	}

	return false
}

// sum = product { ("+" | "-") product }
func (p *parser) sum() (gosymbol.Expr, error) {
	e, err := p.product()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept('+'):
			r, err := p.product()
			if err != nil {
				return nil, err
			}
			e = gosymbol.AddOf(e, r)
		case p.accept('-'):
			r, err := p.product()
			if err != nil {
				return nil, err
			}
			e = gosymbol.AddOf(e, gosymbol.MulOf(gosymbol.N(-1), r))
		default:
			return e, nil
		}
	}
}

// product = unary { ("*" | "/") unary }
func (p *parser) product() (gosymbol.Expr, error) {
	e, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept('*'):
			r, err := p.unary()
			if err != nil {
				return nil, err
			}
			e = gosymbol.MulOf(e, r)
		case p.accept('/'):
			r, err := p.unary()
			if err != nil {
				return nil, err
			}
			e = gosymbol.MulOf(e, gosymbol.PowOf(r, gosymbol.N(-1)))
		default:
			return e, nil
		}
	}
}

// unary = "-" unary | power
func (p *parser) unary() (gosymbol.Expr, error) {
	if p.accept('-') {
		e, err := p.unary()
		if err != nil {
			return nil, err
		}

		return gosymbol.MulOf(gosymbol.N(-1), e), nil
	}

	return p.power()
}

// power = atom [ "^" unary ]   (right associative)
func (p *parser) power() (gosymbol.Expr, error) {
	e, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.accept('^') {
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}

		return gosymbol.PowOf(e, exp), nil
	}

	return e, nil
}

// atom = number | ident [ "(" sum ")" ] | "(" sum ")"
func (p *parser) atom() (gosymbol.Expr, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		e, err := p.sum()
		if err != nil {
			return nil, err
		}
		if !p.accept(')') {
			return nil, fmt.Errorf("%w: missing )", errParse)
		}

		return e, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case isIdentStart(rune(c)):
		return p.identifier()
	default:
		return nil, fmt.Errorf("%w: unexpected %q", errParse, string(c))
	}
}

func (p *parser) number() (gosymbol.Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	r, ok := new(big.Rat).SetString(p.src[start:p.pos])
	if !ok {
		return nil, fmt.Errorf("%w: bad number %q", errParse, p.src[start:p.pos])
	}

	return gosymbol.F(r.Num().Int64(), r.Denom().Int64()), nil
}

func (p *parser) identifier() (gosymbol.Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentPart(rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if p.peek() != '(' {
		return gosymbol.S(name), nil
	}
	p.pos++
	arg, err := p.sum()
	if err != nil {
		return nil, err
	}
	if !p.accept(')') {
		return nil, fmt.Errorf("%w: missing ) after %s(", errParse, name)
	}

	return applyFunc(name, arg)
}

func applyFunc(name string, arg gosymbol.Expr) (gosymbol.Expr, error) {
	switch name {
	case "sin":
		return gosymbol.SinOf(arg), nil
	case "cos":
		return gosymbol.CosOf(arg), nil
	case "tan":
		return gosymbol.TanOf(arg), nil
	case "exp":
		return gosymbol.ExpOf(arg), nil
	case "ln", "log":
		return gosymbol.LnOf(arg), nil
	case "sqrt":
		return gosymbol.SqrtOf(arg), nil
	case "abs":
		return gosymbol.AbsOf(arg), nil
	case "atan":
		return gosymbol.AtanOf(arg), nil
	case "sinh":
		return gosymbol.SinhOf(arg), nil
	case "cosh":
		return gosymbol.CoshOf(arg), nil
	case "tanh":
		return gosymbol.TanhOf(arg), nil
	default:
		return nil, fmt.Errorf("%w: unknown function %q", errParse, name)
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
