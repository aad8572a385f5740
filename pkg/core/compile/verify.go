package compile

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// FORMULA VERIFIER
// A small interpreter for the compiled formula dialect: numbers, defined
// names, + - * /, unary minus, comparisons, parentheses and the SUM/IF/ABS
// functions. It exists so a compiled workbook can be checked against the
// in-memory evaluator without opening a spreadsheet application.
// =============================================================================

// EvalFormula evaluates a compiled formula (with or without the leading "=").
// Names are resolved through lookup. Boolean results are 1 or 0.
func EvalFormula(expr string, lookup func(name string) (float64, error)) (float64, error) {
	p := &parser{src: strings.TrimPrefix(strings.TrimSpace(expr), "="), lookup: lookup}
	v, err := p.comparison()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, fmt.Errorf("unexpected %q at offset %d in %q", p.src[p.pos], p.pos, expr)
	}
	return v, nil
}

type parser struct {
	src    string
	pos    int
	lookup func(name string) (float64, error)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) comparison() (float64, error) {
	left, err := p.additive()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	op := ""
	switch {
	case strings.HasPrefix(p.src[p.pos:], "<="), strings.HasPrefix(p.src[p.pos:], ">="), strings.HasPrefix(p.src[p.pos:], "<>"):
		op = p.src[p.pos : p.pos+2]
		p.pos += 2
	case p.peek() == '<' || p.peek() == '>' || p.peek() == '=':
		op = string(p.peek())
		p.pos++
	default:
		return left, nil
	}
	right, err := p.additive()
	if err != nil {
		return 0, err
	}
	return boolValue(compare(op, left, right)), nil
}

func compare(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	case "<>":
		return a != b
	default:
		return a == b
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (p *parser) additive() (float64, error) {
	v, err := p.multiplicative()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.multiplicative()
			if err != nil {
				return 0, err
			}
			v += rhs
		case '-':
			p.pos++
			rhs, err := p.multiplicative()
			if err != nil {
				return 0, err
			}
			v -= rhs
		default:
			return v, nil
		}
	}
}

func (p *parser) multiplicative() (float64, error) {
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			v *= rhs
		case '/':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			// Arguments evaluate eagerly, so the untaken branch of a
			// zero guard like IF(d=0,0,n/d) still reaches here. The
			// dialect only divides under such guards; yield 0 and let
			// the IF discard it.
			if rhs == 0 {
				v = 0
			} else {
				v /= rhs
			}
		default:
			return v, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.unary()
		return -v, err
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.comparison()
		if err != nil {
			return 0, err
		}
		if err := p.expect(')'); err != nil {
			return 0, err
		}
		return v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case isNameByte(c):
		return p.nameOrCall()
	default:
		return 0, fmt.Errorf("unexpected %q at offset %d in %q", c, p.pos, p.src)
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d in %q", c, p.pos, p.src)
	}
	p.pos++
	return nil
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' ||
			((c == '+' || c == '-') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", p.src[start:p.pos], err)
	}
	return v, nil
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func (p *parser) nameOrCall() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	ident := p.src[start:p.pos]
	p.skipSpace()
	if p.peek() != '(' {
		return p.lookup(ident)
	}
	p.pos++
	args, err := p.arguments()
	if err != nil {
		return 0, err
	}
	return callFunction(ident, args, p.src)
}

func (p *parser) arguments() ([]float64, error) {
	var args []float64
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return args, nil
	}
	for {
		v, err := p.comparison()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d in %q", p.pos, p.src)
		}
	}
}

func callFunction(name string, args []float64, src string) (float64, error) {
	switch strings.ToUpper(name) {
	case "SUM":
		total := 0.0
		for _, a := range args {
			total += a
		}
		return total, nil
	case "ABS":
		if len(args) != 1 {
			return 0, fmt.Errorf("ABS takes one argument in %q", src)
		}
		if args[0] < 0 {
			return -args[0], nil
		}
		return args[0], nil
	case "IF":
		if len(args) != 3 {
			return 0, fmt.Errorf("IF takes three arguments in %q", src)
		}
		if args[0] != 0 {
			return args[1], nil
		}
		return args[2], nil
	default:
		return 0, fmt.Errorf("unsupported function %q in %q", name, src)
	}
}
