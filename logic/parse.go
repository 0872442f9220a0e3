package logic

import (
	"unicode"

	"github.com/pkg/errors"
)

// ErrSyntax is returned when a guard can not be parsed
var ErrSyntax = errors.New("logic: syntax error")

// Parse a guard expression as written in promela never claims.
//
// Supported are the literals 1, 0, true and false, atomic propositions, negation (!),
// conjunction (&&), disjunction (||) and parentheses. && binds tighter than ||.
func ParsePromela(text string) (Statement, error) {
	p := &parser{text: text}
	stmt, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.text) {
		return nil, errors.Wrapf(ErrSyntax, "unexpected %q at offset %v in %q", p.text[p.pos:], p.pos, text)
	}
	return stmt, nil
}

type parser struct {
	text string
	pos  int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.text) && unicode.IsSpace(rune(p.text[p.pos])) {
		p.pos++
	}
}

func (p *parser) consume(token string) bool {
	p.skipSpace()
	if len(p.text)-p.pos >= len(token) && p.text[p.pos:p.pos+len(token)] == token {
		p.pos += len(token)
		return true
	}
	return false
}

func (p *parser) disjunction() (Statement, error) {
	first, err := p.conjunction()
	if err != nil {
		return nil, err
	}
	operands := []Statement{first}
	for p.consume("||") {
		next, err := p.conjunction()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return Or(operands...), nil
}

func (p *parser) conjunction() (Statement, error) {
	first, err := p.unary()
	if err != nil {
		return nil, err
	}
	operands := []Statement{first}
	for p.consume("&&") {
		next, err := p.unary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return And(operands...), nil
}

func (p *parser) unary() (Statement, error) {
	if p.consume("!") {
		stmt, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Not(stmt), nil
	}
	if p.consume("(") {
		stmt, err := p.disjunction()
		if err != nil {
			return nil, err
		}
		if !p.consume(")") {
			return nil, errors.Wrapf(ErrSyntax, "missing closing parenthesis at offset %v in %q", p.pos, p.text)
		}
		return stmt, nil
	}
	return p.atom()
}

func (p *parser) atom() (Statement, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.text) && isIdent(rune(p.text[p.pos])) {
		p.pos++
	}
	word := p.text[start:p.pos]
	switch word {
	case "":
		return nil, errors.Wrapf(ErrSyntax, "expected proposition at offset %v in %q", start, p.text)
	case "1", "true":
		return True, nil
	case "0", "false":
		return False, nil
	}
	return Prop(word), nil
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
