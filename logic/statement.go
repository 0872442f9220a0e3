package logic

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Evaluator decides whether a named atomic proposition holds.
type Evaluator interface {
	Holds(prop string) bool
}

// Use a function as an Evaluator
type EvaluatorFunc func(prop string) bool

func (f EvaluatorFunc) Holds(prop string) bool {
	return f(prop)
}

// Statement is a propositional formula over named atomic propositions.
type Statement interface {
	Eval(e Evaluator) bool
	String() string
	props(out map[string]struct{})
}

type constant bool

// True holds for every evaluator
var True Statement = constant(true)

// False never holds
var False Statement = constant(false)

func (c constant) Eval(Evaluator) bool { return bool(c) }

func (c constant) String() string {
	if c {
		return "true"
	}
	return "false"
}

func (constant) props(map[string]struct{}) {}

// Prop is an atomic proposition. It holds if the evaluator says so.
type Prop string

func (p Prop) Eval(e Evaluator) bool { return e.Holds(string(p)) }

func (p Prop) String() string { return string(p) }

func (p Prop) props(out map[string]struct{}) { out[string(p)] = struct{}{} }

type and []Statement

// And holds if all of its operands hold. An empty conjunction is true.
func And(stmts ...Statement) Statement {
	return and(stmts)
}

func (a and) Eval(e Evaluator) bool {
	for _, s := range a {
		if !s.Eval(e) {
			return false
		}
	}
	return true
}

func (a and) String() string { return join(a, " && ", "true") }

func (a and) props(out map[string]struct{}) {
	for _, s := range a {
		s.props(out)
	}
}

type or []Statement

// Or holds if any of its operands hold. An empty disjunction is false.
func Or(stmts ...Statement) Statement {
	return or(stmts)
}

func (o or) Eval(e Evaluator) bool {
	for _, s := range o {
		if s.Eval(e) {
			return true
		}
	}
	return false
}

func (o or) String() string { return join(o, " || ", "false") }

func (o or) props(out map[string]struct{}) {
	for _, s := range o {
		s.props(out)
	}
}

type not struct {
	stmt Statement
}

func Not(stmt Statement) Statement {
	return not{stmt: stmt}
}

func (n not) Eval(e Evaluator) bool { return !n.stmt.Eval(e) }

func (n not) String() string {
	switch n.stmt.(type) {
	case Prop, constant:
		return "!" + n.stmt.String()
	}
	return fmt.Sprintf("!(%v)", n.stmt)
}

func (n not) props(out map[string]struct{}) { n.stmt.props(out) }

type implies struct {
	antecedent, consequent Statement
}

// Implies holds unless the antecedent holds and the consequent does not
func Implies(antecedent, consequent Statement) Statement {
	return implies{antecedent: antecedent, consequent: consequent}
}

func (i implies) Eval(e Evaluator) bool {
	return !i.antecedent.Eval(e) || i.consequent.Eval(e)
}

func (i implies) String() string {
	return fmt.Sprintf("(%v -> %v)", i.antecedent, i.consequent)
}

func (i implies) props(out map[string]struct{}) {
	i.antecedent.props(out)
	i.consequent.props(out)
}

func join(stmts []Statement, sep string, empty string) string {
	if len(stmts) == 0 {
		return empty
	}
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Returns the sorted names of all atomic propositions referenced by the statement
func Propositions(stmt Statement) []string {
	out := map[string]struct{}{}
	stmt.props(out)
	names := maps.Keys(out)
	slices.Sort(names)
	return names
}
