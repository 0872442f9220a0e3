package logic

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrDuplicateProposition is returned when two propositions end up with the same formula name
var ErrDuplicateProposition = errors.New("logic: duplicate proposition name")

// Registry maps typed propositions to names that can be used in LTL formulas.
type Registry[P comparable] struct {
	byName map[string]P
	byProp map[P]string
}

func NewRegistry[P comparable]() *Registry[P] {
	return &Registry[P]{
		byName: map[string]P{},
		byProp: map[P]string{},
	}
}

// Create a registry containing all the propositions. Panics if two propositions collide.
func MustRegistry[P comparable](props ...P) *Registry[P] {
	r := NewRegistry[P]()
	for _, prop := range props {
		if _, err := r.Add(prop); err != nil {
			panic(err)
		}
	}
	return r
}

// Register a proposition and return the name it can be referenced by in a formula.
// Adding the same proposition twice returns the existing name.
func (r *Registry[P]) Add(prop P) (string, error) {
	if name, ok := r.byProp[prop]; ok {
		return name, nil
	}
	name := Sanitize(fmt.Sprint(prop))
	if _, ok := r.byName[name]; ok {
		return "", errors.Wrapf(ErrDuplicateProposition, "%q from %v", name, prop)
	}
	r.byName[name] = prop
	r.byProp[prop] = name
	return name, nil
}

// Returns the proposition registered under the name
func (r *Registry[P]) Lookup(name string) (P, bool) {
	prop, ok := r.byName[name]
	return prop, ok
}

// Returns the formula name of a registered proposition
func (r *Registry[P]) Name(prop P) (string, bool) {
	name, ok := r.byProp[prop]
	return name, ok
}

func (r *Registry[P]) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Returns all registered names in sorted order
func (r *Registry[P]) Names() []string {
	names := maps.Keys(r.byName)
	slices.Sort(names)
	return names
}

// Turn an arbitrary string into a valid proposition name.
// The name is lower cased, every character that is not a letter or a digit is replaced with an underscore and names starting with a digit are prefixed with "p_".
func Sanitize(raw string) string {
	b := strings.Builder{}
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "p_" + name
	}
	return name
}

// Joins LTL formulas into a single conjunction. Each formula is parenthesized.
func Conjoin(formulas ...string) string {
	switch len(formulas) {
	case 0:
		return "true"
	case 1:
		return formulas[0]
	}
	parts := make([]string, len(formulas))
	for i, f := range formulas {
		parts[i] = "(" + f + ")"
	}
	return strings.Join(parts, " && ")
}
