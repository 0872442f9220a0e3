package checker

import (
	"log"

	"ltlmc/logic"
	"ltlmc/machine"
)

// Propositions evaluates the atomic propositions of a formula over a transition of the model.
//
// The checker never looks at the states of the model directly, every proposition goes through Evaluate.
type Propositions[S, A any] interface {
	Evaluate(prop string, t machine.Transition[S, A]) bool
}

// Use a function as Propositions
type PropositionFunc[S, A any] func(prop string, t machine.Transition[S, A]) bool

func (f PropositionFunc[S, A]) Evaluate(prop string, t machine.Transition[S, A]) bool {
	return f(prop, t)
}

// Implemented by Propositions that know which names they can evaluate
type knownPropositions interface {
	Has(prop string) bool
}

type boundPropositions[P comparable, S, A any] struct {
	registry *logic.Registry[P]
	eval     func(P, machine.Transition[S, A]) bool
}

// Bind typed propositions to the names in the registry.
func Bind[P comparable, S, A any](registry *logic.Registry[P], eval func(P, machine.Transition[S, A]) bool) Propositions[S, A] {
	return boundPropositions[P, S, A]{registry: registry, eval: eval}
}

func (b boundPropositions[P, S, A]) Evaluate(prop string, t machine.Transition[S, A]) bool {
	p, ok := b.registry.Lookup(prop)
	if !ok {
		log.Panicf("Checker: proposition %q is not registered", prop)
	}
	return b.eval(p, t)
}

func (b boundPropositions[P, S, A]) Has(prop string) bool {
	return b.registry.Has(prop)
}
