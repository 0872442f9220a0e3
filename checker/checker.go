package checker

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ltlmc/buchi"
	"ltlmc/logic"
	"ltlmc/machine"
)

// Option configures a Checker
type Option interface{}

type translatorOption struct {
	t buchi.Translator
}

// Translate formulas with the translator. The default runs ltl3ba.
func WithTranslator(t buchi.Translator) Option {
	return translatorOption{t: t}
}

type loggerOption struct {
	log logrus.FieldLogger
}

func WithLogger(log logrus.FieldLogger) Option {
	return loggerOption{log: log}
}

// State of the checker: the state of the model, the actions taken to reach it and the automaton states consistent with those actions.
type State[S, A any] struct {
	machine.PathState[S, A]
	Buchi buchi.Paths
}

func (s State[S, A]) String() string {
	return fmt.Sprintf("%v %v (path: %v)", s.State, s.Buchi, s.Path)
}

// Checker is the product of a model and a Büchi automaton. It is itself a Machine.
//
// The automaton is not determinized up front. Each state carries the set of automaton states consistent with its history instead.
type Checker[S any, A machine.Action[A], F any] struct {
	model     machine.PathMachine[S, A, F]
	props     Propositions[S, A]
	automaton *buchi.Automaton
	log       logrus.FieldLogger
}

// Create a checker verifying the LTL formula on the model
func New[S any, A machine.Action[A], F any](ctx context.Context, m machine.Machine[S, A, F], props Propositions[S, A], ltl string, opts ...Option) (*Checker[S, A, F], error) {
	var translator buchi.Translator = buchi.CommandTranslator{}
	for _, opt := range opts {
		if t, ok := opt.(translatorOption); ok && t.t != nil {
			translator = t.t
		}
	}
	automaton, err := buchi.FromLTL(ctx, translator, ltl)
	if err != nil {
		return nil, err
	}
	return NewFromAutomaton(m, props, automaton, opts...)
}

// Create a checker from an already constructed automaton
func NewFromAutomaton[S any, A machine.Action[A], F any](m machine.Machine[S, A, F], props Propositions[S, A], automaton *buchi.Automaton, opts ...Option) (*Checker[S, A, F], error) {
	c := &Checker[S, A, F]{
		model:     machine.NewPathMachine(m),
		props:     props,
		automaton: automaton,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if l, ok := opt.(loggerOption); ok && l.log != nil {
			c.log = l.log
		}
	}
	if known, ok := props.(knownPropositions); ok {
		for _, name := range automaton.Propositions() {
			if !known.Has(name) {
				return nil, errors.Wrapf(ErrUnknownProposition, "%q", name)
			}
		}
	}
	return c, nil
}

func (c *Checker[S, A, F]) Automaton() *buchi.Automaton {
	return c.automaton
}

// The checker state of an initial state of the model
func (c *Checker[S, A, F]) Initial(state S) State[S, A] {
	return State[S, A]{
		PathState: machine.NewPathState[S, A](state),
		Buchi:     c.automaton.Initial(),
	}
}

// Apply the action to the model and step the automaton over the resulting transition.
//
// Returns a *MachineError if the model rejects the action and a *BuchiError if the automaton can not follow the transition.
func (c *Checker[S, A, F]) Transition(state State[S, A], action A) (State[S, A], F, error) {
	next, fx, err := c.model.Transition(state.PathState, action)
	if err != nil {
		return state, fx, &MachineError{Err: err}
	}
	t := machine.Transition[S, A]{Prev: state.State, Action: action, Next: next.State}
	eval := logic.EvaluatorFunc(func(prop string) bool {
		return c.props.Evaluate(prop, t)
	})
	paths, err := c.automaton.Step(state.Buchi, eval)
	if err != nil {
		return state, fx, &BuchiError[S, A]{
			Err:  err,
			Path: next.Path,
			Prev: state.State,
			Next: next.State,
		}
	}
	return State[S, A]{PathState: next, Buchi: paths}, fx, nil
}

func (c *Checker[S, A, F]) IsTerminal(state State[S, A]) bool {
	return c.model.IsTerminal(state.PathState)
}
