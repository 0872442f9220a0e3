package buchi

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"ltlmc/logic"
)

var (
	// ErrParse is returned when the never claim can not be parsed
	ErrParse = errors.New("buchi: unable to parse never claim")
	// ErrUnsatisfied is returned when no automaton state can follow the observed transition
	ErrUnsatisfied = errors.New("buchi: no automaton state accepts the transition")
)

const (
	acceptingPrefix = "accept_"
	initialSuffix   = "_init"
)

// A guarded transition to another automaton state
type Guard struct {
	Condition logic.Statement
	Next      string
}

// A state of the automaton.
//
// A Skip state is absorbing. It accepts every transition and always stays in itself.
type State struct {
	Name      string
	Skip      bool
	Accepting bool
	Guards    []Guard
}

func (s *State) String() string {
	if s.Skip {
		return s.Name + ": skip"
	}
	b := strings.Builder{}
	b.WriteString(s.Name + ":")
	for _, g := range s.Guards {
		b.WriteString(fmt.Sprintf(" [%v -> %v]", g.Condition, g.Next))
	}
	return b.String()
}

// Automaton is a Büchi automaton parsed from a never claim.
// It is immutable and safe for concurrent use.
type Automaton struct {
	states  map[string]*State
	initial []string
}

// Returns the state with the provided name
func (a *Automaton) State(name string) (*State, bool) {
	s, ok := a.states[name]
	return s, ok
}

// Returns the names of all states in natural order
func (a *Automaton) StateNames() []string {
	return NewPaths(maps.Keys(a.states)...).Names()
}

// Returns the set of initial states
func (a *Automaton) Initial() Paths {
	return NewPaths(a.initial...)
}

// Returns true if any of the states in the set is accepting
func (a *Automaton) Accepting(paths Paths) bool {
	for _, name := range paths.names {
		if s, ok := a.states[name]; ok && (s.Accepting || s.Skip) {
			return true
		}
	}
	return false
}

// Returns the sorted names of every atomic proposition used in a guard
func (a *Automaton) Propositions() []string {
	guards := []logic.Statement{}
	for _, s := range a.states {
		for _, g := range s.Guards {
			guards = append(guards, g.Condition)
		}
	}
	return logic.Propositions(logic.And(guards...))
}

// Step every state in the set over one observed transition.
//
// The result is the union of the targets of every guard that holds. Skip states stay in themselves.
// Returns ErrUnsatisfied if the result is empty.
func (a *Automaton) Step(paths Paths, eval logic.Evaluator) (Paths, error) {
	next := []string{}
	for _, name := range paths.names {
		s, ok := a.states[name]
		if !ok {
			return Paths{}, errors.Errorf("buchi: unknown state %q", name)
		}
		if s.Skip {
			next = append(next, s.Name)
			continue
		}
		for _, g := range s.Guards {
			if g.Condition.Eval(eval) {
				next = append(next, g.Next)
			}
		}
	}
	if len(next) == 0 {
		return Paths{}, errors.Wrapf(ErrUnsatisfied, "from %v", paths)
	}
	return NewPaths(next...), nil
}

func (a *Automaton) String() string {
	b := strings.Builder{}
	for _, name := range a.StateNames() {
		b.WriteString(a.states[name].String())
		b.WriteString("\n")
	}
	return b.String()
}

// Parse the never claim produced by an LTL to Büchi translator such as ltl3ba.
//
//	never { /* G F p */
//	T0_init:
//		if
//		:: (1) -> goto T0_init
//		:: (p) -> goto accept_S1
//		fi;
//	accept_S1:
//		...
//	}
//
// States are accepting if their name starts with "accept_" and initial if it ends with "_init".
// A line containing skip makes the current state absorbing.
func Parse(text string) (*Automaton, error) {
	a := &Automaton{states: map[string]*State{}}
	order := []string{}
	var current *State
	for number, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if m := stateLine.FindStringSubmatch(line); m != nil {
			name := m[1]
			if _, ok := a.states[name]; ok {
				return nil, errors.Wrapf(ErrParse, "line %v: state %q defined twice", number+1, name)
			}
			current = &State{
				Name:      name,
				Accepting: strings.HasPrefix(name, acceptingPrefix),
				Guards:    []Guard{},
			}
			a.states[name] = current
			order = append(order, name)
			if strings.HasSuffix(name, initialSuffix) {
				a.initial = append(a.initial, name)
			}
			continue
		}
		if strings.HasPrefix(line, "::") {
			if current == nil {
				return nil, errors.Wrapf(ErrParse, "line %v: transition outside of a state", number+1)
			}
			m := guardLine.FindStringSubmatch(line)
			if m == nil {
				return nil, errors.Wrapf(ErrParse, "line %v: malformed transition %q", number+1, line)
			}
			cond, err := logic.ParsePromela(m[1])
			if err != nil {
				return nil, errors.Wrapf(ErrParse, "line %v: %v", number+1, err)
			}
			current.Guards = append(current.Guards, Guard{Condition: cond, Next: strings.TrimSpace(m[2])})
			continue
		}
		if skipWord.MatchString(line) {
			if current == nil {
				return nil, errors.Wrapf(ErrParse, "line %v: skip outside of a state", number+1)
			}
			current.Skip = true
			current.Accepting = true
		}
	}

	if len(a.states) == 0 {
		return nil, errors.Wrap(ErrParse, "no states")
	}
	if len(a.initial) == 0 {
		return nil, errors.Wrap(ErrParse, "no initial state")
	}
	for _, name := range order {
		for _, g := range a.states[name].Guards {
			if _, ok := a.states[g.Next]; !ok {
				return nil, errors.Wrapf(ErrParse, "state %q has a transition to undefined state %q", name, g.Next)
			}
		}
	}
	slices.Sort(a.initial)
	return a, nil
}
