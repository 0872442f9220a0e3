package machine

import (
	"fmt"

	"github.com/pkg/errors"
)

// Returned (usually wrapped) by a Machine when an action can not be applied in the current state.
//
// Inapplicable actions are expected during exhaustive exploration and are not failures of the model.
var ErrInvalidAction = errors.New("machine: action is not applicable in this state")

// Action is the constraint satisfied by the actions of a Machine.
//
// The zero value of the action type must be able to enumerate every possible action.
// If limit is larger than zero at most limit actions are returned.
type Action[A any] interface {
	comparable
	Exhaustive(limit int) []A
}

// A Machine is a deterministic state transition function.
//
// Machines hold no mutable state. Transition must return the same result every time it is called with the same state and action,
// and must not modify anything reachable from the provided state.
// F is the type of the auxiliary effect produced by a transition.
type Machine[S any, A Action[A], F any] interface {
	// Apply the action to the state. Returns an error if the action is not applicable.
	Transition(state S, action A) (S, F, error)
	// Returns true if no further actions should be explored from the state.
	IsTerminal(state S) bool
}

// NonTerminal can be embedded in a Machine that has no terminal states.
type NonTerminal[S any] struct{}

func (NonTerminal[S]) IsTerminal(S) bool { return false }

// Enumerate all actions of type A. If limit is larger than zero at most limit actions are returned.
func Enumerate[A Action[A]](limit int) []A {
	var zero A
	actions := zero.Exhaustive(limit)
	if limit > 0 && len(actions) > limit {
		actions = actions[:limit]
	}
	return actions
}

// Transition is a single step of a Machine: the state before, the action applied and the state after.
type Transition[S, A any] struct {
	Prev   S
	Action A
	Next   S
}

func (t Transition[S, A]) String() string {
	return fmt.Sprintf("%v -[%v]-> %v", t.Prev, t.Action, t.Next)
}

// Returned by ApplyActions when one of the actions could not be applied.
//
// Contains the state the action was applied to, the action and its index in the sequence.
type ApplyError[S, A any] struct {
	Err    error
	State  S
	Action A
	Index  int
}

func (ae *ApplyError[S, A]) Error() string {
	return fmt.Sprintf("machine: unable to apply action %v (index %v) to state %v: %v", ae.Action, ae.Index, ae.State, ae.Err)
}

func (ae *ApplyError[S, A]) Unwrap() error {
	return ae.Err
}

// Apply a sequence of actions to the state, calling onAction after each successful transition.
//
// Stops at the first action that fails and returns an *ApplyError describing it.
// Returns the final state and the effects of all transitions otherwise.
func ApplyEachAction[S any, A Action[A], F any](m Machine[S, A, F], state S, actions []A, onAction func(A, S)) (S, []F, error) {
	effects := make([]F, 0, len(actions))
	for i, action := range actions {
		next, fx, err := m.Transition(state, action)
		if err != nil {
			return state, effects, &ApplyError[S, A]{
				Err:    err,
				State:  state,
				Action: action,
				Index:  i,
			}
		}
		if onAction != nil {
			onAction(action, next)
		}
		effects = append(effects, fx)
		state = next
	}
	return state, effects, nil
}

// Apply a sequence of actions to the state and return the final state and all effects.
func ApplyActions[S any, A Action[A], F any](m Machine[S, A, F], state S, actions []A) (S, []F, error) {
	return ApplyEachAction(m, state, actions, nil)
}
