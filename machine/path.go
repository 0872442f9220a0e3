package machine

import "fmt"

// PathState is the state of a PathMachine.
//
// Path is the sequence of actions taken from the initial state.
// It is never modified in place, so it can safely be shared between states.
type PathState[S, A any] struct {
	State S
	Path  []A
}

// Wrap the state in a PathState with an empty history.
func NewPathState[S, A any](state S) PathState[S, A] {
	return PathState[S, A]{State: state, Path: []A{}}
}

func (ps PathState[S, A]) String() string {
	return fmt.Sprintf("%v (path: %v)", ps.State, ps.Path)
}

// PathMachine wraps a Machine and records every action applied to reach a state.
type PathMachine[S any, A Action[A], F any] struct {
	Machine Machine[S, A, F]
}

func NewPathMachine[S any, A Action[A], F any](m Machine[S, A, F]) PathMachine[S, A, F] {
	return PathMachine[S, A, F]{Machine: m}
}

func (pm PathMachine[S, A, F]) Transition(state PathState[S, A], action A) (PathState[S, A], F, error) {
	next, fx, err := pm.Machine.Transition(state.State, action)
	if err != nil {
		return state, fx, err
	}
	// The full slice expression forces append to copy, so sibling paths never share a backing array
	path := append(state.Path[:len(state.Path):len(state.Path)], action)
	return PathState[S, A]{State: next, Path: path}, fx, nil
}

func (pm PathMachine[S, A, F]) IsTerminal(state PathState[S, A]) bool {
	return pm.Machine.IsTerminal(state.State)
}
