package replay

import (
	"sync"

	"github.com/pkg/errors"

	"ltlmc/machine"
)

// ErrRunEnded is returned by Step when every action has been applied
var ErrRunEnded = errors.New("replay: run ended")

// Replayer applies a recorded run one action at a time
type Replayer[S any, A machine.Action[A], F any] struct {
	sync.Mutex
	m       machine.Machine[S, A, F]
	actions []A
	// The index of the next action
	index int
	state S
}

func NewReplayer[S any, A machine.Action[A], F any](m machine.Machine[S, A, F], initial S, actions []A) *Replayer[S, A, F] {
	return &Replayer[S, A, F]{
		m:       m,
		actions: actions,
		state:   initial,
	}
}

// Apply the next action and return the new state.
// Returns ErrRunEnded if there are no more actions and a *machine.ApplyError if the action fails.
func (r *Replayer[S, A, F]) Step() (S, F, error) {
	r.Lock()
	defer r.Unlock()

	var fx F
	if r.index >= len(r.actions) {
		return r.state, fx, ErrRunEnded
	}
	action := r.actions[r.index]
	next, fx, err := r.m.Transition(r.state, action)
	if err != nil {
		return r.state, fx, &machine.ApplyError[S, A]{
			Err:    err,
			State:  r.state,
			Action: action,
			Index:  r.index,
		}
	}
	r.index++
	r.state = next
	return next, fx, nil
}

// The current state
func (r *Replayer[S, A, F]) State() S {
	r.Lock()
	defer r.Unlock()
	return r.state
}

// Returns true if every action has been applied
func (r *Replayer[S, A, F]) Done() bool {
	r.Lock()
	defer r.Unlock()
	return r.index >= len(r.actions)
}
