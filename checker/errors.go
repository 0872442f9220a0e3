package checker

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownProposition is returned when the formula uses a proposition that can not be evaluated
var ErrUnknownProposition = errors.New("checker: unknown proposition")

// MachineError wraps the error of the model when an action is not applicable.
// It only means the edge is not explored.
type MachineError struct {
	Err error
}

func (me *MachineError) Error() string {
	return "checker: machine error: " + me.Err.Error()
}

func (me *MachineError) Unwrap() error {
	return me.Err
}

// BuchiError is returned by a transition that no automaton state can follow.
type BuchiError[S, A any] struct {
	Err  error
	Path []A
	Prev S
	Next S
}

func (be *BuchiError[S, A]) Error() string {
	return fmt.Sprintf("checker: property violated after %v moving from %v to %v: %v", be.Path, be.Prev, be.Next, be.Err)
}

func (be *BuchiError[S, A]) Unwrap() error {
	return be.Err
}

func isBuchiError[S, A any](err error) bool {
	var be *BuchiError[S, A]
	return errors.As(err, &be)
}

// SafetyError is returned when a finite sequence of actions violates the property.
type SafetyError[S, A any] struct {
	// The actions leading to Next
	Path []A
	Prev S
	Next S
}

func (se *SafetyError[S, A]) Error() string {
	return fmt.Sprintf("checker: safety violation: %v -> %v after %v", se.Prev, se.Next, se.Path)
}

// LivenessError is returned when the model can stay forever in a region where the property is never fulfilled.
type LivenessError[S, A any] struct {
	// A path to each state in the region, shortest first
	Paths [][]A
	// The states of the region in the same order as Paths
	States []S
}

func (le *LivenessError[S, A]) Error() string {
	return fmt.Sprintf("checker: liveness violation: %v states can be repeated forever without fulfilling the property", len(le.States))
}
