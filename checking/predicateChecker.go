package checking

import (
	"bytes"
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"

	"ltlmc/machine"
	"ltlmc/traversal"
)

// The result of PredicateChecker.Check
type PredicateCheckerResponse[S, A any] struct {
	Result   bool // True if all tests holds. False otherwise
	Sequence []S  // A sequence of states leading to the false test. nil if Result is true
	Path     []A  // The actions taken from the initial state. nil if Result is true
	Test     int  // The index of the failing test. -1 if Result is true
}

// Generate a response
// Returns two parameters, result, and description.
// Result is true if all predicates hold, false otherwise.
// Description is a formatted string providing a detailed description of the result.
// If result is false the description contain a representation of the sequence of states that lead to the failing state
func (pcr PredicateCheckerResponse[S, A]) Response() (bool, string) {
	if pcr.Result {
		return pcr.Result, "All predicates holds"
	}
	var buffer bytes.Buffer
	wrt := tabwriter.NewWriter(&buffer, 4, 4, 0, ' ', 0)
	out := fmt.Sprintf("Predicate broken. Predicate: %v. Sequence: \n", pcr.Test)
	for i, element := range pcr.Sequence {
		if i == 0 {
			fmt.Fprintf(wrt, "   %v \n", element)
			continue
		}
		fmt.Fprintf(wrt, "-[%v]-> %v \n", pcr.Path[i-1], element)
	}
	wrt.Flush()
	out += buffer.String()
	return pcr.Result, out
}

// Export the failing action sequence so it can be replayed
func (pcr PredicateCheckerResponse[S, A]) Export() []A {
	if pcr.Path == nil {
		return []A{}
	}
	out := make([]A, len(pcr.Path))
	copy(out, pcr.Path)
	return out
}

// A function to be evaluated on the states
// It returns true if the predicate holds for the state and false otherwise
type Predicate[S any] func(s State[S]) bool

type PredicateChecker[S any, A machine.Action[A], F any] struct {
	// A slice of predicates that returns true if the predicate holds.
	// If the predicate is broken it returns false and a counterexample
	predicates []Predicate[S]
}

func NewPredicateChecker[S any, A machine.Action[A], F any](predicates ...Predicate[S]) *PredicateChecker[S, A, F] {
	return &PredicateChecker[S, A, F]{
		predicates: predicates,
	}
}

type brokenPredicate[S, A any] struct {
	state machine.PathState[S, A]
	index int
}

func (bp *brokenPredicate[S, A]) Error() string {
	return fmt.Sprintf("predicate %v broken in %v", bp.index, bp.state)
}

// Traverse the state space of the machine and check the predicates on every visited state.
//
// States are identified by a fingerprint of the model state. The traversal stops at the first broken predicate.
// Returns an error if the traversal fails for another reason.
func (pc *PredicateChecker[S, A, F]) Check(ctx context.Context, m machine.Machine[S, A, F], initial []S, opts ...traversal.Option) (*PredicateCheckerResponse[S, A], error) {
	states := make([]machine.PathState[S, A], 0, len(initial))
	for _, s := range initial {
		states = append(states, machine.NewPathState[S, A](s))
	}
	fingerprint := traversal.Fingerprint[S]()
	project := func(ps machine.PathState[S, A]) (uint64, bool) {
		return fingerprint(ps.State)
	}
	visitor := traversal.WithVisitor(func(ps machine.PathState[S, A], kind traversal.VisitType) error {
		if kind == traversal.VisitLoop {
			return nil
		}
		if ok, index := pc.checkState(ps.State, kind == traversal.VisitTerminal); !ok {
			return &brokenPredicate[S, A]{state: ps, index: index}
		}
		return nil
	})
	opts = append(opts[:len(opts):len(opts)], visitor)

	pm := machine.NewPathMachine(m)
	_, err := traversal.Traverse[machine.PathState[S, A], A, F, uint64](ctx, pm, states, project, opts...)
	if err == nil {
		return &PredicateCheckerResponse[S, A]{
			Result:   true,
			Sequence: nil,
			Path:     nil,
			Test:     -1,
		}, nil
	}

	var broken *brokenPredicate[S, A]
	if !errors.As(err, &broken) {
		return nil, err
	}
	return &PredicateCheckerResponse[S, A]{
		Result:   false,
		Sequence: pc.sequence(m, initial, broken.state),
		Path:     broken.state.Path,
		Test:     broken.index,
	}, nil
}

// Recreate the states leading to the failing state by replaying its path from the initial state it came from
func (pc *PredicateChecker[S, A, F]) sequence(m machine.Machine[S, A, F], initial []S, failing machine.PathState[S, A]) []S {
	fingerprint := traversal.Fingerprint[S]()
	target, _ := fingerprint(failing.State)
	for _, s := range initial {
		sequence := []S{s}
		final, _, err := machine.ApplyEachAction(m, s, failing.Path, func(_ A, next S) {
			sequence = append(sequence, next)
		})
		if err != nil {
			continue
		}
		if key, _ := fingerprint(final); key == target {
			return sequence
		}
	}
	return []S{failing.State}
}

func (pc *PredicateChecker[S, A, F]) checkState(state S, terminal bool) (bool, int) {
	// Check the state on all predicates
	for index, pred := range pc.predicates {
		if !pred(State[S]{
			State:      state,
			IsTerminal: terminal,
		}) {
			return false, index
		}
	}
	return true, -1
}
