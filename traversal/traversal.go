package traversal

import (
	"context"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"

	"ltlmc/graph"
	"ltlmc/machine"
)

// VisitType tells a visitor why a state is visited
type VisitType int

const (
	// The state is visited for the first time and is not terminal
	VisitNormal VisitType = iota
	// The state is visited for the first time and is terminal. It will not be expanded.
	VisitTerminal
	// The state has been visited before. It will not be expanded again.
	VisitLoop
)

func (v VisitType) String() string {
	switch v {
	case VisitNormal:
		return "Normal"
	case VisitTerminal:
		return "Terminal"
	case VisitLoop:
		return "Loop"
	}
	return fmt.Sprintf("VisitType(%d)", int(v))
}

// Projection maps a state to the key used to decide if it has been visited.
// If false is returned the state is dropped. It is neither recorded nor expanded.
type Projection[S any, P comparable] func(S) (P, bool)

// Use the state itself as its key
func Identity[S comparable]() Projection[S, S] {
	return func(s S) (S, bool) { return s, true }
}

// Use a 64 bit hash of the go syntax representation of the state as its key.
//
// This allows states that are not comparable to be traversed. Distinct states with colliding hashes are treated as the same state.
func Fingerprint[S any]() Projection[S, uint64] {
	return func(s S) (uint64, bool) {
		return xxh3.HashString(fmt.Sprintf("%#v", s)), true
	}
}

// The set of projected terminal states found by a traversal
type TerminalSet[P comparable] map[P]struct{}

func (t TerminalSet[P]) Contains(p P) bool {
	_, ok := t[p]
	return ok
}

func (t TerminalSet[P]) Len() int {
	return len(t)
}

// Statistics collected during a traversal
type Report struct {
	// Number of distinct states visited
	Visited int64
	// Number of distinct terminal states
	Terminations int64
	// Number of transitions that failed
	EdgesSkipped int64
	// Number of states taken from the queue, including states visited before
	TotalSteps int64
	// Number of transitions attempted
	Transitions int64
	// Number of successor states pushed to the queue
	Discovered int64
	// The largest depth of a visited state
	MaxDepth int64
	Duration time.Duration
}

func (r Report) String() string {
	return fmt.Sprintf("visited %v states (%v terminal) in %v steps, %v transitions attempted, %v skipped, max depth %v, took %v",
		r.Visited, r.Terminations, r.TotalSteps, r.Transitions, r.EdgesSkipped, r.MaxDepth, r.Duration)
}

// The result of a successful traversal
type Result[S any, A comparable, P comparable] struct {
	Report Report
	// The explored state space. Nil unless WithGraph was used.
	// The payload of each node is the first state to arrive at its key.
	Graph *graph.Graph[S, A]
	// Nil unless RecordTerminals was used
	Terminals TerminalSet[P]
}

// Traverse the state space of the machine starting from the initial states.
//
// States are deduplicated on their projection. Traverse returns the first fatal error encountered,
// the first error returned by a visitor, or the error of the context if it is cancelled before the traversal completes.
func Traverse[S any, A machine.Action[A], F any, P comparable](ctx context.Context, m machine.Machine[S, A, F], initial []S, project Projection[S, P], opts ...Option) (*Result[S, A, P], error) {
	e := newEngine(m, project, configure[S](opts))
	return e.run(ctx, initial)
}

// Traverse a machine with comparable states using the states themselves as keys.
func Run[S comparable, A machine.Action[A], F any](ctx context.Context, m machine.Machine[S, A, F], initial []S, opts ...Option) (*Result[S, A, S], error) {
	return Traverse(ctx, m, initial, Identity[S](), opts...)
}
