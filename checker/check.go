package checker

import (
	"cmp"
	"context"
	"fmt"

	"facette.io/natsort"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"ltlmc/graph"
	"ltlmc/machine"
	"ltlmc/traversal"
)

// Identifies a checker state. The recorded path is not part of the identity.
type stateKey[P comparable] struct {
	State P
	Buchi string
}

// Check the property from every initial state, using the states of the model as keys.
func Check[S comparable, A machine.Action[A], F any](ctx context.Context, c *Checker[S, A, F], initial []S, opts ...traversal.Option) (traversal.Report, error) {
	return CheckMapped(ctx, c, initial, traversal.Identity[S](), opts...)
}

// Check the property from every initial state. States of the model are identified by their projection.
//
// Returns a *SafetyError if a finite run violates the property and a *LivenessError if the model can
// stay forever in a region of states where the property is not fulfilled.
// The graph is always built and automaton failures are always fatal.
// The traversal runs over checker states, so visitors must be created with traversal.WithVisitor[State[S, A]].
// Visitors of the model state type are ignored with a warning.
func CheckMapped[S any, A machine.Action[A], F any, P comparable](ctx context.Context, c *Checker[S, A, F], initial []S, project traversal.Projection[S, P], opts ...traversal.Option) (traversal.Report, error) {
	if depth := traversal.DepthBound(opts...); depth >= 0 {
		c.log.WithField("maxDepth", depth).Warn("Checker: the depth is bounded, liveness results only cover the explored prefix")
	}

	states := make([]State[S, A], 0, len(initial))
	for _, s := range initial {
		states = append(states, c.Initial(s))
	}
	key := func(s State[S, A]) (stateKey[P], bool) {
		p, ok := project(s.State)
		return stateKey[P]{State: p, Buchi: s.Buchi.Key()}, ok
	}
	opts = append(opts[:len(opts):len(opts)],
		traversal.WithGraph(),
		traversal.FatalError(isBuchiError[S, A]),
		traversal.WithLogger(c.log),
	)

	res, err := traversal.Traverse[State[S, A], A, F, stateKey[P]](ctx, c, states, key, opts...)
	if err != nil {
		var be *BuchiError[S, A]
		if errors.As(err, &be) {
			return traversal.Report{}, &SafetyError[S, A]{Path: be.Path, Prev: be.Prev, Next: be.Next}
		}
		return traversal.Report{}, err
	}

	if err := c.liveness(res.Graph); err != nil {
		return res.Report, err
	}
	return res.Report, nil
}

// Every infinite run of a finite graph ends up in a sink component.
// The property holds if each of those components contains an accepting automaton state.
func (c *Checker[S, A, F]) liveness(g *graph.Graph[State[S, A], A]) error {
	condensed := graph.Condense(g)
	for _, index := range condensed.Sinks() {
		members := condensed.Components[index]
		accepting := false
		for _, id := range members {
			if c.automaton.Accepting(g.Node(id).Buchi) {
				accepting = true
				break
			}
		}
		if accepting {
			continue
		}

		region := make([]State[S, A], 0, len(members))
		for _, id := range members {
			region = append(region, g.Node(id))
		}
		slices.SortStableFunc(region, func(a, b State[S, A]) int {
			if byLength := cmp.Compare(len(a.Path), len(b.Path)); byLength != 0 {
				return byLength
			}
			x, y := fmt.Sprint(a.Path), fmt.Sprint(b.Path)
			switch {
			case natsort.Compare(x, y):
				return -1
			case natsort.Compare(y, x):
				return 1
			}
			return 0
		})
		le := &LivenessError[S, A]{
			Paths:  make([][]A, 0, len(region)),
			States: make([]S, 0, len(region)),
		}
		for _, s := range region {
			le.Paths = append(le.Paths, s.Path)
			le.States = append(le.States, s.State)
		}
		return le
	}
	return nil
}
