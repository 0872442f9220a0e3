package machine

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type move int

const (
	up move = iota
	down
)

func (move) Exhaustive(limit int) []move {
	return []move{up, down}
}

// Counts between 0 and 3
type bounded struct {
	NonTerminal[int]
}

func (bounded) Transition(s int, a move) (int, string, error) {
	switch {
	case a == up && s < 3:
		return s + 1, "up", nil
	case a == down && s > 0:
		return s - 1, "down", nil
	}
	return s, "", errors.Wrapf(ErrInvalidAction, "%v from %v", a, s)
}

func TestTransitionIsDeterministic(t *testing.T) {
	m := bounded{}
	for s := 0; s <= 3; s++ {
		for _, a := range Enumerate[move](0) {
			first, firstFx, firstErr := m.Transition(s, a)
			for i := 0; i < 10; i++ {
				next, fx, err := m.Transition(s, a)
				if next != first || fx != firstFx || (err == nil) != (firstErr == nil) {
					t.Errorf("Transition(%v, %v) is not deterministic. Got %v %v %v and %v %v %v", s, a, first, firstFx, firstErr, next, fx, err)
				}
			}
		}
	}
}

func TestEnumerate(t *testing.T) {
	assert.Equal(t, []move{up, down}, Enumerate[move](0))
	assert.Equal(t, []move{up}, Enumerate[move](1))
	assert.Equal(t, []move{up, down}, Enumerate[move](5))
}

func TestApplyActions(t *testing.T) {
	final, effects, err := ApplyActions[int, move, string](bounded{}, 0, []move{up, up, down, up, up})
	require.NoError(t, err)
	assert.Equal(t, 3, final)
	assert.Equal(t, []string{"up", "up", "down", "up", "up"}, effects)
}

func TestApplyActionsStopsAtFirstError(t *testing.T) {
	visited := []int{}
	final, effects, err := ApplyEachAction[int, move, string](bounded{}, 0, []move{up, down, down, up}, func(a move, s int) {
		visited = append(visited, s)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAction)

	var applyErr *ApplyError[int, move]
	require.True(t, errors.As(err, &applyErr))
	assert.Equal(t, 2, applyErr.Index)
	assert.Equal(t, down, applyErr.Action)
	assert.Equal(t, 0, applyErr.State)

	assert.Equal(t, 0, final)
	assert.Equal(t, []string{"up", "down"}, effects)
	assert.Equal(t, []int{1, 0}, visited)
}

func TestPathMachine(t *testing.T) {
	pm := NewPathMachine[int, move, string](bounded{})
	root := NewPathState[int, move](0)

	one, _, err := pm.Transition(root, up)
	require.NoError(t, err)
	assert.Equal(t, []move{up}, one.Path)
	assert.Empty(t, root.Path)

	// Siblings must not share the history of each other
	two, _, err := pm.Transition(one, up)
	require.NoError(t, err)
	back, _, err := pm.Transition(one, down)
	require.NoError(t, err)
	assert.Equal(t, []move{up, up}, two.Path)
	assert.Equal(t, []move{up, down}, back.Path)
	assert.Equal(t, 2, two.State)
	assert.Equal(t, 0, back.State)

	failed, _, err := pm.Transition(root, down)
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, root.State, failed.State)

	assert.False(t, pm.IsTerminal(two))
}
