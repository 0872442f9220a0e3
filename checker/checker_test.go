package checker_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltlmc/buchi"
	"ltlmc/checker"
	"ltlmc/examples/counter"
	"ltlmc/examples/philosophers"
	"ltlmc/examples/strand"
	"ltlmc/machine"
	"ltlmc/traversal"
)

func quiet() checker.Option {
	log, _ := test.NewNullLogger()
	return checker.WithLogger(log)
}

func newCounterChecker(t *testing.T, m counter.Machine) *checker.Checker[int, counter.Action, struct{}] {
	c, err := checker.New[int, counter.Action, struct{}](context.Background(), m,
		checker.Bind(counter.Registry(), counter.Holds), counter.Formula,
		checker.WithTranslator(counter.Translator()), quiet())
	require.NoError(t, err)
	return c
}

func newStrandChecker(t *testing.T, m strand.Machine) *checker.Checker[strand.State, strand.Action, struct{}] {
	c, err := checker.New[strand.State, strand.Action, struct{}](context.Background(), m,
		checker.Bind(strand.Registry(), strand.Holds), strand.Formula,
		checker.WithTranslator(strand.Translator()), quiet())
	require.NoError(t, err)
	return c
}

func TestSafetyHolds(t *testing.T) {
	c := newCounterChecker(t, counter.Machine{})
	for _, workers := range []int{1, 4} {
		report, err := checker.Check(context.Background(), c, []int{0, 1}, traversal.Workers(workers), traversal.Backlog(0))
		require.NoError(t, err, "workers: %v", workers)
		assert.EqualValues(t, 3, report.Visited)
	}
}

func TestSafetyViolation(t *testing.T) {
	m := counter.Machine{AllowStay: true}
	c := newCounterChecker(t, m)
	for _, workers := range []int{1, 4} {
		_, err := checker.Check(context.Background(), c, []int{0}, traversal.Workers(workers), traversal.Backlog(0))
		var safety *checker.SafetyError[int, counter.Action]
		require.True(t, errors.As(err, &safety), "workers: %v, got %v", workers, err)

		require.NotEmpty(t, safety.Path)
		assert.Equal(t, counter.Stay, safety.Path[len(safety.Path)-1])
		assert.Equal(t, 0, safety.Prev)
		assert.Equal(t, 0, safety.Next)

		// The path replays to the violating pair
		prev, _, err := machine.ApplyActions[int, counter.Action, struct{}](m, 0, safety.Path[:len(safety.Path)-1])
		require.NoError(t, err)
		assert.Equal(t, safety.Prev, prev)
		next, _, err := machine.ApplyActions[int, counter.Action, struct{}](m, 0, safety.Path)
		require.NoError(t, err)
		assert.Equal(t, safety.Next, next)
	}
}

func TestLivenessViolation(t *testing.T) {
	c := newStrandChecker(t, strand.Machine{AllowStrand: true})
	for _, workers := range []int{1, 4} {
		_, err := checker.Check(context.Background(), c, []strand.State{strand.Initial}, traversal.Workers(workers), traversal.Backlog(0))
		var liveness *checker.LivenessError[strand.State, strand.Action]
		require.True(t, errors.As(err, &liveness), "workers: %v, got %v", workers, err)
		assert.Equal(t, []strand.State{{Loc: strand.A, Stranded: true}}, liveness.States)
		assert.Equal(t, [][]strand.Action{{strand.Strand}}, liveness.Paths)
	}
}

func TestLivenessViolationListsWholeRegion(t *testing.T) {
	c := newStrandChecker(t, strand.Machine{AllowStrand: true, Drift: true})
	for _, workers := range []int{1, 4} {
		_, err := checker.Check(context.Background(), c, []strand.State{strand.Initial}, traversal.Workers(workers), traversal.Backlog(0))
		var liveness *checker.LivenessError[strand.State, strand.Action]
		require.True(t, errors.As(err, &liveness), "workers: %v, got %v", workers, err)

		// One path per state of the region, shortest first
		assert.Equal(t, [][]strand.Action{{strand.Strand}, {strand.Strand, strand.Wait}}, liveness.Paths, "workers: %v", workers)
		assert.Equal(t, []strand.State{{Loc: strand.A, Stranded: true}, {Loc: strand.C, Stranded: true}}, liveness.States, "workers: %v", workers)
		for i, path := range liveness.Paths {
			s, _, err := machine.ApplyActions[strand.State, strand.Action, struct{}](strand.Machine{AllowStrand: true, Drift: true}, strand.Initial, path)
			require.NoError(t, err)
			assert.Equal(t, liveness.States[i], s)
		}
	}
}

func TestVisitorOfModelStateIsReported(t *testing.T) {
	log, hook := test.NewNullLogger()
	c, err := checker.New[int, counter.Action, struct{}](context.Background(), counter.Machine{},
		checker.Bind(counter.Registry(), counter.Holds), counter.Formula,
		checker.WithTranslator(counter.Translator()), checker.WithLogger(log))
	require.NoError(t, err)

	called := false
	modelVisitor := traversal.WithVisitor(func(s int, kind traversal.VisitType) error {
		called = true
		return nil
	})
	visited := 0
	checkerVisitor := traversal.WithVisitor(func(s checker.State[int, counter.Action], kind traversal.VisitType) error {
		if kind == traversal.VisitNormal {
			visited++
		}
		return nil
	})
	_, err = checker.Check(context.Background(), c, []int{0}, modelVisitor, checkerVisitor, traversal.Workers(1))
	require.NoError(t, err)
	assert.False(t, called)
	assert.Positive(t, visited)

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["visitorState"] == "int" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestLivenessHoldsWithoutStrand(t *testing.T) {
	c := newStrandChecker(t, strand.Machine{})
	report, err := checker.Check(context.Background(), c, []strand.State{strand.Initial})
	require.NoError(t, err)
	assert.EqualValues(t, 2, report.Visited)
}

func TestCheckMapped(t *testing.T) {
	c := newStrandChecker(t, strand.Machine{AllowStrand: true})
	_, err := checker.CheckMapped(context.Background(), c, []strand.State{strand.Initial}, traversal.Fingerprint[strand.State]())
	var liveness *checker.LivenessError[strand.State, strand.Action]
	assert.True(t, errors.As(err, &liveness))
}

func TestTerminalStatesCanBeAccepting(t *testing.T) {
	c, err := checker.New[philosophers.State, philosophers.Action, struct{}](context.Background(), philosophers.Machine{},
		checker.Bind(philosophers.Registry(), philosophers.Holds), philosophers.Formula,
		checker.WithTranslator(philosophers.Translator()), quiet())
	require.NoError(t, err)
	report, err := checker.Check(context.Background(), c, []philosophers.State{philosophers.Initial})
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.Terminations)
}

func TestUnknownProposition(t *testing.T) {
	translator := buchi.TranslatorFunc(func(ctx context.Context, formula string) (string, error) {
		return "T0_init:\n\tif\n\t:: (odd) -> goto T0_init\n\tfi;\n", nil
	})
	_, err := checker.New[int, counter.Action, struct{}](context.Background(), counter.Machine{},
		checker.Bind(counter.Registry(), counter.Holds), "G odd", checker.WithTranslator(translator))
	assert.ErrorIs(t, err, checker.ErrUnknownProposition)

	// Plain functions can not be validated up front
	props := checker.PropositionFunc[int, counter.Action](func(prop string, t machine.Transition[int, counter.Action]) bool {
		return t.Next%2 == 1
	})
	_, err = checker.New[int, counter.Action, struct{}](context.Background(), counter.Machine{}, props, "G odd", checker.WithTranslator(translator))
	assert.NoError(t, err)
}

func TestTranslatorError(t *testing.T) {
	_, err := checker.New[int, counter.Action, struct{}](context.Background(), counter.Machine{},
		checker.Bind(counter.Registry(), counter.Holds), "F even", checker.WithTranslator(counter.Translator()))
	assert.ErrorIs(t, err, buchi.ErrTranslate)
}

func TestTransitionErrors(t *testing.T) {
	c := newCounterChecker(t, counter.Machine{AllowStay: true})

	// Stay is not applicable in odd states
	_, _, err := c.Transition(c.Initial(1), counter.Stay)
	var me *checker.MachineError
	require.True(t, errors.As(err, &me))
	assert.ErrorIs(t, err, machine.ErrInvalidAction)

	after := checker.State[int, counter.Action]{
		PathState: machine.NewPathState[int, counter.Action](0),
		Buchi:     buchi.NewPaths("accept_S2"),
	}
	_, _, err = c.Transition(after, counter.Stay)
	var be *checker.BuchiError[int, counter.Action]
	require.True(t, errors.As(err, &be))
	assert.ErrorIs(t, err, buchi.ErrUnsatisfied)
	assert.Equal(t, []counter.Action{counter.Stay}, be.Path)

	next, _, err := c.Transition(c.Initial(0), counter.Step)
	require.NoError(t, err)
	assert.Equal(t, 1, next.State)
	assert.Equal(t, "accept_init", next.Buchi.Key())
}

func TestBoundedDepthIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	c, err := checker.New[int, counter.Action, struct{}](context.Background(), counter.Machine{},
		checker.Bind(counter.Registry(), counter.Holds), counter.Formula,
		checker.WithTranslator(counter.Translator()), checker.WithLogger(log))
	require.NoError(t, err)
	_, err = checker.Check(context.Background(), c, []int{0}, traversal.MaxDepth(10))
	require.NoError(t, err)

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestWriteReport(t *testing.T) {
	buf := &bytes.Buffer{}
	report, err := checker.Check(context.Background(), newCounterChecker(t, counter.Machine{}), []int{0})
	require.NoError(t, checker.WriteReport[int, counter.Action](buf, report, err))
	assert.Contains(t, buf.String(), "Property holds.")

	buf.Reset()
	report, err = checker.Check(context.Background(), newCounterChecker(t, counter.Machine{AllowStay: true}), []int{0})
	require.NoError(t, checker.WriteReport[int, counter.Action](buf, report, err))
	assert.Contains(t, buf.String(), "Safety check failed.")
	assert.Contains(t, buf.String(), "Stay")

	buf.Reset()
	report, err = checker.Check(context.Background(), newStrandChecker(t, strand.Machine{AllowStrand: true}), []strand.State{strand.Initial})
	require.NoError(t, checker.WriteReport[strand.State, strand.Action](buf, report, err))
	assert.Contains(t, buf.String(), "Liveness check failed.")
	assert.Contains(t, buf.String(), "A (stranded)")
}
