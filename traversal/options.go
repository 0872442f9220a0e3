package traversal

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Option configures a traversal. Options are created with the functions in this package.
type Option interface{}

type maxDepthOption struct {
	depth int
}

// Do not expand states at or beyond the depth. Negative values means no bound. Default is no bound.
func MaxDepth(depth int) Option {
	return maxDepthOption{depth: depth}
}

type maxActionsOption struct {
	n int
}

// Only enumerate the first n actions. Zero or negative values enumerates all actions.
func MaxActions(n int) Option {
	return maxActionsOption{n: n}
}

type traceEveryOption struct {
	n int
}

// Log the progress of the traversal every n processed states.
func TraceEvery(n int) Option {
	return traceEveryOption{n: n}
}

type traceErrorsOption struct{}

// Log every transition error at debug level
func TraceErrors() Option {
	return traceErrorsOption{}
}

type ignoreLoopbacksOption struct{}

// Do not add edges from a state to itself to the graph
func IgnoreLoopbacks() Option {
	return ignoreLoopbacksOption{}
}

type withGraphOption struct{}

// Build the graph of the explored state space
func WithGraph() Option {
	return withGraphOption{}
}

type recordTerminalsOption struct{}

// Record every terminal state in the result
func RecordTerminals() Option {
	return recordTerminalsOption{}
}

type workersOption struct {
	n int
}

// Number of workers exploring the state space concurrently. Default is GOMAXPROCS.
func Workers(n int) Option {
	return workersOption{n: n}
}

type backlogOption struct {
	n int
}

// The number of queued states required before the secondary workers start. Default is 1000.
func Backlog(n int) Option {
	return backlogOption{n: n}
}

type fatalErrorOption struct {
	fatal func(error) bool
}

// Stop the traversal and return the error if a transition fails with an error for which fatal returns true.
// By default no error is fatal.
func FatalError(fatal func(error) bool) Option {
	return fatalErrorOption{fatal: fatal}
}

type visitorOption[S any] struct {
	visit func(S, VisitType) error
}

func (visitorOption[S]) stateType() string {
	return fmt.Sprintf("%T", *new(S))
}

// Implemented by visitors of any state type
type typedVisitor interface {
	stateType() string
}

// Call visit for every state processed by the traversal. If visit returns an error the traversal is stopped and the error returned.
//
// The type parameter must match the state type of the traversed machine, otherwise the visitor is ignored and a warning logged.
func WithVisitor[S any](visit func(state S, kind VisitType) error) Option {
	return visitorOption[S]{visit: visit}
}

type loggerOption struct {
	log logrus.FieldLogger
}

// Use the logger for progress traces. Default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return loggerOption{log: log}
}

type metricsOption struct {
	name string
}

// Export the totals of the traversal as prometheus metrics labelled with the name
func WithMetrics(name string) Option {
	return metricsOption{name: name}
}

type settings[S any] struct {
	maxDepth        int
	maxActions      int
	traceEvery      int
	traceErrors     bool
	ignoreLoopbacks bool
	graph           bool
	terminals       bool
	workers         int
	backlog         int
	fatal           func(error) bool
	visitors        []func(S, VisitType) error
	log             logrus.FieldLogger
	metrics         string
}

func configure[S any](opts []Option) settings[S] {
	s := settings[S]{
		maxDepth: -1,
		// Will not change GOMAXPROCS but only return the current value
		workers: runtime.GOMAXPROCS(0),
		backlog: 1000,
		fatal:   func(error) bool { return false },
		log:     logrus.StandardLogger(),
	}
	var mismatched []string
	for _, opt := range opts {
		switch t := opt.(type) {
		case maxDepthOption:
			s.maxDepth = t.depth
		case maxActionsOption:
			s.maxActions = t.n
		case traceEveryOption:
			s.traceEvery = t.n
		case traceErrorsOption:
			s.traceErrors = true
		case ignoreLoopbacksOption:
			s.ignoreLoopbacks = true
		case withGraphOption:
			s.graph = true
		case recordTerminalsOption:
			s.terminals = true
		case workersOption:
			if t.n > 0 {
				s.workers = t.n
			}
		case backlogOption:
			s.backlog = t.n
		case fatalErrorOption:
			if t.fatal != nil {
				s.fatal = t.fatal
			}
		case visitorOption[S]:
			if t.visit != nil {
				s.visitors = append(s.visitors, t.visit)
			}
		case typedVisitor:
			mismatched = append(mismatched, t.stateType())
		case loggerOption:
			if t.log != nil {
				s.log = t.log
			}
		case metricsOption:
			s.metrics = t.name
		}
	}
	for _, name := range mismatched {
		s.log.WithFields(logrus.Fields{
			"visitorState":   name,
			"traversalState": fmt.Sprintf("%T", *new(S)),
		}).Warn("Traversal: ignoring visitor for another state type")
	}
	return s
}

// Returns the depth bound set by the options. Negative if the depth is unbounded.
func DepthBound(opts ...Option) int {
	depth := -1
	for _, opt := range opts {
		if t, ok := opt.(maxDepthOption); ok {
			depth = t.depth
		}
	}
	return depth
}
