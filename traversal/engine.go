package traversal

import (
	"context"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"ltlmc/graph"
	"ltlmc/machine"
)

const (
	// How long a secondary worker sleeps while waiting for the backlog
	backlogPoll = 10 * time.Millisecond
	// How long a worker sleeps when the queue is empty but other workers are still busy
	idleBackoff = 100 * time.Microsecond
)

// A state waiting to be processed
type item[S any, A comparable] struct {
	state   S
	hasPrev bool
	prev    graph.NodeID
	action  A
	depth   int64
}

type edgeKey[A comparable] struct {
	from, to graph.NodeID
	action   A
}

type engine[S any, A machine.Action[A], F any, P comparable] struct {
	m       machine.Machine[S, A, F]
	project Projection[S, P]
	cfg     settings[S]
	actions []A

	queue queue[item[S, A]]

	visitedMu sync.Mutex
	visited   map[P]graph.NodeID

	edgesMu sync.Mutex
	edges   map[edgeKey[A]]struct{}

	graphMu sync.Mutex
	graph   *graph.Graph[S, A]

	terminalsMu sync.Mutex
	terminals   TerminalSet[P]

	steps        *atomic.Int64
	transitions  *atomic.Int64
	discovered   *atomic.Int64
	visitedCount *atomic.Int64
	terminations *atomic.Int64
	skipped      *atomic.Int64
	maxDepth     *atomic.Int64
	// Number of items that are queued or being processed
	pending *atomic.Int64
	stop    *atomic.Bool

	errCh chan error
	trace *tracer
}

func newEngine[S any, A machine.Action[A], F any, P comparable](m machine.Machine[S, A, F], project Projection[S, P], cfg settings[S]) *engine[S, A, F, P] {
	e := &engine[S, A, F, P]{
		m:       m,
		project: project,
		cfg:     cfg,
		actions: machine.Enumerate[A](cfg.maxActions),
		visited: map[P]graph.NodeID{},
		edges:   map[edgeKey[A]]struct{}{},

		steps:        atomic.NewInt64(0),
		transitions:  atomic.NewInt64(0),
		discovered:   atomic.NewInt64(0),
		visitedCount: atomic.NewInt64(0),
		terminations: atomic.NewInt64(0),
		skipped:      atomic.NewInt64(0),
		maxDepth:     atomic.NewInt64(0),
		pending:      atomic.NewInt64(0),
		stop:         atomic.NewBool(false),

		errCh: make(chan error, 1),
		trace: newTracer(cfg.log),
	}
	if cfg.graph {
		e.graph = graph.New[S, A]()
	}
	if cfg.terminals {
		e.terminals = TerminalSet[P]{}
	}
	return e
}

func (e *engine[S, A, F, P]) run(ctx context.Context, initial []S) (*Result[S, A, P], error) {
	start := time.Now()
	for _, s := range initial {
		e.pending.Inc()
		e.queue.Push(item[S, A]{state: s})
	}
	if len(initial) == 0 {
		e.stop.Store(true)
	}

	// Cancelling the context makes the workers exit at their next check.
	// The cancellation is only reported if it is what stopped the traversal.
	cancelled := atomic.NewBool(false)
	stopOnCancel := context.AfterFunc(ctx, func() {
		if !e.stop.Swap(true) {
			cancelled.Store(true)
		}
	})
	defer stopOnCancel()

	pool := pond.NewPool(e.cfg.workers)
	for i := 0; i < e.cfg.workers; i++ {
		idx := i
		pool.Submit(func() { e.work(idx) })
	}
	pool.StopAndWait()

	select {
	case err := <-e.errCh:
		return nil, err
	default:
	}
	if cancelled.Load() {
		return nil, ctx.Err()
	}

	report := Report{
		Visited:      e.visitedCount.Load(),
		Terminations: e.terminations.Load(),
		EdgesSkipped: e.skipped.Load(),
		TotalSteps:   e.steps.Load(),
		Transitions:  e.transitions.Load(),
		Discovered:   e.discovered.Load(),
		MaxDepth:     e.maxDepth.Load(),
		Duration:     time.Since(start),
	}
	if e.cfg.metrics != "" {
		observe(e.cfg.metrics, report)
	}
	return &Result[S, A, P]{
		Report:    report,
		Graph:     e.graph,
		Terminals: e.terminals,
	}, nil
}

// Record a fatal error and stop the traversal. Only the first error is kept.
func (e *engine[S, A, F, P]) fail(err error) {
	e.stop.Store(true)
	select {
	case e.errCh <- err:
	default:
	}
}

func (e *engine[S, A, F, P]) work(idx int) {
	// A panicking machine stops every worker and is reported as a fatal error
	defer func() {
		if r := recover(); r != nil {
			e.fail(errors.Errorf("traversal: machine panicked: %v", r))
		}
	}()
	// Secondary workers wait until there is enough work to share
	if idx > 0 {
		for !e.stop.Load() && e.queue.Len() < e.cfg.backlog {
			time.Sleep(backlogPoll)
		}
	}
	for !e.stop.Load() {
		it, ok := e.queue.Pop()
		if !ok {
			if e.pending.Load() == 0 {
				e.stop.Store(true)
				return
			}
			time.Sleep(idleBackoff)
			continue
		}
		e.process(it)
		if e.pending.Dec() == 0 {
			e.stop.Store(true)
		}
	}
}

func (e *engine[S, A, F, P]) process(it item[S, A]) {
	step := e.steps.Inc()
	if e.cfg.traceEvery > 0 && step%int64(e.cfg.traceEvery) == 0 {
		e.trace.progress(step, e.visitedCount.Load(), int64(e.queue.Len()), it.depth)
	}

	key, ok := e.project(it.state)
	if !ok {
		return
	}

	id, fresh := e.lookupOrInsert(key, it.state)
	if fresh {
		e.visitedCount.Inc()
		e.raiseMaxDepth(it.depth)
	}
	if it.hasPrev {
		e.addEdge(it.prev, id, it.action)
	}

	if !fresh {
		e.visit(it.state, VisitLoop)
		return
	}

	if e.m.IsTerminal(it.state) {
		e.terminations.Inc()
		if e.terminals != nil {
			e.terminalsMu.Lock()
			e.terminals[key] = struct{}{}
			e.terminalsMu.Unlock()
		}
		e.visit(it.state, VisitTerminal)
		return
	}

	if !e.visit(it.state, VisitNormal) {
		return
	}

	if e.cfg.maxDepth >= 0 && it.depth >= int64(e.cfg.maxDepth) {
		return
	}

	for _, action := range e.actions {
		if e.stop.Load() {
			return
		}
		e.transitions.Inc()
		next, _, err := e.m.Transition(it.state, action)
		if err != nil {
			e.skipped.Inc()
			if e.cfg.fatal(err) {
				e.fail(err)
				return
			}
			if e.cfg.traceErrors {
				e.trace.transitionError(action, err)
			}
			continue
		}
		e.pending.Inc()
		e.queue.Push(item[S, A]{
			state:   next,
			hasPrev: true,
			prev:    id,
			action:  action,
			depth:   it.depth + 1,
		})
		e.discovered.Inc()
	}
}

// Returns the node of the key and whether this call inserted it
func (e *engine[S, A, F, P]) lookupOrInsert(key P, state S) (graph.NodeID, bool) {
	e.visitedMu.Lock()
	defer e.visitedMu.Unlock()
	if id, ok := e.visited[key]; ok {
		return id, false
	}
	id := graph.NodeID(len(e.visited))
	if e.graph != nil {
		e.graphMu.Lock()
		id = e.graph.AddNode(state)
		e.graphMu.Unlock()
	}
	e.visited[key] = id
	return id, true
}

func (e *engine[S, A, F, P]) addEdge(from, to graph.NodeID, action A) {
	if e.graph == nil || (e.cfg.ignoreLoopbacks && from == to) {
		return
	}
	k := edgeKey[A]{from: from, to: to, action: action}
	e.edgesMu.Lock()
	if _, ok := e.edges[k]; ok {
		e.edgesMu.Unlock()
		return
	}
	e.edges[k] = struct{}{}
	e.edgesMu.Unlock()

	e.graphMu.Lock()
	e.graph.AddEdge(from, to, action)
	e.graphMu.Unlock()
}

func (e *engine[S, A, F, P]) raiseMaxDepth(depth int64) {
	for {
		current := e.maxDepth.Load()
		if depth <= current || e.maxDepth.CompareAndSwap(current, depth) {
			return
		}
	}
}

// Run the visitors. Returns false if one of them failed and the traversal is stopping.
func (e *engine[S, A, F, P]) visit(state S, kind VisitType) bool {
	for _, v := range e.cfg.visitors {
		if err := v(state, kind); err != nil {
			e.fail(err)
			return false
		}
	}
	return true
}
