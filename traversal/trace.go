package traversal

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Logs the progress of a traversal
type tracer struct {
	sync.Mutex
	log logrus.FieldLogger

	lastVisited int64
	lastQueued  int64
	lastDepth   int64
}

func newTracer(log logrus.FieldLogger) *tracer {
	return &tracer{log: log}
}

func (t *tracer) progress(iteration, visited, queued, depth int64) {
	t.Lock()
	defer t.Unlock()
	t.log.WithFields(logrus.Fields{
		"iter":         iteration,
		"visited":      visited,
		"visitedDelta": visited - t.lastVisited,
		"queued":       queued,
		"queuedDelta":  queued - t.lastQueued,
		"depth":        depth,
		"depthChanged": depth != t.lastDepth,
	}).Info("traversal progress")
	t.lastVisited = visited
	t.lastQueued = queued
	t.lastDepth = depth
}

func (t *tracer) transitionError(action interface{}, err error) {
	t.log.WithField("action", action).WithError(err).Debug("transition failed")
}
