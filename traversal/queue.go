package traversal

import "sync"

// FIFO work queue shared by the workers
type queue[T any] struct {
	sync.Mutex
	items []T
	head  int
}

func (q *queue[T]) Push(item T) {
	q.Lock()
	defer q.Unlock()
	q.items = append(q.items, item)
}

func (q *queue[T]) Pop() (T, bool) {
	q.Lock()
	defer q.Unlock()
	var zero T
	if q.head == len(q.items) {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero
	q.head++
	// Reclaim the consumed prefix once it dominates the slice
	if q.head > 1024 && q.head*2 > len(q.items) {
		q.items = append([]T(nil), q.items[q.head:]...)
		q.head = 0
	}
	return item, true
}

func (q *queue[T]) Len() int {
	q.Lock()
	defer q.Unlock()
	return len(q.items) - q.head
}
