// Package notifyqueue implements the per-side, multi-producer/
// single-consumer queue of "a PV was sent in your direction" events.
package notifyqueue

import "github.com/jabolina/pvadapter/internal/ringbuf"

// Queue is a bounded MPSC queue: any number of sender goroutines may
// push concurrently, but only the owning side's sync utility may drain
// it. Duplicate entries are expected and harmless — the drainer treats
// redundant notifications for the same PV as a no-op once that PV's
// buffers are exhausted.
//
// A generalized MPMC-safe ring (ringbuf.Bounded) already satisfies the
// weaker MPSC contract, so the queue is a thin, typed wrapper over one.
type Queue[T any] struct {
	ring *ringbuf.Bounded[T]
}

// New creates a notification queue with room for capacity pending
// entries (at least 1). The capacity is fixed for the queue's lifetime;
// the manager pair passes its capacity hint, and the queue does not grow
// as PVs are registered in its direction.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ring: ringbuf.NewBounded[T](capacity)}
}

// Push enqueues v. Never blocks. A false return means the queue was full
// and v was not enqueued.
func (q *Queue[T]) Push(v T) bool {
	return q.ring.Push(v)
}

// Next dequeues the next pending entry, or returns ok=false if the
// queue is currently empty.
func (q *Queue[T]) Next() (v T, ok bool) {
	return q.ring.Pop()
}
