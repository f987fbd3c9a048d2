package ringbuf

import "sync/atomic"

// SPSC is a fixed-capacity, lock-free ring restricted to exactly one
// producer goroutine and one consumer goroutine. The array
// process-variable channel uses one of these as its "empty" recycling
// ring: the receiver always produces retired buffers into it and the
// sender always consumes from it, so ownership of a buffer's backing
// slice moves between them without ever copying it.
type SPSC[T any] struct {
	buffer   []T
	capacity uint64
	_        [40]byte
	head     atomic.Uint64 // owned by the consumer
	_        [56]byte
	tail     atomic.Uint64 // owned by the producer
}

// NewSPSC creates a ring with room for exactly capacity elements.
func NewSPSC[T any](capacity int) *SPSC[T] {
	if capacity < 1 {
		panic("ringbuf: capacity must be at least 1")
	}
	return &SPSC[T]{
		buffer:   make([]T, capacity),
		capacity: uint64(capacity),
	}
}

// Cap returns the ring's fixed capacity.
func (s *SPSC[T]) Cap() int {
	return int(s.capacity)
}

// Push enqueues v. Must only be called from the single producer
// goroutine. Returns false if the ring is full.
func (s *SPSC[T]) Push(v T) bool {
	tail := s.tail.Load()
	head := s.head.Load()
	if tail-head >= s.capacity {
		return false
	}
	s.buffer[tail%s.capacity] = v
	s.tail.Store(tail + 1)
	return true
}

// Pop dequeues the oldest element. Must only be called from the single
// consumer goroutine. Returns false if the ring is empty.
func (s *SPSC[T]) Pop() (T, bool) {
	var zero T
	head := s.head.Load()
	tail := s.tail.Load()
	if head == tail {
		return zero, false
	}
	idx := head % s.capacity
	v := s.buffer[idx]
	s.buffer[idx] = zero
	s.head.Store(head + 1)
	return v, true
}
