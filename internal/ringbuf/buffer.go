// Package ringbuf implements the bounded, lock-free queues that carry
// buffers between one process variable's sender and its receiver.
package ringbuf

import "github.com/jabolina/pvadapter/clock"

// Buffer is a single unit of handoff between a sender and a receiver:
// a time stamp, a version number, and a value payload. For array
// channels Value is a slice whose backing array moves in and out of the
// ring with the Buffer itself, so sending an array never copies elements.
type Buffer[T any] struct {
	TimeStamp clock.TimeStamp
	Version   uint64
	Value     T
}
