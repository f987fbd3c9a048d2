package pvadapter

import (
	"github.com/jabolina/pvadapter/clock"
	"github.com/jabolina/pvadapter/internal/ringbuf"
	"github.com/jabolina/pvadapter/internal/telemetry"
)

// Array is the concrete realization of a fixed-length array process
// variable. Its length is fixed at construction and never resized.
// Sends and receives move ownership of the backing slice rather than
// copying elements: the "full" ring carries already-filled buffers
// toward the receiver, the "empty" ring recycles retired buffers back
// toward the sender.
//
// The full ring is built on the same MPMC-safe Bounded ring the scalar
// channel uses, rather than a strictly single-consumer ring, because
// the sender's overflow reclaim (popping the oldest unreceived buffer
// to make room) races the receiver's ordinary pop exactly the way it
// does for scalars — see DESIGN.md for the rationale. The empty ring
// has no such race (receiver always pushes, sender always pops) and is
// a genuine SPSC ring.
type Array[T Numeric] struct {
	name      string
	r         role
	valueType ValueType
	length    int

	value     []T
	timeStamp clock.TimeStamp
	version   uint64

	fullRing  *ringbuf.Bounded[ringbuf.Buffer[[]T]]
	emptyRing *ringbuf.SPSC[ringbuf.Buffer[[]T]]

	peer                *Array[T]
	timeStampSource     clock.TimeStampSource
	versionNumberSource clock.VersionNumberSource
	listener            ProcessVariableListener
	pinnedNextVersion   *uint64

	metrics *telemetry.Metrics
}

func copyOf[T any](v []T) []T {
	out := make([]T, len(v))
	copy(out, v)
	return out
}

// NewStandAloneArray creates an array PV that works on its own: Send
// and Receive both fail with ErrWrongRole. initial is copied so the
// PV owns its own backing array.
func NewStandAloneArray[T Numeric](name string, initial []T) *Array[T] {
	return &Array[T]{
		name:      name,
		r:         roleStandAlone,
		value:     copyOf(initial),
		length:    len(initial),
		valueType: valueTypeOf[T](),
	}
}

func newArrayReceiver[T Numeric](name string, initial []T, numberOfBuffers int, versionNumberSource clock.VersionNumberSource) (*Array[T], error) {
	if numberOfBuffers < 2 {
		return nil, invalidArgumentf("array number of buffers must be >= 2, got %d", numberOfBuffers)
	}
	return &Array[T]{
		name:                name,
		r:                   roleReceiver,
		value:               copyOf(initial),
		length:              len(initial),
		valueType:           valueTypeOf[T](),
		fullRing:            ringbuf.NewBounded[ringbuf.Buffer[[]T]](numberOfBuffers),
		emptyRing:           ringbuf.NewSPSC[ringbuf.Buffer[[]T]](numberOfBuffers),
		versionNumberSource: versionNumberSource,
	}, nil
}

func newArraySender[T Numeric](receiver *Array[T], timeStampSource clock.TimeStampSource, versionNumberSource clock.VersionNumberSource, listener ProcessVariableListener) (*Array[T], error) {
	if receiver == nil {
		return nil, invalidArgumentf("sender's peer receiver must not be nil")
	}
	if receiver.r != roleReceiver {
		return nil, invalidArgumentf("sender's peer must be a receiver")
	}
	return &Array[T]{
		name:                receiver.name,
		r:                   roleSender,
		value:               copyOf(receiver.value),
		length:              receiver.length,
		valueType:           receiver.valueType,
		fullRing:            receiver.fullRing,
		emptyRing:           receiver.emptyRing,
		peer:                receiver,
		timeStampSource:     timeStampSource,
		versionNumberSource: versionNumberSource,
		listener:            listener,
	}, nil
}

// Name implements ProcessVariable.
func (a *Array[T]) Name() string { return a.name }

// ValueType implements ProcessVariable.
func (a *Array[T]) ValueType() ValueType { return a.valueType }

// IsArray implements ProcessVariable.
func (a *Array[T]) IsArray() bool { return true }

// IsSender implements ProcessVariable.
func (a *Array[T]) IsSender() bool { return a.r == roleSender }

// IsReceiver implements ProcessVariable.
func (a *Array[T]) IsReceiver() bool { return a.r == roleReceiver }

// TimeStamp implements ProcessVariable.
func (a *Array[T]) TimeStamp() clock.TimeStamp { return a.timeStamp }

// VersionNumber implements ProcessVariable.
func (a *Array[T]) VersionNumber() uint64 { return a.version }

// Len returns the array's fixed length.
func (a *Array[T]) Len() int { return a.length }

// Get returns the current backing slice. Callers must not retain it
// across a subsequent Send/Receive: ownership of the backing array
// moves to the ring on the next Send, and the slice header returned
// here would then alias freed/recycled storage.
func (a *Array[T]) Get() []T { return a.value }

// Set overwrites element i of the current working value.
func (a *Array[T]) Set(i int, v T) { a.value[i] = v }

// SetAll overwrites the entire working value; len(v) must equal Len().
func (a *Array[T]) SetAll(v []T) {
	copy(a.value, v)
}

// UseOriginVersionNumberForNextSend pins the version number the next
// Send will use. See Scalar.UseOriginVersionNumberForNextSend.
func (a *Array[T]) UseOriginVersionNumberForNextSend(v uint64) bool {
	if v <= a.version {
		return false
	}
	pinned := v
	a.pinnedNextVersion = &pinned
	return true
}

// SetAndSendIfNewVersionGreater sets the value and sends it with
// version, but only if version is strictly greater than the current
// version.
func (a *Array[T]) SetAndSendIfNewVersionGreater(v []T, version uint64) (bool, error) {
	if version <= a.version {
		return false, nil
	}
	a.SetAll(v)
	if _, err := a.sendWithVersion(&version); err != nil {
		return false, err
	}
	return true, nil
}

// Send implements ProcessVariable.
func (a *Array[T]) Send() (SendResult, error) {
	return a.sendWithVersion(nil)
}

// SendVersion sends the current value using exactly the given version.
func (a *Array[T]) SendVersion(version uint64) (SendResult, error) {
	return a.sendWithVersion(&version)
}

func (a *Array[T]) sendWithVersion(explicit *uint64) (SendResult, error) {
	if a.r != roleSender {
		return 0, wrongRolef("send", a.name)
	}
	version := a.deriveVersion(explicit)

	if a.timeStampSource != nil {
		a.timeStamp = a.timeStampSource.GetCurrentTimeStamp()
	} else {
		a.timeStamp = clock.CurrentTime()
	}
	a.version = version

	outgoing := ringbuf.Buffer[[]T]{TimeStamp: a.timeStamp, Version: version, Value: a.value}
	dropped := a.fullRing.PushEvictOldest(outgoing)

	// The working buffer just shipped; claim a replacement so future
	// Set calls never touch data still referenced by the ring.
	if next, ok := a.emptyRing.Pop(); ok {
		a.value = next.Value
	} else {
		a.value = make([]T, a.length)
	}

	result := SendOK
	if dropped {
		result = SendOverflowDropped
	}
	if a.metrics != nil {
		a.metrics.ObserveSend(a.name, dropped)
	}
	if a.listener != nil {
		a.listener.Notify(a.peer)
	}
	return result, nil
}

func (a *Array[T]) deriveVersion(explicit *uint64) uint64 {
	if explicit != nil {
		return *explicit
	}
	if a.pinnedNextVersion != nil {
		v := *a.pinnedNextVersion
		a.pinnedNextVersion = nil
		return v
	}
	if a.versionNumberSource != nil {
		return a.versionNumberSource.NextVersionNumber()
	}
	return 0
}

// Receive implements ProcessVariable.
func (a *Array[T]) Receive() (bool, error) {
	if a.r != roleReceiver {
		return false, wrongRolef("receive", a.name)
	}
	buf, ok := a.fullRing.Pop()
	if !ok {
		if a.metrics != nil {
			a.metrics.ObserveReceive(a.name, false)
		}
		return false, nil
	}
	if a.versionNumberSource != nil && buf.Version <= a.version {
		// Stale; recycle the rejected buffer's storage best-effort and
		// report not-accepted. A full empty ring just means this
		// allocation is lost to the GC instead of recycled — harmless.
		a.emptyRing.Push(buf)
		if a.metrics != nil {
			a.metrics.ObserveReceive(a.name, false)
		}
		return false, nil
	}
	retiring := ringbuf.Buffer[[]T]{TimeStamp: a.timeStamp, Version: a.version, Value: a.value}
	a.timeStamp = buf.TimeStamp
	a.value = buf.Value
	a.version = buf.Version
	if a.pinnedNextVersion != nil && *a.pinnedNextVersion <= a.version {
		a.pinnedNextVersion = nil
	}
	a.emptyRing.Push(retiring)
	if a.metrics != nil {
		a.metrics.ObserveReceive(a.name, true)
	}
	return true, nil
}
