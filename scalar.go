package pvadapter

import (
	"github.com/jabolina/pvadapter/clock"
	"github.com/jabolina/pvadapter/internal/ringbuf"
	"github.com/jabolina/pvadapter/internal/telemetry"
)

// Scalar is the concrete realization of a single-value process
// variable. A Scalar is pinned to one goroutine/thread for its entire
// lifetime — the role is fixed at construction and never changes.
type Scalar[T Numeric] struct {
	name      string
	r         role
	valueType ValueType

	value     T
	timeStamp clock.TimeStamp
	version   uint64

	// Shared with the peer endpoint. nil for a stand-alone scalar.
	ring *ringbuf.Bounded[ringbuf.Buffer[T]]

	// Sender-only state, except versionNumberSource, which a receiver
	// also holds to reject stale versions.
	peer                *Scalar[T]
	timeStampSource     clock.TimeStampSource
	versionNumberSource clock.VersionNumberSource
	listener            ProcessVariableListener
	pinnedNextVersion   *uint64

	metrics *telemetry.Metrics
}

// NewStandAloneScalar creates a scalar that works on its own: not
// synchronized with any other instance, so Send and Receive both fail
// with ErrWrongRole. Every other operation (Get/Set, introspection)
// works normally.
func NewStandAloneScalar[T Numeric](name string, initial T) *Scalar[T] {
	return &Scalar[T]{
		name:      name,
		r:         roleStandAlone,
		value:     initial,
		valueType: valueTypeOf[T](),
	}
}

func newScalarReceiver[T Numeric](name string, initial T, numberOfBuffers int, versionNumberSource clock.VersionNumberSource) (*Scalar[T], error) {
	if numberOfBuffers < 1 {
		return nil, invalidArgumentf("scalar number of buffers must be >= 1, got %d", numberOfBuffers)
	}
	return &Scalar[T]{
		name:                name,
		r:                   roleReceiver,
		value:               initial,
		valueType:           valueTypeOf[T](),
		ring:                ringbuf.NewBounded[ringbuf.Buffer[T]](numberOfBuffers),
		versionNumberSource: versionNumberSource,
	}, nil
}

func newScalarSender[T Numeric](receiver *Scalar[T], timeStampSource clock.TimeStampSource, versionNumberSource clock.VersionNumberSource, listener ProcessVariableListener) (*Scalar[T], error) {
	if receiver == nil {
		return nil, invalidArgumentf("sender's peer receiver must not be nil")
	}
	if receiver.r != roleReceiver {
		return nil, invalidArgumentf("sender's peer must be a receiver")
	}
	return &Scalar[T]{
		name:                receiver.name,
		r:                   roleSender,
		value:               receiver.value,
		valueType:           receiver.valueType,
		ring:                receiver.ring,
		peer:                receiver,
		timeStampSource:     timeStampSource,
		versionNumberSource: versionNumberSource,
		listener:            listener,
	}, nil
}

// Name implements ProcessVariable.
func (s *Scalar[T]) Name() string { return s.name }

// ValueType implements ProcessVariable.
func (s *Scalar[T]) ValueType() ValueType { return s.valueType }

// IsArray implements ProcessVariable.
func (s *Scalar[T]) IsArray() bool { return false }

// IsSender implements ProcessVariable.
func (s *Scalar[T]) IsSender() bool { return s.r == roleSender }

// IsReceiver implements ProcessVariable.
func (s *Scalar[T]) IsReceiver() bool { return s.r == roleReceiver }

// TimeStamp implements ProcessVariable.
func (s *Scalar[T]) TimeStamp() clock.TimeStamp { return s.timeStamp }

// VersionNumber implements ProcessVariable.
func (s *Scalar[T]) VersionNumber() uint64 { return s.version }

// Get returns the current value.
func (s *Scalar[T]) Get() T { return s.value }

// Set assigns a new local value without sending it. Does not trigger
// the send-notification listener.
func (s *Scalar[T]) Set(v T) { s.value = v }

// UseOriginVersionNumberForNextSend pins the version number the next
// Send will use, bypassing the configured VersionNumberSource once. It
// only has an effect if v is strictly greater than the current version;
// the pin is consumed by the next Send, or invalidated by any
// subsequent Receive that advances the current version past v.
func (s *Scalar[T]) UseOriginVersionNumberForNextSend(v uint64) bool {
	if v <= s.version {
		return false
	}
	pinned := v
	s.pinnedNextVersion = &pinned
	return true
}

// SetAndSendIfNewVersionGreater sets the value and sends it with
// version v, but only if v is strictly greater than the current
// version. Idempotent under repeated calls with the same v: the second
// call observes v <= currentVersion (now advanced) and returns false.
func (s *Scalar[T]) SetAndSendIfNewVersionGreater(v T, version uint64) (bool, error) {
	if version <= s.version {
		return false, nil
	}
	s.value = v
	if _, err := s.sendWithVersion(&version); err != nil {
		return false, err
	}
	return true, nil
}

// Send implements ProcessVariable: sends the current value to the peer
// receiver, deriving the outgoing version from a pinned next-version,
// then a configured VersionNumberSource, then 0.
func (s *Scalar[T]) Send() (SendResult, error) {
	return s.sendWithVersion(nil)
}

// SendVersion sends the current value using exactly the given version
// number, bypassing any pin or configured source.
func (s *Scalar[T]) SendVersion(version uint64) (SendResult, error) {
	return s.sendWithVersion(&version)
}

func (s *Scalar[T]) sendWithVersion(explicit *uint64) (SendResult, error) {
	if s.r != roleSender {
		return 0, wrongRolef("send", s.name)
	}
	version := s.deriveVersion(explicit)

	if s.timeStampSource != nil {
		s.timeStamp = s.timeStampSource.GetCurrentTimeStamp()
	} else {
		s.timeStamp = clock.CurrentTime()
	}
	s.version = version

	buf := ringbuf.Buffer[T]{TimeStamp: s.timeStamp, Version: version, Value: s.value}
	dropped := s.ring.PushEvictOldest(buf)

	result := SendOK
	if dropped {
		result = SendOverflowDropped
	}
	if s.metrics != nil {
		s.metrics.ObserveSend(s.name, dropped)
	}
	if s.listener != nil {
		s.listener.Notify(s.peer)
	}
	return result, nil
}

func (s *Scalar[T]) deriveVersion(explicit *uint64) uint64 {
	if explicit != nil {
		return *explicit
	}
	if s.pinnedNextVersion != nil {
		v := *s.pinnedNextVersion
		s.pinnedNextVersion = nil
		return v
	}
	if s.versionNumberSource != nil {
		return s.versionNumberSource.NextVersionNumber()
	}
	return 0
}

// Receive implements ProcessVariable: pops the oldest pending buffer,
// if any, and adopts it only if no VersionNumberSource is configured or
// its version is strictly greater than the current version.
func (s *Scalar[T]) Receive() (bool, error) {
	if s.r != roleReceiver {
		return false, wrongRolef("receive", s.name)
	}
	buf, ok := s.ring.Pop()
	if !ok {
		if s.metrics != nil {
			s.metrics.ObserveReceive(s.name, false)
		}
		return false, nil
	}
	if s.versionNumberSource != nil && buf.Version <= s.version {
		if s.metrics != nil {
			s.metrics.ObserveReceive(s.name, false)
		}
		return false, nil
	}
	s.timeStamp = buf.TimeStamp
	s.value = buf.Value
	s.version = buf.Version
	if s.pinnedNextVersion != nil && *s.pinnedNextVersion <= s.version {
		s.pinnedNextVersion = nil
	}
	if s.metrics != nil {
		s.metrics.ObserveReceive(s.name, true)
	}
	return true, nil
}
