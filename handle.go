package pvadapter

import "github.com/jabolina/pvadapter/clock"

// SendResult is the outcome of a successful Send call. Overflow is not
// an error — it's a normal, silent-unless-observed signal that the
// oldest previously-sent buffer had to be dropped.
type SendResult int

const (
	SendOK SendResult = iota
	SendOverflowDropped
)

func (r SendResult) Overflowed() bool { return r == SendOverflowDropped }

// ProcessVariable is the type-erased handle every process variable
// exposes, regardless of its element type or array-ness. The typed
// accessors (Get/Set) live only on the concrete
// *Scalar[T] / *Array[T] a caller gets back from a typed manager
// lookup; this interface carries only the role-agnostic, introspectable
// surface plus the role-restricted Send/Receive pair.
type ProcessVariable interface {
	// Name is the PV's identifier, unique within its manager pair.
	Name() string

	// ValueType is the runtime element-type tag used to verify a typed
	// downcast before it's attempted.
	ValueType() ValueType

	// IsArray reports whether this PV carries a fixed-length array
	// rather than a single scalar value.
	IsArray() bool

	// IsSender / IsReceiver report this endpoint's immutable role.
	IsSender() bool
	IsReceiver() bool

	// TimeStamp is the time stamp associated with the current value.
	TimeStamp() clock.TimeStamp

	// VersionNumber is the version number associated with the current
	// value.
	VersionNumber() uint64

	// Send pushes the endpoint's current value to its peer receiver.
	// Valid only when IsSender(); returns ErrWrongRole otherwise.
	Send() (SendResult, error)

	// Receive pops the next pending buffer, if any, and adopts it as the
	// endpoint's current value when accepted. Valid only when
	// IsReceiver(); returns ErrWrongRole otherwise.
	Receive() (accepted bool, err error)
}
