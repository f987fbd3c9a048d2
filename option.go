package pvadapter

import "github.com/jabolina/pvadapter/clock"

// settings collects the recognized channel-construction options other
// than the buffer count, which CreateProcessScalar/CreateProcessArray
// take as a mandatory positional argument: time-stamp source,
// version-number source, send-notification listener, and the
// array-only swappable flag.
type settings[T Numeric] struct {
	timeStampSource          clock.TimeStampSource
	versionNumberSource      clock.VersionNumberSource
	sendNotificationListener ProcessVariableListener
	swappable                bool
}

func defaultSettings[T Numeric]() settings[T] {
	return settings[T]{}
}

// Option configures a process variable at creation time.
type Option[T Numeric] func(*settings[T])

// WithTimeStampSource overrides the system clock used to stamp outgoing
// buffers.
func WithTimeStampSource[T Numeric](src clock.TimeStampSource) Option[T] {
	return func(s *settings[T]) { s.timeStampSource = src }
}

// WithVersionNumberSource enables version-gated receives and supplies
// the monotonic counter a sender draws from when no explicit version is
// passed to Send.
func WithVersionNumberSource[T Numeric](src clock.VersionNumberSource) Option[T] {
	return func(s *settings[T]) { s.versionNumberSource = src }
}

// WithSendNotificationListener registers a listener invoked after every
// completed Send, in addition to (and before) the manager pair's own
// notification-queue publication.
func WithSendNotificationListener[T Numeric](l ProcessVariableListener) Option[T] {
	return func(s *settings[T]) { s.sendNotificationListener = l }
}

// WithSwappable exists for API parity with configuration callers may
// already carry. Every array receive is already a pointer swap under
// this implementation's ownership-transfer design, so this option has
// no observable effect.
func WithSwappable[T Numeric](swappable bool) Option[T] {
	return func(s *settings[T]) { s.swappable = swappable }
}

func applyOptions[T Numeric](opts []Option[T]) settings[T] {
	s := defaultSettings[T]()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
