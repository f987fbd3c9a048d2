package pvadapter

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Each is wrapped with the offending name/type
// via fmt.Errorf's %w so callers can errors.Is/errors.As against the
// sentinel while still getting a useful message.
var (
	// ErrWrongRole is returned by Send on a non-sender endpoint, or
	// Receive on a non-receiver endpoint.
	ErrWrongRole = errors.New("pvadapter: operation not allowed for this endpoint's role")

	// ErrInvalidArgument is returned by construction when the buffer
	// count, peer, or role combination is invalid.
	ErrInvalidArgument = errors.New("pvadapter: invalid argument")

	// ErrNotFound is returned by a manager lookup when no PV is
	// registered under the given name.
	ErrNotFound = errors.New("pvadapter: process variable not found")

	// ErrTypeMismatch is returned by a typed manager lookup when the
	// named PV exists but its element type differs from the requested T.
	ErrTypeMismatch = errors.New("pvadapter: process variable type mismatch")

	// ErrDuplicateName is returned by manager creation when name is
	// already registered.
	ErrDuplicateName = errors.New("pvadapter: duplicate process variable name")
)

func wrongRolef(op, name string) error {
	return fmt.Errorf("%w: %s on %q", ErrWrongRole, op, name)
}

func invalidArgumentf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func notFoundf(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func typeMismatchf(name string, want, got ValueType) error {
	return fmt.Errorf("%w: %q wants %s, registered as %s", ErrTypeMismatch, name, want, got)
}

func duplicateNamef(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateName, name)
}
