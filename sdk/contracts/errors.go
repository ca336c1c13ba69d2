package contracts

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ConnectionError.
type ErrorKind int

const (
	// KindBindFailed means the source could not be opened (missing, busy, rejected by the driver).
	KindBindFailed ErrorKind = iota + 1
	// KindUserStopped marks an intentional disable. It is not a device fault.
	KindUserStopped
	// KindDriverFault is any fault reported by the driver after a successful bind.
	KindDriverFault
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindBindFailed:
		return "bind failed"
	case KindUserStopped:
		return "user stopped"
	case KindDriverFault:
		return "driver fault"
	default:
		return "unknown"
	}
}

// ConnectionError records why a connection is not forwarding packets.
type ConnectionError struct {
	Kind   ErrorKind
	Source int   // Index of the source involved, -1 when not applicable.
	Err    error // Underlying driver error, if any.
}

// ErrUserStopped is the sentinel recorded when processing is disabled on purpose.
var ErrUserStopped = &ConnectionError{Kind: KindUserStopped, Source: -1}

// NewBindError wraps a driver failure to open source.
func NewBindError(source int, err error) *ConnectionError {
	return &ConnectionError{Kind: KindBindFailed, Source: source, Err: err}
}

// NewDriverFault wraps an asynchronous failure reported on an open source.
func NewDriverFault(source int, err error) *ConnectionError {
	return &ConnectionError{Kind: KindDriverFault, Source: source, Err: err}
}

func (e *ConnectionError) Error() string {
	switch e.Kind {
	case KindUserStopped:
		return "MIDI processing stopped by user"
	case KindBindFailed:
		return fmt.Sprintf("failed to connect to MIDI source %d: %v", e.Source, e.Err)
	case KindDriverFault:
		return fmt.Sprintf("MIDI source %d reported an error: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("connection error: %v", e.Err)
	}
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is matches any ConnectionError of the same kind, so errors.Is(err, ErrUserStopped) works
// for every stopped binding.
func (e *ConnectionError) Is(target error) bool {
	t, ok := target.(*ConnectionError)
	return ok && t.Kind == e.Kind
}

// IsUserStopped reports whether err records an intentional disable.
func IsUserStopped(err error) bool {
	return errors.Is(err, ErrUserStopped)
}
