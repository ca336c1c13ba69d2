package connection

import "github.com/leandrodaf/midivol/sdk/contracts"

// State is the externally visible state of a Connection.
type State int

const (
	// StateUnbound means no bind has been attempted yet.
	StateUnbound State = iota
	// StateActive means matching packets are being forwarded.
	StateActive
	// StateStopped means processing was disabled on purpose.
	StateStopped
	// StateFaulted means the last bind or the active port failed.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Binding is the result of registering a listener: either an open port or
// the reason there is none.
type Binding struct {
	port     contracts.Port
	listener *listener
	err      *contracts.ConnectionError
}

// Failed returns a binding holding err.
func Failed(err *contracts.ConnectionError) Binding {
	return Binding{err: err}
}

// Stopped returns the binding that disables processing.
func Stopped() Binding {
	return Failed(contracts.ErrUserStopped)
}

// Ok reports whether the binding holds an open port.
func (b Binding) Ok() bool {
	return b.err == nil && b.port != nil
}

// Err returns the failure, or nil for an open port.
func (b Binding) Err() *contracts.ConnectionError {
	return b.err
}

func (b Binding) state() State {
	switch {
	case b.Ok():
		return StateActive
	case b.err == nil:
		return StateUnbound
	case b.err.Kind == contracts.KindUserStopped:
		return StateStopped
	default:
		return StateFaulted
	}
}
