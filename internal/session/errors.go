package session

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

var (
	// ErrProtocol is matched by every *ProtocolError.
	ErrProtocol = errors.New(config.ErrSyncProtocol)

	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New(config.ErrInvalidState)

	// ErrNotReady is wrapped when the device refuses changes from the host.
	ErrNotReady = errors.New(config.ErrNotReady)
)

// ProtocolError reports a failed exchange with the device.
// Op describes the phase that failed.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProtocol) hold for any *ProtocolError.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

func protocolError(op string, err error) error {
	return &ProtocolError{Op: op, Err: err}
}
