package record

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-contact-sync/internal/config"
)

// ErrValidation is matched by every codec validation failure.
var ErrValidation = errors.New(config.ErrRecordInvalid)

// ValidationError describes why one record (or a whole record set) was rejected.
type ValidationError struct {
	ID     string // Record identifier, empty for record-set failures
	Entity string // Entity name without prefix, when known
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.ID == "":
		return fmt.Sprintf("%s: %s", config.ErrRecordInvalid, e.Reason)
	case e.Entity == "":
		return fmt.Sprintf("%s %q: %s", config.ErrRecordInvalid, e.ID, e.Reason)
	default:
		return fmt.Sprintf("%s %q (%s): %s", config.ErrRecordInvalid, e.ID, e.Entity, e.Reason)
	}
}

// Is makes errors.Is(err, ErrValidation) hold for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(id, entity, reason string) *ValidationError {
	return &ValidationError{ID: id, Entity: entity, Reason: reason}
}
