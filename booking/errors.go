package booking

import (
	"errors"
	"fmt"

	"holidaze-server/availability"
)

var ErrAuthenticationRequired = errors.New("authentication required: sign in to book")

// DateNotAvailableError: the requested check-in is not in the current window set.
type DateNotAvailableError struct {
	Date   availability.DateOnly
	Nights int
}

func (e *DateNotAvailableError) Error() string {
	return fmt.Sprintf("%s is not available for a %d night stay", e.Date, e.Nights)
}

// InvalidStateError: the operation is not allowed in the controller's current state.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.State)
}

// BookingError wraps a failed booking submission. Message is safe to show to the user.
type BookingError struct {
	Message string
	Err     error
}

func (e *BookingError) Error() string { return e.Message }
func (e *BookingError) Unwrap() error { return e.Err }
