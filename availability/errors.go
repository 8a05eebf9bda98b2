package availability

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every *InvalidArgumentError via errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidIntervalError reports a booked interval whose end precedes its start.
type InvalidIntervalError struct {
	Interval BookedInterval
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval: end %s is before start %s", e.Interval.End, e.Interval.Start)
}

// InvalidArgumentError reports a caller bug such as nights < 1 or a negative horizon.
type InvalidArgumentError struct {
	Name   string
	Value  int
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%d: %s", e.Name, e.Value, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
