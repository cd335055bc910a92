package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidRange    = errors.New("check-out date must not be before check-in date")
	ErrPastDate        = errors.New("check-in date must not be in the past")
	ErrRateLimited     = errors.New("booking attempt limit exceeded")
	ErrNextID          = errors.New("get next id from generator")
)

// ConflictError reports the confirmed booking that blocks the requested
// date range.
type ConflictError struct {
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func IsConflictError(err error) *ConflictError {
	if err == nil {
		return nil
	}

	var conflictErr *ConflictError

	if errors.As(err, &conflictErr) {
		return conflictErr
	}

	return nil
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"room '%v' is already booked from %v to %v",
		e.RoomID,
		e.CheckIn.Format(time.DateOnly),
		e.CheckOut.Format(time.DateOnly),
	)
}
