package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound marks a referenced hotel, room or booking that does not exist.
var ErrNotFound = errors.New("stayhub: not found")

// ValidationError rejects malformed input before persistence is touched:
// an end date before a start date, an empty room-number set, a negative
// price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return "invalid " + e.Field + ": " + e.Reason
}

// ConflictError reports a collision with live state: a reservation
// overlapping an existing booking on shared numbers, a delete blocked by an
// active booking, or duplicate physical numbers within a hotel. It always
// names the hotel and the colliding numbers so the caller can react.
type ConflictError struct {
	HotelID     int64
	RoomNumbers []int
	Reason      string
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason)
	if e.HotelID != 0 {
		b.WriteString(" (hotel ")
		b.WriteString(strconv.FormatInt(e.HotelID, 10))
		b.WriteString(")")
	}
	if len(e.RoomNumbers) > 0 {
		nums := make([]string, len(e.RoomNumbers))
		for i, n := range e.RoomNumbers {
			nums[i] = strconv.Itoa(n)
		}
		b.WriteString(": rooms ")
		b.WriteString(strings.Join(nums, ", "))
	}
	return b.String()
}

// PersistenceError wraps a transient storage failure: timeouts, broken
// connections, unexpected row shapes. Reads may be retried as-is; the
// reservation write must be retried through ReserveIfFree, never as a
// blind re-insert.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
