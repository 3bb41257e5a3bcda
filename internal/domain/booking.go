package domain

import "time"

type BookingStatus string

const (
	StatusBooked     BookingStatus = "Booked"
	StatusCheckedIn  BookingStatus = "Check in"
	StatusCheckedOut BookingStatus = "Check out"
)

// Active reports whether a booking in this status still holds its room
// numbers against mutations (hotel/room deletion).
func (s BookingStatus) Active() bool {
	return s == StatusBooked || s == StatusCheckedIn
}

// rank orders statuses along the one-way lifecycle.
func (s BookingStatus) rank() int {
	switch s {
	case StatusBooked:
		return 0
	case StatusCheckedIn:
		return 1
	default:
		return 2
	}
}

// Before reports whether s precedes o in the Booked -> Check in -> Check out
// order.
func (s BookingStatus) Before(o BookingStatus) bool { return s.rank() < o.rank() }

// Booking reserves a set of physical room numbers in one hotel for a date
// range. It is written once at reservation time; only Status is ever
// rewritten, and that value is derived, never authored.
type Booking struct {
	ID          string
	HotelID     int64
	UserID      string
	RoomNumbers []int
	StartDate   time.Time
	EndDate     time.Time
	Price       float64
	Payment     string
	Status      BookingStatus
}

// Range returns the booking's occupied date interval.
func (b Booking) Range() DateRange { return DateRange{Start: b.StartDate, End: b.EndDate} }
