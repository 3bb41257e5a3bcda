package domain

import "time"

// CheckoutGrace extends a booking's end date before it is considered
// checked out, so guests are not freed from their room on its last
// calendar day.
const CheckoutGrace = 24 * time.Hour

// DeriveStatus computes a booking's lifecycle status from its interval and
// the given clock reading. The result is a pure function of (interval, now):
// recomputing it is idempotent, and for a fixed interval it only moves
// forward as now advances.
func DeriveStatus(b Booking, now time.Time) BookingStatus {
	if now.Before(b.StartDate) {
		return StatusBooked
	}
	if now.Before(b.EndDate.Add(CheckoutGrace)) {
		return StatusCheckedIn
	}
	return StatusCheckedOut
}
