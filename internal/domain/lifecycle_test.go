package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stayhub/internal/domain"
)

func TestDeriveStatus(t *testing.T) {
	b := domain.Booking{StartDate: day("2024-06-02"), EndDate: day("2024-06-04")}

	cases := []struct {
		now  string
		want domain.BookingStatus
	}{
		{"2024-06-01", domain.StatusBooked},
		{"2024-06-02", domain.StatusCheckedIn},
		{"2024-06-03", domain.StatusCheckedIn},
		{"2024-06-04", domain.StatusCheckedIn}, // grace day: not freed on the last calendar day
		{"2024-06-05", domain.StatusCheckedOut},
		{"2024-06-06", domain.StatusCheckedOut},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.DeriveStatus(b, day(tc.now)), "now=%s", tc.now)
	}
}

func TestDeriveStatusMonotonic(t *testing.T) {
	b := domain.Booking{StartDate: day("2024-06-02"), EndDate: day("2024-06-04")}

	prev := domain.DeriveStatus(b, day("2024-05-01"))
	for now := day("2024-05-01"); now.Before(day("2024-07-01")); now = now.Add(6 * time.Hour) {
		cur := domain.DeriveStatus(b, now)
		if cur != prev {
			assert.True(t, prev.Before(cur), "status went backwards at %s: %s -> %s", now, prev, cur)
		}
		// idempotent: same now, same answer
		assert.Equal(t, cur, domain.DeriveStatus(b, now))
		prev = cur
	}
}

func TestStatusActive(t *testing.T) {
	assert.True(t, domain.StatusBooked.Active())
	assert.True(t, domain.StatusCheckedIn.Active())
	assert.False(t, domain.StatusCheckedOut.Active())
}
