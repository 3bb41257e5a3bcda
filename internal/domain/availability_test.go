package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain"
)

func TestBusySetsGroupsByHotel(t *testing.T) {
	q := rng("2024-06-01", "2024-06-03")
	bookings := []domain.Booking{
		{ID: "a", HotelID: 1, RoomNumbers: []int{101, 102}, StartDate: day("2024-06-02"), EndDate: day("2024-06-04")},
		{ID: "b", HotelID: 1, RoomNumbers: []int{102, 103}, StartDate: day("2024-06-03"), EndDate: day("2024-06-05")},
		{ID: "c", HotelID: 2, RoomNumbers: []int{101}, StartDate: day("2024-06-01"), EndDate: day("2024-06-01")},
		{ID: "d", HotelID: 1, RoomNumbers: []int{999}, StartDate: day("2024-06-10"), EndDate: day("2024-06-12")}, // outside query
	}

	busy := domain.BusySets(bookings, q)
	require.Len(t, busy, 2)

	// hotel 1: union of a and b, d excluded
	assert.True(t, busy[1].Contains(101))
	assert.True(t, busy[1].Contains(102))
	assert.True(t, busy[1].Contains(103))
	assert.False(t, busy[1].Contains(999))

	// hotel 2 isolated from hotel 1
	assert.True(t, busy[2].Contains(101))
	assert.Len(t, busy[2], 1)
}

func TestSubtractBusyKeepsEmptyRoomTypes(t *testing.T) {
	rooms := []domain.Room{
		{ID: 1, Title: "Deluxe", RoomNumbers: []int{101, 102}},
		{ID: 2, Title: "Suite", RoomNumbers: []int{201}},
	}
	busy := domain.BusySet{101: {}, 102: {}}

	got := domain.SubtractBusy(rooms, busy)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].RoomNumbers, "fully booked room type stays in the catalog with empty availability")
	assert.Equal(t, []int{201}, got[1].RoomNumbers)

	// input untouched
	assert.Equal(t, []int{101, 102}, rooms[0].RoomNumbers)
}

func TestSubtractBusyNilBusy(t *testing.T) {
	rooms := []domain.Room{{ID: 1, RoomNumbers: []int{101}}}
	got := domain.SubtractBusy(rooms, nil)
	assert.Equal(t, []int{101}, got[0].RoomNumbers)
}

// Adding an overlapping booking never increases the free count; adding a
// non-overlapping one never changes it.
func TestBusySetMonotonicity(t *testing.T) {
	q := rng("2024-06-01", "2024-06-03")
	rooms := []domain.Room{{ID: 1, RoomNumbers: []int{101, 102, 103}}}

	bookings := []domain.Booking{
		{ID: "a", HotelID: 7, RoomNumbers: []int{101}, StartDate: day("2024-06-02"), EndDate: day("2024-06-04")},
	}
	base := freeCount(rooms, domain.BusySets(bookings, q)[7])

	overlapping := append(bookings, domain.Booking{
		ID: "b", HotelID: 7, RoomNumbers: []int{102}, StartDate: day("2024-06-01"), EndDate: day("2024-06-02"),
	})
	assert.LessOrEqual(t, freeCount(rooms, domain.BusySets(overlapping, q)[7]), base)

	disjoint := append(bookings, domain.Booking{
		ID: "c", HotelID: 7, RoomNumbers: []int{102}, StartDate: day("2024-07-01"), EndDate: day("2024-07-02"),
	})
	assert.Equal(t, base, freeCount(rooms, domain.BusySets(disjoint, q)[7]))
}

func freeCount(rooms []domain.Room, busy domain.BusySet) int {
	return domain.FreeRoomCount(domain.Hotel{Rooms: domain.SubtractBusy(rooms, busy)})
}
