package domain

// BusySet is the union of room numbers reserved by the bookings of one
// hotel that overlap a query interval. Union, not multiset: a number
// appearing in several bookings blocks exactly one physical unit.
type BusySet map[int]struct{}

// Contains reports whether a room number is busy.
func (s BusySet) Contains(n int) bool {
	_, ok := s[n]
	return ok
}

// BusySets groups bookings by hotel and unions their room numbers per
// hotel, keeping only bookings whose interval overlaps q. One hotel's
// bookings never leak into another hotel's busy set.
func BusySets(bookings []Booking, q DateRange) map[int64]BusySet {
	out := make(map[int64]BusySet)
	for _, b := range bookings {
		if !b.Range().Overlaps(q) {
			continue
		}
		set, ok := out[b.HotelID]
		if !ok {
			set = make(BusySet)
			out[b.HotelID] = set
		}
		for _, n := range b.RoomNumbers {
			set[n] = struct{}{}
		}
	}
	return out
}

// SubtractBusy returns a copy of the room-type inventory with every busy
// number removed. Room types are retained even when nothing in them is
// free, so the catalog stays complete for capacity math and listings.
// The input rooms are not mutated.
func SubtractBusy(rooms []Room, busy BusySet) []Room {
	out := make([]Room, len(rooms))
	for i, r := range rooms {
		free := make([]int, 0, len(r.RoomNumbers))
		for _, n := range r.RoomNumbers {
			if !busy.Contains(n) {
				free = append(free, n)
			}
		}
		r.RoomNumbers = free
		out[i] = r
	}
	return out
}

// FreeRoomCount sums the free unit numbers across a hotel's room types.
func FreeRoomCount(h Hotel) int {
	total := 0
	for _, r := range h.Rooms {
		total += len(r.RoomNumbers)
	}
	return total
}

// FreeCapacity sums free units weighted by each room type's max occupancy.
func FreeCapacity(h Hotel) int {
	total := 0
	for _, r := range h.Rooms {
		total += len(r.RoomNumbers) * r.MaxPeople
	}
	return total
}
