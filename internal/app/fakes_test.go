package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"stayhub/internal/domain"
)

// memRepo is an in-memory implementation of the repository ports honoring
// the same contracts as the MySQL implementation, including the atomic
// reserve-if-free and the guarded deletes.
type memRepo struct {
	mu       sync.Mutex
	hotels   map[int64]domain.Hotel
	rooms    map[int64]domain.Room
	bookings map[string]domain.Booking
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		hotels:   map[int64]domain.Hotel{},
		rooms:    map[int64]domain.Room{},
		bookings: map[string]domain.Booking{},
	}
}

func (m *memRepo) roomsOf(hotelID int64) []domain.Room {
	var out []domain.Room
	for _, r := range m.rooms {
		if r.HotelID != nil && *r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---- HotelRepository ----

func (m *memRepo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	h.ID = m.nextID
	m.hotels[h.ID] = h
	return h.ID, nil
}

func (m *memRepo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[h.ID]; !ok {
		return domain.ErrNotFound
	}
	m.hotels[h.ID] = h
	return nil
}

func (m *memRepo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	h.Rooms = m.roomsOf(id)
	return h, nil
}

func (m *memRepo) ListHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Hotel
	for _, h := range m.hotels {
		h.Rooms = m.roomsOf(h.ID)
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) TopRated(ctx context.Context, top int) ([]domain.Hotel, error) {
	out, _ := m.ListHotels(ctx, 0)
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out, nil
}

func (m *memRepo) DeleteHotelIfUnreferenced(ctx context.Context, id int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	var busy []int
	for bid, b := range m.bookings {
		if b.HotelID != id {
			continue
		}
		status := domain.DeriveStatus(b, now)
		b.Status = status
		m.bookings[bid] = b
		if status.Active() {
			busy = append(busy, b.RoomNumbers...)
		}
	}
	if len(busy) > 0 {
		return &domain.ConflictError{HotelID: id, RoomNumbers: busy, Reason: "hotel has active bookings"}
	}
	for bid, b := range m.bookings {
		if b.HotelID == id {
			delete(m.bookings, bid)
		}
	}
	for rid, r := range m.rooms {
		if r.HotelID != nil && *r.HotelID == id {
			r.HotelID = nil
			m.rooms[rid] = r
		}
	}
	delete(m.hotels, id)
	return nil
}

// ---- RoomRepository ----

func (m *memRepo) CreateRoom(ctx context.Context, r domain.Room) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rooms[r.ID] = r
	return r.ID, nil
}

func (m *memRepo) UpdateRoom(ctx context.Context, r domain.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rooms[r.ID]
	if !ok {
		return domain.ErrNotFound
	}
	r.HotelID = cur.HotelID
	m.rooms[r.ID] = r
	return nil
}

func (m *memRepo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memRepo) ListRooms(ctx context.Context, limit int) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Room
	for _, r := range m.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) ListNonAttached(ctx context.Context) ([]domain.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Room
	for _, r := range m.rooms {
		if r.HotelID == nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) AttachRoom(ctx context.Context, roomID, hotelID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := m.hotels[hotelID]; !ok {
		return domain.ErrNotFound
	}
	r.HotelID = &hotelID
	m.rooms[roomID] = r
	return nil
}

func (m *memRepo) DetachRoom(ctx context.Context, roomID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return domain.ErrNotFound
	}
	r.HotelID = nil
	m.rooms[roomID] = r
	return nil
}

func (m *memRepo) DeleteRoomIfUnreferenced(ctx context.Context, id int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.HotelID != nil {
		owned := make(domain.BusySet)
		for _, n := range r.RoomNumbers {
			owned[n] = struct{}{}
		}
		var busy []int
		for bid, b := range m.bookings {
			if b.HotelID != *r.HotelID {
				continue
			}
			status := domain.DeriveStatus(b, now)
			b.Status = status
			m.bookings[bid] = b
			if !status.Active() {
				continue
			}
			for _, n := range b.RoomNumbers {
				if owned.Contains(n) {
					busy = append(busy, n)
				}
			}
		}
		if len(busy) > 0 {
			return &domain.ConflictError{HotelID: *r.HotelID, RoomNumbers: busy, Reason: "room has active bookings"}
		}
	}
	delete(m.rooms, id)
	return nil
}

// ---- BookingRepository ----

func (m *memRepo) ReserveIfFree(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hotels[b.HotelID]; !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	var overlapping []domain.Booking
	for _, cur := range m.bookings {
		if cur.HotelID == b.HotelID && cur.Range().Overlaps(b.Range()) {
			overlapping = append(overlapping, cur)
		}
	}
	busy := domain.BusySets(overlapping, b.Range())[b.HotelID]
	var clash []int
	for _, n := range b.RoomNumbers {
		if busy.Contains(n) {
			clash = append(clash, n)
		}
	}
	if len(clash) > 0 {
		return domain.Booking{}, &domain.ConflictError{HotelID: b.HotelID, RoomNumbers: clash, Reason: "rooms already reserved for these dates"}
	}
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memRepo) FindOverlapping(ctx context.Context, hotelID int64, r domain.DateRange) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if hotelID != 0 && b.HotelID != hotelID {
			continue
		}
		if b.Range().Overlaps(r) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (m *memRepo) ListLatest(ctx context.Context, limit int) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].EndDate.After(out[j].EndDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return m.ListLatest(ctx, 0)
}

func (m *memRepo) UpdateStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = s
	m.bookings[id] = b
	return nil
}

func (m *memRepo) CountBookings(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bookings)), nil
}

func (m *memRepo) Earnings(ctx context.Context) (domain.EarningsReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rep domain.EarningsReport
	var first, last time.Time
	for _, b := range m.bookings {
		rep.TotalEarnings += b.Price
		if first.IsZero() || b.StartDate.Before(first) {
			first = b.StartDate
		}
		if last.IsZero() || b.StartDate.After(last) {
			last = b.StartDate
		}
	}
	if !first.IsZero() {
		rep.Span = last.Sub(first)
	}
	return rep, nil
}

// fakeCache is the map-backed cache used across the app tests.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}
