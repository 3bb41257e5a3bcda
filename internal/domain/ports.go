package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	CreateHotel(ctx context.Context, h Hotel) (int64, error)
	UpdateHotel(ctx context.Context, h Hotel) error

	// GetHotel and ListHotels return hotels with their room types populated.
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	ListHotels(ctx context.Context, limit int) ([]Hotel, error)
	TopRated(ctx context.Context, top int) ([]Hotel, error)

	// DeleteHotelIfUnreferenced re-derives booking statuses against now,
	// fails with a ConflictError while any Booked/Check in booking
	// references the hotel, and otherwise deletes the hotel together with
	// its bookings. Guard and delete share one transaction.
	DeleteHotelIfUnreferenced(ctx context.Context, id int64, now time.Time) error
}

type RoomRepository interface {
	CreateRoom(ctx context.Context, r Room) (int64, error)
	UpdateRoom(ctx context.Context, r Room) error
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context, limit int) ([]Room, error)
	ListNonAttached(ctx context.Context) ([]Room, error)
	AttachRoom(ctx context.Context, roomID, hotelID int64) error
	DetachRoom(ctx context.Context, roomID int64) error

	// DeleteRoomIfUnreferenced behaves like its hotel counterpart, blocking
	// while an active booking of the owning hotel holds any of the room
	// type's numbers. On success the room is detached and removed.
	DeleteRoomIfUnreferenced(ctx context.Context, id int64, now time.Time) error
}

type BookingRepository interface {
	// ReserveIfFree atomically checks the requested numbers against the
	// hotel's overlapping bookings and inserts the booking only when all
	// of them are free. A collision yields a ConflictError naming the busy
	// numbers; two concurrent calls for a shared number cannot both
	// succeed.
	ReserveIfFree(ctx context.Context, b Booking) (Booking, error)

	// FindOverlapping returns bookings whose interval overlaps r.
	// hotelID 0 means all hotels.
	FindOverlapping(ctx context.Context, hotelID int64, r DateRange) ([]Booking, error)

	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListLatest(ctx context.Context, limit int) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)

	// UpdateStatus writes back a derived lifecycle status. It is a cache of
	// DeriveStatus, never an independently authored value.
	UpdateStatus(ctx context.Context, id string, s BookingStatus) error

	CountBookings(ctx context.Context) (int64, error)
	Earnings(ctx context.Context) (EarningsReport, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// EarningsReport summarizes all bookings: total revenue and the span
// between the first and last start dates.
type EarningsReport struct {
	TotalEarnings float64
	Span          time.Duration
}

// CountItem is one bucket of the hotel count stats (by city or by type).
type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
