package app

import (
	"context"
	"time"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// AdminService owns inventory mutations and the catalog/stat reads behind
// the administrative surface.
type AdminService struct {
	hotels   domain.HotelRepository
	rooms    domain.RoomRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewAdminService(h domain.HotelRepository, r domain.RoomRepository, c domain.Cache, ttl time.Duration) *AdminService {
	return &AdminService{hotels: h, rooms: r, cache: c, cacheTTL: ttl, now: func() time.Time { return time.Now().UTC() }}
}

type HotelInput struct {
	Name     string `validate:"required"`
	Type     string `validate:"required,oneof=Hotel Apartment Resort Villa Cabin"`
	City     string `validate:"required"`
	Address  string `validate:"required"`
	Distance float64
	Photos   []string
	Desc     string
	Rating   float64 `validate:"min=0,max=5"`
	Title    string
	Featured bool
}

func (in HotelInput) toDomain(id int64) domain.Hotel {
	return domain.Hotel{
		ID:       id,
		Name:     in.Name,
		Type:     domain.HotelType(in.Type),
		City:     in.City,
		Address:  in.Address,
		Distance: in.Distance,
		Photos:   in.Photos,
		Desc:     in.Desc,
		Rating:   in.Rating,
		Title:    in.Title,
		Featured: in.Featured,
	}
}

func (s *AdminService) CreateHotel(ctx context.Context, in HotelInput) (int64, error) {
	if err := checkStruct(in); err != nil {
		return 0, err
	}
	return s.hotels.CreateHotel(ctx, in.toDomain(0))
}

func (s *AdminService) UpdateHotel(ctx context.Context, id int64, in HotelInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if err := s.hotels.UpdateHotel(ctx, in.toDomain(id)); err != nil {
		return err
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	return nil
}

// DeleteHotel runs the mutation guard and delete in one repository
// transaction: any Booked/Check in booking blocks it, and its cascade of
// booking removals happens only once the guard has passed.
func (s *AdminService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.hotels.DeleteHotelIfUnreferenced(ctx, id, s.now()); err != nil {
		if domain.IsConflict(err) {
			observability.ObserveGuardRejection("hotel")
		}
		return err
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	return nil
}

func (s *AdminService) ListHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	return s.hotels.ListHotels(ctx, limit)
}

func (s *AdminService) TopRated(ctx context.Context, top int) ([]domain.Hotel, error) {
	return s.hotels.TopRated(ctx, top)
}

// statCities mirrors the dashboard's fixed city buckets.
var statCities = []string{"Ha Noi", "Ho Chi Minh", "Da Nang"}

func (s *AdminService) CountByCity(ctx context.Context) ([]domain.CountItem, error) {
	hotels, err := s.hotels.ListHotels(ctx, catalogLimit)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CountItem, 0, len(statCities))
	for _, city := range statCities {
		n := 0
		for _, h := range hotels {
			if domain.SameStandard(h.City, city) {
				n++
			}
		}
		items = append(items, domain.CountItem{Name: city, Count: n})
	}
	return items, nil
}

func (s *AdminService) CountByType(ctx context.Context) ([]domain.CountItem, error) {
	hotels, err := s.hotels.ListHotels(ctx, catalogLimit)
	if err != nil {
		return nil, err
	}
	items := make([]domain.CountItem, 0, len(domain.HotelTypes))
	for _, ht := range domain.HotelTypes {
		n := 0
		for _, h := range hotels {
			if domain.SameStandard(string(h.Type), string(ht)) {
				n++
			}
		}
		items = append(items, domain.CountItem{Name: string(ht), Count: n})
	}
	return items, nil
}

type RoomInput struct {
	Title       string `validate:"required"`
	Desc        string
	Price       float64 `validate:"min=0"`
	MaxPeople   int     `validate:"min=1"`
	RoomNumbers []int   `validate:"min=1,unique,dive,min=1"`
}

func (in RoomInput) toDomain(id int64) domain.Room {
	return domain.Room{
		ID:          id,
		Title:       in.Title,
		Desc:        in.Desc,
		Price:       in.Price,
		MaxPeople:   in.MaxPeople,
		RoomNumbers: in.RoomNumbers,
	}
}

// CreateRoom creates a room type and optionally attaches it to a hotel.
// Numbers already present anywhere in the target hotel are rejected, since
// a physical unit number must be unique across the hotel's room types.
func (s *AdminService) CreateRoom(ctx context.Context, in RoomInput, hotelID int64) (int64, error) {
	if err := checkStruct(in); err != nil {
		return 0, err
	}
	if hotelID != 0 {
		if err := s.checkDuplicateNumbers(ctx, hotelID, in.RoomNumbers, 0); err != nil {
			return 0, err
		}
	}
	id, err := s.rooms.CreateRoom(ctx, in.toDomain(0))
	if err != nil {
		return 0, err
	}
	if hotelID != 0 {
		if err := s.rooms.AttachRoom(ctx, id, hotelID); err != nil {
			return 0, err
		}
		_ = s.cache.Del(ctx, hotelKey(hotelID))
	}
	return id, nil
}

// UpdateRoom updates a room type and moves it between hotels when the
// owning hotel changes. hotelID/prevHotelID of 0 mean "not attached".
func (s *AdminService) UpdateRoom(ctx context.Context, id int64, in RoomInput, hotelID, prevHotelID int64) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	if hotelID != 0 && hotelID != prevHotelID {
		if err := s.checkDuplicateNumbers(ctx, hotelID, in.RoomNumbers, id); err != nil {
			return err
		}
	}
	if err := s.rooms.UpdateRoom(ctx, in.toDomain(id)); err != nil {
		return err
	}
	if prevHotelID != 0 && prevHotelID != hotelID {
		if err := s.rooms.DetachRoom(ctx, id); err != nil {
			return err
		}
		_ = s.cache.Del(ctx, hotelKey(prevHotelID))
	}
	if hotelID != 0 && hotelID != prevHotelID {
		if err := s.rooms.AttachRoom(ctx, id, hotelID); err != nil {
			return err
		}
	}
	if hotelID != 0 {
		_ = s.cache.Del(ctx, hotelKey(hotelID))
	}
	return nil
}

func (s *AdminService) DeleteRoom(ctx context.Context, id int64) error {
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rooms.DeleteRoomIfUnreferenced(ctx, id, s.now()); err != nil {
		if domain.IsConflict(err) {
			observability.ObserveGuardRejection("room")
		}
		return err
	}
	if room.HotelID != nil {
		_ = s.cache.Del(ctx, hotelKey(*room.HotelID))
	}
	return nil
}

func (s *AdminService) ListRooms(ctx context.Context, limit int) ([]domain.Room, error) {
	return s.rooms.ListRooms(ctx, limit)
}

func (s *AdminService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return s.rooms.GetRoom(ctx, id)
}

func (s *AdminService) ListNonAttached(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListNonAttached(ctx)
}

// checkDuplicateNumbers rejects numbers already used by the hotel's other
// room types. excludeRoomID skips the room being updated.
func (s *AdminService) checkDuplicateNumbers(ctx context.Context, hotelID int64, numbers []int, excludeRoomID int64) error {
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return err
	}
	taken := make(domain.BusySet)
	for _, r := range h.Rooms {
		if excludeRoomID != 0 && r.ID == excludeRoomID {
			continue
		}
		for _, n := range r.RoomNumbers {
			taken[n] = struct{}{}
		}
	}
	var dups []int
	for _, n := range numbers {
		if taken.Contains(n) {
			dups = append(dups, n)
		}
	}
	if len(dups) > 0 {
		return &domain.ConflictError{HotelID: hotelID, RoomNumbers: dups, Reason: "room numbers already exist in hotel"}
	}
	return nil
}
