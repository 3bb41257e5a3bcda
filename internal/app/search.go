package app

import (
	"context"
	"fmt"
	"time"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// catalogLimit bounds how much of the hotel catalog a single search loads.
const catalogLimit = 1000

type SearchService struct {
	hotels   domain.HotelRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewSearchService(h domain.HotelRepository, b domain.BookingRepository, c domain.Cache, ttl time.Duration) *SearchService {
	return &SearchService{hotels: h, bookings: b, cache: c, cacheTTL: ttl}
}

type SearchQuery struct {
	Address   string
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
	Adults    int       `validate:"min=1"`
	Children  int       `validate:"min=0"`
	Rooms     int       `validate:"min=1"`
	MinPrice  float64   `validate:"min=0"`
	MaxPrice  float64   `validate:"min=0"`
}

// Search computes availability for the query interval and narrows the
// catalog through the location/capacity/price pipeline. Hotels and
// bookings are fetched up front so the whole computation runs over one
// consistent snapshot; results are never cached for that reason.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) ([]domain.Hotel, error) {
	if err := checkStruct(q); err != nil {
		return nil, err
	}
	r := domain.DateRange{Start: q.StartDate, End: q.EndDate}
	if err := checkRange(r); err != nil {
		return nil, err
	}

	hotels, err := s.hotels.ListHotels(ctx, catalogLimit)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindOverlapping(ctx, 0, r)
	if err != nil {
		return nil, err
	}

	busy := domain.BusySets(bookings, r)
	for i := range hotels {
		hotels[i].Rooms = domain.SubtractBusy(hotels[i].Rooms, busy[hotels[i].ID])
	}

	// absent price bounds fall back to an effectively open range
	minPrice, maxPrice := q.MinPrice, q.MaxPrice
	if minPrice == 0 {
		minPrice = 1
	}
	if maxPrice == 0 {
		maxPrice = 999999
	}

	observability.Searches.Inc()
	return domain.FilterHotels(hotels, domain.SearchCriteria{
		Address:  q.Address,
		Adults:   q.Adults,
		Children: q.Children,
		Rooms:    q.Rooms,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}), nil
}

// FreeRooms returns one hotel with its room-number sets reduced to what is
// free over the interval.
func (s *SearchService) FreeRooms(ctx context.Context, hotelID int64, r domain.DateRange) (domain.Hotel, error) {
	if err := checkRange(r); err != nil {
		return domain.Hotel{}, err
	}
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, err
	}
	bookings, err := s.bookings.FindOverlapping(ctx, hotelID, r)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Rooms = domain.SubtractBusy(h.Rooms, domain.BusySets(bookings, r)[hotelID])
	return h, nil
}

// GetHotel serves the hotel detail view cache-aside.
func (s *SearchService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }
