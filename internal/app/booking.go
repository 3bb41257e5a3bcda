package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

type BookingService struct {
	bookings domain.BookingRepository
	cache    domain.Cache
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, c domain.Cache) *BookingService {
	return &BookingService{bookings: b, cache: c, now: func() time.Time { return time.Now().UTC() }}
}

type ReservationInput struct {
	HotelID     int64  `validate:"required"`
	UserID      string `validate:"required"`
	RoomNumbers []int  `validate:"min=1,unique,dive,min=1"`
	StartDate   time.Time
	EndDate     time.Time
	Price       float64 `validate:"min=0"`
	Payment     string  `validate:"required"`
}

// Reserve creates a booking through the repository's atomic
// check-and-insert. Validation failures never reach storage; a conflict
// comes back as a ConflictError naming the busy numbers.
func (s *BookingService) Reserve(ctx context.Context, in ReservationInput) (domain.Booking, error) {
	if err := checkStruct(in); err != nil {
		return domain.Booking{}, err
	}
	r := domain.DateRange{Start: in.StartDate, End: in.EndDate}
	if err := checkRange(r); err != nil {
		return domain.Booking{}, err
	}

	b := domain.Booking{
		ID:          uuid.NewString(),
		HotelID:     in.HotelID,
		UserID:      in.UserID,
		RoomNumbers: in.RoomNumbers,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Price:       in.Price,
		Payment:     in.Payment,
	}
	b.Status = domain.DeriveStatus(b, s.now())

	out, err := s.bookings.ReserveIfFree(ctx, b)
	if err != nil {
		if domain.IsConflict(err) {
			observability.ObserveReservation("conflict")
		} else {
			observability.ObserveReservation("error")
		}
		return domain.Booking{}, err
	}
	observability.ObserveReservation("ok")
	_ = s.cache.Del(ctx, hotelKey(out.HotelID))
	return out, nil
}

// ListByUser returns a user's bookings with statuses derived against the
// current clock. Corrected statuses are written back opportunistically;
// the response is right even when a write-back fails.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	bs, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, bs)
	return bs, nil
}

// Latest returns the most recent bookings, newest first.
func (s *BookingService) Latest(ctx context.Context, limit int) ([]domain.Booking, error) {
	bs, err := s.bookings.ListLatest(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, bs)
	return bs, nil
}

func (s *BookingService) Count(ctx context.Context) (int64, error) {
	return s.bookings.CountBookings(ctx)
}

func (s *BookingService) Earnings(ctx context.Context) (domain.EarningsReport, error) {
	return s.bookings.Earnings(ctx)
}

func (s *BookingService) refresh(ctx context.Context, bs []domain.Booking) {
	now := s.now()
	for i := range bs {
		fresh := domain.DeriveStatus(bs[i], now)
		if fresh == bs[i].Status {
			continue
		}
		bs[i].Status = fresh
		if err := s.bookings.UpdateStatus(ctx, bs[i].ID, fresh); err != nil {
			log.Warn().Str("booking", bs[i].ID).Err(err).Msg("status write-back failed")
			continue
		}
		observability.SweepUpdates.Inc()
	}
}

// RefreshAll re-derives every booking's status with a bounded worker pool
// and reports how many rows were rewritten. Safe to run from several
// processes at once: stale writers just rewrite the same derived value.
func (s *BookingService) RefreshAll(ctx context.Context, workers int) (int64, error) {
	if workers < 1 {
		workers = 1
	}
	bs, err := s.bookings.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var updated int64

	for _, b := range bs {
		fresh := domain.DeriveStatus(b, now)
		if fresh == b.Status {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return atomic.LoadInt64(&updated), err
		}
		wg.Add(1)
		go func(b domain.Booking, status domain.BookingStatus) {
			defer wg.Done()
			defer sem.Release(1)

			if err := s.bookings.UpdateStatus(ctx, b.ID, status); err != nil {
				log.Warn().Str("booking", b.ID).Err(err).Msg("sweep update failed")
				return
			}
			atomic.AddInt64(&updated, 1)
			observability.SweepUpdates.Inc()
		}(b, fresh)
	}

	wg.Wait()
	return atomic.LoadInt64(&updated), nil
}
