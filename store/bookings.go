package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// ErrSeatingRequired is returned when a creation payload omits the
// mandatory seating preference.
var ErrSeatingRequired = errors.New("seating preference is required")

// Bookings stores reservations. The in-memory map is the source of truth;
// when a Redis client is supplied, writes are mirrored best-effort so an
// operator can inspect them, but mirror failures never fail an operation.
type Bookings struct {
	mu    sync.RWMutex
	byID  map[string]booking.Booking
	order []string // booking IDs, newest created first

	redis *redis.Client
	log   *zap.Logger
}

// NewBookings builds a booking store; rdb may be nil.
func NewBookings(rdb *redis.Client, log *zap.Logger) *Bookings {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bookings{
		byID:  make(map[string]booking.Booking),
		redis: rdb,
		log:   log,
	}
}

// Create stamps the payload with a fresh BK- identifier, confirmed status
// and creation time, then stores it.
func (s *Bookings) Create(ctx context.Context, payload booking.InsertBooking) (booking.Booking, error) {
	if !payload.SeatingPreference.Valid() {
		return booking.Booking{}, ErrSeatingRequired
	}

	b := booking.Booking{
		InsertBooking: payload,
		BookingID:     booking.NewBookingID(),
		Status:        booking.StatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	s.byID[b.BookingID] = b
	s.order = append([]string{b.BookingID}, s.order...)
	s.mu.Unlock()

	s.mirror(ctx, b)
	s.log.Info("booking created",
		zap.String("bookingId", b.BookingID),
		zap.String("customer", b.CustomerName),
		zap.String("date", b.BookingDate))
	return b, nil
}

// Get looks a booking up by ID.
func (s *Bookings) Get(ctx context.Context, id string) (booking.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	return b, ok
}

// List returns all bookings, newest created first.
func (s *Bookings) List(ctx context.Context) []booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]booking.Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// UpdateStatus changes a booking's status; it reports false for an unknown
// ID or an undefined status value. Records are never deleted.
func (s *Bookings) UpdateStatus(ctx context.Context, id string, status booking.Status) bool {
	if !status.Valid() {
		return false
	}

	s.mu.Lock()
	b, ok := s.byID[id]
	if ok {
		b.Status = status
		s.byID[id] = b
	}
	s.mu.Unlock()

	if ok {
		s.mirror(ctx, b)
	}
	return ok
}

// Cancel marks a booking cancelled.
func (s *Bookings) Cancel(ctx context.Context, id string) bool {
	return s.UpdateStatus(ctx, id, booking.StatusCancelled)
}

func (s *Bookings) mirror(ctx context.Context, b booking.Booking) {
	if s.redis == nil {
		return
	}
	data, err := sonic.Marshal(b)
	if err != nil {
		s.log.Warn("failed to encode booking for mirror", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, "booking:"+b.BookingID, data, 0).Err(); err != nil {
		s.log.Warn("failed to mirror booking to redis", zap.Error(err))
	}
}
