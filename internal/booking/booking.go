package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/logger"
	"github.com/avstrong/hotelhub/internal/metrics"
)

const (
	DefaultRateLimitMax    = 5
	DefaultRateLimitWindow = 60 * time.Second
)

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

type storageReader interface {
	GetRoom(ctx context.Context, id string) (*hotel.Room, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	ListBookings(ctx context.Context) ([]*Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string) ([]*Booking, error)
}

type storageWriter interface {
	SaveBooking(ctx context.Context, b *Booking) error
	UpdateBookingStatus(ctx context.Context, id string, from, to Status) (bool, error)
}

type storage interface {
	storageReader
	storageWriter
}

type Config struct {
	L               *logger.Logger
	Storage         storage
	IDGenerator     idGenerator
	RateLimitMax    int
	RateLimitWindow time.Duration
	Metrics         *metrics.BookingMetrics
	// Now overrides the clock; nil means time.Now. Tests use it to pin dates.
	Now func() time.Time
}

// Manager is the only writer of booking records. Every mutating operation
// runs inside a single manager-wide critical section so that the overlap
// check and the insert it guards cannot interleave with another request.
type Manager struct {
	mu          sync.Mutex
	l           *logger.Logger
	storage     storage
	idGenerator idGenerator
	limiter     *rateLimiter
	metrics     *metrics.BookingMetrics
	now         func() time.Time
}

func New(conf Config) *Manager {
	if conf.RateLimitMax <= 0 {
		conf.RateLimitMax = DefaultRateLimitMax
	}

	if conf.RateLimitWindow <= 0 {
		conf.RateLimitWindow = DefaultRateLimitWindow
	}

	if conf.Now == nil {
		conf.Now = time.Now
	}

	//nolint:exhaustruct
	return &Manager{
		l:           conf.L,
		storage:     conf.Storage,
		idGenerator: conf.IDGenerator,
		limiter:     newRateLimiter(conf.RateLimitWindow, conf.RateLimitMax),
		metrics:     conf.Metrics,
		now:         conf.Now,
	}
}

// toDate drops the time-of-day part; bookings operate on whole UTC days.
func toDate(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// nightsCharged bills a same-day stay as exactly one night.
func nightsCharged(checkIn, checkOut time.Time) int64 {
	nights := int64(checkOut.Sub(checkIn) / (24 * time.Hour))
	if nights < 1 {
		return 1
	}

	return nights
}

// findConflict scans the room's confirmed bookings for a half-open interval
// overlap: [a,b) and [c,d) conflict iff c < b && a < d. A checkout equal to
// another booking's check-in does not conflict.
func (m *Manager) findConflict(ctx context.Context, roomID string, checkIn, checkOut time.Time) (*ConflictError, error) {
	existing, err := m.storage.ListBookingsForRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list bookings for room %v: %w", roomID, err)
	}

	for _, b := range existing {
		if b.Status != StatusConfirmed {
			continue
		}

		if checkIn.Before(b.CheckOut) && b.CheckIn.Before(checkOut) {
			return &ConflictError{
				RoomID:   roomID,
				CheckIn:  b.CheckIn,
				CheckOut: b.CheckOut,
			}, nil
		}
	}

	return nil, nil
}

//nolint:cyclop // the admission checks are a fixed, ordered sequence
func (m *Manager) CreateBooking(ctx context.Context, input *CreateBookingInput) (*Booking, error) {
	email := strings.ToLower(strings.TrimSpace(input.GuestEmail))

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()

	// Checked before anything else to shed load; the attempt is recorded
	// even when the booking is later rejected.
	if !m.limiter.allow(email, now) {
		m.metrics.IncRejected("rate_limited")

		return nil, ErrRateLimited
	}

	room, err := m.storage.GetRoom(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, hotel.ErrRoomNotFound) {
			m.metrics.IncRejected("room_not_found")

			return nil, ErrRoomNotFound
		}

		return nil, fmt.Errorf("get room %v from storage: %w", input.RoomID, err)
	}

	checkIn := toDate(input.CheckIn)
	checkOut := toDate(input.CheckOut)

	if checkOut.Before(checkIn) {
		m.metrics.IncRejected("invalid_range")

		return nil, ErrInvalidRange
	}

	if checkIn.Before(toDate(now)) {
		m.metrics.IncRejected("past_date")

		return nil, ErrPastDate
	}

	conflict, err := m.findConflict(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if conflict != nil {
		m.metrics.IncRejected("conflict")
		m.l.LogInfo("Booking rejected for room %v: %v", room.ID, conflict)

		return nil, conflict
	}

	id, err := m.idGenerator.GetID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	b := &Booking{
		ID:         id,
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		GuestName:  input.GuestName,
		GuestEmail: email,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		TotalPrice: room.PricePerNight * nightsCharged(checkIn, checkOut),
		Status:     StatusConfirmed,
		CreatedAt:  now,
	}

	if err := m.storage.SaveBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking to storage: %w", err)
	}

	m.metrics.IncConfirmed()
	m.l.LogInfo("Booking %v confirmed for room %v, %v to %v", b.ID, b.RoomID,
		checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly))

	return b, nil
}

// CancelBooking transitions a confirmed or pending booking to cancelled.
// It reports false for unknown ids and for bookings already cancelled; the
// record itself is never deleted.
func (m *Manager) CancelBooking(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.storage.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("get booking %v from storage: %w", id, err)
	}

	if b.Status == StatusCancelled {
		return false, nil
	}

	ok, err := m.storage.UpdateBookingStatus(ctx, id, b.Status, StatusCancelled)
	if err != nil {
		return false, fmt.Errorf("update booking %v status: %w", id, err)
	}

	if ok {
		m.l.LogInfo("Booking %v cancelled", id)
	}

	return ok, nil
}

func (m *Manager) GetBooking(ctx context.Context, id string) (*Booking, error) {
	b, err := m.storage.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %v from storage: %w", id, err)
	}

	return b, nil
}

// ListBookings filters by case-insensitive substring on guest name and
// orders by creation time, most recent first.
func (m *Manager) ListBookings(ctx context.Context, guestName string) ([]*Booking, error) {
	all, err := m.storage.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings from storage: %w", err)
	}

	out := make([]*Booking, 0, len(all))

	filter := strings.ToLower(strings.TrimSpace(guestName))

	for _, b := range all {
		if filter == "" || strings.Contains(strings.ToLower(b.GuestName), filter) {
			out = append(out, b)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
