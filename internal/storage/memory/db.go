// Package memory holds the canonical in-memory mapping of hotels, rooms,
// and bookings. It carries no business rules: admission decisions live in
// the booking manager, derived lookups in the search index.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/avstrong/hotelhub/internal/booking"
	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/logger"
)

type Config struct {
	L *logger.Logger
}

type DB struct {
	mu sync.RWMutex
	l  *logger.Logger

	hotels     map[string]*hotel.Hotel
	hotelOrder []string
	rooms      map[string]*hotel.Room

	bookings     map[string]*booking.Booking
	bookingOrder []string
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:        conf.L,
		hotels:   make(map[string]*hotel.Hotel),
		rooms:    make(map[string]*hotel.Room),
		bookings: make(map[string]*booking.Booking),
	}
}

func (db *DB) SaveHotel(_ context.Context, h *hotel.Hotel) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.hotels[h.ID]; exists {
		return fmt.Errorf("hotel %v: %w", h.ID, ErrDuplicateRecord)
	}

	db.hotels[h.ID] = h
	db.hotelOrder = append(db.hotelOrder, h.ID)

	for _, room := range h.Rooms {
		db.rooms[room.ID] = room
	}

	return nil
}

func (db *DB) GetHotel(_ context.Context, id string) (*hotel.Hotel, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	h, exists := db.hotels[id]
	if !exists {
		return nil, hotel.ErrHotelNotFound
	}

	return h, nil
}

// ListHotels pages through hotels in insertion order. A negative limit
// means no limit.
func (db *DB) ListHotels(_ context.Context, skip, limit int) ([]*hotel.Hotel, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if skip < 0 {
		skip = 0
	}

	if skip >= len(db.hotelOrder) {
		return nil, nil
	}

	ids := db.hotelOrder[skip:]
	if limit >= 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]*hotel.Hotel, 0, len(ids))
	for _, id := range ids {
		out = append(out, db.hotels[id])
	}

	return out, nil
}

// AllHotels returns every hotel in insertion order; the search index
// rebuilds from this snapshot.
func (db *DB) AllHotels(ctx context.Context) ([]*hotel.Hotel, error) {
	return db.ListHotels(ctx, 0, -1)
}

func (db *DB) GetRoom(_ context.Context, id string) (*hotel.Room, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	room, exists := db.rooms[id]
	if !exists {
		return nil, hotel.ErrRoomNotFound
	}

	return room, nil
}

func (db *DB) SaveBooking(_ context.Context, b *booking.Booking) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.bookings[b.ID]; exists {
		return fmt.Errorf("booking %v: %w", b.ID, ErrDuplicateRecord)
	}

	stored := *b
	db.bookings[b.ID] = &stored
	db.bookingOrder = append(db.bookingOrder, b.ID)

	return nil
}

func (db *DB) GetBooking(_ context.Context, id string) (*booking.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	b, exists := db.bookings[id]
	if !exists {
		return nil, booking.ErrBookingNotFound
	}

	out := *b

	return &out, nil
}

func (db *DB) ListBookings(_ context.Context) ([]*booking.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*booking.Booking, 0, len(db.bookingOrder))

	for _, id := range db.bookingOrder {
		b := *db.bookings[id]
		out = append(out, &b)
	}

	return out, nil
}

func (db *DB) ListBookingsForRoom(_ context.Context, roomID string) ([]*booking.Booking, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []*booking.Booking

	for _, id := range db.bookingOrder {
		if db.bookings[id].RoomID != roomID {
			continue
		}

		b := *db.bookings[id]
		out = append(out, &b)
	}

	return out, nil
}

// UpdateBookingStatus transitions a booking from one status to another.
// It reports false when the booking is unknown or no longer in the expected
// status. Records are never deleted; history is preserved.
func (db *DB) UpdateBookingStatus(_ context.Context, id string, from, to booking.Status) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	b, exists := db.bookings[id]
	if !exists {
		return false, nil
	}

	if b.Status != from {
		return false, nil
	}

	b.Status = to

	return true, nil
}
