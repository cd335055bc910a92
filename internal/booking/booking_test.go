package booking_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/avstrong/hotelhub/internal/booking"
	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/idgen/random"
	"github.com/avstrong/hotelhub/internal/logger"
	"github.com/avstrong/hotelhub/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

// day returns midnight UTC n days from now.
func day(n int) time.Time {
	now := time.Now().UTC()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

type fixture struct {
	manager *booking.Manager
	room    *hotel.Room
	spare   *hotel.Room
}

func newFixture(t *testing.T, conf booking.Config) *fixture {
	t.Helper()

	l := logger.New(logger.Options{Output: io.Discard}) //nolint:exhaustruct
	db := memory.New(memory.Config{L: l})
	idGen := random.New()

	catalog := hotel.NewCatalog(l, db, idGen)

	h, err := catalog.AddHotel(context.Background(), &hotel.AddHotelInput{ //nolint:exhaustruct
		Name: "Mumbai Grand Hotel",
		City: "Mumbai",
		Rooms: []*hotel.RoomInput{
			{RoomNumber: "101", RoomType: hotel.RoomTypeDouble, PricePerNight: 8000, MaxOccupancy: 2, Amenities: nil},
			{RoomNumber: "102", RoomType: hotel.RoomTypeSingle, PricePerNight: 5000, MaxOccupancy: 1, Amenities: nil},
		},
	})
	require.NoError(t, err)

	conf.L = l
	conf.Storage = db
	conf.IDGenerator = idGen

	return &fixture{
		manager: booking.New(conf),
		room:    h.Rooms[0],
		spare:   h.Rooms[1],
	}
}

func input(roomID, guest, email string, checkIn, checkOut time.Time) *booking.CreateBookingInput {
	return &booking.CreateBookingInput{
		RoomID:     roomID,
		GuestName:  guest,
		GuestEmail: email,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
}

func TestCreateBookingPricing(t *testing.T) {
	f := newFixture(t, booking.Config{}) //nolint:exhaustruct
	ctx := context.Background()

	t.Run("twoNights", func(t *testing.T) {
		out, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(1), day(3)))
		require.NoError(t, err)
		require.Equal(t, int64(16000), out.TotalPrice)
		require.Equal(t, booking.StatusConfirmed, out.Status)
		require.Equal(t, f.room.HotelID, out.HotelID)
	})

	t.Run("sameDayBilledAsOneNight", func(t *testing.T) {
		out, err := f.manager.CreateBooking(ctx, input(f.spare.ID, "Ravi", "ravi@example.com", day(1), day(1)))
		require.NoError(t, err)
		require.Equal(t, int64(5000), out.TotalPrice)
	})
}

func TestCreateBookingOverlap(t *testing.T) {
	f := newFixture(t, booking.Config{}) //nolint:exhaustruct
	ctx := context.Background()

	_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(1), day(3)))
	require.NoError(t, err)

	t.Run("overlappingRangeConflicts", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Ravi", "ravi@example.com", day(2), day(4)))
		require.Error(t, err)
		require.NotNil(t, booking.IsConflictError(err))
	})

	t.Run("touchingRangeDoesNotConflict", func(t *testing.T) {
		out, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Meera", "meera@example.com", day(3), day(5)))
		require.NoError(t, err)
		require.Equal(t, booking.StatusConfirmed, out.Status)
	})

	t.Run("otherRoomUnaffected", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.spare.ID, "Vikram", "vikram@example.com", day(1), day(3)))
		require.NoError(t, err)
	})
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t, booking.Config{}) //nolint:exhaustruct
	ctx := context.Background()

	t.Run("unknownRoom", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input("no-such-room", "Asha", "a@example.com", day(1), day(2)))
		require.ErrorIs(t, err, booking.ErrRoomNotFound)
	})

	t.Run("checkOutBeforeCheckIn", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "b@example.com", day(3), day(1)))
		require.ErrorIs(t, err, booking.ErrInvalidRange)
	})

	t.Run("checkInInThePast", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "c@example.com", day(-1), day(1)))
		require.ErrorIs(t, err, booking.ErrPastDate)
	})
}

func TestCreateBookingRateLimit(t *testing.T) {
	current := time.Now().UTC()
	f := newFixture(t, booking.Config{Now: func() time.Time { return current }}) //nolint:exhaustruct
	ctx := context.Background()

	// Five non-overlapping attempts fit the budget.
	for i := 0; i < 5; i++ {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(1+2*i), day(2+2*i)))
		require.NoError(t, err)
	}

	t.Run("sixthAttemptLimited", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(20), day(21)))
		require.ErrorIs(t, err, booking.ErrRateLimited)
	})

	t.Run("limitedBeforeOtherValidations", func(t *testing.T) {
		// The range is invalid, but the rate limit is checked first.
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(5), day(1)))
		require.ErrorIs(t, err, booking.ErrRateLimited)
	})

	t.Run("otherGuestUnaffected", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.spare.ID, "Ravi", "ravi@example.com", day(1), day(2)))
		require.NoError(t, err)
	})

	t.Run("rejectedAttemptsCount", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := f.manager.CreateBooking(ctx, input(f.spare.ID, "Meera", "meera@example.com", day(3), day(1)))
			require.ErrorIs(t, err, booking.ErrInvalidRange)
		}

		_, err := f.manager.CreateBooking(ctx, input(f.spare.ID, "Meera", "meera@example.com", day(3), day(4)))
		require.ErrorIs(t, err, booking.ErrRateLimited)
	})

	t.Run("windowSlides", func(t *testing.T) {
		current = current.Add(61 * time.Second)

		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(20), day(21)))
		require.NoError(t, err)
	})
}

func TestConcurrentOverlappingBookingsSingleWinner(t *testing.T) {
	f := newFixture(t, booking.Config{}) //nolint:exhaustruct
	ctx := context.Background()

	const workers = 8

	emails := []string{
		"a@example.com", "b@example.com", "c@example.com", "d@example.com",
		"e@example.com", "f@example.com", "g@example.com", "h@example.com",
	}

	var wg sync.WaitGroup

	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = f.manager.CreateBooking(ctx, input(f.room.ID, "Guest", emails[i], day(1), day(3)))
		}(i)
	}

	wg.Wait()

	var confirmed, conflicted int

	for _, err := range errs {
		switch {
		case err == nil:
			confirmed++
		case booking.IsConflictError(err) != nil:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, confirmed)
	require.Equal(t, workers-1, conflicted)

	all, err := f.manager.ListBookings(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t, booking.Config{}) //nolint:exhaustruct
	ctx := context.Background()

	out, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Asha", "asha@example.com", day(1), day(3)))
	require.NoError(t, err)

	ok, err := f.manager.CancelBooking(ctx, out.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := f.manager.GetBooking(ctx, out.ID)
	require.NoError(t, err)
	require.Equal(t, booking.StatusCancelled, got.Status)

	t.Run("cancelIsIdempotent", func(t *testing.T) {
		ok, err := f.manager.CancelBooking(ctx, out.ID)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := f.manager.GetBooking(ctx, out.ID)
		require.NoError(t, err)
		require.Equal(t, booking.StatusCancelled, got.Status)
	})

	t.Run("cancelledBookingFreesTheRoom", func(t *testing.T) {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, "Ravi", "ravi@example.com", day(1), day(3)))
		require.NoError(t, err)
	})

	t.Run("unknownIDReportsFalse", func(t *testing.T) {
		ok, err := f.manager.CancelBooking(ctx, "no-such-booking")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestListBookings(t *testing.T) {
	current := time.Now().UTC()
	f := newFixture(t, booking.Config{Now: func() time.Time { return current }}) //nolint:exhaustruct
	ctx := context.Background()

	guests := []struct {
		name  string
		email string
		from  int
	}{
		{"Alice Fernandes", "alice@example.com", 1},
		{"Bob Singh", "bob@example.com", 3},
		{"Carol Dsouza", "carol@example.com", 5},
	}

	for _, g := range guests {
		_, err := f.manager.CreateBooking(ctx, input(f.room.ID, g.name, g.email, day(g.from), day(g.from+1)))
		require.NoError(t, err)

		current = current.Add(time.Second)
	}

	t.Run("mostRecentFirst", func(t *testing.T) {
		out, err := f.manager.ListBookings(ctx, "")
		require.NoError(t, err)
		require.Len(t, out, 3)
		require.Equal(t, "Carol Dsouza", out[0].GuestName)
		require.Equal(t, "Bob Singh", out[1].GuestName)
		require.Equal(t, "Alice Fernandes", out[2].GuestName)
	})

	t.Run("caseInsensitiveSubstringFilter", func(t *testing.T) {
		out, err := f.manager.ListBookings(ctx, "aLiC")
		require.NoError(t, err)
		require.Len(t, out, 1)
		require.Equal(t, "Alice Fernandes", out[0].GuestName)
	})

	t.Run("noMatches", func(t *testing.T) {
		out, err := f.manager.ListBookings(ctx, "zzz")
		require.NoError(t, err)
		require.Empty(t, out)
	})
}
