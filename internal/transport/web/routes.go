package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avstrong/hotelhub/internal/booking"
	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type createRoomRequest struct {
	RoomNumber    string   `json:"room_number" validate:"required"`
	RoomType      string   `json:"room_type" validate:"required,oneof=Single Double Deluxe Suite"`
	PricePerNight int64    `json:"price_per_night" validate:"required,gt=0"`
	MaxOccupancy  int      `json:"max_occupancy" validate:"required,min=1,max=10"`
	Amenities     []string `json:"amenities"`
}

type createHotelRequest struct {
	Name        string              `json:"name" validate:"required,max=200"`
	City        string              `json:"city" validate:"required,max=100"`
	Address     string              `json:"address"`
	StarRating  int                 `json:"star_rating" validate:"omitempty,min=1,max=5"`
	Description string              `json:"description"`
	Amenities   []string            `json:"amenities"`
	Rooms       []createRoomRequest `json:"rooms" validate:"dive"`
}

type createBookingRequest struct {
	RoomID     string `json:"room_id" validate:"required"`
	GuestName  string `json:"guest_name" validate:"required,max=100"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	CheckIn    string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
}

type searchRequest struct {
	City      string `json:"city"`
	HotelName string `json:"hotel_name"`
	Limit     int    `json:"limit" validate:"omitempty,min=1"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	payload := struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields,omitempty"`
	}{Error: msg, Fields: fields}

	s.writeJSON(w, status, payload)
}

func (s *Server) writeInternalError(w http.ResponseWriter, err error) {
	s.l.LogErrorf("Internal error: %v", err.Error())
	s.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	payload := struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}{Status: "healthy", Timestamp: time.Now().UTC()}

	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) listHotelsHandler(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100) //nolint:gomnd

	hotels, err := s.catalog.ListHotels(r.Context(), skip, limit)
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, hotels)
}

func (s *Server) createHotelHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createHotelRequest

	if err := decodeAndValidate(r, &req); err != nil {
		if reqErr := IsRequestError(err); reqErr != nil {
			s.writeError(w, http.StatusBadRequest, reqErr.Error(), reqErr.Fields())

			return
		}

		s.writeInternalError(w, err)

		return
	}

	input := &hotel.AddHotelInput{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		StarRating:  req.StarRating,
		Description: req.Description,
		Amenities:   req.Amenities,
		Rooms:       make([]*hotel.RoomInput, 0, len(req.Rooms)),
	}

	for _, room := range req.Rooms {
		input.Rooms = append(input.Rooms, &hotel.RoomInput{
			RoomNumber:    room.RoomNumber,
			RoomType:      hotel.RoomType(room.RoomType),
			PricePerNight: room.PricePerNight,
			MaxOccupancy:  room.MaxOccupancy,
			Amenities:     room.Amenities,
		})
	}

	out, err := s.catalog.AddHotel(ctx, input)
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	// Hotel writes must be followed by an index rebuild; search stays stale
	// until this completes.
	if err := s.search.Rebuild(ctx); err != nil {
		s.l.LogErrorf("Could not rebuild search index after adding hotel %v: %v", out.ID, err.Error())
	}

	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) getHotelHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.GetHotel(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		if errors.Is(err, hotel.ErrHotelNotFound) {
			s.writeError(w, http.StatusNotFound, "hotel not found", nil)

			return
		}

		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) hotelRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.catalog.GetRoomsForHotel(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		if errors.Is(err, hotel.ErrHotelNotFound) {
			s.writeError(w, http.StatusNotFound, "hotel not found", nil)

			return
		}

		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) getRoomHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.GetRoom(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		if errors.Is(err, hotel.ErrRoomNotFound) {
			s.writeError(w, http.StatusNotFound, "room not found", nil)

			return
		}

		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest

	if err := decodeAndValidate(r, &req); err != nil {
		if reqErr := IsRequestError(err); reqErr != nil {
			s.writeError(w, http.StatusBadRequest, reqErr.Error(), reqErr.Fields())

			return
		}

		s.writeInternalError(w, err)

		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.conf.SearchDefaultLimit
	}

	if limit > s.conf.SearchMaxLimit {
		limit = s.conf.SearchMaxLimit
	}

	out, err := s.search.Search(r.Context(), search.Query{
		City:  req.City,
		Name:  req.HotelName,
		Limit: limit,
	})
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

//nolint:cyclop // one branch per domain rejection
func (s *Server) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest

	if err := decodeAndValidate(r, &req); err != nil {
		if reqErr := IsRequestError(err); reqErr != nil {
			s.writeError(w, http.StatusBadRequest, reqErr.Error(), reqErr.Fields())

			return
		}

		s.writeInternalError(w, err)

		return
	}

	checkIn, _ := time.Parse(time.DateOnly, req.CheckIn)
	checkOut, _ := time.Parse(time.DateOnly, req.CheckOut)

	out, err := s.bookings.CreateBooking(r.Context(), &booking.CreateBookingInput{
		RoomID:     req.RoomID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})

	switch {
	case err == nil:
		s.writeJSON(w, http.StatusCreated, out)
	case errors.Is(err, booking.ErrRateLimited):
		s.writeError(w, http.StatusTooManyRequests, err.Error(), nil)
	case errors.Is(err, booking.ErrRoomNotFound):
		s.writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, booking.ErrInvalidRange), errors.Is(err, booking.ErrPastDate):
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
	case booking.IsConflictError(err) != nil:
		s.writeError(w, http.StatusConflict, err.Error(), nil)
	default:
		s.writeInternalError(w, err)
	}
}

func (s *Server) listBookingsHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.bookings.ListBookings(r.Context(), r.URL.Query().Get("guest_name"))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	out, err := s.bookings.GetBooking(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			s.writeError(w, http.StatusNotFound, "booking not found", nil)

			return
		}

		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	ok, err := s.bookings.CancelBooking(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	if !ok {
		s.writeError(w, http.StatusNotFound, "booking not found", nil)

		return
	}

	payload := struct {
		Message string `json:"message"`
	}{Message: "booking cancelled"}

	s.writeJSON(w, http.StatusOK, payload)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func (s *Server) addRoutes(r chi.Router) {
	r.Use(s.loggerMiddleware(), s.recoverMiddleware())

	r.Get(s.conf.LivenessEndpoint, s.healthHandler)

	if s.conf.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.conf.MetricsRegistry, promhttp.HandlerOpts{})) //nolint:exhaustruct
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/hotels", s.listHotelsHandler)
		r.Post("/hotels", s.createHotelHandler)
		r.Get("/hotels/{hotelID}", s.getHotelHandler)
		r.Get("/hotels/{hotelID}/rooms", s.hotelRoomsHandler)
		r.Get("/rooms/{roomID}", s.getRoomHandler)
		r.Post("/search", s.searchHandler)
		r.Post("/bookings", s.createBookingHandler)
		r.Get("/bookings", s.listBookingsHandler)
		r.Get("/bookings/{bookingID}", s.getBookingHandler)
		r.Delete("/bookings/{bookingID}", s.cancelBookingHandler)
	})
}
