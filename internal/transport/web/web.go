package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/avstrong/hotelhub/internal/booking"
	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/logger"
	"github.com/avstrong/hotelhub/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type hotelCatalog interface {
	AddHotel(ctx context.Context, input *hotel.AddHotelInput) (*hotel.Hotel, error)
	GetHotel(ctx context.Context, id string) (*hotel.Hotel, error)
	ListHotels(ctx context.Context, skip, limit int) ([]*hotel.Hotel, error)
	GetRoomsForHotel(ctx context.Context, hotelID string) ([]*hotel.Room, error)
	GetRoom(ctx context.Context, id string) (*hotel.Room, error)
}

type bookingManager interface {
	CreateBooking(ctx context.Context, input *booking.CreateBookingInput) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id string) (bool, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	ListBookings(ctx context.Context, guestName string) ([]*booking.Booking, error)
}

type searchIndex interface {
	Search(ctx context.Context, q search.Query) ([]*hotel.Hotel, error)
	Rebuild(ctx context.Context) error
}

type Server struct {
	srv      *http.Server
	router   chi.Router
	l        *logger.Logger
	conf     Conf
	catalog  hotelCatalog
	bookings bookingManager
	search   searchIndex
}

type Conf struct {
	L                  *logger.Logger
	ServerLogger       *log.Logger
	Host               string
	Port               string
	ReadHeaderTimeout  time.Duration
	LivenessEndpoint   string
	SearchDefaultLimit int
	SearchMaxLimit     int
	MetricsRegistry    *prometheus.Registry
}

func New(ctx context.Context, conf Conf, catalog hotelCatalog, bookings bookingManager, searchIndex searchIndex) (*Server, error) {
	if conf.SearchDefaultLimit <= 0 {
		conf.SearchDefaultLimit = search.DefaultLimit
	}

	if conf.SearchMaxLimit <= 0 {
		conf.SearchMaxLimit = 1000 //nolint:gomnd
	}

	router := chi.NewRouter()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           router,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:      srv,
		router:   router,
		l:        conf.L,
		conf:     conf,
		catalog:  catalog,
		bookings: bookings,
		search:   searchIndex,
	}

	server.addRoutes(router)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}

func (s *Server) Router() http.Handler {
	return s.router
}
