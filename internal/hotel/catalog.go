package hotel

import (
	"context"
	"fmt"

	"github.com/avstrong/hotelhub/internal/logger"
)

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

type storage interface {
	SaveHotel(ctx context.Context, h *Hotel) error
	GetHotel(ctx context.Context, id string) (*Hotel, error)
	ListHotels(ctx context.Context, skip, limit int) ([]*Hotel, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
}

// Catalog owns the hotel-creation path. Callers that add or modify hotels
// must rebuild the search index afterwards; the catalog itself does not
// touch derived structures.
type Catalog struct {
	l           *logger.Logger
	storage     storage
	idGenerator idGenerator
}

func NewCatalog(l *logger.Logger, storage storage, idGenerator idGenerator) *Catalog {
	return &Catalog{
		l:           l,
		storage:     storage,
		idGenerator: idGenerator,
	}
}

func (c *Catalog) AddHotel(ctx context.Context, input *AddHotelInput) (*Hotel, error) {
	id, err := c.idGenerator.GetID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	h := &Hotel{
		ID:          id,
		Name:        input.Name,
		City:        input.City,
		Address:     input.Address,
		StarRating:  input.StarRating,
		Description: input.Description,
		Amenities:   input.Amenities,
		Rooms:       make([]*Room, 0, len(input.Rooms)),
	}

	for _, roomInput := range input.Rooms {
		roomID, err := c.idGenerator.GetID(ctx)
		if err != nil {
			return nil, ErrNextID
		}

		h.Rooms = append(h.Rooms, &Room{
			ID:            roomID,
			HotelID:       id,
			RoomNumber:    roomInput.RoomNumber,
			RoomType:      roomInput.RoomType,
			PricePerNight: roomInput.PricePerNight,
			MaxOccupancy:  roomInput.MaxOccupancy,
			Amenities:     roomInput.Amenities,
			Available:     true,
		})
	}

	if err := c.storage.SaveHotel(ctx, h); err != nil {
		return nil, fmt.Errorf("save hotel to storage: %w", err)
	}

	c.l.LogInfo("Hotel %v (%v, %v) added with %v rooms", h.ID, h.Name, h.City, len(h.Rooms))

	return h, nil
}

func (c *Catalog) GetHotel(ctx context.Context, id string) (*Hotel, error) {
	h, err := c.storage.GetHotel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get hotel %v: %w", id, err)
	}

	return h, nil
}

func (c *Catalog) ListHotels(ctx context.Context, skip, limit int) ([]*Hotel, error) {
	hotels, err := c.storage.ListHotels(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}

	return hotels, nil
}

func (c *Catalog) GetRoomsForHotel(ctx context.Context, hotelID string) ([]*Room, error) {
	h, err := c.storage.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("get hotel %v: %w", hotelID, err)
	}

	return h.Rooms, nil
}

func (c *Catalog) GetRoom(ctx context.Context, id string) (*Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get room %v: %w", id, err)
	}

	return room, nil
}
