// Package migration seeds a deterministic sample inventory for local runs.
// It goes through the catalog like any other hotel-creation caller and
// therefore rebuilds the search index once at the end.
package migration

import (
	"context"
	"fmt"

	"github.com/avstrong/hotelhub/internal/hotel"
	"github.com/avstrong/hotelhub/internal/logger"
)

type catalog interface {
	AddHotel(ctx context.Context, input *hotel.AddHotelInput) (*hotel.Hotel, error)
}

type searchIndex interface {
	Rebuild(ctx context.Context) error
}

//nolint:funlen // sample data is a flat literal
func sampleHotels() []*hotel.AddHotelInput {
	return []*hotel.AddHotelInput{
		{
			Name:        "The Taj Mahal Palace Mumbai",
			City:        "Mumbai",
			Address:     "Apollo Bunder, Colaba",
			StarRating:  5,
			Description: "Iconic luxury hotel overlooking the Gateway of India",
			Amenities:   []string{"WiFi", "Pool", "Spa", "Restaurant", "Bar", "Concierge"},
			Rooms: []*hotel.RoomInput{
				{RoomNumber: "101", RoomType: hotel.RoomTypeDeluxe, PricePerNight: 18000, MaxOccupancy: 2, Amenities: []string{"AC", "Sea View", "Mini Bar"}},
				{RoomNumber: "102", RoomType: hotel.RoomTypeSuite, PricePerNight: 25000, MaxOccupancy: 4, Amenities: []string{"AC", "Sea View", "Butler Service"}},
				{RoomNumber: "201", RoomType: hotel.RoomTypeDouble, PricePerNight: 12000, MaxOccupancy: 2, Amenities: []string{"AC", "City View"}},
			},
		},
		{
			Name:        "Mumbai Grand Hotel",
			City:        "Mumbai",
			Address:     "Marine Drive",
			StarRating:  4,
			Description: "Seafront business hotel on Marine Drive",
			Amenities:   []string{"WiFi", "Restaurant", "Business Center"},
			Rooms: []*hotel.RoomInput{
				{RoomNumber: "301", RoomType: hotel.RoomTypeSingle, PricePerNight: 6000, MaxOccupancy: 1, Amenities: []string{"AC", "WiFi"}},
				{RoomNumber: "302", RoomType: hotel.RoomTypeDouble, PricePerNight: 8000, MaxOccupancy: 2, Amenities: []string{"AC", "WiFi", "Smart TV"}},
			},
		},
		{
			Name:        "Royal Mumbai Resort",
			City:        "Mumbai",
			Address:     "Juhu Beach",
			StarRating:  4,
			Description: "Beachside resort with pool and spa",
			Amenities:   []string{"WiFi", "Pool", "Spa"},
			Rooms: []*hotel.RoomInput{
				{RoomNumber: "11", RoomType: hotel.RoomTypeDeluxe, PricePerNight: 10000, MaxOccupancy: 3, Amenities: []string{"AC", "Balcony", "Sea View"}},
			},
		},
		{
			Name:        "Delhi Palace Hotel",
			City:        "Delhi",
			Address:     "Connaught Place",
			StarRating:  4,
			Description: "Heritage hotel in the heart of the capital",
			Amenities:   []string{"WiFi", "Restaurant", "Bar"},
			Rooms: []*hotel.RoomInput{
				{RoomNumber: "401", RoomType: hotel.RoomTypeDouble, PricePerNight: 7500, MaxOccupancy: 2, Amenities: []string{"AC", "City View"}},
				{RoomNumber: "402", RoomType: hotel.RoomTypeSuite, PricePerNight: 15000, MaxOccupancy: 4, Amenities: []string{"AC", "Coffee Machine"}},
			},
		},
		{
			Name:        "The Oberoi Bengaluru",
			City:        "Bengaluru",
			Address:     "MG Road",
			StarRating:  5,
			Description: "Garden hotel close to the business district",
			Amenities:   []string{"WiFi", "Pool", "Restaurant"},
			Rooms: []*hotel.RoomInput{
				{RoomNumber: "501", RoomType: hotel.RoomTypeSingle, PricePerNight: 9000, MaxOccupancy: 1, Amenities: []string{"AC", "Garden View"}},
				{RoomNumber: "502", RoomType: hotel.RoomTypeDeluxe, PricePerNight: 14000, MaxOccupancy: 2, Amenities: []string{"AC", "Garden View", "Mini Bar"}},
			},
		},
	}
}

func Up(ctx context.Context, l *logger.Logger, catalog catalog, index searchIndex) error {
	hotels := sampleHotels()

	for _, input := range hotels {
		if _, err := catalog.AddHotel(ctx, input); err != nil {
			return fmt.Errorf("seed hotel %q: %w", input.Name, err)
		}
	}

	if err := index.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild search index after seeding: %w", err)
	}

	l.LogInfo("Seeded %v sample hotels", len(hotels))

	return nil
}
