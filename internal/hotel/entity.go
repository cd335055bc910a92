package hotel

type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeDeluxe RoomType = "Deluxe"
	RoomTypeSuite  RoomType = "Suite"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeDeluxe, RoomTypeSuite:
		return true
	}

	return false
}

type Room struct {
	ID            string   `json:"id"`
	HotelID       string   `json:"hotel_id"`
	RoomNumber    string   `json:"room_number"`
	RoomType      RoomType `json:"room_type"`
	PricePerNight int64    `json:"price_per_night"`
	MaxOccupancy  int      `json:"max_occupancy"`
	Amenities     []string `json:"amenities"`
	// Available is advisory only. The authoritative availability signal is
	// the absence of an overlapping confirmed booking.
	Available bool `json:"is_available"`
}

type Hotel struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	StarRating  int      `json:"star_rating"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Rooms       []*Room  `json:"rooms"`
}

type RoomInput struct {
	RoomNumber    string   `json:"room_number"`
	RoomType      RoomType `json:"room_type"`
	PricePerNight int64    `json:"price_per_night"`
	MaxOccupancy  int      `json:"max_occupancy"`
	Amenities     []string `json:"amenities"`
}

type AddHotelInput struct {
	Name        string       `json:"name"`
	City        string       `json:"city"`
	Address     string       `json:"address"`
	StarRating  int          `json:"star_rating"`
	Description string       `json:"description"`
	Amenities   []string     `json:"amenities"`
	Rooms       []*RoomInput `json:"rooms"`
}
