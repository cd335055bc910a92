package hotel

import "errors"

var (
	ErrHotelNotFound = errors.New("hotel not found")
	ErrRoomNotFound  = errors.New("room not found")
	ErrNextID        = errors.New("get next id from generator")
)
