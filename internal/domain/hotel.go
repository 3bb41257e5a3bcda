package domain

type HotelType string

const (
	TypeHotel     HotelType = "Hotel"
	TypeApartment HotelType = "Apartment"
	TypeResort    HotelType = "Resort"
	TypeVilla     HotelType = "Villa"
	TypeCabin     HotelType = "Cabin"
)

// HotelTypes lists the valid values in catalog order.
var HotelTypes = []HotelType{TypeHotel, TypeApartment, TypeResort, TypeVilla, TypeCabin}

type Hotel struct {
	ID       int64
	Name     string
	Type     HotelType
	City     string
	Address  string
	Distance float64
	Photos   []string
	Desc     string
	Rating   float64
	Title    string
	Featured bool
	Rooms    []Room // room types owned by this hotel
}

// Room is a room type: a priced category holding the physical unit numbers
// that can actually be booked. A room type belongs to at most one hotel.
type Room struct {
	ID          int64
	HotelID     *int64 // nil while not attached to any hotel
	Title       string
	Desc        string
	Price       float64
	MaxPeople   int
	RoomNumbers []int
}

// CheapestPrice returns the lowest room-type price, or ok=false when the
// hotel has no room types.
func (h Hotel) CheapestPrice() (float64, bool) {
	if len(h.Rooms) == 0 {
		return 0, false
	}
	min := h.Rooms[0].Price
	for _, r := range h.Rooms[1:] {
		if r.Price < min {
			min = r.Price
		}
	}
	return min, true
}
