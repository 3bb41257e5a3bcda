package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stayhub/internal/domain"
)

func TestStandardize(t *testing.T) {
	assert.Equal(t, "ha noi", domain.Standardize("Hà Nội"))
	assert.Equal(t, "ho chi minh", domain.Standardize("  Hồ Chí Minh  "))
	assert.Equal(t, "da nang", domain.Standardize("Đà Nẵng"))
	assert.Equal(t, "resort", domain.Standardize("RESORT"))
}

func TestSameStandard(t *testing.T) {
	assert.True(t, domain.SameStandard("Hà Nội", "ha noi"))
	assert.True(t, domain.SameStandard("HOTEL", "hotel"))
	assert.False(t, domain.SameStandard("Ha Noi", "Da Nang"))
}

func TestMatchesLocation(t *testing.T) {
	h := domain.Hotel{
		Name:    "Sunrise Palace",
		City:    "Hà Nội",
		Address: "12 Tràng Tiền Street",
	}

	assert.True(t, domain.MatchesLocation(h, "ha noi"), "all tokens in city")
	assert.True(t, domain.MatchesLocation(h, "trang tien"), "all tokens in address")
	assert.True(t, domain.MatchesLocation(h, "sunrise"), "token in name")
	assert.True(t, domain.MatchesLocation(h, ""), "empty query matches everything")
	assert.False(t, domain.MatchesLocation(h, "ha saigon"), "tokens must all hit the same field")
}

func TestMeetsCapacity(t *testing.T) {
	h := domain.Hotel{Rooms: []domain.Room{
		{RoomNumbers: []int{101, 102}, MaxPeople: 2},
		{RoomNumbers: []int{}, MaxPeople: 4},
	}}

	assert.True(t, domain.MeetsCapacity(h, 1, 2))
	assert.True(t, domain.MeetsCapacity(h, 2, 4))
	assert.False(t, domain.MeetsCapacity(h, 3, 1), "not enough free units")
	assert.False(t, domain.MeetsCapacity(h, 1, 5), "not enough aggregate occupancy")

	empty := domain.Hotel{Rooms: []domain.Room{{RoomNumbers: nil, MaxPeople: 2}}}
	assert.False(t, domain.MeetsCapacity(empty, 1, 1), "zero free rooms never satisfies rooms>=1")
}

func TestWithinPrice(t *testing.T) {
	h := domain.Hotel{Rooms: []domain.Room{{Price: 100}, {Price: 200}}}

	assert.True(t, domain.WithinPrice(h, 50, 250))
	assert.False(t, domain.WithinPrice(h, 150, 250), "cheapest room below min")
	assert.False(t, domain.WithinPrice(h, 50, 150), "priciest room above max")

	// no room types: sentinels keep it out of any positive filter
	bare := domain.Hotel{}
	assert.False(t, domain.WithinPrice(bare, 1, 999999))
}

func TestFilterHotels(t *testing.T) {
	hotels := []domain.Hotel{
		{
			ID: 1, Name: "Central", City: "Ha Noi", Address: "1 Main St",
			Rooms: []domain.Room{{Price: 100, MaxPeople: 2, RoomNumbers: []int{101, 102}}},
		},
		{
			ID: 2, Name: "Far Away", City: "Da Nang", Address: "9 Beach Rd",
			Rooms: []domain.Room{{Price: 100, MaxPeople: 2, RoomNumbers: []int{11}}},
		},
	}
	c := domain.SearchCriteria{Address: "ha noi", Adults: 2, Rooms: 1, MinPrice: 50, MaxPrice: 150}

	got := domain.FilterHotels(hotels, c)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}
