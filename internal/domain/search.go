package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after NFD decomposition, so that
// "Hà Nội" and "Ha Noi" standardize to the same form.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// đ carries no combining mark, NFD leaves it alone.
var foldD = strings.NewReplacer("đ", "d", "Đ", "D")

// Standardize folds a text field to its standardized form: diacritics
// stripped, lower-cased, outer whitespace trimmed.
func Standardize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(foldD.Replace(out)))
}

// SameStandard compares two strings in standardized form.
func SameStandard(a, b string) bool { return Standardize(a) == Standardize(b) }

// SearchCriteria narrows a hotel catalog whose room inventories have
// already been reduced to availability for the caller's date range.
type SearchCriteria struct {
	Address  string
	Adults   int
	Children int
	Rooms    int
	MinPrice float64
	MaxPrice float64
}

// MatchesLocation applies the location filter: every query token must be a
// substring of the hotel's standardized address, or every token of its
// city, or every token of its name.
func MatchesLocation(h Hotel, query string) bool {
	tokens := strings.Fields(Standardize(query))
	if len(tokens) == 0 {
		return true
	}
	for _, field := range []string{h.Address, h.City, h.Name} {
		std := Standardize(field)
		all := true
		for _, tok := range tokens {
			if !strings.Contains(std, tok) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// MeetsCapacity checks that the hotel has enough free units and enough
// aggregate occupancy for the requested party. Both conditions must hold.
func MeetsCapacity(h Hotel, rooms, people int) bool {
	return FreeRoomCount(h) >= rooms && FreeCapacity(h) >= people
}

// WithinPrice checks the hotel's room-type price spread against the
// requested bounds. The sentinels (-1 max, 1 min) make a hotel with no
// room types fail any positive price filter instead of passing it.
func WithinPrice(h Hotel, min, max float64) bool {
	hotelMax := -1.0
	hotelMin := 1.0
	for i, r := range h.Rooms {
		if i == 0 {
			hotelMax, hotelMin = r.Price, r.Price
			continue
		}
		if r.Price > hotelMax {
			hotelMax = r.Price
		}
		if r.Price < hotelMin {
			hotelMin = r.Price
		}
	}
	return hotelMax <= max && hotelMin >= min
}

// FilterHotels runs the search pipeline over a catalog whose rooms already
// hold availability only. Location first since it prunes cheapest; the
// result set does not depend on filter order.
func FilterHotels(hotels []Hotel, c SearchCriteria) []Hotel {
	out := make([]Hotel, 0, len(hotels))
	for _, h := range hotels {
		if !MatchesLocation(h, c.Address) {
			continue
		}
		if !MeetsCapacity(h, c.Rooms, c.Adults+c.Children) {
			continue
		}
		if !WithinPrice(h, c.MinPrice, c.MaxPrice) {
			continue
		}
		out = append(out, h)
	}
	return out
}
