package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayhub/internal/app"
	"stayhub/internal/domain"
	"stayhub/internal/shared"
)

type Handlers struct {
	Search   *app.SearchService
	Bookings *app.BookingService
	Admin    *app.AdminService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/hotels", func(m chi.Router) {
		m.Get("/", h.listHotels)
		m.Post("/", h.createHotel)
		m.Get("/search", h.searchHotels)
		m.Get("/top-rated", h.topRated)
		m.Get("/stats/cities", h.countByCity)
		m.Get("/stats/types", h.countByType)
		m.Get("/{id}", h.getHotel)
		m.Put("/{id}", h.updateHotel)
		m.Delete("/{id}", h.deleteHotel)
		m.Get("/{id}/free-rooms", h.freeRooms)
		m.Post("/{id}/rooms", h.createRoom)
	})

	s.mux.Route("/v1/rooms", func(m chi.Router) {
		m.Get("/", h.listRooms)
		m.Post("/", h.createRoom)
		m.Get("/non-attached", h.listNonAttached)
		m.Get("/{id}", h.getRoom)
		m.Put("/{id}", h.updateRoom)
		m.Delete("/{id}", h.deleteRoom)
	})

	s.mux.Route("/v1/bookings", func(m chi.Router) {
		m.Post("/", h.reserve)
		m.Get("/latest", h.latestBookings)
		m.Get("/count", h.countBookings)
		m.Get("/earnings", h.earnings)
	})

	s.mux.Get("/v1/users/{userId}/bookings", h.bookingsByUser)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var ce *domain.ConflictError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.As(err, &ce):
		writeProblem(w, http.StatusConflict, "Conflict", ce.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", name+" must be a positive number")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func queryFloat(r *http.Request, key string) float64 {
	f, _ := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	return f
}

func queryDate(r *http.Request, key string) time.Time {
	t, _ := time.Parse("2006-01-02", r.URL.Query().Get(key))
	return t
}

// ---- hotels ----

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var in app.HotelInput
	if !decode(w, r, &in) {
		return
	}
	id, err := h.Admin.CreateHotel(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handlers) updateHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in app.HotelInput
	if !decode(w, r, &in) {
		return
	}
	if err := h.Admin.UpdateHotel(r.Context(), id, in); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteHotel(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	hotel, err := h.Search.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	hotels, err := h.Admin.ListHotels(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	page := queryInt(r, "page", 1)
	size := queryInt(r, "page_size", 20)
	writeJSON(w, http.StatusOK, shared.Paginate(hotels, page, size))
}

func (h *Handlers) topRated(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.Admin.TopRated(r.Context(), queryInt(r, "limit", 3))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (h *Handlers) countByCity(w http.ResponseWriter, r *http.Request) {
	items, err := h.Admin.CountByCity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) countByType(w http.ResponseWriter, r *http.Request) {
	items, err := h.Admin.CountByType(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := app.SearchQuery{
		Address:   r.URL.Query().Get("address"),
		StartDate: queryDate(r, "start"),
		EndDate:   queryDate(r, "end"),
		Adults:    queryInt(r, "adults", 1),
		Children:  queryInt(r, "children", 0),
		Rooms:     queryInt(r, "rooms", 1),
		MinPrice:  queryFloat(r, "min_price"),
		MaxPrice:  queryFloat(r, "max_price"),
	}
	hotels, err := h.Search.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	page := queryInt(r, "page", 1)
	size := queryInt(r, "page_size", 20)
	writeJSON(w, http.StatusOK, shared.Paginate(hotels, page, size))
}

func (h *Handlers) freeRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	dr := domain.DateRange{Start: queryDate(r, "start"), End: queryDate(r, "end")}
	hotel, err := h.Search.FreeRooms(r.Context(), id, dr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

// ---- rooms ----

// createRoom serves both the attached form (POST /v1/hotels/{id}/rooms)
// and the detached form (POST /v1/rooms).
func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	var hotelID int64
	if chi.URLParam(r, "id") != "" {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		hotelID = id
	}
	var in app.RoomInput
	if !decode(w, r, &in) {
		return
	}
	id, err := h.Admin.CreateRoom(r.Context(), in, hotelID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in app.RoomInput
	if !decode(w, r, &in) {
		return
	}
	prev, err := h.Admin.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	var prevHotelID int64
	if prev.HotelID != nil {
		prevHotelID = *prev.HotelID
	}
	hotelID := prevHotelID
	if s := r.URL.Query().Get("hotel_id"); s != "" {
		hotelID, err = strconv.ParseInt(s, 10, 64)
		if err != nil || hotelID < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid ID", "hotel_id must be a non-negative number")
			return
		}
	}
	if err := h.Admin.UpdateRoom(r.Context(), id, in, hotelID, prevHotelID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteRoom(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	room, err := h.Admin.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Admin.ListRooms(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	page := queryInt(r, "page", 1)
	size := queryInt(r, "page_size", 20)
	writeJSON(w, http.StatusOK, shared.Paginate(rooms, page, size))
}

func (h *Handlers) listNonAttached(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Admin.ListNonAttached(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// ---- bookings ----

func (h *Handlers) reserve(w http.ResponseWriter, r *http.Request) {
	var in app.ReservationInput
	if !decode(w, r, &in) {
		return
	}
	b, err := h.Bookings.Reserve(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) bookingsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "userId is required")
		return
	}
	bs, err := h.Bookings.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) latestBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.Latest(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	page := queryInt(r, "page", 1)
	size := queryInt(r, "page_size", 20)
	writeJSON(w, http.StatusOK, shared.Paginate(bs, page, size))
}

func (h *Handlers) countBookings(w http.ResponseWriter, r *http.Request) {
	n, err := h.Bookings.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handlers) earnings(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Bookings.Earnings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_earnings": rep.TotalEarnings,
		"span_days":      int(rep.Span.Hours() / 24),
	})
}
