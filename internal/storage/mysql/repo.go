package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"stayhub/internal/domain"
)

const dateFmt = "2006-01-02"

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func pErr(op string, err error) error {
	return &domain.PersistenceError{Op: op, Err: err}
}

func marshalJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// ---------- hotels ----------

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, string(h.Type), h.City, h.Address, h.Distance,
		marshalJSON(h.Photos), h.Desc, h.Rating, h.Title, h.Featured,
	)
	if err != nil {
		return 0, pErr("create hotel", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, pErr("create hotel", err)
	}
	return id, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, string(h.Type), h.City, h.Address, h.Distance,
		marshalJSON(h.Photos), h.Desc, h.Rating, h.Title, h.Featured,
		h.ID,
	)
	if err != nil {
		return pErr("update hotel", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// no-op update and missing row both report zero; disambiguate
		var one int
		switch err := r.db.QueryRowContext(ctx, `SELECT 1 FROM hotels WHERE id = ?`, h.ID).Scan(&one); {
		case err == sql.ErrNoRows:
			return domain.ErrNotFound
		case err != nil:
			return pErr("update hotel", err)
		}
	}
	return nil
}

func scanHotel(row interface{ Scan(...any) error }) (domain.Hotel, error) {
	var h domain.Hotel
	var htype string
	var photosJSON []byte
	var desc, title sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &htype, &h.City, &h.Address, &h.Distance,
		&photosJSON, &desc, &h.Rating, &title, &h.Featured); err != nil {
		return domain.Hotel{}, err
	}
	h.Type = domain.HotelType(htype)
	_ = json.Unmarshal(photosJSON, &h.Photos)
	h.Desc = desc.String
	h.Title = title.String
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, selectHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Hotel{}, pErr("get hotel", err)
	}
	rooms, err := r.roomsByHotel(ctx, []int64{id})
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Rooms = rooms[id]
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	return r.listHotels(ctx, listHotelsSQL, limit)
}

func (r *Repo) TopRated(ctx context.Context, top int) ([]domain.Hotel, error) {
	return r.listHotels(ctx, topRatedHotelsSQL, top)
}

func (r *Repo) listHotels(ctx context.Context, query string, limit int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, pErr("list hotels", err)
	}
	defer rows.Close()

	var out []domain.Hotel
	var ids []int64
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, pErr("list hotels", err)
		}
		out = append(out, h)
		ids = append(ids, h.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, pErr("list hotels", err)
	}
	if len(ids) == 0 {
		return out, nil
	}
	byHotel, err := r.roomsByHotel(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Rooms = byHotel[out[i].ID]
	}
	return out, nil
}

// roomsByHotel loads the room types of several hotels in one query.
func (r *Repo) roomsByHotel(ctx context.Context, hotelIDs []int64) (map[int64][]domain.Room, error) {
	placeholders := make([]string, len(hotelIDs))
	args := make([]any, len(hotelIDs))
	for i, id := range hotelIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	q := roomsByHotelPrefix + "(" + strings.Join(placeholders, ",") + ") ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, pErr("rooms by hotel", err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.Room, len(hotelIDs))
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, pErr("rooms by hotel", err)
		}
		out[*rm.HotelID] = append(out[*rm.HotelID], rm)
	}
	return out, rows.Err()
}

// ---------- rooms ----------

func scanRoom(row interface{ Scan(...any) error }) (domain.Room, error) {
	var rm domain.Room
	var hotelID sql.NullInt64
	var numbersJSON []byte
	var desc sql.NullString
	if err := row.Scan(&rm.ID, &hotelID, &rm.Title, &desc, &rm.Price, &rm.MaxPeople, &numbersJSON); err != nil {
		return domain.Room{}, err
	}
	if hotelID.Valid {
		id := hotelID.Int64
		rm.HotelID = &id
	}
	rm.Desc = desc.String
	_ = json.Unmarshal(numbersJSON, &rm.RoomNumbers)
	return rm, nil
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (int64, error) {
	var hotelID any
	if rm.HotelID != nil {
		hotelID = *rm.HotelID
	}
	res, err := r.db.ExecContext(ctx, insertRoomSQL,
		hotelID, rm.Title, rm.Desc, rm.Price, rm.MaxPeople, marshalJSON(rm.RoomNumbers),
	)
	if err != nil {
		return 0, pErr("create room", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, pErr("create room", err)
	}
	return id, nil
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	res, err := r.db.ExecContext(ctx, updateRoomSQL,
		rm.Title, rm.Desc, rm.Price, rm.MaxPeople, marshalJSON(rm.RoomNumbers), rm.ID,
	)
	if err != nil {
		return pErr("update room", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		switch err := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE id = ?`, rm.ID).Scan(&one); {
		case err == sql.ErrNoRows:
			return domain.ErrNotFound
		case err != nil:
			return pErr("update room", err)
		}
	}
	return nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, selectRoomSQL, id))
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Room{}, pErr("get room", err)
	}
	return rm, nil
}

func (r *Repo) ListRooms(ctx context.Context, limit int) ([]domain.Room, error) {
	return r.listRooms(ctx, listRoomsSQL, limit)
}

func (r *Repo) ListNonAttached(ctx context.Context) ([]domain.Room, error) {
	return r.listRooms(ctx, listNonAttachedRoomsSQL)
}

func (r *Repo) listRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pErr("list rooms", err)
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, pErr("list rooms", err)
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) AttachRoom(ctx context.Context, roomID, hotelID int64) error {
	res, err := r.db.ExecContext(ctx, attachRoomSQL, hotelID, roomID)
	if err != nil {
		return pErr("attach room", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DetachRoom(ctx context.Context, roomID int64) error {
	if _, err := r.db.ExecContext(ctx, detachRoomSQL, roomID); err != nil {
		return pErr("detach room", err)
	}
	return nil
}

// ---------- bookings ----------

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	var numbersJSON []byte
	var status string
	if err := row.Scan(&b.ID, &b.HotelID, &b.UserID, &numbersJSON,
		&b.StartDate, &b.EndDate, &b.Price, &b.Payment, &status); err != nil {
		return domain.Booking{}, err
	}
	_ = json.Unmarshal(numbersJSON, &b.RoomNumbers)
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReserveIfFree is the atomic check-and-insert. The hotel row lock
// serializes all reservation writes for one hotel, so the overlap scan,
// the busy-set check and the insert observe and produce a consistent
// state; two concurrent calls for a shared number cannot both commit.
func (r *Repo) ReserveIfFree(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, pErr("reserve", err)
	}
	defer func() { _ = tx.Rollback() }()

	var hotelID int64
	if err := tx.QueryRowContext(ctx, lockHotelSQL, b.HotelID).Scan(&hotelID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, pErr("reserve", err)
	}

	rows, err := tx.QueryContext(ctx, overlappingByHotelSQL,
		b.HotelID, b.EndDate.Format(dateFmt), b.StartDate.Format(dateFmt))
	if err != nil {
		return domain.Booking{}, pErr("reserve", err)
	}
	overlapping, err := scanBookings(rows)
	if err != nil {
		return domain.Booking{}, pErr("reserve", err)
	}

	busy := domain.BusySets(overlapping, b.Range())[b.HotelID]
	var clash []int
	for _, n := range b.RoomNumbers {
		if busy.Contains(n) {
			clash = append(clash, n)
		}
	}
	if len(clash) > 0 {
		return domain.Booking{}, &domain.ConflictError{
			HotelID: b.HotelID, RoomNumbers: clash,
			Reason: "rooms already reserved for these dates",
		}
	}

	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ID, b.HotelID, b.UserID, marshalJSON(b.RoomNumbers),
		b.StartDate.Format(dateFmt), b.EndDate.Format(dateFmt),
		b.Price, b.Payment, string(b.Status),
	); err != nil {
		return domain.Booking{}, pErr("reserve", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, pErr("reserve", err)
	}
	return b, nil
}

func (r *Repo) FindOverlapping(ctx context.Context, hotelID int64, dr domain.DateRange) ([]domain.Booking, error) {
	var rows *sql.Rows
	var err error
	if hotelID != 0 {
		rows, err = r.db.QueryContext(ctx, overlappingByHotelSQL, hotelID, dr.End.Format(dateFmt), dr.Start.Format(dateFmt))
	} else {
		rows, err = r.db.QueryContext(ctx, overlappingAllSQL, dr.End.Format(dateFmt), dr.Start.Format(dateFmt))
	}
	if err != nil {
		return nil, pErr("find overlapping", err)
	}
	out, err := scanBookings(rows)
	if err != nil {
		return nil, pErr("find overlapping", err)
	}
	return out, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, bookingsByUserSQL, userID)
	if err != nil {
		return nil, pErr("bookings by user", err)
	}
	out, err := scanBookings(rows)
	if err != nil {
		return nil, pErr("bookings by user", err)
	}
	return out, nil
}

func (r *Repo) ListLatest(ctx context.Context, limit int) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, latestBookingsSQL, limit)
	if err != nil {
		return nil, pErr("latest bookings", err)
	}
	out, err := scanBookings(rows)
	if err != nil {
		return nil, pErr("latest bookings", err)
	}
	return out, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, allBookingsSQL)
	if err != nil {
		return nil, pErr("all bookings", err)
	}
	out, err := scanBookings(rows)
	if err != nil {
		return nil, pErr("all bookings", err)
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	if _, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(s), id); err != nil {
		return pErr("update status", err)
	}
	return nil
}

func (r *Repo) CountBookings(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, countBookingsSQL).Scan(&n); err != nil {
		return 0, pErr("count bookings", err)
	}
	return n, nil
}

func (r *Repo) Earnings(ctx context.Context) (domain.EarningsReport, error) {
	var rep domain.EarningsReport
	var first, last sql.NullTime
	if err := r.db.QueryRowContext(ctx, earningsSQL).Scan(&rep.TotalEarnings, &first, &last); err != nil {
		return domain.EarningsReport{}, pErr("earnings", err)
	}
	if first.Valid && last.Valid {
		rep.Span = last.Time.Sub(first.Time)
	}
	return rep, nil
}

// ---------- guarded deletes ----------

// DeleteHotelIfUnreferenced re-derives the hotel's booking statuses
// against now, fails while any stays are active, and otherwise cascades:
// bookings removed, rooms detached, hotel deleted. The whole guard+delete
// runs in one transaction under the hotel row lock, so no reservation can
// slip in between the check and the commit.
func (r *Repo) DeleteHotelIfUnreferenced(ctx context.Context, id int64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pErr("delete hotel", err)
	}
	defer func() { _ = tx.Rollback() }()

	var hotelID int64
	if err := tx.QueryRowContext(ctx, lockHotelSQL, id).Scan(&hotelID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return pErr("delete hotel", err)
	}

	active, err := refreshAndCollectActive(ctx, tx, id, now)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return &domain.ConflictError{HotelID: id, RoomNumbers: active, Reason: "hotel has active bookings"}
	}

	for _, q := range []string{deleteBookingsByHotelSQL, detachRoomsByHotelSQL, deleteHotelSQL} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return pErr("delete hotel", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return pErr("delete hotel", err)
	}
	return nil
}

// DeleteRoomIfUnreferenced blocks while an active booking of the owning
// hotel holds any of the room type's numbers. Unattached rooms delete
// without a guard: nothing can reference them.
func (r *Repo) DeleteRoomIfUnreferenced(ctx context.Context, id int64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return pErr("delete room", err)
	}
	defer func() { _ = tx.Rollback() }()

	rm, err := scanRoom(tx.QueryRowContext(ctx, selectRoomSQL+" FOR UPDATE", id))
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return pErr("delete room", err)
	}

	if rm.HotelID != nil {
		var hotelID int64
		if err := tx.QueryRowContext(ctx, lockHotelSQL, *rm.HotelID).Scan(&hotelID); err != nil && err != sql.ErrNoRows {
			return pErr("delete room", err)
		}
		active, err := refreshAndCollectActive(ctx, tx, *rm.HotelID, now)
		if err != nil {
			return err
		}
		owned := make(domain.BusySet)
		for _, n := range rm.RoomNumbers {
			owned[n] = struct{}{}
		}
		var clash []int
		for _, n := range active {
			if owned.Contains(n) {
				clash = append(clash, n)
			}
		}
		if len(clash) > 0 {
			return &domain.ConflictError{HotelID: *rm.HotelID, RoomNumbers: clash, Reason: "room has active bookings"}
		}
	}

	if _, err := tx.ExecContext(ctx, deleteRoomSQL, id); err != nil {
		return pErr("delete room", err)
	}
	if err := tx.Commit(); err != nil {
		return pErr("delete room", err)
	}
	return nil
}

// refreshAndCollectActive locks a hotel's bookings, rewrites stale derived
// statuses, and returns the room numbers still held by active stays.
func refreshAndCollectActive(ctx context.Context, tx *sql.Tx, hotelID int64, now time.Time) ([]int, error) {
	rows, err := tx.QueryContext(ctx, bookingsByHotelSQL, hotelID)
	if err != nil {
		return nil, pErr("guard scan", err)
	}
	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, pErr("guard scan", err)
	}

	var active []int
	for _, b := range bookings {
		status := domain.DeriveStatus(b, now)
		if status != b.Status {
			if _, err := tx.ExecContext(ctx, updateBookingStatusSQL, string(status), b.ID); err != nil {
				return nil, pErr("guard refresh", err)
			}
		}
		if status.Active() {
			active = append(active, b.RoomNumbers...)
		}
	}
	return active, nil
}
