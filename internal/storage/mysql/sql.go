package mysql

const insertHotelSQL = `
INSERT INTO hotels
  (name, type, city, address, distance, photos, description, rating, title, featured)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  name        = ?,
  type        = ?,
  city        = ?,
  address     = ?,
  distance    = ?,
  photos      = ?,
  description = ?,
  rating      = ?,
  title       = ?,
  featured    = ?,
  updated_at  = CURRENT_TIMESTAMP
WHERE id = ?
`

const selectHotelSQL = `
SELECT id, name, type, city, address, distance, photos, description, rating, title, featured
FROM hotels
WHERE id = ?
`

const listHotelsSQL = `
SELECT id, name, type, city, address, distance, photos, description, rating, title, featured
FROM hotels
ORDER BY id
LIMIT ?
`

const topRatedHotelsSQL = `
SELECT id, name, type, city, address, distance, photos, description, rating, title, featured
FROM hotels
ORDER BY rating DESC, id
LIMIT ?
`

const selectRoomSQL = `
SELECT id, hotel_id, title, description, price, max_people, room_numbers
FROM rooms
WHERE id = ?
`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, title, description, price, max_people, room_numbers)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateRoomSQL = `
UPDATE rooms SET
  title        = ?,
  description  = ?,
  price        = ?,
  max_people   = ?,
  room_numbers = ?,
  updated_at   = CURRENT_TIMESTAMP
WHERE id = ?
`

const listRoomsSQL = `
SELECT id, hotel_id, title, description, price, max_people, room_numbers
FROM rooms
ORDER BY id
LIMIT ?
`

const listNonAttachedRoomsSQL = `
SELECT id, hotel_id, title, description, price, max_people, room_numbers
FROM rooms
WHERE hotel_id IS NULL
ORDER BY id
`

// roomsByHotelPrefix is completed with an IN (...) placeholder list.
const roomsByHotelPrefix = `
SELECT id, hotel_id, title, description, price, max_people, room_numbers
FROM rooms
WHERE hotel_id IN `

const insertBookingSQL = `
INSERT INTO bookings
  (id, hotel_id, user_id, room_numbers, start_date, end_date, price, payment, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectBookingCols = `
SELECT id, hotel_id, user_id, room_numbers, start_date, end_date, price, payment, status
FROM bookings
`

// lockHotelSQL serializes writers touching one hotel: reservations and the
// delete guards all take this row lock first.
const lockHotelSQL = `SELECT id FROM hotels WHERE id = ? FOR UPDATE`

const overlappingByHotelSQL = selectBookingCols + `
WHERE hotel_id = ? AND start_date <= ? AND end_date >= ?
`

const overlappingAllSQL = selectBookingCols + `
WHERE start_date <= ? AND end_date >= ?
`

const bookingsByUserSQL = selectBookingCols + `
WHERE user_id = ?
ORDER BY start_date DESC, end_date DESC
`

const latestBookingsSQL = selectBookingCols + `
ORDER BY start_date DESC, end_date DESC
LIMIT ?
`

const allBookingsSQL = selectBookingCols + `ORDER BY id`

const bookingsByHotelSQL = selectBookingCols + `WHERE hotel_id = ? FOR UPDATE`

const updateBookingStatusSQL = `UPDATE bookings SET status = ? WHERE id = ?`

const countBookingsSQL = `SELECT COUNT(*) FROM bookings`

const earningsSQL = `
SELECT COALESCE(SUM(price), 0), MIN(start_date), MAX(start_date)
FROM bookings
`

const deleteBookingsByHotelSQL = `DELETE FROM bookings WHERE hotel_id = ?`
const detachRoomsByHotelSQL = `UPDATE rooms SET hotel_id = NULL WHERE hotel_id = ?`
const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`
const deleteRoomSQL = `DELETE FROM rooms WHERE id = ?`
const attachRoomSQL = `UPDATE rooms SET hotel_id = ? WHERE id = ?`
const detachRoomSQL = `UPDATE rooms SET hotel_id = NULL WHERE id = ?`
