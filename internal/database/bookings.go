package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prokatnik/internal/models"
)

// Все времена храним в UTC, чтобы сравнения в SQL были корректными.
const bookingSelect = `
    SELECT b.id, b.start_time, b.end_time, b.item_id, b.booker_id, b.status,
           i.name, i.owner_id, u.name
    FROM bookings b
    JOIN items i ON i.id = b.item_id
    JOIN users u ON u.id = b.booker_id`

// CreateBooking сохраняет новое бронирование и заполняет его id.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	result, err := db.db.ExecContext(ctx,
		`INSERT INTO bookings (start_time, end_time, item_id, booker_id, status)
         VALUES (?, ?, ?, ?, ?)`,
		booking.Start.UTC(), booking.End.UTC(), booking.ItemID, booking.BookerID, booking.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id)

	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// UpdateBookingStatus меняет только статус; остальные поля не трогаем.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingState) error {
	result, err := db.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Запросы реестра по арендатору.

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.booker_id = ? ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		bookerID, limit, offset)
}

// ListCurrentBookingsByBooker: start < now < end.
func (db *DB) ListCurrentBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.booker_id = ? AND b.start_time < ? AND b.end_time > ?
         ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		bookerID, now.UTC(), now.UTC(), limit, offset)
}

// ListPastBookingsByBooker: завершенными считаются только подтвержденные.
func (db *DB) ListPastBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.booker_id = ? AND b.end_time < ? AND b.status = ?
         ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		bookerID, now.UTC(), models.StateApproved, limit, offset)
}

func (db *DB) ListFutureBookingsByBooker(ctx context.Context, bookerID int64, now time.Time, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.booker_id = ? AND b.start_time > ?
         ORDER BY b.start_time DESC LIMIT ? OFFSET ?`,
		bookerID, now.UTC(), limit, offset)
}

func (db *DB) ListBookingsByBookerAndStatus(ctx context.Context, bookerID int64, status models.BookingState, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.booker_id = ? AND b.status = ?
         ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		bookerID, status, limit, offset)
}

// Зеркальные запросы по владельцу вещей.

func (db *DB) ListBookingsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE i.owner_id = ? ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
}

func (db *DB) ListCurrentBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE i.owner_id = ? AND b.start_time < ? AND b.end_time > ?
         ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		ownerID, now.UTC(), now.UTC(), limit, offset)
}

func (db *DB) ListPastBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE i.owner_id = ? AND b.end_time < ? AND b.status = ?
         ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		ownerID, now.UTC(), models.StateApproved, limit, offset)
}

func (db *DB) ListFutureBookingsByOwner(ctx context.Context, ownerID int64, now time.Time, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE i.owner_id = ? AND b.start_time > ?
         ORDER BY b.start_time DESC LIMIT ? OFFSET ?`,
		ownerID, now.UTC(), limit, offset)
}

func (db *DB) ListBookingsByOwnerAndStatus(ctx context.Context, ownerID int64, status models.BookingState, limit, offset int) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE i.owner_id = ? AND b.status = ?
         ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		ownerID, status, limit, offset)
}

// ListAllBookingsByOwner возвращает весь реестр владельца без пагинации.
// Используется для пакетного вычисления next/last по инвентарю.
func (db *DB) ListAllBookingsByOwner(ctx context.Context, ownerID int64) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE i.owner_id = ? ORDER BY b.id`, ownerID)
}

// ListBookingsByItem возвращает все бронирования одной вещи без пагинации.
func (db *DB) ListBookingsByItem(ctx context.Context, itemID int64) ([]models.Booking, error) {
	return db.queryBookings(ctx,
		bookingSelect+` WHERE b.item_id = ? ORDER BY b.id`, itemID)
}

// FirstBookingByItemAndBooker возвращает любое одно бронирование пары
// (вещь, арендатор). Порядок не важен: вызывающая сторона проверяет только
// существование и статус.
func (db *DB) FirstBookingByItemAndBooker(ctx context.Context, itemID, bookerID int64) (*models.Booking, error) {
	row := db.db.QueryRowContext(ctx,
		bookingSelect+` WHERE b.item_id = ? AND b.booker_id = ? ORDER BY b.id LIMIT 1`,
		itemID, bookerID)

	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first booking: %w", err)
	}
	return booking, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.Start,
		&booking.End,
		&booking.ItemID,
		&booking.BookerID,
		&booking.Status,
		&booking.ItemName,
		&booking.ItemOwnerID,
		&booking.BookerName,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
