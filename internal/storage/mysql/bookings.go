package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"staybook/internal/domain"
)

const bookingColumns = "id, room_id, user_id, date_from, date_to, price, created_at"

// CreateBooking runs inside a transaction: the room row is locked, the
// price is captured from the room at booking time, and the insert is
// refused when every unit of the room is already taken for an
// overlapping date range.
func (r *Repo) CreateBooking(ctx context.Context, roomID, userID int64, dateFrom, dateTo time.Time) (domain.Booking, error) {
	var id int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var price int64
		var quantity int
		err := tx.QueryRowContext(ctx,
			`SELECT price, quantity FROM rooms WHERE id = ? FOR UPDATE`, roomID).
			Scan(&price, &quantity)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: room %d", domain.ErrInvalidReference, roomID)
		}
		if err != nil {
			return translate(err)
		}

		var taken int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE room_id = ? AND date_from < ? AND date_to > ?`,
			roomID, dateTo, dateFrom).Scan(&taken)
		if err != nil {
			return translate(err)
		}
		if taken >= quantity {
			return fmt.Errorf("%w: room %d is fully booked for the requested dates", domain.ErrConflict, roomID)
		}

		nights := int64(dateTo.Sub(dateFrom).Hours() / 24)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (room_id, user_id, date_from, date_to, price)
VALUES (?, ?, ?, ?, ?)`,
			roomID, userID, dateFrom, dateTo, nights*price)
		if err != nil {
			return translate(err)
		}
		id, err = res.LastInsertId()
		return translate(err)
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return r.GetBooking(ctx, id)
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	var b domain.Booking
	err := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id).
		Scan(&b.ID, &b.RoomID, &b.UserID, &b.DateFrom, &b.DateTo, &b.Price, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, translate(err)
	}
	return b, nil
}

func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter, pg domain.PageQuery) ([]domain.Booking, int, error) {
	where := "1=1"
	args := []any{}
	if f.UserID != nil {
		where += " AND user_id = ?"
		args = append(args, *f.UserID)
	}

	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM bookings WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	q := "SELECT " + bookingColumns + " FROM bookings WHERE " + where + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.PerPage, pg.Offset())...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.RoomID, &b.UserID, &b.DateFrom, &b.DateTo, &b.Price, &b.CreatedAt); err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "bookings", id)
}
