package mysql

import (
	"context"
	"database/sql"

	"staybook/internal/domain"
)

func (r *Repo) CreateRoom(ctx context.Context, room domain.Room, facilityIDs []int64) (domain.RoomRow, error) {
	var id int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (hotel_id, title, description, price, quantity)
VALUES (?, ?, ?, ?, ?)`,
			room.HotelID, room.Title, room.Description, room.Price, room.Quantity)
		if err != nil {
			return translate(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return translate(err)
		}
		for _, fid := range facilityIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO rooms_facilities (room_id, facility_id) VALUES (?, ?)`, id, fid); err != nil {
				return translate(err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.RoomRow{}, err
	}
	return r.GetRoom(ctx, id)
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.RoomRow, error) {
	var row domain.RoomRow
	err := r.db.QueryRowContext(ctx,
		`SELECT id, hotel_id, title, description, price, quantity FROM rooms WHERE id = ?`, id).
		Scan(&row.ID, &row.HotelID, &row.Title, &row.Description, &row.Price, &row.Quantity)
	if err != nil {
		return domain.RoomRow{}, translate(err)
	}
	fs, err := r.roomFacilities(ctx, id)
	if err != nil {
		return domain.RoomRow{}, err
	}
	row.Facilities = fs
	return row, nil
}

func (r *Repo) roomFacilities(ctx context.Context, roomID int64) ([]domain.Facility, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT f.id, f.title
FROM facilities f
JOIN rooms_facilities rf ON rf.facility_id = f.id
WHERE rf.room_id = ?
ORDER BY f.id`, roomID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Facility
	for rows.Next() {
		var f domain.Facility
		if err := rows.Scan(&f.ID, &f.Title); err != nil {
			return nil, translate(err)
		}
		out = append(out, f)
	}
	return out, translate(rows.Err())
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64, pg domain.PageQuery) ([]domain.RoomRow, int, error) {
	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM rooms WHERE hotel_id = ?", hotelID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, hotel_id, title, description, price, quantity
FROM rooms WHERE hotel_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		hotelID, pg.PerPage, pg.Offset())
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.RoomRow
	for rows.Next() {
		var row domain.RoomRow
		if err := rows.Scan(&row.ID, &row.HotelID, &row.Title, &row.Description, &row.Price, &row.Quantity); err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}

	for i := range out {
		fs, err := r.roomFacilities(ctx, out[i].ID)
		if err != nil {
			return nil, 0, err
		}
		out[i].Facilities = fs
	}
	return out, total, nil
}

func (r *Repo) UpdateRoom(ctx context.Context, id int64, p domain.RoomPatch) (domain.RoomRow, error) {
	if _, err := r.GetRoom(ctx, id); err != nil {
		return domain.RoomRow{}, err
	}

	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *p.Description)
	}
	if p.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *p.Price)
	}
	if p.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *p.Quantity)
	}
	if err := r.updateRow(ctx, "rooms", id, sets, args); err != nil {
		return domain.RoomRow{}, err
	}
	if p.FacilityIDs != nil {
		if err := r.SetFacilities(ctx, id, p.FacilityIDs); err != nil {
			return domain.RoomRow{}, err
		}
	}
	return r.GetRoom(ctx, id)
}

// SetFacilities reconciles the association set: compute the symmetric
// difference against the current rows and touch only the difference,
// not a full replace.
func (r *Repo) SetFacilities(ctx context.Context, roomID int64, target []int64) error {
	current, err := r.roomFacilities(ctx, roomID)
	if err != nil {
		return err
	}
	currentIDs := make([]int64, 0, len(current))
	for _, f := range current {
		currentIDs = append(currentIDs, f.ID)
	}

	add, remove := domain.DiffIDs(currentIDs, target)
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, fid := range add {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO rooms_facilities (room_id, facility_id) VALUES (?, ?)`, roomID, fid); err != nil {
				return translate(err)
			}
		}
		for _, fid := range remove {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM rooms_facilities WHERE room_id = ? AND facility_id = ?`, roomID, fid); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "rooms", id)
}
