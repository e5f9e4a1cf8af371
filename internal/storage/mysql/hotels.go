package mysql

import (
	"context"
	"database/sql"
	"strings"

	"staybook/internal/domain"
)

// Hotel reads flatten the city/country chain in one join so the mapper
// never has to chase relations.
const getHotelSQL = `
SELECT h.id, h.title, h.city_id, h.address, h.postal_code, h.check_in, h.check_out,
       c.name, co.name
FROM hotels h
JOIN cities c ON c.id = h.city_id
JOIN countries co ON co.id = c.country_id
WHERE h.id = ?
`

const listHotelsSQL = `
SELECT h.id, h.title, h.city_id, h.address, h.postal_code, h.check_in, h.check_out,
       c.name, co.name
FROM hotels h
JOIN cities c ON c.id = h.city_id
JOIN countries co ON co.id = c.country_id
WHERE `

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.HotelRow, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hotels (title, city_id, address, postal_code, check_in, check_out)
VALUES (?, ?, ?, ?, ?, ?)`,
		h.Title, h.CityID, h.Address, h.PostalCode, h.CheckIn, h.CheckOut)
	if err != nil {
		return domain.HotelRow{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.HotelRow{}, translate(err)
	}
	return r.GetHotel(ctx, id)
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelRow, error) {
	return scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
}

func scanHotel(row *sql.Row) (domain.HotelRow, error) {
	var h domain.HotelRow
	err := row.Scan(&h.ID, &h.Title, &h.CityID, &h.Address, &h.PostalCode,
		&h.CheckIn, &h.CheckOut, &h.CityName, &h.CountryName)
	if err != nil {
		return domain.HotelRow{}, translate(err)
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, f domain.HotelFilter, pg domain.PageQuery) ([]domain.HotelRow, int, error) {
	where := "1=1"
	args := []any{}
	if f.Title != nil {
		where += " AND LOWER(h.title) LIKE ?"
		args = append(args, "%"+strings.ToLower(*f.Title)+"%")
	}
	if f.CityID != nil {
		where += " AND h.city_id = ?"
		args = append(args, *f.CityID)
	}

	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM hotels h WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	q := listHotelsSQL + where + " ORDER BY h.id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.PerPage, pg.Offset())...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.HotelRow
	for rows.Next() {
		var h domain.HotelRow
		if err := rows.Scan(&h.ID, &h.Title, &h.CityID, &h.Address, &h.PostalCode,
			&h.CheckIn, &h.CheckOut, &h.CityName, &h.CountryName); err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *Repo) UpdateHotel(ctx context.Context, id int64, p domain.HotelPatch) (domain.HotelRow, error) {
	if _, err := r.GetHotel(ctx, id); err != nil {
		return domain.HotelRow{}, err
	}

	var sets []string
	var args []any
	if p.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *p.Title)
	}
	if p.CityID != nil {
		sets = append(sets, "city_id = ?")
		args = append(args, *p.CityID)
	}
	if p.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *p.Address)
	}
	if p.PostalCode != nil {
		sets = append(sets, "postal_code = ?")
		args = append(args, *p.PostalCode)
	}
	if p.CheckIn != nil {
		sets = append(sets, "check_in = ?")
		args = append(args, *p.CheckIn)
	}
	if p.CheckOut != nil {
		sets = append(sets, "check_out = ?")
		args = append(args, *p.CheckOut)
	}
	if err := r.updateRow(ctx, "hotels", id, sets, args); err != nil {
		return domain.HotelRow{}, err
	}
	return r.GetHotel(ctx, id)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "hotels", id)
}

// ---- hotel images ----

func (r *Repo) AttachImage(ctx context.Context, hotelID int64, path string) (domain.Image, error) {
	var img domain.Image
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO images (path) VALUES (?)`, path)
		if err != nil {
			return translate(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return translate(err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hotels_images (hotel_id, image_id) VALUES (?, ?)`, hotelID, id); err != nil {
			return translate(err)
		}
		img = domain.Image{ID: id, Path: path}
		return nil
	})
	if err != nil {
		return domain.Image{}, err
	}
	return img, nil
}

func (r *Repo) ListImages(ctx context.Context, hotelID int64) ([]domain.Image, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT i.id, i.path
FROM images i
JOIN hotels_images hi ON hi.image_id = i.id
WHERE hi.hotel_id = ?
ORDER BY i.id`, hotelID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []domain.Image
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.Path); err != nil {
			return nil, translate(err)
		}
		out = append(out, img)
	}
	return out, translate(rows.Err())
}

// DeleteImage removes the image row (the join row goes with it) and
// returns the stored path so the caller can unlink files.
func (r *Repo) DeleteImage(ctx context.Context, imageID int64) (string, error) {
	var path string
	err := r.db.QueryRowContext(ctx, `SELECT path FROM images WHERE id = ?`, imageID).Scan(&path)
	if err != nil {
		return "", translate(err)
	}
	if err := r.deleteRow(ctx, "images", imageID); err != nil {
		return "", err
	}
	return path, nil
}
