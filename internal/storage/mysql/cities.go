package mysql

import (
	"context"
	"strings"

	"staybook/internal/domain"
)

const getCitySQL = `
SELECT c.id, c.name, c.country_id, co.name
FROM cities c
JOIN countries co ON co.id = c.country_id
WHERE c.id = ?
`

func (r *Repo) CreateCity(ctx context.Context, name string, countryID int64) (domain.CityRow, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cities (name, country_id) VALUES (?, ?)`, name, countryID)
	if err != nil {
		return domain.CityRow{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.CityRow{}, translate(err)
	}
	return r.GetCity(ctx, id)
}

func (r *Repo) GetCity(ctx context.Context, id int64) (domain.CityRow, error) {
	var c domain.CityRow
	err := r.db.QueryRowContext(ctx, getCitySQL, id).
		Scan(&c.ID, &c.Name, &c.CountryID, &c.CountryName)
	if err != nil {
		return domain.CityRow{}, translate(err)
	}
	return c, nil
}

func (r *Repo) ListCities(ctx context.Context, f domain.CityFilter, pg domain.PageQuery) ([]domain.CityRow, int, error) {
	where := "1=1"
	args := []any{}
	if f.Name != nil {
		where += " AND LOWER(c.name) LIKE ?"
		args = append(args, "%"+strings.ToLower(*f.Name)+"%")
	}
	if f.CountryID != nil {
		where += " AND c.country_id = ?"
		args = append(args, *f.CountryID)
	}

	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM cities c WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT c.id, c.name, c.country_id, co.name
FROM cities c
JOIN countries co ON co.id = c.country_id
WHERE ` + where + " ORDER BY c.id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.PerPage, pg.Offset())...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.CityRow
	for rows.Next() {
		var c domain.CityRow
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryID, &c.CountryName); err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *Repo) UpdateCity(ctx context.Context, id int64, p domain.CityPatch) (domain.CityRow, error) {
	if _, err := r.GetCity(ctx, id); err != nil {
		return domain.CityRow{}, err
	}

	var sets []string
	var args []any
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.CountryID != nil {
		sets = append(sets, "country_id = ?")
		args = append(args, *p.CountryID)
	}
	if err := r.updateRow(ctx, "cities", id, sets, args); err != nil {
		return domain.CityRow{}, err
	}
	return r.GetCity(ctx, id)
}

func (r *Repo) DeleteCity(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "cities", id)
}
