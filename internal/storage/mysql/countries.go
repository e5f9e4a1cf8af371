package mysql

import (
	"context"
	"strings"

	"staybook/internal/domain"
)

func (r *Repo) CreateCountry(ctx context.Context, name, isoCode string) (domain.Country, error) {
	iso := strings.ToUpper(isoCode)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO countries (name, iso_code) VALUES (?, ?)`, name, iso)
	if err != nil {
		return domain.Country{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Country{}, translate(err)
	}
	return domain.Country{ID: id, Name: name, ISOCode: iso}, nil
}

func (r *Repo) GetCountry(ctx context.Context, id int64) (domain.Country, error) {
	var c domain.Country
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, iso_code FROM countries WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.ISOCode)
	if err != nil {
		return domain.Country{}, translate(err)
	}
	return c, nil
}

func (r *Repo) ListCountries(ctx context.Context, f domain.CountryFilter, pg domain.PageQuery) ([]domain.Country, int, error) {
	where := "1=1"
	args := []any{}
	if f.Name != nil {
		where += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(*f.Name)+"%")
	}

	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM countries WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	q := "SELECT id, name, iso_code FROM countries WHERE " + where + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.PerPage, pg.Offset())...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.Country
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.ISOCode); err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *Repo) UpdateCountry(ctx context.Context, id int64, p domain.CountryPatch) (domain.Country, error) {
	if _, err := r.GetCountry(ctx, id); err != nil {
		return domain.Country{}, err
	}

	var sets []string
	var args []any
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.ISOCode != nil {
		sets = append(sets, "iso_code = ?")
		args = append(args, strings.ToUpper(*p.ISOCode))
	}
	if err := r.updateRow(ctx, "countries", id, sets, args); err != nil {
		return domain.Country{}, err
	}
	return r.GetCountry(ctx, id)
}

func (r *Repo) DeleteCountry(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "countries", id)
}
