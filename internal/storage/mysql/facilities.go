package mysql

import (
	"context"
	"strings"

	"staybook/internal/domain"
)

func (r *Repo) CreateFacility(ctx context.Context, title string) (domain.Facility, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO facilities (title) VALUES (?)`, title)
	if err != nil {
		return domain.Facility{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Facility{}, translate(err)
	}
	return domain.Facility{ID: id, Title: title}, nil
}

func (r *Repo) GetFacility(ctx context.Context, id int64) (domain.Facility, error) {
	var f domain.Facility
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title FROM facilities WHERE id = ?`, id).Scan(&f.ID, &f.Title)
	if err != nil {
		return domain.Facility{}, translate(err)
	}
	return f, nil
}

func (r *Repo) ListFacilities(ctx context.Context, f domain.FacilityFilter, pg domain.PageQuery) ([]domain.Facility, int, error) {
	where := "1=1"
	args := []any{}
	if f.Title != nil {
		where += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(*f.Title)+"%")
	}

	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM facilities WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	q := "SELECT id, title FROM facilities WHERE " + where + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.PerPage, pg.Offset())...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.Facility
	for rows.Next() {
		var fc domain.Facility
		if err := rows.Scan(&fc.ID, &fc.Title); err != nil {
			return nil, 0, translate(err)
		}
		out = append(out, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *Repo) UpdateFacility(ctx context.Context, id int64, title string) (domain.Facility, error) {
	if _, err := r.GetFacility(ctx, id); err != nil {
		return domain.Facility{}, err
	}
	if err := r.updateRow(ctx, "facilities", id, []string{"title = ?"}, []any{title}); err != nil {
		return domain.Facility{}, err
	}
	return r.GetFacility(ctx, id)
}

func (r *Repo) DeleteFacility(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "facilities", id)
}
