package mysql

import (
	"context"
	"database/sql"

	"staybook/internal/domain"
)

const userColumns = "id, email, hashed_password, first_name, last_name, telegram_id, pachca_id"

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, hashed_password, first_name, last_name, telegram_id, pachca_id)
VALUES (?, ?, ?, ?, ?, ?)`,
		u.Email, u.HashedPassword, ptrToNull(u.FirstName), ptrToNull(u.LastName),
		ptrToNull(u.TelegramID), ptrToNull(u.PachcaID))
	if err != nil {
		return domain.User{}, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, translate(err)
	}
	u.ID = id
	return u, nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var first, last, tg, pc sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &first, &last, &tg, &pc)
	if err != nil {
		return domain.User{}, translate(err)
	}
	u.FirstName = nullToPtr(first)
	u.LastName = nullToPtr(last)
	u.TelegramID = nullToPtr(tg)
	u.PachcaID = nullToPtr(pc)
	return u, nil
}

func (r *Repo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

func (r *Repo) ListUsers(ctx context.Context, f domain.UserFilter, pg domain.PageQuery) ([]domain.User, int, error) {
	where := "1=1"
	args := []any{}
	if f.Email != nil {
		where += " AND email = ?"
		args = append(args, *f.Email)
	}

	total, err := r.countRows(ctx, "SELECT COUNT(*) FROM users WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	q := "SELECT " + userColumns + " FROM users WHERE " + where + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, pg.PerPage, pg.Offset())...)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		var first, last, tg, pc sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &first, &last, &tg, &pc); err != nil {
			return nil, 0, translate(err)
		}
		u.FirstName = nullToPtr(first)
		u.LastName = nullToPtr(last)
		u.TelegramID = nullToPtr(tg)
		u.PachcaID = nullToPtr(pc)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (r *Repo) UpdateUser(ctx context.Context, id int64, p domain.UserPatch) (domain.User, error) {
	if _, err := r.GetUser(ctx, id); err != nil {
		return domain.User{}, err
	}

	var sets []string
	var args []any
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if p.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *p.LastName)
	}
	if p.TelegramID != nil {
		sets = append(sets, "telegram_id = ?")
		args = append(args, *p.TelegramID)
	}
	if p.PachcaID != nil {
		sets = append(sets, "pachca_id = ?")
		args = append(args, *p.PachcaID)
	}
	if err := r.updateRow(ctx, "users", id, sets, args); err != nil {
		return domain.User{}, err
	}
	return r.GetUser(ctx, id)
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "users", id)
}
