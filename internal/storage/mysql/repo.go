package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"

	"staybook/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// MySQL error numbers we care about.
const (
	erDupEntry      = 1062
	erRowIsRef      = 1451
	erNoRefRow      = 1452
	erNoRefRowAlias = 1216
)

// translate folds driver errors into the domain's coarse categories:
// duplicate key -> conflict, broken FK -> invalid reference,
// connectivity -> unavailable. Everything else passes through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case erDupEntry:
			return fmt.Errorf("%w: %s", domain.ErrConflict, me.Message)
		case erRowIsRef, erNoRefRow, erNoRefRowAlias:
			return fmt.Errorf("%w: %s", domain.ErrInvalidReference, me.Message)
		}
		return err
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return err
}

// updateRow applies a partial SET list. Callers verify existence with a
// read first, so zero affected rows here is not an error (the values
// may simply be unchanged).
func (r *Repo) updateRow(ctx context.Context, table string, id int64, sets []string, args []any) error {
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	q := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return translate(err)
	}
	return nil
}

// deleteRow deletes by id; a row that was never there is a not-found.
func (r *Repo) deleteRow(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) countRows(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// inTx runs fn in a transaction, rolling back on error.
func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return translate(tx.Commit())
}

func nullToPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func ptrToNull(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
