package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

// whereBuilder accumulates AND-composed predicates with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(format string, value interface{}) {
	w.args = append(w.args, value)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return "WHERE 1=1"
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

// setBuilder collects the columns of a partial update.
type setBuilder struct {
	columns []string
	args    []interface{}
}

func (s *setBuilder) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.columns = append(s.columns, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setBuilder) empty() bool {
	return len(s.columns) == 0
}

// exec issues UPDATE table SET ... WHERE id = $n and reports a missing row as not found.
func (s *setBuilder) exec(ctx context.Context, q sqlx.ExecerContext, table string, id int64, label string) error {
	if s.empty() {
		return nil
	}
	args := append(append([]interface{}{}, s.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(s.columns, ", "), len(args))
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return writeErr("update "+label, err)
	}
	return requireAffected(res, label)
}

func requireAffected(res sql.Result, label string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", label, err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, label+" not found")
	}
	return nil
}

// notFound maps an empty single-row fetch to ErrNotFound, leaving other errors untouched.
func notFound(err error, label string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, label+" not found")
	}
	return fmt.Errorf("get %s: %w", label, err)
}

// writeErr reports integrity violations as conflicts so callers see the same error kind the
// in-memory stores raise; anything else keeps its backend cause.
func writeErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503", "23505":
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, op+": "+pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// withTx runs fn inside a transaction, rolling back when fn or the commit fails.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback() //nolint:errcheck
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

func displayName(first, last *string) *string {
	if first == nil && last == nil {
		return nil
	}
	name := fmt.Sprintf("%s, %s", deref(last), deref(first))
	return &name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
