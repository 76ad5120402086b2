package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestWhereBuilderNumbersPlaceholders(t *testing.T) {
	where := &whereBuilder{}
	assert.Equal(t, "WHERE 1=1", where.clause())

	where.add("a = $%d", 1)
	where.add("b = $%d", "x")
	assert.Equal(t, "WHERE a = $1 AND b = $2", where.clause())
	assert.Equal(t, []interface{}{1, "x"}, where.args)
}

func TestSetBuilderExecMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	set := &setBuilder{}
	set.add("nombre", "Aula 1")
	mock.ExpectExec(regexp.QuoteMeta("UPDATE aulas SET nombre = $1 WHERE id = $2")).
		WithArgs("Aula 1", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := set.exec(context.Background(), db, "aulas", 9, "classroom")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetBuilderEmptyIssuesNothing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	require.NoError(t, (&setBuilder{}).exec(context.Background(), db, "aulas", 1, "classroom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := withTx(context.Background(), db, func(tx *sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisplayName(t *testing.T) {
	first, last := "Ana", "Pérez"
	assert.Nil(t, displayName(nil, nil))
	assert.Equal(t, "Pérez, Ana", *displayName(&first, &last))
}

func TestWriteErrMapsIntegrityViolations(t *testing.T) {
	err := writeErr("create grade", &pq.Error{Code: "23503", Message: "violates foreign key constraint"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	other := errors.New("connection reset")
	err = writeErr("create grade", other)
	assert.ErrorIs(t, err, other)
	assert.False(t, errors.Is(err, appErrors.ErrConflict))
}
