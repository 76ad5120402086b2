package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

var studentRowColumns = []string{"id", "usuario_id", "curso", "dni", "nombre", "apellido", "email"}

func TestStudentRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows(studentRowColumns).
		AddRow(1, 10, "1° Año A", "40111222", "Ana", "Pérez", "ana@escuela.edu")
	mock.ExpectQuery(regexp.QuoteMeta("FROM estudiantes e LEFT JOIN usuarios u ON u.id = e.usuario_id WHERE e.curso = $1 ORDER BY u.apellido, u.nombre, e.id")).
		WithArgs("1° Año A").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{Course: "1° Año A"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Pérez, Ana", students[0].Name)
	assert.Equal(t, int64(10), students[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM estudiantes").WillReturnRows(sqlmock.NewRows(studentRowColumns))

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentRepositoryCreateInsertsUserFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO usuarios").
		WithArgs("40111222", "Ana", "Pérez", "ana@escuela.edu", models.RoleStudent).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("INSERT INTO estudiantes").
		WithArgs(int64(10), "1° Año A").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	student, err := repo.Create(context.Background(), models.StudentInput{
		IdentityInput: models.IdentityInput{DNI: "40111222", FirstName: "Ana", LastName: "Pérez", Email: "ana@escuela.edu"},
		Course:        "1° Año A",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), student.ID)
	assert.Equal(t, int64(10), student.UserID)
	assert.Equal(t, "Pérez, Ana", student.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateRollsBackWhenRoleRowFails(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO usuarios").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery("INSERT INTO estudiantes").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), models.StudentInput{Course: "1° Año A"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	course := "2° Año B"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT usuario_id FROM estudiantes WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"usuario_id"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 99, models.StudentPatch{Course: &course})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	course := "2° Año B"
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT usuario_id FROM estudiantes").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"usuario_id"}).AddRow(10))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE estudiantes SET curso = $1 WHERE id = $2")).
		WithArgs(course, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(studentRowColumns).AddRow(3, 10, course, "40111222", "Ana", "Pérez", "ana@escuela.edu"))

	student, err := repo.Update(context.Background(), 3, models.StudentPatch{Course: &course})
	require.NoError(t, err)
	assert.Equal(t, course, student.Course)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteRemovesUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT usuario_id FROM estudiantes").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"usuario_id"}).AddRow(10))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM estudiantes WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM usuarios WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
