package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
)

var sessionRowColumns = []string{"id", "fecha", "docente_id", "asignatura_id", "curso", "asignatura_nombre", "docente_nombre", "docente_apellido"}

func fixedClock() time.Time {
	return time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC)
}

func TestAttendanceRepositorySaveSessionCreatesSession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)
	repo.now = fixedClock

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM asistencias WHERE fecha").
		WithArgs(date, int64(2), int64(1), "1° Año A").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO asistencias (fecha")).
		WithArgs(date, int64(2), int64(1), "1° Año A").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO asistencias_detalle").
		WithArgs(int64(5), int64(1), models.AttendancePresent, fixedClock(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO asistencias_detalle").
		WithArgs(int64(5), int64(2), models.AttendanceLate, fixedClock(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(5, date, 2, 1, "1° Año A", "Matemática", "Carlos", "Gómez"))

	session, err := repo.SaveSession(context.Background(), models.AttendanceSessionInput{
		Date:      time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC),
		TeacherID: 2,
		SubjectID: 1,
		Course:    "1° Año A",
		Details: []models.AttendanceDetailInput{
			{StudentID: 1, Status: models.AttendancePresent},
			{StudentID: 2, Status: models.AttendanceLate},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), session.ID)
	require.NotNil(t, session.TeacherName)
	assert.Equal(t, "Gómez, Carlos", *session.TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySaveSessionRollsBackOnDetailFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM asistencias WHERE fecha").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO asistencias_detalle").
		WillReturnError(errors.New("violates foreign key"))
	mock.ExpectRollback()

	_, err := repo.SaveSession(context.Background(), models.AttendanceSessionInput{
		Date:    time.Now(),
		Details: []models.AttendanceDetailInput{{StudentID: 999, Status: models.AttendanceAbsent}},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryHistoryKeepsEmptySessions(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	columns := append(append([]string{}, sessionRowColumns...), "estado")
	rows := sqlmock.NewRows(columns).
		AddRow(6, date, 2, 1, "1° Año A", "Matemática", "Carlos", "Gómez", nil).
		AddRow(5, date, 2, 1, "1° Año A", "Matemática", "Carlos", "Gómez", "present")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE s.curso = $1 AND s.fecha >= $2 ORDER BY s.fecha DESC, s.id DESC, ad.id")).
		WithArgs("1° Año A", date).
		WillReturnRows(rows)

	history, err := repo.History(context.Background(), models.AttendanceFilter{
		Course:    "1° Año A",
		DateRange: models.DateRange{From: &date},
	})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[0].Status)
	require.NotNil(t, history[1].Status)
	assert.Equal(t, models.AttendancePresent, *history[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryDetailsBuildsStudentNames(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "asistencia_id", "estudiante_id", "estado", "hora_registro", "observacion", "nombre", "apellido"}).
		AddRow(1, 5, 1, "absent", fixedClock(), nil, "Ana", "Pérez")
	mock.ExpectQuery("FROM asistencias_detalle ad").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	records, err := repo.Details(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Pérez, Ana", records[0].StudentName)
	assert.Equal(t, models.AttendanceAbsent, records[0].Status)
}

func TestAttendanceRepositoryStudentStatusesFiltersBySessionDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ad.estudiante_id = $1 AND s.fecha <= $2")).
		WithArgs(int64(1), to).
		WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("present").AddRow("late"))

	statuses, err := repo.StudentStatuses(context.Background(), 1, models.DateRange{To: &to})
	require.NoError(t, err)
	assert.Equal(t, []models.AttendanceStatus{models.AttendancePresent, models.AttendanceLate}, statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}
