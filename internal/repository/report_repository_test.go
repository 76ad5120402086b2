package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
)

var reportRowColumns = []string{"id", "estudiante_id", "estudiante_curso", "autor_id", "tipo", "periodo", "titulo", "contenido",
	"observaciones", "plantilla_id", "estado", "created_at", "estudiante_nombre", "estudiante_apellido", "autor_nombre", "autor_apellido"}

func TestReportRepositoryCreateDefaultsToDraft(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)
	repo.now = fixedClock

	mock.ExpectQuery("INSERT INTO informes_pedagogicos").
		WithArgs(int64(1), int64(20), "trimestral", "term1", "Informe", "", nil, nil, models.ReportDraft, fixedClock()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(reportRowColumns).
			AddRow(4, 1, "1° Año A", 20, "trimestral", "term1", "Informe", "", nil, nil, "draft", fixedClock(), "Ana", "Pérez", "Marta", "López"))

	report, err := repo.Create(context.Background(), models.ReportInput{
		StudentID: 1, AuthorID: 20, ReportType: "trimestral", Period: "term1", Title: "Informe",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportDraft, report.Status)
	assert.Equal(t, "Pérez, Ana", report.StudentName)
	assert.Equal(t, "López, Marta", report.AuthorName)
	assert.Equal(t, "1° Año A", report.StudentCourse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListNewestFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	studentID := int64(1)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.estudiante_id = $1 AND r.periodo = $2 ORDER BY r.created_at DESC, r.id DESC")).
		WithArgs(studentID, "term1").
		WillReturnRows(sqlmock.NewRows(reportRowColumns))

	reports, err := repo.List(context.Background(), models.ReportFilter{StudentID: &studentID, Period: "term1"})
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryTemplatesOnlyActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM plantillas_informes WHERE activa = TRUE ORDER BY nombre, id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "tipo", "contenido", "activa"}).
			AddRow(1, "Informe trimestral", "trimestral", "Desempeño: ...", true))

	templates, err := repo.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.True(t, templates[0].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
