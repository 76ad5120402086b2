package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

func TestReportServiceListNewestFirst(t *testing.T) {
	svc := NewReportService(newSeededStore(t).Reports, nil, nil)

	reports, err := svc.List(context.Background(), ReportQuery{})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, int64(1), reports[0].ID)
	assert.Equal(t, "Pérez, Ana", reports[0].StudentName)
	assert.Equal(t, "1° Año A", reports[0].StudentCourse)
	assert.Equal(t, "Gómez, Carlos", reports[0].AuthorName)

	drafts, err := svc.List(context.Background(), ReportQuery{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, int64(2), drafts[0].ID)

	_, err = svc.List(context.Background(), ReportQuery{Status: "sent"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestReportServiceCreateStampsDraft(t *testing.T) {
	svc := NewReportService(newSeededStore(t).Reports, nil, nil)

	report, err := svc.Create(context.Background(), models.ReportInput{
		StudentID: 4, AuthorID: 4, ReportType: "seguimiento", Period: "term1", Title: "Trabajo en laboratorio",
		TemplateID: int64Ptr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.ID)
	assert.Equal(t, models.ReportDraft, report.Status)
	assert.Equal(t, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), report.CreatedAt)
	assert.Equal(t, "Acosta, Tomás", report.StudentName)
	assert.Equal(t, "Martínez, Jorge", report.AuthorName)
}

func TestReportServiceCreateRejectsInvalid(t *testing.T) {
	svc := NewReportService(newSeededStore(t).Reports, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.ReportInput{StudentID: 1, AuthorID: 2, ReportType: "trimestral", Period: "term2"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation), "title is required")

	_, err = svc.Create(ctx, models.ReportInput{StudentID: 1, AuthorID: 2, ReportType: "trimestral", Period: "term2", Title: "X", TemplateID: int64Ptr(40)})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestReportServiceUpdateDeleteAndTemplates(t *testing.T) {
	svc := NewReportService(newSeededStore(t).Reports, nil, nil)
	ctx := context.Background()

	status := models.ReportStatus("Under_Review")
	updated, err := svc.Update(ctx, 2, models.ReportPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.ReportUnderReview, updated.Status)

	bad := models.ReportStatus("approved")
	_, err = svc.Update(ctx, 2, models.ReportPatch{Status: &bad})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	require.NoError(t, svc.Delete(ctx, 2))
	assert.True(t, errors.Is(svc.Delete(ctx, 2), appErrors.ErrNotFound))

	templates, err := svc.Templates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Informe trimestral", templates[0].Name)
	assert.Equal(t, "Seguimiento", templates[1].Name)
}
