package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

// ReportService manages pedagogical reports and their templates.
type ReportService struct {
	store     store.ReportStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(reports store.ReportStore, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{store: reports, validator: newValidator(validate), logger: logger}
}

// ReportQuery filters report listings.
type ReportQuery struct {
	StudentID  *int64 `form:"student_id"`
	AuthorID   *int64 `form:"author_id"`
	ReportType string `form:"report_type"`
	Period     string `form:"period"`
	Status     string `form:"status"`
}

// List returns matching reports, newest first.
func (s *ReportService) List(ctx context.Context, query ReportQuery) ([]models.Report, error) {
	filter := models.ReportFilter{StudentID: query.StudentID, AuthorID: query.AuthorID, ReportType: query.ReportType, Period: query.Period}
	if query.Status != "" {
		status := models.ReportStatus(strings.ToLower(query.Status))
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report status")
		}
		filter.Status = &status
	}
	reports, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list reports")
	}
	return reports, nil
}

// Get returns a report with its student and author names.
func (s *ReportService) Get(ctx context.Context, id int64) (*models.Report, error) {
	report, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load report")
	}
	return report, nil
}

// Create stores a report; an empty status starts it as a draft.
func (s *ReportService) Create(ctx context.Context, input models.ReportInput) (*models.Report, error) {
	input.Status = models.ReportStatus(strings.ToLower(string(input.Status)))
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid report payload")
	}
	report, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to create report")
	}
	s.logger.Info("report created", zap.Int64("report_id", report.ID), zap.Int64("student_id", report.StudentID))
	return report, nil
}

// Update applies a partial update.
func (s *ReportService) Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.Report, error) {
	if patch.Status != nil {
		status := models.ReportStatus(strings.ToLower(string(*patch.Status)))
		patch.Status = &status
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, invalid(err, "invalid report payload")
	}
	report, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "failed to update report")
	}
	return report, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete report")
	}
	s.logger.Info("report deleted", zap.Int64("report_id", id))
	return nil
}

// Templates lists the active report templates.
func (s *ReportService) Templates(ctx context.Context) ([]models.ReportTemplate, error) {
	templates, err := s.store.Templates(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list report templates")
	}
	return templates, nil
}
