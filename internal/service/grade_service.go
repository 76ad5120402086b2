package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

// GradeService reads and writes term grades.
type GradeService struct {
	store     store.GradeStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(grades store.GradeStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{store: grades, metrics: metrics, validator: newValidator(validate), logger: logger}
}

// GradeBatchRequest carries several upserts and how to treat failures.
type GradeBatchRequest struct {
	Mode    models.BulkOperationMode `json:"mode" validate:"required,bulk_mode"`
	Entries []models.GradeInput      `json:"entries" validate:"required,min=1"`
}

// CourseGrades returns, for every student of course, the term grades in subjectID with their
// average. Students without grades are listed with empty terms.
func (s *GradeService) CourseGrades(ctx context.Context, course string, subjectID int64) ([]models.StudentGradeSummary, error) {
	if strings.TrimSpace(course) == "" || subjectID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course and subject are required")
	}
	start := time.Now()
	rows, err := s.store.CourseGrades(ctx, course, subjectID)
	if err != nil {
		return nil, storeError(err, "failed to load course grades")
	}
	s.metrics.ObserveStoreQuery("grades_course", time.Since(start))
	return SummarizeGrades(rows), nil
}

// StudentGrades lists every grade of a student across subjects.
func (s *GradeService) StudentGrades(ctx context.Context, studentID int64) ([]models.Grade, error) {
	grades, err := s.store.List(ctx, models.GradeFilter{StudentID: &studentID})
	if err != nil {
		return nil, storeError(err, "failed to load student grades")
	}
	return grades, nil
}

// Save upserts one grade on its (student, subject, period) key.
func (s *GradeService) Save(ctx context.Context, input models.GradeInput) (*models.Grade, error) {
	input.Period = models.Period(strings.ToLower(string(input.Period)))
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid grade payload")
	}
	grade, err := s.store.Save(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to save grade")
	}
	s.logger.Info("grade saved",
		zap.Int64("student_id", grade.StudentID),
		zap.Int64("subject_id", grade.SubjectID),
		zap.String("period", string(grade.Period)),
	)
	return grade, nil
}

// SaveBatch upserts several grades. In atomic mode either every entry is saved or none is,
// and a rejected batch reports every key as failed. In partialOnError mode each entry is
// saved on its own and failures do not stop the remaining entries.
func (s *GradeService) SaveBatch(ctx context.Context, req GradeBatchRequest) (*models.GradeBatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid grade batch")
	}

	result := &models.GradeBatchResult{Saved: []models.GradeKey{}, Failures: []models.GradeBatchFailure{}}
	valid := make([]models.GradeInput, 0, len(req.Entries))
	seen := make(map[models.GradeKey]struct{}, len(req.Entries))
	for _, entry := range req.Entries {
		entry.Period = models.Period(strings.ToLower(string(entry.Period)))
		key := entry.Key()
		if err := s.validator.Struct(entry); err != nil {
			result.Failures = append(result.Failures, models.GradeBatchFailure{GradeKey: key, Reason: err.Error()})
			continue
		}
		if _, dup := seen[key]; dup {
			result.Failures = append(result.Failures, models.GradeBatchFailure{GradeKey: key, Reason: "duplicate key in batch"})
			continue
		}
		seen[key] = struct{}{}
		valid = append(valid, entry)
	}

	start := time.Now()
	defer func() { s.metrics.ObserveStoreQuery("grades_batch", time.Since(start)) }()

	if req.Mode == models.BulkModeAtomic {
		if len(result.Failures) > 0 {
			return rejectBatch(result, valid, appErrors.Clone(appErrors.ErrValidation, "batch contains invalid entries")), nil
		}
		if _, err := s.store.SaveBatch(ctx, valid); err != nil {
			s.logger.Warn("grade batch rejected", zap.Int("entries", len(valid)), zap.Error(err))
			return rejectBatch(result, valid, err), nil
		}
		for _, entry := range valid {
			result.Saved = append(result.Saved, entry.Key())
		}
		s.logger.Info("grade batch saved", zap.Int("entries", len(valid)))
		return result, nil
	}

	for _, entry := range valid {
		if _, err := s.store.Save(ctx, entry); err != nil {
			result.Failures = append(result.Failures, models.GradeBatchFailure{GradeKey: entry.Key(), Reason: failureReason(err)})
			continue
		}
		result.Saved = append(result.Saved, entry.Key())
	}
	s.logger.Info("grade batch processed", zap.Int("saved", len(result.Saved)), zap.Int("failed", len(result.Failures)))
	return result, nil
}

// rejectBatch reports every otherwise valid entry as failed with the rejection cause.
func rejectBatch(result *models.GradeBatchResult, entries []models.GradeInput, cause error) *models.GradeBatchResult {
	reason := appErrors.ErrBatchRejected.Message + ": " + failureReason(cause)
	for _, entry := range entries {
		result.Failures = append(result.Failures, models.GradeBatchFailure{GradeKey: entry.Key(), Reason: reason})
	}
	result.Saved = result.Saved[:0]
	return result
}

func failureReason(err error) string {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return appErrors.ErrInternal.Message
}
