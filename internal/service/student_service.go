package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
)

// StudentService exposes the student roster.
type StudentService struct {
	store     store.StudentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(students store.StudentStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: students, validator: newValidator(validate), logger: logger}
}

// List returns students matching filter; no match yields an empty slice.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list students")
	}
	return students, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	return student, nil
}

// Create registers a student together with the owning user.
func (s *StudentService) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	student, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("student_id", student.ID), zap.String("course", student.Course))
	return student, nil
}

// Update applies a partial update.
func (s *StudentService) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, invalid(err, "invalid student payload")
	}
	student, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "failed to update student")
	}
	return student, nil
}

// Delete removes the student and its user.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}
