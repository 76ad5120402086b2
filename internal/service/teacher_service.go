package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
)

// TeacherService exposes the teaching staff.
type TeacherService struct {
	store     store.TeacherStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the service.
func NewTeacherService(teachers store.TeacherStore, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: teachers, validator: newValidator(validate), logger: logger}
}

func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	teachers, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list teachers")
	}
	return teachers, nil
}

func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load teacher")
	}
	return teacher, nil
}

func (s *TeacherService) Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid teacher payload")
	}
	teacher, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.Int64("teacher_id", teacher.ID))
	return teacher, nil
}

func (s *TeacherService) Update(ctx context.Context, id int64, patch models.TeacherPatch) (*models.Teacher, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, invalid(err, "invalid teacher payload")
	}
	teacher, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "failed to update teacher")
	}
	return teacher, nil
}

func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete teacher")
	}
	s.logger.Info("teacher deleted", zap.Int64("teacher_id", id))
	return nil
}
