package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
)

const subjectCachePrefix = "catalog:subjects"

// SubjectService manages subjects; listings are served from the catalog cache when enabled.
type SubjectService struct {
	store     store.SubjectStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the service. cache and metrics may be nil.
func NewSubjectService(subjects store.SubjectStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{store: subjects, cache: cache, metrics: metrics, validator: newValidator(validate), logger: logger}
}

func subjectCacheKey(filter models.SubjectFilter) string {
	teacher := ""
	if filter.TeacherID != nil {
		teacher = fmt.Sprint(*filter.TeacherID)
	}
	return fmt.Sprintf("%s:list:%s:%s", subjectCachePrefix, filter.Course, teacher)
}

// List returns subjects ordered by course and name. The boolean reports a cache hit.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, bool, error) {
	return loadThrough(ctx, s.cache, subjectCacheKey(filter), func() ([]models.Subject, error) {
		start := time.Now()
		subjects, err := s.store.List(ctx, filter)
		if err != nil {
			return nil, storeError(err, "failed to list subjects")
		}
		s.metrics.ObserveStoreQuery("subjects_list", time.Since(start))
		return subjects, nil
	})
}

func (s *SubjectService) Get(ctx context.Context, id int64) (*models.Subject, error) {
	subject, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load subject")
	}
	return subject, nil
}

func (s *SubjectService) Create(ctx context.Context, input models.SubjectInput) (*models.Subject, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid subject payload")
	}
	subject, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to create subject")
	}
	s.invalidate(ctx)
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id int64, patch models.SubjectPatch) (*models.Subject, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, invalid(err, "invalid subject payload")
	}
	subject, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "failed to update subject")
	}
	s.invalidate(ctx)
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete subject")
	}
	s.invalidate(ctx)
	return nil
}

func (s *SubjectService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, subjectCachePrefix+":*"); err != nil {
		s.logger.Warn("invalidate subject cache", zap.Error(err))
	}
}
