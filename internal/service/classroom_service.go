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

const classroomCachePrefix = "catalog:classrooms"

// ClassroomService manages classrooms; listings are served from the catalog cache when enabled.
type ClassroomService struct {
	store     store.ClassroomStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs the service. cache and metrics may be nil.
func NewClassroomService(classrooms store.ClassroomStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{store: classrooms, cache: cache, metrics: metrics, validator: newValidator(validate), logger: logger}
}

func classroomCacheKey(filter models.ClassroomFilter) string {
	active := "all"
	if filter.Active != nil {
		active = fmt.Sprint(*filter.Active)
	}
	return fmt.Sprintf("%s:list:%s", classroomCachePrefix, active)
}

// List returns classrooms ordered by name. The boolean reports a cache hit.
func (s *ClassroomService) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, bool, error) {
	return loadThrough(ctx, s.cache, classroomCacheKey(filter), func() ([]models.Classroom, error) {
		start := time.Now()
		classrooms, err := s.store.List(ctx, filter)
		if err != nil {
			return nil, storeError(err, "failed to list classrooms")
		}
		s.metrics.ObserveStoreQuery("classrooms_list", time.Since(start))
		return classrooms, nil
	})
}

func (s *ClassroomService) Get(ctx context.Context, id int64) (*models.Classroom, error) {
	classroom, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load classroom")
	}
	return classroom, nil
}

func (s *ClassroomService) Create(ctx context.Context, input models.ClassroomInput) (*models.Classroom, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid classroom payload")
	}
	classroom, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to create classroom")
	}
	s.invalidate(ctx)
	return classroom, nil
}

func (s *ClassroomService) Update(ctx context.Context, id int64, patch models.ClassroomPatch) (*models.Classroom, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, invalid(err, "invalid classroom payload")
	}
	classroom, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "failed to update classroom")
	}
	s.invalidate(ctx)
	return classroom, nil
}

func (s *ClassroomService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete classroom")
	}
	s.invalidate(ctx)
	return nil
}

func (s *ClassroomService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, classroomCachePrefix+":*"); err != nil {
		s.logger.Warn("invalidate classroom cache", zap.Error(err))
	}
}
