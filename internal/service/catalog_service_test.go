package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

func newCachedSubjectService(t *testing.T) (*SubjectService, *fakeCacheRepo, *MetricsService) {
	t.Helper()
	repo := newFakeCacheRepo()
	metrics := NewMetricsService("mock")
	cache := NewCacheService(repo, metrics, 0, nil, true)
	return NewSubjectService(newSeededStore(t).Subjects, cache, metrics, nil, nil), repo, metrics
}

func TestSubjectServiceListServesSecondCallFromCache(t *testing.T) {
	svc, repo, metrics := newCachedSubjectService(t)
	ctx := context.Background()
	filter := models.SubjectFilter{Course: "1° Año A"}

	first, hit, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, first, 3)
	assert.Equal(t, "Educación Artística", first[0].Name)
	assert.Contains(t, repo.keys(), "catalog:subjects:list:1° Año A:")

	second, hit, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.Equal(t, uint64(1), snapshot.StoreQueryCount)
}

func TestSubjectServiceMutationInvalidatesListings(t *testing.T) {
	svc, repo, _ := newCachedSubjectService(t)
	ctx := context.Background()

	_, _, err := svc.List(ctx, models.SubjectFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, repo.keys())

	created, err := svc.Create(ctx, models.SubjectInput{Name: "Historia", Course: "2° Año B", TeacherID: int64Ptr(2), WeeklyHours: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
	require.NotNil(t, created.TeacherName)
	assert.Equal(t, "Fernández, Laura", *created.TeacherName)

	assert.Empty(t, repo.keys())
	assert.Equal(t, []string{"catalog:subjects:*"}, repo.invalidated)

	subjects, hit, err := svc.List(ctx, models.SubjectFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, subjects, 6)
}

func TestSubjectServiceCacheFailureFallsBackToStore(t *testing.T) {
	svc, repo, _ := newCachedSubjectService(t)
	repo.getErr = errors.New("redis down")

	subjects, hit, err := svc.List(context.Background(), models.SubjectFilter{TeacherID: int64Ptr(1)})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, subjects, 2)
}

func TestSubjectServiceWithoutCache(t *testing.T) {
	svc := NewSubjectService(newSeededStore(t).Subjects, nil, nil, nil, nil)

	subjects, hit, err := svc.List(context.Background(), models.SubjectFilter{Course: "3° Año"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, subjects)
	assert.Empty(t, subjects)
}

func TestSubjectServiceCreateUnknownTeacherConflicts(t *testing.T) {
	svc, _, _ := newCachedSubjectService(t)

	_, err := svc.Create(context.Background(), models.SubjectInput{Name: "Física", Course: "2° Año B", TeacherID: int64Ptr(99)})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.Create(context.Background(), models.SubjectInput{Course: "2° Año B"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestClassroomServiceActiveFilterAndCacheKeys(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewCacheService(repo, nil, 0, nil, true)
	svc := NewClassroomService(newSeededStore(t).Classrooms, cache, nil, nil, nil)
	ctx := context.Background()
	active := true

	rooms, _, err := svc.List(ctx, models.ClassroomFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	all, _, err := svc.List(ctx, models.ClassroomFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.ElementsMatch(t, []string{"catalog:classrooms:list:true", "catalog:classrooms:list:all"}, repo.keys())

	inactive := false
	_, err = svc.Update(ctx, 1, models.ClassroomPatch{Active: &inactive})
	require.NoError(t, err)
	assert.Empty(t, repo.keys())

	rooms, hit, err := svc.List(ctx, models.ClassroomFilter{Active: &active})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, rooms, 2)
}

func TestClassroomServiceDeleteMissing(t *testing.T) {
	svc := NewClassroomService(newSeededStore(t).Classrooms, nil, nil, nil, nil)

	err := svc.Delete(context.Background(), 42)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCacheServiceDisabledIsPassThrough(t *testing.T) {
	repo := newFakeCacheRepo()
	cache := NewCacheService(repo, nil, 0, nil, false)

	require.NoError(t, cache.Set(context.Background(), "k", "v", 0))
	hit, err := cache.Get(context.Background(), "k", new(string))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, repo.gets)

	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.NoError(t, nilCache.Invalidate(context.Background(), "catalog:*"))
}
