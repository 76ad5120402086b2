package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

type brokenStudentStore struct {
	store.StudentStore
	err error
}

func (b brokenStudentStore) List(context.Context, models.StudentFilter) ([]models.Student, error) {
	return nil, b.err
}

func (b brokenStudentStore) Get(context.Context, int64) (*models.Student, error) {
	return nil, b.err
}

func TestStudentServiceListByCourse(t *testing.T) {
	svc := NewStudentService(newSeededStore(t).Students, nil, nil)

	students, err := svc.List(context.Background(), models.StudentFilter{Course: "2° Año B"})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Acosta", students[0].LastName)
	assert.Equal(t, "Sosa", students[1].LastName)

	none, err := svc.List(context.Background(), models.StudentFilter{Course: "5° Año C"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStudentServiceCreateValidates(t *testing.T) {
	svc := NewStudentService(newSeededStore(t).Students, nil, nil)

	_, err := svc.Create(context.Background(), models.StudentInput{
		IdentityInput: models.IdentityInput{DNI: "46000111", FirstName: "Julia", LastName: "Vera", Email: "not-an-email"},
		Course:        "1° Año A",
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), models.StudentInput{
		IdentityInput: models.IdentityInput{DNI: "46000111", FirstName: "Julia", LastName: "Vera", Email: "julia.vera@alumnos.escuela.edu"},
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation), "course is required")
}

func TestStudentServiceCreateAndUpdate(t *testing.T) {
	svc := NewStudentService(newSeededStore(t).Students, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.StudentInput{
		IdentityInput: models.IdentityInput{DNI: "46000111", FirstName: "Julia", LastName: "Vera", Email: "julia.vera@alumnos.escuela.edu"},
		Course:        "1° Año A",
	})
	require.NoError(t, err)
	assert.Equal(t, "Vera, Julia", created.Name)

	course := "2° Año B"
	updated, err := svc.Update(ctx, created.ID, models.StudentPatch{Course: &course})
	require.NoError(t, err)
	assert.Equal(t, "2° Año B", updated.Course)
	assert.Equal(t, "Julia", updated.FirstName)

	bad := "nope"
	_, err = svc.Update(ctx, created.ID, models.StudentPatch{IdentityPatch: models.IdentityPatch{Email: &bad}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentServiceGetMissing(t *testing.T) {
	svc := NewStudentService(newSeededStore(t).Students, nil, nil)

	_, err := svc.Get(context.Background(), 404)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestStudentServiceDeleteWithRecordsConflicts(t *testing.T) {
	svc := NewStudentService(newSeededStore(t).Students, nil, nil)

	err := svc.Delete(context.Background(), 1)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestStudentServiceWrapsBackendFailures(t *testing.T) {
	svc := NewStudentService(brokenStudentStore{err: errors.New("connection reset")}, nil, nil)

	_, err := svc.List(context.Background(), models.StudentFilter{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, "failed to list students", appErr.Message)
}

func TestStudentServiceKeepsTypedStoreErrors(t *testing.T) {
	svc := NewStudentService(brokenStudentStore{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}, nil, nil)

	_, err := svc.Get(context.Background(), 1)
	assert.Equal(t, "student not found", appErrors.FromError(err).Message)
}

func TestTeacherServiceLifecycle(t *testing.T) {
	svc := NewTeacherService(newSeededStore(t).Teachers, nil, nil)
	ctx := context.Background()

	teachers, err := svc.List(ctx, models.TeacherFilter{})
	require.NoError(t, err)
	require.Len(t, teachers, 3)
	assert.Equal(t, "Fernández", teachers[0].LastName)

	created, err := svc.Create(ctx, models.TeacherInput{
		IdentityInput: models.IdentityInput{DNI: "27000111", FirstName: "Rosa", LastName: "Benítez", Email: "rosa.benitez@escuela.edu"},
		Specialty:     "Historia",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)

	specialty := "Geografía"
	updated, err := svc.Update(ctx, created.ID, models.TeacherPatch{Specialty: &specialty})
	require.NoError(t, err)
	assert.Equal(t, "Geografía", updated.Specialty)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	assert.True(t, errors.Is(svc.Delete(ctx, 1), appErrors.ErrConflict), "teacher 1 owns subjects")
}
