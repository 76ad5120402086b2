package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const classroomColumns = `id, nombre, capacidad, ubicacion, recursos, activa FROM aulas`

// ClassroomRepository manages persistence for classrooms.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms ordered by name.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	where := &whereBuilder{}
	if filter.Active != nil {
		where.add("activa = $%d", *filter.Active)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY nombre, id", classroomColumns, where.clause())

	classrooms := make([]models.Classroom, 0)
	if err := r.db.SelectContext(ctx, &classrooms, query, where.args...); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return classrooms, nil
}

// Get fetches a classroom by ID.
func (r *ClassroomRepository) Get(ctx context.Context, id int64) (*models.Classroom, error) {
	query := fmt.Sprintf("SELECT %s WHERE id = $1", classroomColumns)
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, notFound(err, "classroom")
	}
	return &classroom, nil
}

// Create inserts a classroom.
func (r *ClassroomRepository) Create(ctx context.Context, input models.ClassroomInput) (*models.Classroom, error) {
	classroom := &models.Classroom{
		Name:      input.Name,
		Capacity:  input.Capacity,
		Location:  input.Location,
		Resources: input.Resources,
		Active:    input.Active,
	}
	const query = `INSERT INTO aulas (nombre, capacidad, ubicacion, recursos, activa) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, classroom.Name, classroom.Capacity, classroom.Location, classroom.Resources, classroom.Active).Scan(&classroom.ID); err != nil {
		return nil, writeErr("create classroom", err)
	}
	return classroom, nil
}

// Update modifies the provided classroom fields.
func (r *ClassroomRepository) Update(ctx context.Context, id int64, patch models.ClassroomPatch) (*models.Classroom, error) {
	set := &setBuilder{}
	if patch.Name != nil {
		set.add("nombre", *patch.Name)
	}
	if patch.Capacity != nil {
		set.add("capacidad", *patch.Capacity)
	}
	if patch.Location != nil {
		set.add("ubicacion", *patch.Location)
	}
	if patch.Resources != nil {
		set.add("recursos", *patch.Resources)
	}
	if patch.Active != nil {
		set.add("activa", *patch.Active)
	}
	if err := set.exec(ctx, r.db, "aulas", id, "classroom"); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a classroom.
func (r *ClassroomRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM aulas WHERE id = $1`, id)
	if err != nil {
		return writeErr("delete classroom", err)
	}
	return requireAffected(res, "classroom")
}
