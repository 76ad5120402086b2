package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const subjectColumns = `a.id, a.nombre, a.curso, a.docente_id, a.descripcion, a.carga_horaria,
        u.nombre AS docente_nombre, u.apellido AS docente_apellido
        FROM asignaturas a
        LEFT JOIN docentes d ON d.id = a.docente_id
        LEFT JOIN usuarios u ON u.id = d.usuario_id`

type subjectRow struct {
	models.Subject
	TeacherFirstName *string `db:"docente_nombre"`
	TeacherLastName  *string `db:"docente_apellido"`
}

func (row subjectRow) toModel() models.Subject {
	subject := row.Subject
	subject.TeacherName = displayName(row.TeacherFirstName, row.TeacherLastName)
	return subject
}

// SubjectRepository manages persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects ordered by course and name.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	where := &whereBuilder{}
	if filter.Course != "" {
		where.add("a.curso = $%d", filter.Course)
	}
	if filter.TeacherID != nil {
		where.add("a.docente_id = $%d", *filter.TeacherID)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY a.curso, a.nombre, a.id", subjectColumns, where.clause())

	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	subjects := make([]models.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toModel())
	}
	return subjects, nil
}

// Get fetches a subject by ID.
func (r *SubjectRepository) Get(ctx context.Context, id int64) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s WHERE a.id = $1", subjectColumns)
	var row subjectRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "subject")
	}
	subject := row.toModel()
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, input models.SubjectInput) (*models.Subject, error) {
	const query = `INSERT INTO asignaturas (nombre, curso, docente_id, descripcion, carga_horaria)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, input.Name, input.Course, input.TeacherID, input.Description, input.WeeklyHours).Scan(&id); err != nil {
		return nil, writeErr("create subject", err)
	}
	return r.Get(ctx, id)
}

// Update modifies the provided subject fields.
func (r *SubjectRepository) Update(ctx context.Context, id int64, patch models.SubjectPatch) (*models.Subject, error) {
	set := &setBuilder{}
	if patch.Name != nil {
		set.add("nombre", *patch.Name)
	}
	if patch.Course != nil {
		set.add("curso", *patch.Course)
	}
	if patch.TeacherID != nil {
		set.add("docente_id", *patch.TeacherID)
	}
	if patch.Description != nil {
		set.add("descripcion", *patch.Description)
	}
	if patch.WeeklyHours != nil {
		set.add("carga_horaria", *patch.WeeklyHours)
	}
	if err := set.exec(ctx, r.db, "asignaturas", id, "subject"); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a subject.
func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM asignaturas WHERE id = $1`, id)
	if err != nil {
		return writeErr("delete subject", err)
	}
	return requireAffected(res, "subject")
}
