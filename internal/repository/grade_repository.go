package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const gradeColumns = `c.id, c.estudiante_id, c.asignatura_id, a.nombre AS asignatura_nombre, c.periodo, c.nota, c.fecha, c.observaciones
        FROM calificaciones c
        LEFT JOIN asignaturas a ON a.id = c.asignatura_id`

// GradeRepository handles grade persistence keyed by (student, subject, period).
type GradeRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// List returns grades ordered by subject then period.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	where := &whereBuilder{}
	if filter.StudentID != nil {
		where.add("c.estudiante_id = $%d", *filter.StudentID)
	}
	if filter.SubjectID != nil {
		where.add("c.asignatura_id = $%d", *filter.SubjectID)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY c.asignatura_id, c.periodo, c.id", gradeColumns, where.clause())

	grades := make([]models.Grade, 0)
	if err := r.db.SelectContext(ctx, &grades, query, where.args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// CourseGrades left-joins every student of a course with their grades for one subject.
// Students without grades appear once with nil period and score.
func (r *GradeRepository) CourseGrades(ctx context.Context, course string, subjectID int64) ([]models.CourseGradeRow, error) {
	const query = `SELECT e.id AS estudiante_id, COALESCE(u.nombre, '') AS nombre, COALESCE(u.apellido, '') AS apellido, c.periodo, c.nota
        FROM estudiantes e
        LEFT JOIN usuarios u ON u.id = e.usuario_id
        LEFT JOIN calificaciones c ON c.estudiante_id = e.id AND c.asignatura_id = $2
        WHERE e.curso = $1
        ORDER BY u.apellido, u.nombre, e.id, c.periodo`
	rows := make([]models.CourseGradeRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, course, subjectID); err != nil {
		return nil, fmt.Errorf("course grades: %w", err)
	}
	return rows, nil
}

// Save looks the grade up by its natural key and updates it in place, inserting it otherwise.
func (r *GradeRepository) Save(ctx context.Context, input models.GradeInput) (*models.Grade, error) {
	id, err := r.save(ctx, r.db, input)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, r.db, id)
}

// SaveBatch saves every entry inside one transaction; any failure leaves no entry written.
func (r *GradeRepository) SaveBatch(ctx context.Context, inputs []models.GradeInput) ([]models.Grade, error) {
	saved := make([]models.Grade, 0, len(inputs))
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, input := range inputs {
			id, err := r.save(ctx, tx, input)
			if err != nil {
				return err
			}
			grade, err := r.get(ctx, tx, id)
			if err != nil {
				return err
			}
			saved = append(saved, *grade)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *GradeRepository) save(ctx context.Context, q sqlx.ExtContext, input models.GradeInput) (int64, error) {
	recordedOn := models.TruncateDate(r.now())
	const find = `SELECT id FROM calificaciones WHERE estudiante_id = $1 AND asignatura_id = $2 AND periodo = $3`
	var id int64
	err := sqlx.GetContext(ctx, q, &id, find, input.StudentID, input.SubjectID, input.Period)
	switch {
	case err == nil:
		const update = `UPDATE calificaciones SET nota = $1, observaciones = $2, fecha = $3 WHERE id = $4`
		if _, err := q.ExecContext(ctx, update, input.Score, input.Note, recordedOn, id); err != nil {
			return 0, writeErr("update grade", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		const insert = `INSERT INTO calificaciones (estudiante_id, asignatura_id, periodo, nota, fecha, observaciones)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := q.QueryRowxContext(ctx, insert, input.StudentID, input.SubjectID, input.Period, input.Score, recordedOn, input.Note).Scan(&id); err != nil {
			return 0, writeErr("create grade", err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("find grade: %w", err)
	}
}

func (r *GradeRepository) get(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Grade, error) {
	query := fmt.Sprintf("SELECT %s WHERE c.id = $1", gradeColumns)
	var grade models.Grade
	if err := sqlx.GetContext(ctx, q, &grade, query, id); err != nil {
		return nil, notFound(err, "grade")
	}
	return &grade, nil
}
