package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const studentColumns = `e.id, e.usuario_id, e.curso, COALESCE(u.dni, '') AS dni, COALESCE(u.nombre, '') AS nombre,
        COALESCE(u.apellido, '') AS apellido, COALESCE(u.email, '') AS email
        FROM estudiantes e
        LEFT JOIN usuarios u ON u.id = e.usuario_id`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters ordered by surname.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	where := &whereBuilder{}
	if filter.Course != "" {
		where.add("e.curso = $%d", filter.Course)
	}
	if filter.ID != nil {
		where.add("e.id = $%d", *filter.ID)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY u.apellido, u.nombre, e.id", studentColumns, where.clause())

	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, where.args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	for i := range students {
		students[i].Name = models.DisplayName(students[i].FirstName, students[i].LastName)
	}
	return students, nil
}

// Get fetches a student by ID.
func (r *StudentRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s WHERE e.id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, notFound(err, "student")
	}
	student.Name = models.DisplayName(student.FirstName, student.LastName)
	return &student, nil
}

// Create inserts the user and the student row in one transaction.
func (r *StudentRepository) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	student := &models.Student{
		DNI:       input.DNI,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Name:      models.DisplayName(input.FirstName, input.LastName),
		Email:     input.Email,
		Course:    input.Course,
	}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userID, err := insertUser(ctx, tx, input.IdentityInput, models.RoleStudent)
		if err != nil {
			return err
		}
		student.UserID = userID
		const query = `INSERT INTO estudiantes (usuario_id, curso) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, userID, input.Course).Scan(&student.ID); err != nil {
			return writeErr("create student", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Update applies identity and course changes, each only when one of its fields is set.
func (r *StudentRepository) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userID, err := ownerOf(ctx, tx, "estudiantes", id, "student")
		if err != nil {
			return err
		}
		if err := updateUser(ctx, tx, userID, patch.IdentityPatch); err != nil {
			return err
		}
		set := &setBuilder{}
		if patch.Course != nil {
			set.add("curso", *patch.Course)
		}
		return set.exec(ctx, tx, "estudiantes", id, "student")
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes the student and then its owning user.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return deletePerson(ctx, r.db, "estudiantes", id, "student")
}
