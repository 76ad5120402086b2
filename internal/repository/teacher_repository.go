package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const teacherColumns = `d.id, d.usuario_id, COALESCE(d.especialidad, '') AS especialidad, COALESCE(u.dni, '') AS dni,
        COALESCE(u.nombre, '') AS nombre, COALESCE(u.apellido, '') AS apellido, COALESCE(u.email, '') AS email
        FROM docentes d
        LEFT JOIN usuarios u ON u.id = d.usuario_id`

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers ordered by surname.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	where := &whereBuilder{}
	if filter.ID != nil {
		where.add("d.id = $%d", *filter.ID)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY u.apellido, u.nombre, d.id", teacherColumns, where.clause())

	teachers := make([]models.Teacher, 0)
	if err := r.db.SelectContext(ctx, &teachers, query, where.args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	for i := range teachers {
		teachers[i].Name = models.DisplayName(teachers[i].FirstName, teachers[i].LastName)
	}
	return teachers, nil
}

// Get fetches a teacher by ID.
func (r *TeacherRepository) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s WHERE d.id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, notFound(err, "teacher")
	}
	teacher.Name = models.DisplayName(teacher.FirstName, teacher.LastName)
	return &teacher, nil
}

// Create inserts the user and the teacher row in one transaction.
func (r *TeacherRepository) Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error) {
	teacher := &models.Teacher{
		DNI:       input.DNI,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Name:      models.DisplayName(input.FirstName, input.LastName),
		Email:     input.Email,
		Specialty: input.Specialty,
	}
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userID, err := insertUser(ctx, tx, input.IdentityInput, models.RoleTeacher)
		if err != nil {
			return err
		}
		teacher.UserID = userID
		const query = `INSERT INTO docentes (usuario_id, especialidad) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, userID, input.Specialty).Scan(&teacher.ID); err != nil {
			return writeErr("create teacher", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

// Update applies identity and specialty changes, each only when one of its fields is set.
func (r *TeacherRepository) Update(ctx context.Context, id int64, patch models.TeacherPatch) (*models.Teacher, error) {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userID, err := ownerOf(ctx, tx, "docentes", id, "teacher")
		if err != nil {
			return err
		}
		if err := updateUser(ctx, tx, userID, patch.IdentityPatch); err != nil {
			return err
		}
		set := &setBuilder{}
		if patch.Specialty != nil {
			set.add("especialidad", *patch.Specialty)
		}
		return set.exec(ctx, tx, "docentes", id, "teacher")
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes the teacher and then its owning user.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	return deletePerson(ctx, r.db, "docentes", id, "teacher")
}
