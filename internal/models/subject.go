package models

// Subject belongs to one course and optionally to a teacher.
type Subject struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"nombre" json:"name"`
	Course      string  `db:"curso" json:"course"`
	TeacherID   *int64  `db:"docente_id" json:"teacher_id"`
	TeacherName *string `db:"-" json:"teacher_name"`
	Description *string `db:"descripcion" json:"description"`
	WeeklyHours int     `db:"carga_horaria" json:"weekly_hours"`
}

// SubjectFilter scopes subject listings.
type SubjectFilter struct {
	Course    string
	TeacherID *int64
}

// SubjectInput creates a subject.
type SubjectInput struct {
	Name        string  `json:"name" validate:"required"`
	Course      string  `json:"course" validate:"required"`
	TeacherID   *int64  `json:"teacher_id"`
	Description *string `json:"description"`
	WeeklyHours int     `json:"weekly_hours" validate:"gte=0"`
}

// SubjectPatch carries partial subject updates.
type SubjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Course      *string `json:"course,omitempty"`
	TeacherID   *int64  `json:"teacher_id,omitempty"`
	Description *string `json:"description,omitempty"`
	WeeklyHours *int    `json:"weekly_hours,omitempty" validate:"omitempty,gte=0"`
}
