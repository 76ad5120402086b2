package models

// Teacher is the flattened roster entry for an instructor.
type Teacher struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"usuario_id" json:"user_id"`
	DNI       string `db:"dni" json:"dni"`
	FirstName string `db:"nombre" json:"first_name"`
	LastName  string `db:"apellido" json:"last_name"`
	Name      string `db:"-" json:"name"`
	Email     string `db:"email" json:"email"`
	Specialty string `db:"especialidad" json:"specialty"`
}

// TeacherFilter scopes teacher listings.
type TeacherFilter struct {
	ID *int64
}

// TeacherInput is the payload used to register a teacher.
type TeacherInput struct {
	IdentityInput
	Specialty string `json:"specialty"`
}

// TeacherPatch carries partial teacher updates.
type TeacherPatch struct {
	IdentityPatch
	Specialty *string `json:"specialty,omitempty"`
}
