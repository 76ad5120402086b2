package models

// Student is the flattened roster entry for a learner.
type Student struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"usuario_id" json:"user_id"`
	DNI       string `db:"dni" json:"dni"`
	FirstName string `db:"nombre" json:"first_name"`
	LastName  string `db:"apellido" json:"last_name"`
	Name      string `db:"-" json:"name"`
	Email     string `db:"email" json:"email"`
	Course    string `db:"curso" json:"course"`
}

// StudentFilter scopes student listings.
type StudentFilter struct {
	Course string
	ID     *int64
}

// StudentInput is the payload used to register a student.
type StudentInput struct {
	IdentityInput
	Course string `json:"course" validate:"required"`
}

// StudentPatch carries partial student updates.
type StudentPatch struct {
	IdentityPatch
	Course *string `json:"course,omitempty"`
}
