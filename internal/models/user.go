package models

import "fmt"

// UserRole represents the role stored on a usuarios row.
type UserRole string

const (
	RoleStudent       UserRole = "student"
	RoleTeacher       UserRole = "teacher"
	RoleDirector      UserRole = "director"
	RoleAdministrator UserRole = "administrator"
)

// Valid reports whether the role is supported.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleDirector, RoleAdministrator:
		return true
	default:
		return false
	}
}

// User is the identity record owned by the backend.
type User struct {
	ID        int64    `db:"id" json:"id"`
	DNI       string   `db:"dni" json:"dni"`
	FirstName string   `db:"nombre" json:"first_name"`
	LastName  string   `db:"apellido" json:"last_name"`
	Email     string   `db:"email" json:"email"`
	Role      UserRole `db:"rol" json:"role"`
}

// DisplayName renders "{apellido}, {nombre}" as shown in rosters.
func DisplayName(firstName, lastName string) string {
	return fmt.Sprintf("%s, %s", lastName, firstName)
}

// IdentityInput holds the identity fields used when creating a person.
type IdentityInput struct {
	DNI       string `json:"dni" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// IdentityPatch holds optional identity updates.
type IdentityPatch struct {
	DNI       *string `json:"dni,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Empty reports whether no identity field is set.
func (p IdentityPatch) Empty() bool {
	return p.DNI == nil && p.FirstName == nil && p.LastName == nil && p.Email == nil
}
