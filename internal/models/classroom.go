package models

// Classroom is a physical room; it has no links to academic records.
type Classroom struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"nombre" json:"name"`
	Capacity  int     `db:"capacidad" json:"capacity"`
	Location  string  `db:"ubicacion" json:"location"`
	Resources *string `db:"recursos" json:"resources"`
	Active    bool    `db:"activa" json:"active"`
}

// ClassroomFilter scopes classroom listings.
type ClassroomFilter struct {
	Active *bool
}

// ClassroomInput creates a classroom.
type ClassroomInput struct {
	Name      string  `json:"name" validate:"required"`
	Capacity  int     `json:"capacity" validate:"gte=0"`
	Location  string  `json:"location"`
	Resources *string `json:"resources"`
	Active    bool    `json:"active"`
}

// ClassroomPatch carries partial classroom updates.
type ClassroomPatch struct {
	Name      *string `json:"name,omitempty"`
	Capacity  *int    `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	Location  *string `json:"location,omitempty"`
	Resources *string `json:"resources,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}
