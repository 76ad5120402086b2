package models

import "time"

// ReportStatus tracks the review workflow of a pedagogical report.
type ReportStatus string

const (
	ReportDraft       ReportStatus = "draft"
	ReportUnderReview ReportStatus = "under_review"
	ReportFinalized   ReportStatus = "finalized"
)

// Valid returns true when the status is supported.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportDraft, ReportUnderReview, ReportFinalized:
		return true
	default:
		return false
	}
}

// Report is a pedagogical report about a student (informes_pedagogicos).
type Report struct {
	ID            int64        `db:"id" json:"id"`
	StudentID     int64        `db:"estudiante_id" json:"student_id"`
	StudentName   string       `db:"-" json:"student_name"`
	StudentCourse string       `db:"estudiante_curso" json:"student_course"`
	AuthorID      int64        `db:"autor_id" json:"author_id"`
	AuthorName    string       `db:"-" json:"author_name"`
	ReportType    string       `db:"tipo" json:"report_type"`
	Period        string       `db:"periodo" json:"period"`
	Title         string       `db:"titulo" json:"title"`
	Content       string       `db:"contenido" json:"content"`
	Observations  *string      `db:"observaciones" json:"observations"`
	TemplateID    *int64       `db:"plantilla_id" json:"template_id"`
	Status        ReportStatus `db:"estado" json:"status"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// ReportFilter scopes report listings.
type ReportFilter struct {
	StudentID  *int64
	AuthorID   *int64
	ReportType string
	Period     string
	Status     *ReportStatus
}

// ReportInput creates a report.
type ReportInput struct {
	StudentID    int64        `json:"student_id" validate:"required,gt=0"`
	AuthorID     int64        `json:"author_id" validate:"required,gt=0"`
	ReportType   string       `json:"report_type" validate:"required"`
	Period       string       `json:"period" validate:"required"`
	Title        string       `json:"title" validate:"required"`
	Content      string       `json:"content"`
	Observations *string      `json:"observations"`
	TemplateID   *int64       `json:"template_id"`
	Status       ReportStatus `json:"status" validate:"omitempty,report_status"`
}

// ReportPatch carries partial report updates.
type ReportPatch struct {
	ReportType   *string       `json:"report_type,omitempty"`
	Period       *string       `json:"period,omitempty"`
	Title        *string       `json:"title,omitempty"`
	Content      *string       `json:"content,omitempty"`
	Observations *string       `json:"observations,omitempty"`
	TemplateID   *int64        `json:"template_id,omitempty"`
	Status       *ReportStatus `json:"status,omitempty" validate:"omitempty,report_status"`
}

// ReportTemplate is a reusable skeleton for reports (plantillas_informes).
type ReportTemplate struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"nombre" json:"name"`
	ReportType string `db:"tipo" json:"report_type"`
	Content    string `db:"contenido" json:"content"`
	Active     bool   `db:"activa" json:"active"`
}
