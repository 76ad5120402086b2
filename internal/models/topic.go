package models

import "time"

// TopicStatus tracks the lifecycle of a classroom-log entry.
type TopicStatus string

const (
	TopicPlanned     TopicStatus = "planned"
	TopicInProgress  TopicStatus = "in_progress"
	TopicCompleted   TopicStatus = "completed"
	TopicCancelled   TopicStatus = "cancelled"
	TopicRescheduled TopicStatus = "rescheduled"
)

// Valid returns true when the status is supported.
func (s TopicStatus) Valid() bool {
	switch s {
	case TopicPlanned, TopicInProgress, TopicCompleted, TopicCancelled, TopicRescheduled:
		return true
	default:
		return false
	}
}

// Topic is an entry of the class log book (libro_temas).
type Topic struct {
	ID             int64       `db:"id" json:"id"`
	Date           time.Time   `db:"fecha" json:"date"`
	Course         string      `db:"curso" json:"course"`
	SubjectID      int64       `db:"asignatura_id" json:"subject_id"`
	SubjectName    *string     `db:"asignatura_nombre" json:"subject_name"`
	TeacherID      int64       `db:"docente_id" json:"teacher_id"`
	TeacherName    *string     `db:"-" json:"teacher_name"`
	Topic          string      `db:"tema" json:"topic"`
	Content        string      `db:"contenido" json:"content"`
	Activity       string      `db:"actividad" json:"activity"`
	Resources      *string     `db:"recursos" json:"resources"`
	Homework       *string     `db:"tarea" json:"homework"`
	AssessmentNote *string     `db:"evaluacion" json:"assessment_note"`
	Observations   *string     `db:"observaciones" json:"observations"`
	Planned        bool        `db:"planificado" json:"planned"`
	Status         TopicStatus `db:"estado" json:"status"`
}

// TopicFilter scopes topic listings.
type TopicFilter struct {
	Course    string
	SubjectID *int64
	TeacherID *int64
	Status    *TopicStatus
	DateRange
}

// TopicInput creates a topic entry.
type TopicInput struct {
	Date           time.Time   `json:"date" validate:"required"`
	Course         string      `json:"course" validate:"required"`
	SubjectID      int64       `json:"subject_id" validate:"required,gt=0"`
	TeacherID      int64       `json:"teacher_id" validate:"required,gt=0"`
	Topic          string      `json:"topic" validate:"required"`
	Content        string      `json:"content"`
	Activity       string      `json:"activity"`
	Resources      *string     `json:"resources"`
	Homework       *string     `json:"homework"`
	AssessmentNote *string     `json:"assessment_note"`
	Observations   *string     `json:"observations"`
	Planned        bool        `json:"planned"`
	Status         TopicStatus `json:"status" validate:"omitempty,topic_status"`
}

// TopicPatch carries partial topic updates.
type TopicPatch struct {
	Date           *time.Time   `json:"date,omitempty"`
	Course         *string      `json:"course,omitempty"`
	SubjectID      *int64       `json:"subject_id,omitempty"`
	TeacherID      *int64       `json:"teacher_id,omitempty"`
	Topic          *string      `json:"topic,omitempty"`
	Content        *string      `json:"content,omitempty"`
	Activity       *string      `json:"activity,omitempty"`
	Resources      *string      `json:"resources,omitempty"`
	Homework       *string      `json:"homework,omitempty"`
	AssessmentNote *string      `json:"assessment_note,omitempty"`
	Observations   *string      `json:"observations,omitempty"`
	Planned        *bool        `json:"planned,omitempty"`
	Status         *TopicStatus `json:"status,omitempty" validate:"omitempty,topic_status"`
}
