package models

import "time"

// AttendanceStatus is the outcome recorded for one student in a session.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "present"
	AttendanceAbsent    AttendanceStatus = "absent"
	AttendanceLate      AttendanceStatus = "late"
	AttendanceDismissed AttendanceStatus = "dismissed"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceDismissed:
		return true
	default:
		return false
	}
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// AttendanceSession is one taking of attendance (asistencias).
type AttendanceSession struct {
	ID          int64     `db:"id" json:"id"`
	Date        time.Time `db:"fecha" json:"date"`
	TeacherID   int64     `db:"docente_id" json:"teacher_id"`
	SubjectID   int64     `db:"asignatura_id" json:"subject_id"`
	Course      string    `db:"curso" json:"course"`
	SubjectName *string   `db:"asignatura_nombre" json:"subject_name"`
	TeacherName *string   `db:"-" json:"teacher_name"`
}

// AttendanceRecord is one student's row inside a session (asistencias_detalle).
type AttendanceRecord struct {
	ID          int64            `db:"id" json:"id"`
	SessionID   int64            `db:"asistencia_id" json:"session_id"`
	StudentID   int64            `db:"estudiante_id" json:"student_id"`
	StudentName string           `db:"-" json:"student_name"`
	Status      AttendanceStatus `db:"estado" json:"status"`
	RecordedAt  time.Time        `db:"hora_registro" json:"recorded_at"`
	Note        *string          `db:"observacion" json:"note"`
}

// AttendanceDetailInput is one student's entry when saving a session.
type AttendanceDetailInput struct {
	StudentID int64            `json:"student_id" validate:"required,gt=0"`
	Status    AttendanceStatus `json:"status" validate:"required,attendance_status"`
	Note      *string          `json:"note"`
}

// AttendanceSessionInput saves a whole session with its details.
type AttendanceSessionInput struct {
	Date      time.Time
	TeacherID int64
	SubjectID int64
	Course    string
	Details   []AttendanceDetailInput
}

// DateRange is an inclusive [From, To] calendar range; nil bounds are open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether the day of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := TruncateDate(t)
	if r.From != nil && day.Before(TruncateDate(*r.From)) {
		return false
	}
	if r.To != nil && day.After(TruncateDate(*r.To)) {
		return false
	}
	return true
}

// TruncateDate drops the clock part of t, keeping its calendar day in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AttendanceFilter composes history/report predicates with AND semantics.
type AttendanceFilter struct {
	Course    string
	SubjectID *int64
	TeacherID *int64
	DateRange
}

// AttendanceHistoryRow is a raw session/record join row; Status is nil for sessions without records.
type AttendanceHistoryRow struct {
	AttendanceSession
	Status *AttendanceStatus `db:"estado"`
}

// AttendanceCounts tallies records by status.
type AttendanceCounts struct {
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	Late      int `json:"late"`
	Dismissed int `json:"dismissed"`
}

// Total is the sum of every status count.
func (c AttendanceCounts) Total() int {
	return c.Present + c.Absent + c.Late + c.Dismissed
}

// AttendanceStats summarises one student's attendance over a range.
type AttendanceStats struct {
	StudentID int64 `json:"student_id"`
	AttendanceCounts
	Total          int     `json:"total"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// AttendanceSessionSummary is one history row: a session with its counts.
type AttendanceSessionSummary struct {
	AttendanceSession
	AttendanceCounts
	Total int `json:"total"`
}

// AttendanceReport aggregates the sessions matching a filter.
type AttendanceReport struct {
	Sessions       []AttendanceSessionSummary `json:"sessions"`
	Totals         AttendanceCounts           `json:"totals"`
	Total          int                        `json:"total"`
	AttendanceRate float64                    `json:"attendance_rate"`
}
