package models

import "time"

// Period is an academic term used as the grading cadence.
type Period string

const (
	PeriodTerm1 Period = "term1"
	PeriodTerm2 Period = "term2"
	PeriodTerm3 Period = "term3"
)

// Valid returns true when the period is supported.
func (p Period) Valid() bool {
	switch p {
	case PeriodTerm1, PeriodTerm2, PeriodTerm3:
		return true
	default:
		return false
	}
}

// Grade is unique per (student, subject, period).
type Grade struct {
	ID          int64     `db:"id" json:"id"`
	StudentID   int64     `db:"estudiante_id" json:"student_id"`
	SubjectID   int64     `db:"asignatura_id" json:"subject_id"`
	SubjectName *string   `db:"asignatura_nombre" json:"subject_name"`
	Period      Period    `db:"periodo" json:"period"`
	Score       float64   `db:"nota" json:"score"`
	RecordedOn  time.Time `db:"fecha" json:"recorded_on"`
	Note        *string   `db:"observaciones" json:"note"`
}

// GradeFilter scopes grade listings.
type GradeFilter struct {
	StudentID *int64
	SubjectID *int64
}

// GradeInput is the natural-key upsert payload.
type GradeInput struct {
	StudentID int64   `json:"student_id" validate:"required,gt=0"`
	SubjectID int64   `json:"subject_id" validate:"required,gt=0"`
	Period    Period  `json:"period" validate:"required,grade_period"`
	Score     float64 `json:"score" validate:"gte=1,lte=10"`
	Note      *string `json:"note"`
}

// GradeKey identifies a grade by its natural key.
type GradeKey struct {
	StudentID int64  `json:"student_id"`
	SubjectID int64  `json:"subject_id"`
	Period    Period `json:"period"`
}

// Key returns the natural key of the grade.
func (g Grade) Key() GradeKey {
	return GradeKey{StudentID: g.StudentID, SubjectID: g.SubjectID, Period: g.Period}
}

// Key returns the natural key of the input.
func (in GradeInput) Key() GradeKey {
	return GradeKey{StudentID: in.StudentID, SubjectID: in.SubjectID, Period: in.Period}
}

// CourseGradeRow is a raw student/grade left-join row; Period and Score are nil when the
// student has no grade for the subject.
type CourseGradeRow struct {
	StudentID int64    `db:"estudiante_id"`
	FirstName string   `db:"nombre"`
	LastName  string   `db:"apellido"`
	Period    *Period  `db:"periodo"`
	Score     *float64 `db:"nota"`
}

// StudentGradeSummary is a student's per-term grades with the derived average.
type StudentGradeSummary struct {
	StudentID   int64    `json:"student_id"`
	StudentName string   `json:"student_name"`
	Term1       *float64 `json:"term1"`
	Term2       *float64 `json:"term2"`
	Term3       *float64 `json:"term3"`
	Average     *float64 `json:"average"`
}

// BulkOperationMode controls how batch writes behave on errors.
type BulkOperationMode string

const (
	BulkModeAtomic         BulkOperationMode = "atomic"
	BulkModePartialOnError BulkOperationMode = "partialOnError"
)

// GradeBatchFailure reports a batch entry that was not saved.
type GradeBatchFailure struct {
	GradeKey
	Reason string `json:"reason"`
}

// GradeBatchResult reports which keys were saved and which failed.
type GradeBatchResult struct {
	Saved    []GradeKey          `json:"saved"`
	Failures []GradeBatchFailure `json:"failures"`
}
