// Package store binds every academic capability to either the live backend or the
// in-process dataset. The binding is chosen once, when the Store is built.
package store

import (
	"context"

	"github.com/noah-isme/escuela-api/internal/models"
)

// Mode names the adapter family a Store is bound to.
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// StudentStore persists students together with their owning user.
type StudentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, input models.StudentInput) (*models.Student, error)
	Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// TeacherStore persists teachers together with their owning user.
type TeacherStore interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	Get(ctx context.Context, id int64) (*models.Teacher, error)
	Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error)
	Update(ctx context.Context, id int64, patch models.TeacherPatch) (*models.Teacher, error)
	Delete(ctx context.Context, id int64) error
}

// SubjectStore persists subjects.
type SubjectStore interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	Get(ctx context.Context, id int64) (*models.Subject, error)
	Create(ctx context.Context, input models.SubjectInput) (*models.Subject, error)
	Update(ctx context.Context, id int64, patch models.SubjectPatch) (*models.Subject, error)
	Delete(ctx context.Context, id int64) error
}

// ClassroomStore persists classrooms.
type ClassroomStore interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error)
	Get(ctx context.Context, id int64) (*models.Classroom, error)
	Create(ctx context.Context, input models.ClassroomInput) (*models.Classroom, error)
	Update(ctx context.Context, id int64, patch models.ClassroomPatch) (*models.Classroom, error)
	Delete(ctx context.Context, id int64) error
}

// AttendanceStore persists sessions and their per-student records.
type AttendanceStore interface {
	SaveSession(ctx context.Context, input models.AttendanceSessionInput) (*models.AttendanceSession, error)
	GetSession(ctx context.Context, id int64) (*models.AttendanceSession, error)
	History(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceHistoryRow, error)
	Details(ctx context.Context, sessionID int64) ([]models.AttendanceRecord, error)
	StudentStatuses(ctx context.Context, studentID int64, period models.DateRange) ([]models.AttendanceStatus, error)
}

// GradeStore persists grades keyed by (student, subject, period).
type GradeStore interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	CourseGrades(ctx context.Context, course string, subjectID int64) ([]models.CourseGradeRow, error)
	Save(ctx context.Context, input models.GradeInput) (*models.Grade, error)
	SaveBatch(ctx context.Context, inputs []models.GradeInput) ([]models.Grade, error)
}

// TopicStore persists class log entries.
type TopicStore interface {
	List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error)
	Get(ctx context.Context, id int64) (*models.Topic, error)
	Create(ctx context.Context, input models.TopicInput) (*models.Topic, error)
	Update(ctx context.Context, id int64, patch models.TopicPatch) (*models.Topic, error)
	Delete(ctx context.Context, id int64) error
}

// ReportStore persists pedagogical reports and reads their templates.
type ReportStore interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Get(ctx context.Context, id int64) (*models.Report, error)
	Create(ctx context.Context, input models.ReportInput) (*models.Report, error)
	Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.Report, error)
	Delete(ctx context.Context, id int64) error
	Templates(ctx context.Context) ([]models.ReportTemplate, error)
}

// Store is the bound set of adapters handed to the services.
type Store struct {
	Students   StudentStore
	Teachers   TeacherStore
	Subjects   SubjectStore
	Classrooms ClassroomStore
	Attendance AttendanceStore
	Grades     GradeStore
	Topics     TopicStore
	Reports    ReportStore

	mode Mode
}

// Mode reports which adapter family the store is bound to.
func (s *Store) Mode() Mode {
	return s.mode
}
