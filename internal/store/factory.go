package store

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/repository"
	"github.com/noah-isme/escuela-api/internal/repository/memory"
	"github.com/noah-isme/escuela-api/pkg/database"
)

// New selects the adapter family from the connector: live when the backend is configured,
// otherwise the seeded in-process dataset.
func New(conn *database.Connector, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if conn.IsConfigured() {
		logger.Info("store bound to live backend")
		return NewLive(conn.DB())
	}
	logger.Warn("backend not configured, serving fixture data from the in-memory dataset")
	return NewMemory(memory.NewDataset(memory.Fixtures()))
}

// NewLive binds every capability to the sqlx repositories.
func NewLive(db *sqlx.DB) *Store {
	return &Store{
		Students:   repository.NewStudentRepository(db),
		Teachers:   repository.NewTeacherRepository(db),
		Subjects:   repository.NewSubjectRepository(db),
		Classrooms: repository.NewClassroomRepository(db),
		Attendance: repository.NewAttendanceRepository(db),
		Grades:     repository.NewGradeRepository(db),
		Topics:     repository.NewTopicRepository(db),
		Reports:    repository.NewReportRepository(db),
		mode:       ModeLive,
	}
}

// NewMemory binds every capability to the given dataset.
func NewMemory(ds *memory.Dataset) *Store {
	return &Store{
		Students:   memory.NewStudentStore(ds),
		Teachers:   memory.NewTeacherStore(ds),
		Subjects:   memory.NewSubjectStore(ds),
		Classrooms: memory.NewClassroomStore(ds),
		Attendance: memory.NewAttendanceStore(ds),
		Grades:     memory.NewGradeStore(ds),
		Topics:     memory.NewTopicStore(ds),
		Reports:    memory.NewReportStore(ds),
		mode:       ModeMock,
	}
}
