// Package memory holds the in-process adapters used when no backend is configured.
// Every Dataset is an independent copy of its seed; stores built on the same Dataset
// share state, stores on different Datasets never do.
package memory

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

// StudentRow is the estudiantes row; identity lives on the owning user.
type StudentRow struct {
	ID     int64
	UserID int64
	Course string
}

// TeacherRow is the docentes row; identity lives on the owning user.
type TeacherRow struct {
	ID        int64
	UserID    int64
	Specialty string
}

// Seed is the initial content of a Dataset. Denormalised labels (names, subject titles)
// are ignored; they are resolved on read the way the backend joins them.
type Seed struct {
	Users      []models.User
	Students   []StudentRow
	Teachers   []TeacherRow
	Subjects   []models.Subject
	Classrooms []models.Classroom
	Sessions   []models.AttendanceSession
	Records    []models.AttendanceRecord
	Grades     []models.Grade
	Topics     []models.Topic
	Reports    []models.Report
	Templates  []models.ReportTemplate
}

type table[T any] map[int64]T

// nextID is max(id)+1 over the current rows.
func (t table[T]) nextID() int64 {
	var last int64
	for id := range t {
		if id > last {
			last = id
		}
	}
	return last + 1
}

// sorted returns the rows ordered by less.
func (t table[T]) sorted(less func(a, b T) bool) []T {
	rows := make([]T, 0, len(t))
	for _, row := range t {
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	return rows
}

func index[T any](rows []T, id func(T) int64) table[T] {
	t := make(table[T], len(rows))
	for _, row := range rows {
		t[id(row)] = row
	}
	return t
}

type state struct {
	users      table[models.User]
	students   table[StudentRow]
	teachers   table[TeacherRow]
	subjects   table[models.Subject]
	classrooms table[models.Classroom]
	sessions   table[models.AttendanceSession]
	records    table[models.AttendanceRecord]
	grades     table[models.Grade]
	topics     table[models.Topic]
	reports    table[models.Report]
	templates  table[models.ReportTemplate]
}

func (s state) clone() state {
	return state{
		users:      maps.Clone(s.users),
		students:   maps.Clone(s.students),
		teachers:   maps.Clone(s.teachers),
		subjects:   maps.Clone(s.subjects),
		classrooms: maps.Clone(s.classrooms),
		sessions:   maps.Clone(s.sessions),
		records:    maps.Clone(s.records),
		grades:     maps.Clone(s.grades),
		topics:     maps.Clone(s.topics),
		reports:    maps.Clone(s.reports),
		templates:  maps.Clone(s.templates),
	}
}

// Dataset is the guarded in-process database shared by the memory stores.
type Dataset struct {
	mu    sync.RWMutex
	state state
	now   func() time.Time
}

// NewDataset copies seed into a fresh, independent dataset.
func NewDataset(seed Seed) *Dataset {
	return &Dataset{
		state: state{
			users:      index(seed.Users, func(u models.User) int64 { return u.ID }),
			students:   index(seed.Students, func(s StudentRow) int64 { return s.ID }),
			teachers:   index(seed.Teachers, func(t TeacherRow) int64 { return t.ID }),
			subjects:   index(seed.Subjects, func(s models.Subject) int64 { return s.ID }),
			classrooms: index(seed.Classrooms, func(c models.Classroom) int64 { return c.ID }),
			sessions:   index(seed.Sessions, func(s models.AttendanceSession) int64 { return s.ID }),
			records:    index(seed.Records, func(r models.AttendanceRecord) int64 { return r.ID }),
			grades:     index(seed.Grades, func(g models.Grade) int64 { return g.ID }),
			topics:     index(seed.Topics, func(t models.Topic) int64 { return t.ID }),
			reports:    index(seed.Reports, func(r models.Report) int64 { return r.ID }),
			templates:  index(seed.Templates, func(t models.ReportTemplate) int64 { return t.ID }),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for timestamps written by the stores.
func (d *Dataset) SetClock(now func() time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
}

func (d *Dataset) view(fn func(st *state)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(&d.state)
}

// update runs fn against a copy of the state and publishes it only when fn succeeds,
// so a failing composite write leaves nothing behind.
func (d *Dataset) update(fn func(st *state, now time.Time) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.state.clone()
	if err := fn(&next, d.now()); err != nil {
		return err
	}
	d.state = next
	return nil
}

func notFound(label string) error {
	return appErrors.Clone(appErrors.ErrNotFound, label+" not found")
}

func conflict(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf(format, args...))
}

func (s *state) student(id int64) (models.Student, bool) {
	row, ok := s.students[id]
	if !ok {
		return models.Student{}, false
	}
	user := s.users[row.UserID]
	return models.Student{
		ID:        row.ID,
		UserID:    row.UserID,
		DNI:       user.DNI,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      models.DisplayName(user.FirstName, user.LastName),
		Email:     user.Email,
		Course:    row.Course,
	}, true
}

func (s *state) teacher(id int64) (models.Teacher, bool) {
	row, ok := s.teachers[id]
	if !ok {
		return models.Teacher{}, false
	}
	user := s.users[row.UserID]
	return models.Teacher{
		ID:        row.ID,
		UserID:    row.UserID,
		DNI:       user.DNI,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      models.DisplayName(user.FirstName, user.LastName),
		Email:     user.Email,
		Specialty: row.Specialty,
	}, true
}

func (s *state) teacherName(id *int64) *string {
	if id == nil {
		return nil
	}
	teacher, ok := s.teacher(*id)
	if !ok {
		return nil
	}
	return &teacher.Name
}

func (s *state) subjectName(id int64) *string {
	subject, ok := s.subjects[id]
	if !ok {
		return nil
	}
	name := subject.Name
	return &name
}

func (s *state) userName(id int64) string {
	user, ok := s.users[id]
	if !ok {
		return models.DisplayName("", "")
	}
	return models.DisplayName(user.FirstName, user.LastName)
}

// byName orders people the way the backend does: surname, given name, id.
func byName(aLast, aFirst string, aID int64, bLast, bFirst string, bID int64) bool {
	if aLast != bLast {
		return aLast < bLast
	}
	if aFirst != bFirst {
		return aFirst < bFirst
	}
	return aID < bID
}
