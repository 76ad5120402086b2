package memory

import (
	"context"
	"sort"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

// identityTaken mirrors the unique dni and email columns of usuarios; except is the row being
// updated.
func (s *state) identityTaken(dni, email *string, except int64) error {
	for id, user := range s.users {
		if id == except {
			continue
		}
		if dni != nil && user.DNI == *dni {
			return conflict("dni %s already registered", *dni)
		}
		if email != nil && user.Email == *email {
			return conflict("email %s already registered", *email)
		}
	}
	return nil
}

func (s *state) insertUser(in models.IdentityInput, role models.UserRole) (int64, error) {
	if err := s.identityTaken(&in.DNI, &in.Email, 0); err != nil {
		return 0, err
	}
	id := s.users.nextID()
	s.users[id] = models.User{
		ID:        id,
		DNI:       in.DNI,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      role,
	}
	return id, nil
}

func (s *state) patchUser(id int64, patch models.IdentityPatch) error {
	if err := s.identityTaken(patch.DNI, patch.Email, id); err != nil {
		return err
	}
	user := s.users[id]
	if patch.DNI != nil {
		user.DNI = *patch.DNI
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	s.users[id] = user
	return nil
}

// StudentStore serves students from a Dataset.
type StudentStore struct {
	ds *Dataset
}

// NewStudentStore binds a student store to ds.
func NewStudentStore(ds *Dataset) *StudentStore {
	return &StudentStore{ds: ds}
}

func (st *StudentStore) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students := make([]models.Student, 0)
	st.ds.view(func(s *state) {
		for id := range s.students {
			student, _ := s.student(id)
			if filter.Course != "" && student.Course != filter.Course {
				continue
			}
			if filter.ID != nil && student.ID != *filter.ID {
				continue
			}
			students = append(students, student)
		}
	})
	sort.Slice(students, func(i, j int) bool {
		a, b := students[i], students[j]
		return byName(a.LastName, a.FirstName, a.ID, b.LastName, b.FirstName, b.ID)
	})
	return students, nil
}

func (st *StudentStore) Get(_ context.Context, id int64) (*models.Student, error) {
	var (
		student models.Student
		ok      bool
	)
	st.ds.view(func(s *state) { student, ok = s.student(id) })
	if !ok {
		return nil, notFound("student")
	}
	return &student, nil
}

// Create adds the owning user and the student row together.
func (st *StudentStore) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	var id int64
	err := st.ds.update(func(s *state, _ time.Time) error {
		userID, err := s.insertUser(input.IdentityInput, models.RoleStudent)
		if err != nil {
			return err
		}
		id = s.students.nextID()
		s.students[id] = StudentRow{ID: id, UserID: userID, Course: input.Course}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *StudentStore) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	err := st.ds.update(func(s *state, _ time.Time) error {
		row, ok := s.students[id]
		if !ok {
			return notFound("student")
		}
		if err := s.patchUser(row.UserID, patch.IdentityPatch); err != nil {
			return err
		}
		if patch.Course != nil {
			row.Course = *patch.Course
		}
		s.students[id] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

// Delete refuses to orphan attendance records, grades or reports.
func (st *StudentStore) Delete(_ context.Context, id int64) error {
	return st.ds.update(func(s *state, _ time.Time) error {
		row, ok := s.students[id]
		if !ok {
			return notFound("student")
		}
		for _, r := range s.records {
			if r.StudentID == id {
				return conflict("student %d has attendance records", id)
			}
		}
		for _, g := range s.grades {
			if g.StudentID == id {
				return conflict("student %d has grades", id)
			}
		}
		for _, r := range s.reports {
			if r.StudentID == id {
				return conflict("student %d has reports", id)
			}
		}
		delete(s.students, id)
		delete(s.users, row.UserID)
		return nil
	})
}

// TeacherStore serves teachers from a Dataset.
type TeacherStore struct {
	ds *Dataset
}

// NewTeacherStore binds a teacher store to ds.
func NewTeacherStore(ds *Dataset) *TeacherStore {
	return &TeacherStore{ds: ds}
}

func (st *TeacherStore) List(_ context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	teachers := make([]models.Teacher, 0)
	st.ds.view(func(s *state) {
		for id := range s.teachers {
			if filter.ID != nil && id != *filter.ID {
				continue
			}
			teacher, _ := s.teacher(id)
			teachers = append(teachers, teacher)
		}
	})
	sort.Slice(teachers, func(i, j int) bool {
		a, b := teachers[i], teachers[j]
		return byName(a.LastName, a.FirstName, a.ID, b.LastName, b.FirstName, b.ID)
	})
	return teachers, nil
}

func (st *TeacherStore) Get(_ context.Context, id int64) (*models.Teacher, error) {
	var (
		teacher models.Teacher
		ok      bool
	)
	st.ds.view(func(s *state) { teacher, ok = s.teacher(id) })
	if !ok {
		return nil, notFound("teacher")
	}
	return &teacher, nil
}

func (st *TeacherStore) Create(ctx context.Context, input models.TeacherInput) (*models.Teacher, error) {
	var id int64
	err := st.ds.update(func(s *state, _ time.Time) error {
		userID, err := s.insertUser(input.IdentityInput, models.RoleTeacher)
		if err != nil {
			return err
		}
		id = s.teachers.nextID()
		s.teachers[id] = TeacherRow{ID: id, UserID: userID, Specialty: input.Specialty}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *TeacherStore) Update(ctx context.Context, id int64, patch models.TeacherPatch) (*models.Teacher, error) {
	err := st.ds.update(func(s *state, _ time.Time) error {
		row, ok := s.teachers[id]
		if !ok {
			return notFound("teacher")
		}
		if err := s.patchUser(row.UserID, patch.IdentityPatch); err != nil {
			return err
		}
		if patch.Specialty != nil {
			row.Specialty = *patch.Specialty
		}
		s.teachers[id] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

// Delete refuses to orphan subjects, sessions or log entries taught by the teacher.
func (st *TeacherStore) Delete(_ context.Context, id int64) error {
	return st.ds.update(func(s *state, _ time.Time) error {
		row, ok := s.teachers[id]
		if !ok {
			return notFound("teacher")
		}
		for _, sub := range s.subjects {
			if sub.TeacherID != nil && *sub.TeacherID == id {
				return conflict("teacher %d is assigned to subject %d", id, sub.ID)
			}
		}
		for _, session := range s.sessions {
			if session.TeacherID == id {
				return conflict("teacher %d has attendance sessions", id)
			}
		}
		for _, topic := range s.topics {
			if topic.TeacherID == id {
				return conflict("teacher %d has log entries", id)
			}
		}
		for _, r := range s.reports {
			if r.AuthorID == row.UserID {
				return conflict("teacher %d authored reports", id)
			}
		}
		delete(s.teachers, id)
		delete(s.users, row.UserID)
		return nil
	})
}
