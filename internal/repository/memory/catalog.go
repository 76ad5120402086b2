package memory

import (
	"context"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

// SubjectStore serves subjects from a Dataset.
type SubjectStore struct {
	ds *Dataset
}

// NewSubjectStore binds a subject store to ds.
func NewSubjectStore(ds *Dataset) *SubjectStore {
	return &SubjectStore{ds: ds}
}

func (s *state) decorateSubject(subject models.Subject) models.Subject {
	subject.TeacherName = s.teacherName(subject.TeacherID)
	return subject
}

func (st *SubjectStore) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0)
	st.ds.view(func(s *state) {
		rows := s.subjects.sorted(func(a, b models.Subject) bool {
			if a.Course != b.Course {
				return a.Course < b.Course
			}
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		for _, subject := range rows {
			if filter.Course != "" && subject.Course != filter.Course {
				continue
			}
			if filter.TeacherID != nil && (subject.TeacherID == nil || *subject.TeacherID != *filter.TeacherID) {
				continue
			}
			subjects = append(subjects, s.decorateSubject(subject))
		}
	})
	return subjects, nil
}

func (st *SubjectStore) Get(_ context.Context, id int64) (*models.Subject, error) {
	var (
		subject models.Subject
		ok      bool
	)
	st.ds.view(func(s *state) {
		subject, ok = s.subjects[id]
		subject = s.decorateSubject(subject)
	})
	if !ok {
		return nil, notFound("subject")
	}
	return &subject, nil
}

func (st *SubjectStore) Create(ctx context.Context, input models.SubjectInput) (*models.Subject, error) {
	var id int64
	err := st.ds.update(func(s *state, _ time.Time) error {
		if input.TeacherID != nil {
			if _, ok := s.teachers[*input.TeacherID]; !ok {
				return conflict("teacher %d does not exist", *input.TeacherID)
			}
		}
		id = s.subjects.nextID()
		s.subjects[id] = models.Subject{
			ID:          id,
			Name:        input.Name,
			Course:      input.Course,
			TeacherID:   input.TeacherID,
			Description: input.Description,
			WeeklyHours: input.WeeklyHours,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *SubjectStore) Update(ctx context.Context, id int64, patch models.SubjectPatch) (*models.Subject, error) {
	err := st.ds.update(func(s *state, _ time.Time) error {
		subject, ok := s.subjects[id]
		if !ok {
			return notFound("subject")
		}
		if patch.Name != nil {
			subject.Name = *patch.Name
		}
		if patch.Course != nil {
			subject.Course = *patch.Course
		}
		if patch.TeacherID != nil {
			if _, ok := s.teachers[*patch.TeacherID]; !ok {
				return conflict("teacher %d does not exist", *patch.TeacherID)
			}
			subject.TeacherID = patch.TeacherID
		}
		if patch.Description != nil {
			subject.Description = patch.Description
		}
		if patch.WeeklyHours != nil {
			subject.WeeklyHours = *patch.WeeklyHours
		}
		s.subjects[id] = subject
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

// Delete refuses to orphan sessions, grades or log entries of the subject.
func (st *SubjectStore) Delete(_ context.Context, id int64) error {
	return st.ds.update(func(s *state, _ time.Time) error {
		if _, ok := s.subjects[id]; !ok {
			return notFound("subject")
		}
		for _, session := range s.sessions {
			if session.SubjectID == id {
				return conflict("subject %d has attendance sessions", id)
			}
		}
		for _, g := range s.grades {
			if g.SubjectID == id {
				return conflict("subject %d has grades", id)
			}
		}
		for _, topic := range s.topics {
			if topic.SubjectID == id {
				return conflict("subject %d has log entries", id)
			}
		}
		delete(s.subjects, id)
		return nil
	})
}

// ClassroomStore serves classrooms from a Dataset.
type ClassroomStore struct {
	ds *Dataset
}

// NewClassroomStore binds a classroom store to ds.
func NewClassroomStore(ds *Dataset) *ClassroomStore {
	return &ClassroomStore{ds: ds}
}

func (st *ClassroomStore) List(_ context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	classrooms := make([]models.Classroom, 0)
	st.ds.view(func(s *state) {
		rows := s.classrooms.sorted(func(a, b models.Classroom) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		for _, classroom := range rows {
			if filter.Active != nil && classroom.Active != *filter.Active {
				continue
			}
			classrooms = append(classrooms, classroom)
		}
	})
	return classrooms, nil
}

func (st *ClassroomStore) Get(_ context.Context, id int64) (*models.Classroom, error) {
	var (
		classroom models.Classroom
		ok        bool
	)
	st.ds.view(func(s *state) { classroom, ok = s.classrooms[id] })
	if !ok {
		return nil, notFound("classroom")
	}
	return &classroom, nil
}

func (st *ClassroomStore) Create(ctx context.Context, input models.ClassroomInput) (*models.Classroom, error) {
	var id int64
	err := st.ds.update(func(s *state, _ time.Time) error {
		id = s.classrooms.nextID()
		s.classrooms[id] = models.Classroom{
			ID:        id,
			Name:      input.Name,
			Capacity:  input.Capacity,
			Location:  input.Location,
			Resources: input.Resources,
			Active:    input.Active,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *ClassroomStore) Update(ctx context.Context, id int64, patch models.ClassroomPatch) (*models.Classroom, error) {
	err := st.ds.update(func(s *state, _ time.Time) error {
		classroom, ok := s.classrooms[id]
		if !ok {
			return notFound("classroom")
		}
		if patch.Name != nil {
			classroom.Name = *patch.Name
		}
		if patch.Capacity != nil {
			classroom.Capacity = *patch.Capacity
		}
		if patch.Location != nil {
			classroom.Location = *patch.Location
		}
		if patch.Resources != nil {
			classroom.Resources = patch.Resources
		}
		if patch.Active != nil {
			classroom.Active = *patch.Active
		}
		s.classrooms[id] = classroom
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *ClassroomStore) Delete(_ context.Context, id int64) error {
	return st.ds.update(func(s *state, _ time.Time) error {
		if _, ok := s.classrooms[id]; !ok {
			return notFound("classroom")
		}
		delete(s.classrooms, id)
		return nil
	})
}
