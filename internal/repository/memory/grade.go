package memory

import (
	"context"
	"sort"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

// GradeStore serves grades from a Dataset.
type GradeStore struct {
	ds *Dataset
}

// NewGradeStore binds a grade store to ds.
func NewGradeStore(ds *Dataset) *GradeStore {
	return &GradeStore{ds: ds}
}

func (s *state) decorateGrade(grade models.Grade) models.Grade {
	grade.SubjectName = s.subjectName(grade.SubjectID)
	return grade
}

func (st *GradeStore) List(_ context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	grades := make([]models.Grade, 0)
	st.ds.view(func(s *state) {
		rows := s.grades.sorted(func(a, b models.Grade) bool {
			if a.SubjectID != b.SubjectID {
				return a.SubjectID < b.SubjectID
			}
			if a.Period != b.Period {
				return a.Period < b.Period
			}
			return a.ID < b.ID
		})
		for _, grade := range rows {
			if filter.StudentID != nil && grade.StudentID != *filter.StudentID {
				continue
			}
			if filter.SubjectID != nil && grade.SubjectID != *filter.SubjectID {
				continue
			}
			grades = append(grades, s.decorateGrade(grade))
		}
	})
	return grades, nil
}

// CourseGrades pairs every student of the course with their grades for the subject;
// a student without grades yields one row with nil period and score.
func (st *GradeStore) CourseGrades(_ context.Context, course string, subjectID int64) ([]models.CourseGradeRow, error) {
	rows := make([]models.CourseGradeRow, 0)
	st.ds.view(func(s *state) {
		students := make([]models.Student, 0)
		for id, row := range s.students {
			if row.Course != course {
				continue
			}
			student, _ := s.student(id)
			students = append(students, student)
		}
		sort.Slice(students, func(i, j int) bool {
			a, b := students[i], students[j]
			return byName(a.LastName, a.FirstName, a.ID, b.LastName, b.FirstName, b.ID)
		})

		grades := s.grades.sorted(func(a, b models.Grade) bool { return a.Period < b.Period })
		for _, student := range students {
			matched := false
			for _, grade := range grades {
				if grade.StudentID != student.ID || grade.SubjectID != subjectID {
					continue
				}
				period, score := grade.Period, grade.Score
				rows = append(rows, models.CourseGradeRow{
					StudentID: student.ID,
					FirstName: student.FirstName,
					LastName:  student.LastName,
					Period:    &period,
					Score:     &score,
				})
				matched = true
			}
			if !matched {
				rows = append(rows, models.CourseGradeRow{StudentID: student.ID, FirstName: student.FirstName, LastName: student.LastName})
			}
		}
	})
	return rows, nil
}

// save upserts one grade by its natural key and returns its id.
func (s *state) saveGrade(input models.GradeInput, now time.Time) (int64, error) {
	if _, ok := s.students[input.StudentID]; !ok {
		return 0, conflict("student %d does not exist", input.StudentID)
	}
	if _, ok := s.subjects[input.SubjectID]; !ok {
		return 0, conflict("subject %d does not exist", input.SubjectID)
	}
	recordedOn := models.TruncateDate(now)
	for id, grade := range s.grades {
		if grade.Key() == input.Key() {
			grade.Score = input.Score
			grade.Note = input.Note
			grade.RecordedOn = recordedOn
			s.grades[id] = grade
			return id, nil
		}
	}
	id := s.grades.nextID()
	s.grades[id] = models.Grade{
		ID:         id,
		StudentID:  input.StudentID,
		SubjectID:  input.SubjectID,
		Period:     input.Period,
		Score:      input.Score,
		RecordedOn: recordedOn,
		Note:       input.Note,
	}
	return id, nil
}

func (st *GradeStore) Save(_ context.Context, input models.GradeInput) (*models.Grade, error) {
	var grade models.Grade
	err := st.ds.update(func(s *state, now time.Time) error {
		id, err := s.saveGrade(input, now)
		if err != nil {
			return err
		}
		grade = s.decorateGrade(s.grades[id])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

// SaveBatch saves all entries or none of them.
func (st *GradeStore) SaveBatch(_ context.Context, inputs []models.GradeInput) ([]models.Grade, error) {
	saved := make([]models.Grade, 0, len(inputs))
	err := st.ds.update(func(s *state, now time.Time) error {
		for _, input := range inputs {
			id, err := s.saveGrade(input, now)
			if err != nil {
				return err
			}
			saved = append(saved, s.decorateGrade(s.grades[id]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
