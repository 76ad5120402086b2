package memory

import (
	"context"
	"sort"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

// AttendanceStore serves attendance sessions and records from a Dataset.
type AttendanceStore struct {
	ds *Dataset
}

// NewAttendanceStore binds an attendance store to ds.
func NewAttendanceStore(ds *Dataset) *AttendanceStore {
	return &AttendanceStore{ds: ds}
}

func (s *state) decorateSession(session models.AttendanceSession) models.AttendanceSession {
	session.SubjectName = s.subjectName(session.SubjectID)
	session.TeacherName = s.teacherName(&session.TeacherID)
	return session
}

func (s *state) findSession(date time.Time, teacherID, subjectID int64, course string) (int64, bool) {
	for id, session := range s.sessions {
		if session.Date.Equal(date) && session.TeacherID == teacherID && session.SubjectID == subjectID && session.Course == course {
			return id, true
		}
	}
	return 0, false
}

// SaveSession reuses the session matching (date, teacher, subject, course) and upserts
// one record per student. Unknown references abort the whole save.
func (st *AttendanceStore) SaveSession(ctx context.Context, input models.AttendanceSessionInput) (*models.AttendanceSession, error) {
	date := models.TruncateDate(input.Date)
	var sessionID int64
	err := st.ds.update(func(s *state, now time.Time) error {
		if _, ok := s.teachers[input.TeacherID]; !ok {
			return conflict("teacher %d does not exist", input.TeacherID)
		}
		if _, ok := s.subjects[input.SubjectID]; !ok {
			return conflict("subject %d does not exist", input.SubjectID)
		}
		id, ok := s.findSession(date, input.TeacherID, input.SubjectID, input.Course)
		if !ok {
			id = s.sessions.nextID()
			s.sessions[id] = models.AttendanceSession{
				ID:        id,
				Date:      date,
				TeacherID: input.TeacherID,
				SubjectID: input.SubjectID,
				Course:    input.Course,
			}
		}
		sessionID = id

		for _, detail := range input.Details {
			if _, ok := s.students[detail.StudentID]; !ok {
				return conflict("student %d does not exist", detail.StudentID)
			}
			record := models.AttendanceRecord{
				SessionID:  sessionID,
				StudentID:  detail.StudentID,
				Status:     detail.Status,
				RecordedAt: now,
				Note:       detail.Note,
			}
			record.ID = s.recordID(sessionID, detail.StudentID)
			s.records[record.ID] = record
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.GetSession(ctx, sessionID)
}

// recordID returns the id of the existing (session, student) record or a fresh one.
func (s *state) recordID(sessionID, studentID int64) int64 {
	for id, record := range s.records {
		if record.SessionID == sessionID && record.StudentID == studentID {
			return id
		}
	}
	return s.records.nextID()
}

func (st *AttendanceStore) GetSession(_ context.Context, id int64) (*models.AttendanceSession, error) {
	var (
		session models.AttendanceSession
		ok      bool
	)
	st.ds.view(func(s *state) {
		session, ok = s.sessions[id]
		session = s.decorateSession(session)
	})
	if !ok {
		return nil, notFound("attendance session")
	}
	return &session, nil
}

func matchesAttendance(session models.AttendanceSession, filter models.AttendanceFilter) bool {
	if filter.Course != "" && session.Course != filter.Course {
		return false
	}
	if filter.SubjectID != nil && session.SubjectID != *filter.SubjectID {
		return false
	}
	if filter.TeacherID != nil && session.TeacherID != *filter.TeacherID {
		return false
	}
	return filter.DateRange.Contains(session.Date)
}

func (s *state) sessionRecords(sessionID int64) []models.AttendanceRecord {
	records := make([]models.AttendanceRecord, 0)
	for _, record := range s.records {
		if record.SessionID == sessionID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// History yields one row per (session, record), newest sessions first; sessions without
// records contribute a single row with a nil status.
func (st *AttendanceStore) History(_ context.Context, filter models.AttendanceFilter) ([]models.AttendanceHistoryRow, error) {
	history := make([]models.AttendanceHistoryRow, 0)
	st.ds.view(func(s *state) {
		sessions := s.sessions.sorted(func(a, b models.AttendanceSession) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.ID > b.ID
		})
		for _, session := range sessions {
			if !matchesAttendance(session, filter) {
				continue
			}
			session = s.decorateSession(session)
			records := s.sessionRecords(session.ID)
			if len(records) == 0 {
				history = append(history, models.AttendanceHistoryRow{AttendanceSession: session})
				continue
			}
			for _, record := range records {
				status := record.Status
				history = append(history, models.AttendanceHistoryRow{AttendanceSession: session, Status: &status})
			}
		}
	})
	return history, nil
}

func (st *AttendanceStore) Details(_ context.Context, sessionID int64) ([]models.AttendanceRecord, error) {
	type named struct {
		models.AttendanceRecord
		first, last string
	}
	var rows []named
	st.ds.view(func(s *state) {
		for _, record := range s.sessionRecords(sessionID) {
			student, _ := s.student(record.StudentID)
			record.StudentName = student.Name
			rows = append(rows, named{AttendanceRecord: record, first: student.FirstName, last: student.LastName})
		}
	})
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		return byName(a.last, a.first, a.ID, b.last, b.first, b.ID)
	})
	records := make([]models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.AttendanceRecord)
	}
	return records, nil
}

// StudentStatuses restricts by the date of the owning session.
func (st *AttendanceStore) StudentStatuses(_ context.Context, studentID int64, period models.DateRange) ([]models.AttendanceStatus, error) {
	statuses := make([]models.AttendanceStatus, 0)
	st.ds.view(func(s *state) {
		records := s.records.sorted(func(a, b models.AttendanceRecord) bool { return a.ID < b.ID })
		for _, record := range records {
			if record.StudentID != studentID {
				continue
			}
			session, ok := s.sessions[record.SessionID]
			if !ok || !period.Contains(session.Date) {
				continue
			}
			statuses = append(statuses, record.Status)
		}
	})
	return statuses, nil
}
