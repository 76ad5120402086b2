package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
	"github.com/noah-isme/escuela-api/pkg/export"
)

// AttendanceService records sessions and derives attendance statistics.
type AttendanceService struct {
	store     store.AttendanceStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance store.AttendanceStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: attendance, metrics: metrics, validator: newValidator(validate), logger: logger}
}

// SaveAttendanceRequest describes one taking of attendance.
type SaveAttendanceRequest struct {
	Date      string                         `json:"date" validate:"required"`
	TeacherID int64                          `json:"teacher_id" validate:"required,gt=0"`
	SubjectID int64                          `json:"subject_id" validate:"required,gt=0"`
	Course    string                         `json:"course" validate:"required"`
	Details   []models.AttendanceDetailInput `json:"details" validate:"required,min=1,dive"`
}

// AttendanceQuery filters history and reports. Dates are YYYY-MM-DD and inclusive.
type AttendanceQuery struct {
	Course    string `form:"course"`
	SubjectID *int64 `form:"subject_id"`
	TeacherID *int64 `form:"teacher_id"`
	From      string `form:"from"`
	To        string `form:"to"`
}

func (q AttendanceQuery) filter() (models.AttendanceFilter, error) {
	period, err := parseDateRange(q.From, q.To)
	if err != nil {
		return models.AttendanceFilter{}, err
	}
	return models.AttendanceFilter{Course: q.Course, SubjectID: q.SubjectID, TeacherID: q.TeacherID, DateRange: period}, nil
}

// Save stores the session for (date, teacher, subject, course) and upserts every detail.
// The session and its records are written as one unit.
func (s *AttendanceService) Save(ctx context.Context, req SaveAttendanceRequest) (*models.AttendanceSession, error) {
	details := make([]models.AttendanceDetailInput, len(req.Details))
	for i, detail := range req.Details {
		detail.Status = models.AttendanceStatus(strings.ToLower(string(detail.Status)))
		details[i] = detail
	}
	req.Details = details
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid attendance payload")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(req.Details))
	for _, detail := range req.Details {
		if _, dup := seen[detail.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %d listed twice", detail.StudentID))
		}
		seen[detail.StudentID] = struct{}{}
	}

	session, err := s.store.SaveSession(ctx, models.AttendanceSessionInput{
		Date:      date,
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		Course:    req.Course,
		Details:   req.Details,
	})
	if err != nil {
		return nil, storeError(err, "failed to save attendance")
	}
	s.logger.Info("attendance saved",
		zap.Int64("session_id", session.ID),
		zap.String("course", session.Course),
		zap.Int("records", len(req.Details)),
	)
	return session, nil
}

// History returns one row per matching session, newest first, with its status counts.
func (s *AttendanceService) History(ctx context.Context, query AttendanceQuery) ([]models.AttendanceSessionSummary, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := s.store.History(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to load attendance history")
	}
	s.metrics.ObserveStoreQuery("attendance_history", time.Since(start))
	return GroupSessions(rows), nil
}

// Details lists the records of a session ordered by student name.
func (s *AttendanceService) Details(ctx context.Context, sessionID int64) ([]models.AttendanceRecord, error) {
	records, err := s.store.Details(ctx, sessionID)
	if err != nil {
		return nil, storeError(err, "failed to load attendance details")
	}
	return records, nil
}

// StudentStats tallies a student's records over an optional range matched on the session date.
func (s *AttendanceService) StudentStats(ctx context.Context, studentID int64, from, to string) (*models.AttendanceStats, error) {
	period, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	statuses, err := s.store.StudentStatuses(ctx, studentID, period)
	if err != nil {
		return nil, storeError(err, "failed to load attendance statistics")
	}
	s.metrics.ObserveStoreQuery("attendance_student_stats", time.Since(start))
	stats := TallyStatuses(studentID, statuses)
	return &stats, nil
}

// Report aggregates the sessions matching query into overall totals.
func (s *AttendanceService) Report(ctx context.Context, query AttendanceQuery) (*models.AttendanceReport, error) {
	sessions, err := s.History(ctx, query)
	if err != nil {
		return nil, err
	}
	report := BuildAttendanceReport(sessions)
	return &report, nil
}

var attendanceExportColumns = []string{"fecha", "curso", "asignatura", "presentes", "ausentes", "tardes", "retirados", "total"}

// ExportReport renders the report as a CSV or PDF document.
func (s *AttendanceService) ExportReport(ctx context.Context, query AttendanceQuery, format export.Format) ([]byte, error) {
	if format != export.FormatCSV && format != export.FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrUnsupported, fmt.Sprintf("unsupported export format %q", format))
	}
	report, err := s.Report(ctx, query)
	if err != nil {
		return nil, err
	}

	table := export.Table{Title: "Reporte de asistencia", Columns: attendanceExportColumns}
	if query.Course != "" {
		table.Title += " - " + query.Course
	}
	for _, session := range report.Sessions {
		subject := ""
		if session.SubjectName != nil {
			subject = *session.SubjectName
		}
		table.Rows = append(table.Rows, append([]string{session.Date.Format(models.DateLayout), session.Course, subject},
			countCells(session.AttendanceCounts, session.Total)...))
	}
	table.Rows = append(table.Rows, append([]string{"Total", "", strconv.FormatFloat(report.AttendanceRate, 'f', 1, 64) + "%"},
		countCells(report.Totals, report.Total)...))

	out, err := export.Render(format, table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance report")
	}
	s.logger.Debug("attendance report exported", zap.String("format", string(format)), zap.Int("sessions", len(report.Sessions)))
	return out, nil
}

func countCells(c models.AttendanceCounts, total int) []string {
	return []string{strconv.Itoa(c.Present), strconv.Itoa(c.Absent), strconv.Itoa(c.Late), strconv.Itoa(c.Dismissed), strconv.Itoa(total)}
}
