package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-api/internal/service"
	"github.com/noah-isme/escuela-api/pkg/export"
	"github.com/noah-isme/escuela-api/pkg/response"
)

// AttendanceHandler exposes attendance taking, history and reports.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Save godoc
// @Summary Save a session with its per-student records
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.SaveAttendanceRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Save(c *gin.Context) {
	var req service.SaveAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.attendance.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// History godoc
// @Summary Sessions with status counts, newest first
// @Tags Attendance
// @Produce json
// @Param course query string false "Course"
// @Param subject_id query int false "Subject"
// @Param teacher_id query int false "Teacher"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	var query service.AttendanceQuery
	if !bindQuery(c, &query) {
		return
	}
	history, err := h.attendance.History(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, history)
}

// Details godoc
// @Summary Records of one session
// @Tags Attendance
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/sessions/{id}/details [get]
func (h *AttendanceHandler) Details(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	records, err := h.attendance.Details(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, records)
}

// StudentStats godoc
// @Summary Attendance counts and rate of a student
// @Tags Attendance
// @Produce json
// @Param id path int true "Student ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/students/{id}/stats [get]
func (h *AttendanceHandler) StudentStats(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	stats, err := h.attendance.StudentStats(c.Request.Context(), id, c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, stats)
}

// Report godoc
// @Summary Aggregated attendance report
// @Tags Attendance
// @Produce json
// @Param course query string false "Course"
// @Param subject_id query int false "Subject"
// @Param teacher_id query int false "Teacher"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/report [get]
func (h *AttendanceHandler) Report(c *gin.Context) {
	var query service.AttendanceQuery
	if !bindQuery(c, &query) {
		return
	}
	report, err := h.attendance.Report(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, report)
}

// Export godoc
// @Summary Download the attendance report
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param course query string false "Course"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /attendance/report/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	var query service.AttendanceQuery
	if !bindQuery(c, &query) {
		return
	}
	format := export.Format(strings.ToLower(c.DefaultQuery("format", string(export.FormatCSV))))
	body, err := h.attendance.ExportReport(c.Request.Context(), query, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "asistencia."+string(format), format.ContentType(), body)
}
