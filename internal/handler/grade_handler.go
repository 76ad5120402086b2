package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/service"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
	"github.com/noah-isme/escuela-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// CourseGrades godoc
// @Summary Term grades and averages of a course in a subject
// @Tags Grades
// @Produce json
// @Param course query string true "Course"
// @Param subject_id query int true "Subject"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) CourseGrades(c *gin.Context) {
	subjectID, valid := queryID(c, "subject_id")
	if !valid {
		return
	}
	if subjectID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subject_id is required"))
		return
	}
	summaries, err := h.grades.CourseGrades(c.Request.Context(), strings.TrimSpace(c.Query("course")), *subjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, summaries)
}

// Save godoc
// @Summary Create or replace the grade of a student, subject and period
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body models.GradeInput true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades [put]
func (h *GradeHandler) Save(c *gin.Context) {
	var input models.GradeInput
	if !bindJSON(c, &input) {
		return
	}
	grade, err := h.grades.Save(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, grade)
}

// SaveBatch godoc
// @Summary Save several grades
// @Description atomic saves all entries or none (422 when rejected); partialOnError saves what it can (207 when some fail).
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.GradeBatchRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /grades/batch [post]
func (h *GradeHandler) SaveBatch(c *gin.Context) {
	var req service.GradeBatchRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.grades.SaveBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	switch {
	case len(result.Failures) == 0:
	case len(result.Saved) == 0:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusMultiStatus
	}
	response.JSON(c, status, result)
}

// StudentGrades godoc
// @Summary Every grade of a student
// @Tags Grades
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /grades/students/{id} [get]
func (h *GradeHandler) StudentGrades(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	grades, err := h.grades.StudentGrades(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, grades)
}
