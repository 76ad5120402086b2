package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/service"
	"github.com/noah-isme/escuela-api/pkg/response"
)

// ReportHandler exposes pedagogical reports and templates.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// List godoc
// @Summary List reports, newest first
// @Tags Reports
// @Produce json
// @Param student_id query int false "Student"
// @Param author_id query int false "Author user"
// @Param report_type query string false "Report type"
// @Param period query string false "Period"
// @Param status query string false "draft, under_review or finalized"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	var query service.ReportQuery
	if !bindQuery(c, &query) {
		return
	}
	reports, err := h.reports.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, reports)
}

// Get godoc
// @Summary Get report
// @Tags Reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	report, err := h.reports.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, report)
}

// Create godoc
// @Summary Create report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body models.ReportInput true "Report payload"
// @Success 201 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var input models.ReportInput
	if !bindJSON(c, &input) {
		return
	}
	report, err := h.reports.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Update godoc
// @Summary Update report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Param payload body models.ReportPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [patch]
func (h *ReportHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var patch models.ReportPatch
	if !bindJSON(c, &patch) {
		return
	}
	report, err := h.reports.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, report)
}

// Delete godoc
// @Summary Delete report
// @Tags Reports
// @Param id path int true "Report ID"
// @Success 204
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.reports.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Templates godoc
// @Summary Active report templates
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /report-templates [get]
func (h *ReportHandler) Templates(c *gin.Context) {
	templates, err := h.reports.Templates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, templates)
}
