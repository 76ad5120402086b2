package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-api/internal/service"
	"github.com/noah-isme/escuela-api/pkg/response"
)

// TopicHandler exposes the class log book.
type TopicHandler struct {
	topics *service.TopicService
}

// NewTopicHandler constructs TopicHandler.
func NewTopicHandler(topics *service.TopicService) *TopicHandler {
	return &TopicHandler{topics: topics}
}

// List godoc
// @Summary List log entries, newest first
// @Tags Topics
// @Produce json
// @Param course query string false "Course"
// @Param subject_id query int false "Subject"
// @Param teacher_id query int false "Teacher"
// @Param status query string false "planned, in_progress, completed, cancelled or rescheduled"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /topics [get]
func (h *TopicHandler) List(c *gin.Context) {
	var query service.TopicQuery
	if !bindQuery(c, &query) {
		return
	}
	topics, err := h.topics.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, topics)
}

// Get godoc
// @Summary Get log entry
// @Tags Topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} response.Envelope
// @Router /topics/{id} [get]
func (h *TopicHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	topic, err := h.topics.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, topic)
}

// Create godoc
// @Summary Create log entry
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body service.TopicRequest true "Topic payload"
// @Success 201 {object} response.Envelope
// @Router /topics [post]
func (h *TopicHandler) Create(c *gin.Context) {
	var req service.TopicRequest
	if !bindJSON(c, &req) {
		return
	}
	topic, err := h.topics.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

// Update godoc
// @Summary Update log entry
// @Tags Topics
// @Accept json
// @Produce json
// @Param id path int true "Topic ID"
// @Param payload body service.TopicPatchRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /topics/{id} [patch]
func (h *TopicHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req service.TopicPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	topic, err := h.topics.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	ok(c, topic)
}

// Delete godoc
// @Summary Delete log entry
// @Tags Topics
// @Param id path int true "Topic ID"
// @Success 204
// @Router /topics/{id} [delete]
func (h *TopicHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.topics.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
