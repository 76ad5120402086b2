package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
	appErrors "github.com/noah-isme/escuela-api/pkg/errors"
)

// TopicService manages the class log book.
type TopicService struct {
	store     store.TopicStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTopicService constructs the topic service.
func NewTopicService(topics store.TopicStore, validate *validator.Validate, logger *zap.Logger) *TopicService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{store: topics, validator: newValidator(validate), logger: logger}
}

// TopicQuery filters the log book. Dates are YYYY-MM-DD and inclusive.
type TopicQuery struct {
	Course    string `form:"course"`
	SubjectID *int64 `form:"subject_id"`
	TeacherID *int64 `form:"teacher_id"`
	Status    string `form:"status"`
	From      string `form:"from"`
	To        string `form:"to"`
}

// TopicRequest is the create payload; the date travels as YYYY-MM-DD.
type TopicRequest struct {
	Date string `json:"date"`
	models.TopicInput
}

// TopicPatchRequest is the update payload.
type TopicPatchRequest struct {
	Date *string `json:"date,omitempty"`
	models.TopicPatch
}

// List returns entries matching query, newest first.
func (s *TopicService) List(ctx context.Context, query TopicQuery) ([]models.Topic, error) {
	period, err := parseDateRange(query.From, query.To)
	if err != nil {
		return nil, err
	}
	filter := models.TopicFilter{Course: query.Course, SubjectID: query.SubjectID, TeacherID: query.TeacherID, DateRange: period}
	if query.Status != "" {
		status := models.TopicStatus(strings.ToLower(query.Status))
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown topic status")
		}
		filter.Status = &status
	}
	topics, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list topics")
	}
	return topics, nil
}

// Get returns one entry.
func (s *TopicService) Get(ctx context.Context, id int64) (*models.Topic, error) {
	topic, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to load topic")
	}
	return topic, nil
}

// Create adds an entry; an empty status starts it as planned.
func (s *TopicService) Create(ctx context.Context, req TopicRequest) (*models.Topic, error) {
	input := req.TopicInput
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		input.Date = date
	}
	input.Status = models.TopicStatus(strings.ToLower(string(input.Status)))
	if err := s.validator.Struct(input); err != nil {
		return nil, invalid(err, "invalid topic payload")
	}
	topic, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, storeError(err, "failed to create topic")
	}
	s.logger.Info("topic created", zap.Int64("topic_id", topic.ID), zap.String("course", topic.Course))
	return topic, nil
}

// Update applies a partial update.
func (s *TopicService) Update(ctx context.Context, id int64, req TopicPatchRequest) (*models.Topic, error) {
	patch := req.TopicPatch
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	if patch.Status != nil {
		status := models.TopicStatus(strings.ToLower(string(*patch.Status)))
		patch.Status = &status
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, invalid(err, "invalid topic payload")
	}
	topic, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeError(err, "failed to update topic")
	}
	return topic, nil
}

// Delete removes an entry.
func (s *TopicService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete topic")
	}
	s.logger.Info("topic deleted", zap.Int64("topic_id", id))
	return nil
}
