package memory

import (
	"context"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

// TopicStore serves class log entries from a Dataset.
type TopicStore struct {
	ds *Dataset
}

// NewTopicStore binds a topic store to ds.
func NewTopicStore(ds *Dataset) *TopicStore {
	return &TopicStore{ds: ds}
}

func (s *state) decorateTopic(topic models.Topic) models.Topic {
	topic.SubjectName = s.subjectName(topic.SubjectID)
	topic.TeacherName = s.teacherName(&topic.TeacherID)
	return topic
}

func (s *state) checkTopicRefs(subjectID, teacherID int64) error {
	if _, ok := s.subjects[subjectID]; !ok {
		return conflict("subject %d does not exist", subjectID)
	}
	if _, ok := s.teachers[teacherID]; !ok {
		return conflict("teacher %d does not exist", teacherID)
	}
	return nil
}

func (st *TopicStore) List(_ context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	topics := make([]models.Topic, 0)
	st.ds.view(func(s *state) {
		rows := s.topics.sorted(func(a, b models.Topic) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.ID > b.ID
		})
		for _, topic := range rows {
			if filter.Course != "" && topic.Course != filter.Course {
				continue
			}
			if filter.SubjectID != nil && topic.SubjectID != *filter.SubjectID {
				continue
			}
			if filter.TeacherID != nil && topic.TeacherID != *filter.TeacherID {
				continue
			}
			if filter.Status != nil && topic.Status != *filter.Status {
				continue
			}
			if !filter.DateRange.Contains(topic.Date) {
				continue
			}
			topics = append(topics, s.decorateTopic(topic))
		}
	})
	return topics, nil
}

func (st *TopicStore) Get(_ context.Context, id int64) (*models.Topic, error) {
	var (
		topic models.Topic
		ok    bool
	)
	st.ds.view(func(s *state) {
		topic, ok = s.topics[id]
		topic = s.decorateTopic(topic)
	})
	if !ok {
		return nil, notFound("topic")
	}
	return &topic, nil
}

func (st *TopicStore) Create(ctx context.Context, input models.TopicInput) (*models.Topic, error) {
	status := input.Status
	if status == "" {
		status = models.TopicPlanned
	}
	var id int64
	err := st.ds.update(func(s *state, _ time.Time) error {
		if err := s.checkTopicRefs(input.SubjectID, input.TeacherID); err != nil {
			return err
		}
		id = s.topics.nextID()
		s.topics[id] = models.Topic{
			ID:             id,
			Date:           models.TruncateDate(input.Date),
			Course:         input.Course,
			SubjectID:      input.SubjectID,
			TeacherID:      input.TeacherID,
			Topic:          input.Topic,
			Content:        input.Content,
			Activity:       input.Activity,
			Resources:      input.Resources,
			Homework:       input.Homework,
			AssessmentNote: input.AssessmentNote,
			Observations:   input.Observations,
			Planned:        input.Planned,
			Status:         status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *TopicStore) Update(ctx context.Context, id int64, patch models.TopicPatch) (*models.Topic, error) {
	err := st.ds.update(func(s *state, _ time.Time) error {
		topic, ok := s.topics[id]
		if !ok {
			return notFound("topic")
		}
		if patch.Date != nil {
			topic.Date = models.TruncateDate(*patch.Date)
		}
		if patch.Course != nil {
			topic.Course = *patch.Course
		}
		if patch.SubjectID != nil {
			topic.SubjectID = *patch.SubjectID
		}
		if patch.TeacherID != nil {
			topic.TeacherID = *patch.TeacherID
		}
		if err := s.checkTopicRefs(topic.SubjectID, topic.TeacherID); err != nil {
			return err
		}
		if patch.Topic != nil {
			topic.Topic = *patch.Topic
		}
		if patch.Content != nil {
			topic.Content = *patch.Content
		}
		if patch.Activity != nil {
			topic.Activity = *patch.Activity
		}
		if patch.Resources != nil {
			topic.Resources = patch.Resources
		}
		if patch.Homework != nil {
			topic.Homework = patch.Homework
		}
		if patch.AssessmentNote != nil {
			topic.AssessmentNote = patch.AssessmentNote
		}
		if patch.Observations != nil {
			topic.Observations = patch.Observations
		}
		if patch.Planned != nil {
			topic.Planned = *patch.Planned
		}
		if patch.Status != nil {
			topic.Status = *patch.Status
		}
		s.topics[id] = topic
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *TopicStore) Delete(_ context.Context, id int64) error {
	return st.ds.update(func(s *state, _ time.Time) error {
		if _, ok := s.topics[id]; !ok {
			return notFound("topic")
		}
		delete(s.topics, id)
		return nil
	})
}
