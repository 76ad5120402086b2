package memory

import (
	"context"
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

// ReportStore serves pedagogical reports and templates from a Dataset.
type ReportStore struct {
	ds *Dataset
}

// NewReportStore binds a report store to ds.
func NewReportStore(ds *Dataset) *ReportStore {
	return &ReportStore{ds: ds}
}

func (s *state) decorateReport(report models.Report) models.Report {
	student, _ := s.student(report.StudentID)
	report.StudentName = student.Name
	if student.ID == 0 {
		report.StudentName = models.DisplayName("", "")
	}
	report.StudentCourse = student.Course
	report.AuthorName = s.userName(report.AuthorID)
	return report
}

func (st *ReportStore) List(_ context.Context, filter models.ReportFilter) ([]models.Report, error) {
	reports := make([]models.Report, 0)
	st.ds.view(func(s *state) {
		rows := s.reports.sorted(func(a, b models.Report) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		})
		for _, report := range rows {
			if filter.StudentID != nil && report.StudentID != *filter.StudentID {
				continue
			}
			if filter.AuthorID != nil && report.AuthorID != *filter.AuthorID {
				continue
			}
			if filter.ReportType != "" && report.ReportType != filter.ReportType {
				continue
			}
			if filter.Period != "" && report.Period != filter.Period {
				continue
			}
			if filter.Status != nil && report.Status != *filter.Status {
				continue
			}
			reports = append(reports, s.decorateReport(report))
		}
	})
	return reports, nil
}

func (st *ReportStore) Get(_ context.Context, id int64) (*models.Report, error) {
	var (
		report models.Report
		ok     bool
	)
	st.ds.view(func(s *state) {
		report, ok = s.reports[id]
		report = s.decorateReport(report)
	})
	if !ok {
		return nil, notFound("report")
	}
	return &report, nil
}

func (st *ReportStore) Create(ctx context.Context, input models.ReportInput) (*models.Report, error) {
	status := input.Status
	if status == "" {
		status = models.ReportDraft
	}
	var id int64
	err := st.ds.update(func(s *state, now time.Time) error {
		if _, ok := s.students[input.StudentID]; !ok {
			return conflict("student %d does not exist", input.StudentID)
		}
		if _, ok := s.users[input.AuthorID]; !ok {
			return conflict("author %d does not exist", input.AuthorID)
		}
		if input.TemplateID != nil {
			if _, ok := s.templates[*input.TemplateID]; !ok {
				return conflict("template %d does not exist", *input.TemplateID)
			}
		}
		id = s.reports.nextID()
		s.reports[id] = models.Report{
			ID:           id,
			StudentID:    input.StudentID,
			AuthorID:     input.AuthorID,
			ReportType:   input.ReportType,
			Period:       input.Period,
			Title:        input.Title,
			Content:      input.Content,
			Observations: input.Observations,
			TemplateID:   input.TemplateID,
			Status:       status,
			CreatedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *ReportStore) Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.Report, error) {
	err := st.ds.update(func(s *state, _ time.Time) error {
		report, ok := s.reports[id]
		if !ok {
			return notFound("report")
		}
		if patch.ReportType != nil {
			report.ReportType = *patch.ReportType
		}
		if patch.Period != nil {
			report.Period = *patch.Period
		}
		if patch.Title != nil {
			report.Title = *patch.Title
		}
		if patch.Content != nil {
			report.Content = *patch.Content
		}
		if patch.Observations != nil {
			report.Observations = patch.Observations
		}
		if patch.TemplateID != nil {
			if _, ok := s.templates[*patch.TemplateID]; !ok {
				return conflict("template %d does not exist", *patch.TemplateID)
			}
			report.TemplateID = patch.TemplateID
		}
		if patch.Status != nil {
			report.Status = *patch.Status
		}
		s.reports[id] = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st.Get(ctx, id)
}

func (st *ReportStore) Delete(_ context.Context, id int64) error {
	return st.ds.update(func(s *state, _ time.Time) error {
		if _, ok := s.reports[id]; !ok {
			return notFound("report")
		}
		delete(s.reports, id)
		return nil
	})
}

// Templates lists active templates by name.
func (st *ReportStore) Templates(_ context.Context) ([]models.ReportTemplate, error) {
	templates := make([]models.ReportTemplate, 0)
	st.ds.view(func(s *state) {
		rows := s.templates.sorted(func(a, b models.ReportTemplate) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		for _, template := range rows {
			if template.Active {
				templates = append(templates, template)
			}
		}
	})
	return templates, nil
}
