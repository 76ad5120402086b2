package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const topicColumns = `t.id, t.fecha, t.curso, t.asignatura_id, a.nombre AS asignatura_nombre, t.docente_id,
        t.tema, t.contenido, t.actividad, t.recursos, t.tarea, t.evaluacion, t.observaciones, t.planificado, t.estado,
        u.nombre AS docente_nombre, u.apellido AS docente_apellido
        FROM libro_temas t
        LEFT JOIN asignaturas a ON a.id = t.asignatura_id
        LEFT JOIN docentes d ON d.id = t.docente_id
        LEFT JOIN usuarios u ON u.id = d.usuario_id`

type topicRow struct {
	models.Topic
	TeacherFirstName *string `db:"docente_nombre"`
	TeacherLastName  *string `db:"docente_apellido"`
}

func (row topicRow) toModel() models.Topic {
	topic := row.Topic
	topic.TeacherName = displayName(row.TeacherFirstName, row.TeacherLastName)
	return topic
}

// TopicRepository manages the class log book.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository constructs a TopicRepository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// List returns log entries newest first.
func (r *TopicRepository) List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	where := &whereBuilder{}
	if filter.Course != "" {
		where.add("t.curso = $%d", filter.Course)
	}
	if filter.SubjectID != nil {
		where.add("t.asignatura_id = $%d", *filter.SubjectID)
	}
	if filter.TeacherID != nil {
		where.add("t.docente_id = $%d", *filter.TeacherID)
	}
	if filter.Status != nil {
		where.add("t.estado = $%d", *filter.Status)
	}
	if filter.From != nil {
		where.add("t.fecha >= $%d", models.TruncateDate(*filter.From))
	}
	if filter.To != nil {
		where.add("t.fecha <= $%d", models.TruncateDate(*filter.To))
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY t.fecha DESC, t.id DESC", topicColumns, where.clause())

	var rows []topicRow
	if err := r.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	topics := make([]models.Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.toModel())
	}
	return topics, nil
}

// Get fetches a log entry by ID.
func (r *TopicRepository) Get(ctx context.Context, id int64) (*models.Topic, error) {
	query := fmt.Sprintf("SELECT %s WHERE t.id = $1", topicColumns)
	var row topicRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "topic")
	}
	topic := row.toModel()
	return &topic, nil
}

// Create inserts a log entry; an empty status defaults to planned.
func (r *TopicRepository) Create(ctx context.Context, input models.TopicInput) (*models.Topic, error) {
	status := input.Status
	if status == "" {
		status = models.TopicPlanned
	}
	const query = `INSERT INTO libro_temas (fecha, curso, asignatura_id, docente_id, tema, contenido, actividad,
        recursos, tarea, evaluacion, observaciones, planificado, estado)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		models.TruncateDate(input.Date), input.Course, input.SubjectID, input.TeacherID, input.Topic, input.Content,
		input.Activity, input.Resources, input.Homework, input.AssessmentNote, input.Observations, input.Planned, status,
	).Scan(&id)
	if err != nil {
		return nil, writeErr("create topic", err)
	}
	return r.Get(ctx, id)
}

// Update applies the non-nil fields of patch.
func (r *TopicRepository) Update(ctx context.Context, id int64, patch models.TopicPatch) (*models.Topic, error) {
	set := &setBuilder{}
	if patch.Date != nil {
		set.add("fecha", models.TruncateDate(*patch.Date))
	}
	if patch.Course != nil {
		set.add("curso", *patch.Course)
	}
	if patch.SubjectID != nil {
		set.add("asignatura_id", *patch.SubjectID)
	}
	if patch.TeacherID != nil {
		set.add("docente_id", *patch.TeacherID)
	}
	if patch.Topic != nil {
		set.add("tema", *patch.Topic)
	}
	if patch.Content != nil {
		set.add("contenido", *patch.Content)
	}
	if patch.Activity != nil {
		set.add("actividad", *patch.Activity)
	}
	if patch.Resources != nil {
		set.add("recursos", *patch.Resources)
	}
	if patch.Homework != nil {
		set.add("tarea", *patch.Homework)
	}
	if patch.AssessmentNote != nil {
		set.add("evaluacion", *patch.AssessmentNote)
	}
	if patch.Observations != nil {
		set.add("observaciones", *patch.Observations)
	}
	if patch.Planned != nil {
		set.add("planificado", *patch.Planned)
	}
	if patch.Status != nil {
		set.add("estado", *patch.Status)
	}
	if err := set.exec(ctx, r.db, "libro_temas", id, "topic"); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a log entry.
func (r *TopicRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM libro_temas WHERE id = $1`, id)
	if err != nil {
		return writeErr("delete topic", err)
	}
	return requireAffected(res, "topic")
}
