package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const reportColumns = `r.id, r.estudiante_id, COALESCE(e.curso, '') AS estudiante_curso, r.autor_id, r.tipo, r.periodo,
        r.titulo, r.contenido, r.observaciones, r.plantilla_id, r.estado, r.created_at,
        COALESCE(su.nombre, '') AS estudiante_nombre, COALESCE(su.apellido, '') AS estudiante_apellido,
        COALESCE(au.nombre, '') AS autor_nombre, COALESCE(au.apellido, '') AS autor_apellido
        FROM informes_pedagogicos r
        LEFT JOIN estudiantes e ON e.id = r.estudiante_id
        LEFT JOIN usuarios su ON su.id = e.usuario_id
        LEFT JOIN usuarios au ON au.id = r.autor_id`

type reportRow struct {
	models.Report
	StudentFirstName string `db:"estudiante_nombre"`
	StudentLastName  string `db:"estudiante_apellido"`
	AuthorFirstName  string `db:"autor_nombre"`
	AuthorLastName   string `db:"autor_apellido"`
}

func (row reportRow) toModel() models.Report {
	report := row.Report
	report.StudentName = models.DisplayName(row.StudentFirstName, row.StudentLastName)
	report.AuthorName = models.DisplayName(row.AuthorFirstName, row.AuthorLastName)
	return report
}

// ReportRepository persists pedagogical reports and serves their templates.
type ReportRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// List returns reports newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	where := &whereBuilder{}
	if filter.StudentID != nil {
		where.add("r.estudiante_id = $%d", *filter.StudentID)
	}
	if filter.AuthorID != nil {
		where.add("r.autor_id = $%d", *filter.AuthorID)
	}
	if filter.ReportType != "" {
		where.add("r.tipo = $%d", filter.ReportType)
	}
	if filter.Period != "" {
		where.add("r.periodo = $%d", filter.Period)
	}
	if filter.Status != nil {
		where.add("r.estado = $%d", *filter.Status)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY r.created_at DESC, r.id DESC", reportColumns, where.clause())

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.toModel())
	}
	return reports, nil
}

// Get returns a report by its identifier.
func (r *ReportRepository) Get(ctx context.Context, id int64) (*models.Report, error) {
	query := fmt.Sprintf("SELECT %s WHERE r.id = $1", reportColumns)
	var row reportRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "report")
	}
	report := row.toModel()
	return &report, nil
}

// Create inserts a report; an empty status defaults to draft.
func (r *ReportRepository) Create(ctx context.Context, input models.ReportInput) (*models.Report, error) {
	status := input.Status
	if status == "" {
		status = models.ReportDraft
	}
	const query = `INSERT INTO informes_pedagogicos (estudiante_id, autor_id, tipo, periodo, titulo, contenido,
        observaciones, plantilla_id, estado, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		input.StudentID, input.AuthorID, input.ReportType, input.Period, input.Title, input.Content,
		input.Observations, input.TemplateID, status, r.now(),
	).Scan(&id)
	if err != nil {
		return nil, writeErr("create report", err)
	}
	return r.Get(ctx, id)
}

// Update applies the non-nil fields of patch.
func (r *ReportRepository) Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.Report, error) {
	set := &setBuilder{}
	if patch.ReportType != nil {
		set.add("tipo", *patch.ReportType)
	}
	if patch.Period != nil {
		set.add("periodo", *patch.Period)
	}
	if patch.Title != nil {
		set.add("titulo", *patch.Title)
	}
	if patch.Content != nil {
		set.add("contenido", *patch.Content)
	}
	if patch.Observations != nil {
		set.add("observaciones", *patch.Observations)
	}
	if patch.TemplateID != nil {
		set.add("plantilla_id", *patch.TemplateID)
	}
	if patch.Status != nil {
		set.add("estado", *patch.Status)
	}
	if err := set.exec(ctx, r.db, "informes_pedagogicos", id, "report"); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a report.
func (r *ReportRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM informes_pedagogicos WHERE id = $1`, id)
	if err != nil {
		return writeErr("delete report", err)
	}
	return requireAffected(res, "report")
}

// Templates lists the active report templates by name.
func (r *ReportRepository) Templates(ctx context.Context) ([]models.ReportTemplate, error) {
	const query = `SELECT id, nombre, tipo, contenido, activa FROM plantillas_informes WHERE activa = TRUE ORDER BY nombre, id`
	templates := make([]models.ReportTemplate, 0)
	if err := r.db.SelectContext(ctx, &templates, query); err != nil {
		return nil, fmt.Errorf("list report templates: %w", err)
	}
	return templates, nil
}
