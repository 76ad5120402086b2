package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-api/internal/models"
)

const sessionColumns = `s.id, s.fecha, s.docente_id, s.asignatura_id, s.curso, a.nombre AS asignatura_nombre,
        u.nombre AS docente_nombre, u.apellido AS docente_apellido`

const sessionJoins = `FROM asistencias s
        LEFT JOIN asignaturas a ON a.id = s.asignatura_id
        LEFT JOIN docentes d ON d.id = s.docente_id
        LEFT JOIN usuarios u ON u.id = d.usuario_id`

type sessionRow struct {
	models.AttendanceSession
	TeacherFirstName *string `db:"docente_nombre"`
	TeacherLastName  *string `db:"docente_apellido"`
}

func (row sessionRow) toModel() models.AttendanceSession {
	session := row.AttendanceSession
	session.TeacherName = displayName(row.TeacherFirstName, row.TeacherLastName)
	return session
}

type historyRow struct {
	sessionRow
	Status *models.AttendanceStatus `db:"estado"`
}

type recordRow struct {
	models.AttendanceRecord
	FirstName string `db:"nombre"`
	LastName  string `db:"apellido"`
}

// AttendanceRepository persists attendance sessions and their records.
type AttendanceRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// SaveSession finds or creates the session for (date, teacher, subject, course) and upserts
// one record per student, all in a single transaction.
func (r *AttendanceRepository) SaveSession(ctx context.Context, input models.AttendanceSessionInput) (*models.AttendanceSession, error) {
	date := models.TruncateDate(input.Date)
	recordedAt := r.now()
	var sessionID int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const find = `SELECT id FROM asistencias WHERE fecha = $1 AND docente_id = $2 AND asignatura_id = $3 AND curso = $4`
		err := tx.GetContext(ctx, &sessionID, find, date, input.TeacherID, input.SubjectID, input.Course)
		if errors.Is(err, sql.ErrNoRows) {
			const insert = `INSERT INTO asistencias (fecha, docente_id, asignatura_id, curso) VALUES ($1, $2, $3, $4) RETURNING id`
			if err := tx.QueryRowxContext(ctx, insert, date, input.TeacherID, input.SubjectID, input.Course).Scan(&sessionID); err != nil {
				return writeErr("create attendance session", err)
			}
		} else if err != nil {
			return fmt.Errorf("find attendance session: %w", err)
		}

		const upsert = `INSERT INTO asistencias_detalle (asistencia_id, estudiante_id, estado, hora_registro, observacion)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (asistencia_id, estudiante_id)
        DO UPDATE SET estado = EXCLUDED.estado, hora_registro = EXCLUDED.hora_registro, observacion = EXCLUDED.observacion`
		for _, detail := range input.Details {
			if _, err := tx.ExecContext(ctx, upsert, sessionID, detail.StudentID, detail.Status, recordedAt, detail.Note); err != nil {
				return writeErr(fmt.Sprintf("upsert attendance record for student %d", detail.StudentID), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetSession(ctx, sessionID)
}

// GetSession fetches a session with its subject and teacher labels.
func (r *AttendanceRepository) GetSession(ctx context.Context, id int64) (*models.AttendanceSession, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.id = $1", sessionColumns, sessionJoins)
	var row sessionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound(err, "attendance session")
	}
	session := row.toModel()
	return &session, nil
}

// History returns one row per (session, record) matching every filter, newest sessions first.
// Sessions without records yield a single row with a nil status.
func (r *AttendanceRepository) History(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceHistoryRow, error) {
	where := &whereBuilder{}
	if filter.Course != "" {
		where.add("s.curso = $%d", filter.Course)
	}
	if filter.SubjectID != nil {
		where.add("s.asignatura_id = $%d", *filter.SubjectID)
	}
	if filter.TeacherID != nil {
		where.add("s.docente_id = $%d", *filter.TeacherID)
	}
	if filter.From != nil {
		where.add("s.fecha >= $%d", models.TruncateDate(*filter.From))
	}
	if filter.To != nil {
		where.add("s.fecha <= $%d", models.TruncateDate(*filter.To))
	}
	query := fmt.Sprintf(`SELECT %s, ad.estado %s
        LEFT JOIN asistencias_detalle ad ON ad.asistencia_id = s.id
        %s ORDER BY s.fecha DESC, s.id DESC, ad.id`, sessionColumns, sessionJoins, where.clause())

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, where.args...); err != nil {
		return nil, fmt.Errorf("attendance history: %w", err)
	}
	history := make([]models.AttendanceHistoryRow, 0, len(rows))
	for _, row := range rows {
		history = append(history, models.AttendanceHistoryRow{AttendanceSession: row.toModel(), Status: row.Status})
	}
	return history, nil
}

// Details lists the records of a session ordered by student surname.
func (r *AttendanceRepository) Details(ctx context.Context, sessionID int64) ([]models.AttendanceRecord, error) {
	const query = `SELECT ad.id, ad.asistencia_id, ad.estudiante_id, ad.estado, ad.hora_registro, ad.observacion,
        COALESCE(u.nombre, '') AS nombre, COALESCE(u.apellido, '') AS apellido
        FROM asistencias_detalle ad
        LEFT JOIN estudiantes e ON e.id = ad.estudiante_id
        LEFT JOIN usuarios u ON u.id = e.usuario_id
        WHERE ad.asistencia_id = $1
        ORDER BY u.apellido, u.nombre, ad.id`
	var rows []recordRow
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("attendance details: %w", err)
	}
	records := make([]models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		record := row.AttendanceRecord
		record.StudentName = models.DisplayName(row.FirstName, row.LastName)
		records = append(records, record)
	}
	return records, nil
}

// StudentStatuses returns the statuses recorded for a student, restricted by the date of the
// owning session.
func (r *AttendanceRepository) StudentStatuses(ctx context.Context, studentID int64, period models.DateRange) ([]models.AttendanceStatus, error) {
	where := &whereBuilder{}
	where.add("ad.estudiante_id = $%d", studentID)
	if period.From != nil {
		where.add("s.fecha >= $%d", models.TruncateDate(*period.From))
	}
	if period.To != nil {
		where.add("s.fecha <= $%d", models.TruncateDate(*period.To))
	}
	query := fmt.Sprintf(`SELECT ad.estado FROM asistencias_detalle ad
        JOIN asistencias s ON s.id = ad.asistencia_id
        %s`, where.clause())

	statuses := make([]models.AttendanceStatus, 0)
	if err := r.db.SelectContext(ctx, &statuses, query, where.args...); err != nil {
		return nil, fmt.Errorf("student attendance statuses: %w", err)
	}
	return statuses, nil
}
