package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escuela-api/internal/models"
	"github.com/noah-isme/escuela-api/internal/store"
)

// Both adapter families must produce the same DTOs for the same data. The live side is fed
// rows mirroring the seeded dataset.

type modeCase struct {
	name  string
	store func(t *testing.T) *store.Store
}

func liveStore(t *testing.T, expect func(mock sqlmock.Sqlmock)) *store.Store {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	expect(mock)
	return store.NewLive(sqlx.NewDb(db, "sqlmock"))
}

func bothModes(expect func(mock sqlmock.Sqlmock)) []modeCase {
	return []modeCase{
		{name: "mock", store: newSeededStore},
		{name: "live", store: func(t *testing.T) *store.Store { return liveStore(t, expect) }},
	}
}

func TestConformanceCourseGrades(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM estudiantes e`).
			WithArgs("1° Año A", int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"estudiante_id", "nombre", "apellido", "periodo", "nota"}).
				AddRow(int64(3), "Sofía", "Díaz", nil, nil).
				AddRow(int64(1), "Ana", "Pérez", "term1", 7.0).
				AddRow(int64(1), "Ana", "Pérez", "term2", 8.0).
				AddRow(int64(2), "Luis", "Ruiz", "term1", 6.0))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewGradeService(mode.store(t).Grades, nil, nil, nil)

			summaries, err := svc.CourseGrades(context.Background(), "1° Año A", 1)
			require.NoError(t, err)
			require.Len(t, summaries, 3)

			assert.Equal(t, "Díaz, Sofía", summaries[0].StudentName)
			assert.Nil(t, summaries[0].Term1)
			assert.Nil(t, summaries[0].Average)

			ana := summaries[1]
			assert.Equal(t, int64(1), ana.StudentID)
			assert.Equal(t, 7.0, *ana.Term1)
			assert.Equal(t, 8.0, *ana.Term2)
			assert.Nil(t, ana.Term3)
			assert.Equal(t, 7.5, *ana.Average)

			assert.Equal(t, 6.0, *summaries[2].Average)
		})
	}
}

func TestConformanceStudentStats(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT ad.estado FROM asistencias_detalle ad`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"estado"}).AddRow("late").AddRow("dismissed"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewAttendanceService(mode.store(t).Attendance, nil, nil, nil)

			stats, err := svc.StudentStats(context.Background(), 3, "", "")
			require.NoError(t, err)
			assert.Equal(t, int64(3), stats.StudentID)
			assert.Equal(t, 0, stats.Present)
			assert.Equal(t, 1, stats.Late)
			assert.Equal(t, 1, stats.Dismissed)
			assert.Equal(t, 2, stats.Total)
			assert.Equal(t, 50.0, stats.AttendanceRate)
		})
	}
}

func TestConformanceReportTemplates(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM plantillas_informes WHERE activa = TRUE`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "tipo", "contenido", "activa"}).
				AddRow(int64(1), "Informe trimestral", "trimestral", "Desempeño general:\nFortalezas:\nAspectos a mejorar:", true).
				AddRow(int64(2), "Seguimiento", "seguimiento", "Situación observada:\nAcciones acordadas:", true))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewReportService(mode.store(t).Reports, nil, nil)

			templates, err := svc.Templates(context.Background())
			require.NoError(t, err)
			require.Len(t, templates, 2)
			assert.Equal(t, "Informe trimestral", templates[0].Name)
			assert.Equal(t, "trimestral", templates[0].ReportType)
			assert.True(t, templates[1].Active)
		})
	}
}

func seedDay(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConformanceStudents(t *testing.T) {
	columns := []string{"id", "usuario_id", "curso", "dni", "nombre", "apellido", "email"}
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM estudiantes e\s+.*WHERE e.curso = \$1 ORDER BY u.apellido, u.nombre, e.id`).
			WithArgs("1° Año A").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(3), int64(7), "1° Año A", "45555666", "Sofía", "Díaz", "sofia.diaz@alumnos.escuela.edu").
				AddRow(int64(1), int64(5), "1° Año A", "45111222", "Ana", "Pérez", "ana.perez@alumnos.escuela.edu").
				AddRow(int64(2), int64(6), "1° Año A", "45333444", "Luis", "Ruiz", "luis.ruiz@alumnos.escuela.edu"))
		mock.ExpectQuery(`FROM estudiantes e\s+.*WHERE e.id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(4), int64(8), "2° Año B", "44777888", "Tomás", "Acosta", "tomas.acosta@alumnos.escuela.edu"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewStudentService(mode.store(t).Students, nil, nil)

			students, err := svc.List(context.Background(), models.StudentFilter{Course: "1° Año A"})
			require.NoError(t, err)
			require.Len(t, students, 3)
			assert.Equal(t, []string{"Díaz, Sofía", "Pérez, Ana", "Ruiz, Luis"},
				[]string{students[0].Name, students[1].Name, students[2].Name})
			assert.Equal(t, models.Student{
				ID: 1, UserID: 5, DNI: "45111222", FirstName: "Ana", LastName: "Pérez", Name: "Pérez, Ana",
				Email: "ana.perez@alumnos.escuela.edu", Course: "1° Año A",
			}, students[1])

			student, err := svc.Get(context.Background(), 4)
			require.NoError(t, err)
			assert.Equal(t, "Acosta, Tomás", student.Name)
			assert.Equal(t, "2° Año B", student.Course)
			assert.Equal(t, int64(8), student.UserID)
		})
	}
}

func TestConformanceTeachers(t *testing.T) {
	columns := []string{"id", "usuario_id", "especialidad", "dni", "nombre", "apellido", "email"}
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM docentes d\s+.*ORDER BY u.apellido, u.nombre, d.id`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(2), int64(3), "Lengua y Literatura", "29555666", "Laura", "Fernández", "laura.fernandez@escuela.edu").
				AddRow(int64(1), int64(2), "Matemática", "28333444", "Carlos", "Gómez", "carlos.gomez@escuela.edu").
				AddRow(int64(3), int64(4), "Ciencias Naturales", "31777888", "Jorge", "Martínez", "jorge.martinez@escuela.edu"))
		mock.ExpectQuery(`FROM docentes d\s+.*WHERE d.id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(1), int64(2), "Matemática", "28333444", "Carlos", "Gómez", "carlos.gomez@escuela.edu"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewTeacherService(mode.store(t).Teachers, nil, nil)

			teachers, err := svc.List(context.Background(), models.TeacherFilter{})
			require.NoError(t, err)
			require.Len(t, teachers, 3)
			assert.Equal(t, []string{"Fernández, Laura", "Gómez, Carlos", "Martínez, Jorge"},
				[]string{teachers[0].Name, teachers[1].Name, teachers[2].Name})
			assert.Equal(t, "Ciencias Naturales", teachers[2].Specialty)

			teacher, err := svc.Get(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, models.Teacher{
				ID: 1, UserID: 2, DNI: "28333444", FirstName: "Carlos", LastName: "Gómez", Name: "Gómez, Carlos",
				Email: "carlos.gomez@escuela.edu", Specialty: "Matemática",
			}, *teacher)
		})
	}
}

func TestConformanceSubjects(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM asignaturas a\s+.*WHERE a.curso = \$1 ORDER BY a.curso, a.nombre, a.id`).
			WithArgs("1° Año A").
			WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "curso", "docente_id", "descripcion", "carga_horaria", "docente_nombre", "docente_apellido"}).
				AddRow(int64(5), "Educación Artística", "1° Año A", nil, nil, 2, nil, nil).
				AddRow(int64(2), "Lengua", "1° Año A", int64(2), nil, 4, "Laura", "Fernández").
				AddRow(int64(1), "Matemática", "1° Año A", int64(1), "Aritmética y álgebra inicial", 5, "Carlos", "Gómez"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewSubjectService(mode.store(t).Subjects, nil, nil, nil, nil)

			subjects, hit, err := svc.List(context.Background(), models.SubjectFilter{Course: "1° Año A"})
			require.NoError(t, err)
			assert.False(t, hit)
			require.Len(t, subjects, 3)

			assert.Equal(t, int64(5), subjects[0].ID)
			assert.Nil(t, subjects[0].TeacherID)
			assert.Nil(t, subjects[0].TeacherName)
			assert.Nil(t, subjects[0].Description)

			require.NotNil(t, subjects[1].TeacherName)
			assert.Equal(t, "Fernández, Laura", *subjects[1].TeacherName)

			subject := subjects[2]
			assert.Equal(t, models.Subject{
				ID: 1, Name: "Matemática", Course: "1° Año A", TeacherID: int64Ptr(1), TeacherName: strPtr("Gómez, Carlos"),
				Description: strPtr("Aritmética y álgebra inicial"), WeeklyHours: 5,
			}, subject)
		})
	}
}

func TestConformanceAttendanceHistoryAndDetails(t *testing.T) {
	historyColumns := []string{"id", "fecha", "docente_id", "asignatura_id", "curso", "asignatura_nombre", "docente_nombre", "docente_apellido", "estado"}
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM asistencias s\s+.*LEFT JOIN asistencias_detalle ad .*WHERE s.curso = \$1 ORDER BY s.fecha DESC, s.id DESC, ad.id`).
			WithArgs("1° Año A").
			WillReturnRows(sqlmock.NewRows(historyColumns).
				AddRow(int64(2), seedDay(3, 12), int64(2), int64(2), "1° Año A", "Lengua", "Laura", "Fernández", "present").
				AddRow(int64(2), seedDay(3, 12), int64(2), int64(2), "1° Año A", "Lengua", "Laura", "Fernández", "present").
				AddRow(int64(2), seedDay(3, 12), int64(2), int64(2), "1° Año A", "Lengua", "Laura", "Fernández", "dismissed").
				AddRow(int64(1), seedDay(3, 11), int64(1), int64(1), "1° Año A", "Matemática", "Carlos", "Gómez", "present").
				AddRow(int64(1), seedDay(3, 11), int64(1), int64(1), "1° Año A", "Matemática", "Carlos", "Gómez", "absent").
				AddRow(int64(1), seedDay(3, 11), int64(1), int64(1), "1° Año A", "Matemática", "Carlos", "Gómez", "late"))
		recordedAt := seedDay(3, 11).Add(8 * time.Hour)
		mock.ExpectQuery(`FROM asistencias_detalle ad\s+.*WHERE ad.asistencia_id = \$1\s+ORDER BY u.apellido, u.nombre, ad.id`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "asistencia_id", "estudiante_id", "estado", "hora_registro", "observacion", "nombre", "apellido"}).
				AddRow(int64(3), int64(1), int64(3), "late", recordedAt, "Llegó 15 minutos tarde", "Sofía", "Díaz").
				AddRow(int64(1), int64(1), int64(1), "present", recordedAt, nil, "Ana", "Pérez").
				AddRow(int64(2), int64(1), int64(2), "absent", recordedAt, nil, "Luis", "Ruiz"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewAttendanceService(mode.store(t).Attendance, nil, nil, nil)

			history, err := svc.History(context.Background(), AttendanceQuery{Course: "1° Año A"})
			require.NoError(t, err)
			require.Len(t, history, 2)

			latest := history[0]
			assert.Equal(t, int64(2), latest.ID)
			assert.True(t, latest.Date.Equal(seedDay(3, 12)))
			require.NotNil(t, latest.SubjectName)
			assert.Equal(t, "Lengua", *latest.SubjectName)
			require.NotNil(t, latest.TeacherName)
			assert.Equal(t, "Fernández, Laura", *latest.TeacherName)
			assert.Equal(t, models.AttendanceCounts{Present: 2, Dismissed: 1}, latest.AttendanceCounts)
			assert.Equal(t, 3, latest.Total)

			first := history[1]
			assert.Equal(t, int64(1), first.ID)
			require.NotNil(t, first.TeacherName)
			assert.Equal(t, "Gómez, Carlos", *first.TeacherName)
			assert.Equal(t, models.AttendanceCounts{Present: 1, Absent: 1, Late: 1}, first.AttendanceCounts)

			records, err := svc.Details(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, records, 3)
			assert.Equal(t, []string{"Díaz, Sofía", "Pérez, Ana", "Ruiz, Luis"},
				[]string{records[0].StudentName, records[1].StudentName, records[2].StudentName})
			assert.Equal(t, models.AttendanceLate, records[0].Status)
			require.NotNil(t, records[0].Note)
			assert.Equal(t, "Llegó 15 minutos tarde", *records[0].Note)
			assert.Nil(t, records[1].Note)
			assert.True(t, records[2].RecordedAt.Equal(seedDay(3, 11).Add(8*time.Hour)))
		})
	}
}

func TestConformanceTopics(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM libro_temas t\s+.*WHERE t.curso = \$1 ORDER BY t.fecha DESC, t.id DESC`).
			WithArgs("1° Año A").
			WillReturnRows(sqlmock.NewRows([]string{"id", "fecha", "curso", "asignatura_id", "asignatura_nombre", "docente_id",
				"tema", "contenido", "actividad", "recursos", "tarea", "evaluacion", "observaciones", "planificado", "estado",
				"docente_nombre", "docente_apellido"}).
				AddRow(int64(2), seedDay(3, 18), "1° Año A", int64(1), "Matemática", int64(1),
					"Suma y resta de enteros", "Reglas de signos", "Resolución guiada", nil, nil, nil, nil, true, "planned",
					"Carlos", "Gómez").
				AddRow(int64(1), seedDay(3, 11), "1° Año A", int64(1), "Matemática", int64(1),
					"Números enteros", "Recta numérica y opuestos", "Ejercicios en grupo", nil, "Página 12, ejercicios 1 a 5", nil, nil, true, "completed",
					"Carlos", "Gómez"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewTopicService(mode.store(t).Topics, nil, nil)

			topics, err := svc.List(context.Background(), TopicQuery{Course: "1° Año A"})
			require.NoError(t, err)
			require.Len(t, topics, 2)

			assert.Equal(t, int64(2), topics[0].ID)
			assert.Equal(t, models.TopicPlanned, topics[0].Status)
			assert.Nil(t, topics[0].Homework)

			entry := topics[1]
			assert.True(t, entry.Date.Equal(seedDay(3, 11)))
			assert.Equal(t, "Números enteros", entry.Topic)
			assert.Equal(t, models.TopicCompleted, entry.Status)
			assert.True(t, entry.Planned)
			require.NotNil(t, entry.SubjectName)
			assert.Equal(t, "Matemática", *entry.SubjectName)
			require.NotNil(t, entry.TeacherName)
			assert.Equal(t, "Gómez, Carlos", *entry.TeacherName)
			require.NotNil(t, entry.Homework)
			assert.Equal(t, "Página 12, ejercicios 1 a 5", *entry.Homework)
		})
	}
}

func TestConformanceReports(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`FROM informes_pedagogicos r\s+.*ORDER BY r.created_at DESC, r.id DESC`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "estudiante_id", "estudiante_curso", "autor_id", "tipo", "periodo",
				"titulo", "contenido", "observaciones", "plantilla_id", "estado", "created_at",
				"estudiante_nombre", "estudiante_apellido", "autor_nombre", "autor_apellido"}).
				AddRow(int64(1), int64(1), "1° Año A", int64(2), "trimestral", "term1",
					"Informe del primer trimestre", "Buen desempeño en el cálculo mental.", nil, int64(1), "finalized",
					time.Date(2024, 5, 28, 15, 0, 0, 0, time.UTC), "Ana", "Pérez", "Carlos", "Gómez").
				AddRow(int64(2), int64(2), "1° Año A", int64(2), "seguimiento", "term1",
					"Seguimiento de asistencia", "Registra inasistencias reiteradas.", "Citar a la familia", nil, "draft",
					time.Date(2024, 4, 2, 11, 30, 0, 0, time.UTC), "Luis", "Ruiz", "Carlos", "Gómez"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewReportService(mode.store(t).Reports, nil, nil)

			reports, err := svc.List(context.Background(), ReportQuery{})
			require.NoError(t, err)
			require.Len(t, reports, 2)

			finalized := reports[0]
			assert.Equal(t, int64(1), finalized.ID)
			assert.Equal(t, "Pérez, Ana", finalized.StudentName)
			assert.Equal(t, "1° Año A", finalized.StudentCourse)
			assert.Equal(t, "Gómez, Carlos", finalized.AuthorName)
			assert.Equal(t, models.ReportFinalized, finalized.Status)
			assert.Equal(t, int64Ptr(1), finalized.TemplateID)
			assert.Nil(t, finalized.Observations)
			assert.True(t, finalized.CreatedAt.Equal(time.Date(2024, 5, 28, 15, 0, 0, 0, time.UTC)))

			draft := reports[1]
			assert.Equal(t, "Ruiz, Luis", draft.StudentName)
			assert.Equal(t, models.ReportDraft, draft.Status)
			assert.Nil(t, draft.TemplateID)
			require.NotNil(t, draft.Observations)
			assert.Equal(t, "Citar a la familia", *draft.Observations)
		})
	}
}

func TestConformanceGradeSave(t *testing.T) {
	modes := bothModes(func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(`SELECT id FROM calificaciones WHERE estudiante_id = \$1 AND asignatura_id = \$2 AND periodo = \$3`).
			WithArgs(int64(3), int64(1), "term1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`INSERT INTO calificaciones`).
			WithArgs(int64(3), int64(1), "term1", 9.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))
		mock.ExpectQuery(`FROM calificaciones c\s+.*WHERE c.id = \$1`).
			WithArgs(int64(6)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "estudiante_id", "asignatura_id", "asignatura_nombre", "periodo", "nota", "fecha", "observaciones"}).
				AddRow(int64(6), int64(3), int64(1), "Matemática", "term1", 9.0, seedDay(6, 3), nil))
		mock.ExpectQuery(`SELECT id FROM calificaciones WHERE`).
			WithArgs(int64(1), int64(1), "term1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectExec(`UPDATE calificaciones SET nota = \$1, observaciones = \$2, fecha = \$3 WHERE id = \$4`).
			WithArgs(7.5, sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM calificaciones c\s+.*WHERE c.id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "estudiante_id", "asignatura_id", "asignatura_nombre", "periodo", "nota", "fecha", "observaciones"}).
				AddRow(int64(1), int64(1), int64(1), "Matemática", "term1", 7.5, seedDay(6, 3), "Recuperó en diciembre"))
	})

	for _, mode := range modes {
		t.Run(mode.name, func(t *testing.T) {
			svc := NewGradeService(mode.store(t).Grades, nil, nil, nil)

			created, err := svc.Save(context.Background(), models.GradeInput{StudentID: 3, SubjectID: 1, Period: "TERM1", Score: 9})
			require.NoError(t, err)
			assert.Equal(t, int64(6), created.ID)
			assert.Equal(t, models.PeriodTerm1, created.Period)
			assert.Equal(t, 9.0, created.Score)
			require.NotNil(t, created.SubjectName)
			assert.Equal(t, "Matemática", *created.SubjectName)
			assert.True(t, created.RecordedOn.Equal(seedDay(6, 3)))
			assert.Nil(t, created.Note)

			updated, err := svc.Save(context.Background(), models.GradeInput{
				StudentID: 1, SubjectID: 1, Period: models.PeriodTerm1, Score: 7.5, Note: strPtr("Recuperó en diciembre"),
			})
			require.NoError(t, err)
			assert.Equal(t, int64(1), updated.ID)
			assert.Equal(t, 7.5, updated.Score)
			assert.Equal(t, models.GradeKey{StudentID: 1, SubjectID: 1, Period: models.PeriodTerm1}, updated.Key())
			require.NotNil(t, updated.Note)
			assert.Equal(t, "Recuperó en diciembre", *updated.Note)
		})
	}
}
