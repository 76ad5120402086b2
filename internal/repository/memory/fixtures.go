package memory

import (
	"time"

	"github.com/noah-isme/escuela-api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

// Fixtures returns a fresh seed describing a small school: two courses, three teachers,
// the subjects they teach, a week of attendance and the first-term grades.
func Fixtures() Seed {
	return Seed{
		Users: []models.User{
			{ID: 1, DNI: "30111222", FirstName: "Marta", LastName: "López", Email: "marta.lopez@escuela.edu", Role: models.RoleDirector},
			{ID: 2, DNI: "28333444", FirstName: "Carlos", LastName: "Gómez", Email: "carlos.gomez@escuela.edu", Role: models.RoleTeacher},
			{ID: 3, DNI: "29555666", FirstName: "Laura", LastName: "Fernández", Email: "laura.fernandez@escuela.edu", Role: models.RoleTeacher},
			{ID: 4, DNI: "31777888", FirstName: "Jorge", LastName: "Martínez", Email: "jorge.martinez@escuela.edu", Role: models.RoleTeacher},
			{ID: 5, DNI: "45111222", FirstName: "Ana", LastName: "Pérez", Email: "ana.perez@alumnos.escuela.edu", Role: models.RoleStudent},
			{ID: 6, DNI: "45333444", FirstName: "Luis", LastName: "Ruiz", Email: "luis.ruiz@alumnos.escuela.edu", Role: models.RoleStudent},
			{ID: 7, DNI: "45555666", FirstName: "Sofía", LastName: "Díaz", Email: "sofia.diaz@alumnos.escuela.edu", Role: models.RoleStudent},
			{ID: 8, DNI: "44777888", FirstName: "Tomás", LastName: "Acosta", Email: "tomas.acosta@alumnos.escuela.edu", Role: models.RoleStudent},
			{ID: 9, DNI: "44999000", FirstName: "Valentina", LastName: "Sosa", Email: "valentina.sosa@alumnos.escuela.edu", Role: models.RoleStudent},
		},
		Teachers: []TeacherRow{
			{ID: 1, UserID: 2, Specialty: "Matemática"},
			{ID: 2, UserID: 3, Specialty: "Lengua y Literatura"},
			{ID: 3, UserID: 4, Specialty: "Ciencias Naturales"},
		},
		Students: []StudentRow{
			{ID: 1, UserID: 5, Course: "1° Año A"},
			{ID: 2, UserID: 6, Course: "1° Año A"},
			{ID: 3, UserID: 7, Course: "1° Año A"},
			{ID: 4, UserID: 8, Course: "2° Año B"},
			{ID: 5, UserID: 9, Course: "2° Año B"},
		},
		Subjects: []models.Subject{
			{ID: 1, Name: "Matemática", Course: "1° Año A", TeacherID: ptr(int64(1)), Description: ptr("Aritmética y álgebra inicial"), WeeklyHours: 5},
			{ID: 2, Name: "Lengua", Course: "1° Año A", TeacherID: ptr(int64(2)), WeeklyHours: 4},
			{ID: 3, Name: "Biología", Course: "2° Año B", TeacherID: ptr(int64(3)), WeeklyHours: 3},
			{ID: 4, Name: "Matemática", Course: "2° Año B", TeacherID: ptr(int64(1)), WeeklyHours: 5},
			{ID: 5, Name: "Educación Artística", Course: "1° Año A", WeeklyHours: 2},
		},
		Classrooms: []models.Classroom{
			{ID: 1, Name: "Aula 101", Capacity: 30, Location: "Planta baja", Resources: ptr("Proyector"), Active: true},
			{ID: 2, Name: "Aula 102", Capacity: 28, Location: "Planta baja", Active: true},
			{ID: 3, Name: "Laboratorio", Capacity: 20, Location: "Primer piso", Resources: ptr("Microscopios, mesadas"), Active: true},
			{ID: 4, Name: "Aula 201", Capacity: 30, Location: "Primer piso", Active: false},
		},
		Sessions: []models.AttendanceSession{
			{ID: 1, Date: day(2024, 3, 11), TeacherID: 1, SubjectID: 1, Course: "1° Año A"},
			{ID: 2, Date: day(2024, 3, 12), TeacherID: 2, SubjectID: 2, Course: "1° Año A"},
			{ID: 3, Date: day(2024, 3, 13), TeacherID: 3, SubjectID: 3, Course: "2° Año B"},
		},
		Records: []models.AttendanceRecord{
			{ID: 1, SessionID: 1, StudentID: 1, Status: models.AttendancePresent, RecordedAt: day(2024, 3, 11).Add(8 * time.Hour)},
			{ID: 2, SessionID: 1, StudentID: 2, Status: models.AttendanceAbsent, RecordedAt: day(2024, 3, 11).Add(8 * time.Hour)},
			{ID: 3, SessionID: 1, StudentID: 3, Status: models.AttendanceLate, RecordedAt: day(2024, 3, 11).Add(8 * time.Hour), Note: ptr("Llegó 15 minutos tarde")},
			{ID: 4, SessionID: 2, StudentID: 1, Status: models.AttendancePresent, RecordedAt: day(2024, 3, 12).Add(10 * time.Hour)},
			{ID: 5, SessionID: 2, StudentID: 2, Status: models.AttendancePresent, RecordedAt: day(2024, 3, 12).Add(10 * time.Hour)},
			{ID: 6, SessionID: 2, StudentID: 3, Status: models.AttendanceDismissed, RecordedAt: day(2024, 3, 12).Add(10 * time.Hour)},
			{ID: 7, SessionID: 3, StudentID: 4, Status: models.AttendancePresent, RecordedAt: day(2024, 3, 13).Add(9 * time.Hour)},
			{ID: 8, SessionID: 3, StudentID: 5, Status: models.AttendanceAbsent, RecordedAt: day(2024, 3, 13).Add(9 * time.Hour)},
		},
		Grades: []models.Grade{
			{ID: 1, StudentID: 1, SubjectID: 1, Period: models.PeriodTerm1, Score: 7, RecordedOn: day(2024, 5, 20)},
			{ID: 2, StudentID: 1, SubjectID: 1, Period: models.PeriodTerm2, Score: 8, RecordedOn: day(2024, 8, 26)},
			{ID: 3, StudentID: 2, SubjectID: 1, Period: models.PeriodTerm1, Score: 6, RecordedOn: day(2024, 5, 20)},
			{ID: 4, StudentID: 1, SubjectID: 2, Period: models.PeriodTerm1, Score: 9, RecordedOn: day(2024, 5, 21)},
			{ID: 5, StudentID: 4, SubjectID: 3, Period: models.PeriodTerm1, Score: 8.5, RecordedOn: day(2024, 5, 22)},
		},
		Topics: []models.Topic{
			{ID: 1, Date: day(2024, 3, 11), Course: "1° Año A", SubjectID: 1, TeacherID: 1, Topic: "Números enteros",
				Content: "Recta numérica y opuestos", Activity: "Ejercicios en grupo", Homework: ptr("Página 12, ejercicios 1 a 5"),
				Planned: true, Status: models.TopicCompleted},
			{ID: 2, Date: day(2024, 3, 18), Course: "1° Año A", SubjectID: 1, TeacherID: 1, Topic: "Suma y resta de enteros",
				Content: "Reglas de signos", Activity: "Resolución guiada", Planned: true, Status: models.TopicPlanned},
			{ID: 3, Date: day(2024, 3, 13), Course: "2° Año B", SubjectID: 3, TeacherID: 3, Topic: "La célula",
				Content: "Organelas y funciones", Activity: "Observación al microscopio", Resources: ptr("Laboratorio"),
				Planned: true, Status: models.TopicInProgress},
		},
		Reports: []models.Report{
			{ID: 1, StudentID: 1, AuthorID: 2, ReportType: "trimestral", Period: "term1", Title: "Informe del primer trimestre",
				Content: "Buen desempeño en el cálculo mental.", TemplateID: ptr(int64(1)), Status: models.ReportFinalized,
				CreatedAt: time.Date(2024, 5, 28, 15, 0, 0, 0, time.UTC)},
			{ID: 2, StudentID: 2, AuthorID: 2, ReportType: "seguimiento", Period: "term1", Title: "Seguimiento de asistencia",
				Content: "Registra inasistencias reiteradas.", Observations: ptr("Citar a la familia"), Status: models.ReportDraft,
				CreatedAt: time.Date(2024, 4, 2, 11, 30, 0, 0, time.UTC)},
		},
		Templates: []models.ReportTemplate{
			{ID: 1, Name: "Informe trimestral", ReportType: "trimestral", Content: "Desempeño general:\nFortalezas:\nAspectos a mejorar:", Active: true},
			{ID: 2, Name: "Seguimiento", ReportType: "seguimiento", Content: "Situación observada:\nAcciones acordadas:", Active: true},
			{ID: 3, Name: "Informe anual (2019)", ReportType: "anual", Content: "Síntesis del año:", Active: false},
		},
	}
}
