package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/escuela-api/internal/middleware"
	"github.com/noah-isme/escuela-api/internal/service"
	"github.com/noah-isme/escuela-api/internal/store"
	"github.com/noah-isme/escuela-api/pkg/config"
	"github.com/noah-isme/escuela-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/escuela-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/escuela-api/pkg/middleware/requestid"
)

// Services is the set of services the HTTP surface dispatches to.
type Services struct {
	Students   *service.StudentService
	Teachers   *service.TeacherService
	Subjects   *service.SubjectService
	Classrooms *service.ClassroomService
	Attendance *service.AttendanceService
	Grades     *service.GradeService
	Topics     *service.TopicService
	Reports    *service.ReportService
	Metrics    *service.MetricsService
}

// NewServices binds every service to st, sharing one validator.
func NewServices(st *store.Store, cache *service.CacheService, metrics *service.MetricsService, log *zap.Logger) Services {
	validate := validator.New()
	return Services{
		Students:   service.NewStudentService(st.Students, validate, log),
		Teachers:   service.NewTeacherService(st.Teachers, validate, log),
		Subjects:   service.NewSubjectService(st.Subjects, cache, metrics, validate, log),
		Classrooms: service.NewClassroomService(st.Classrooms, cache, metrics, validate, log),
		Attendance: service.NewAttendanceService(st.Attendance, metrics, validate, log),
		Grades:     service.NewGradeService(st.Grades, metrics, validate, log),
		Topics:     service.NewTopicService(st.Topics, validate, log),
		Reports:    service.NewReportService(st.Reports, validate, log),
		Metrics:    metrics,
	}
}

// NewRouter builds the gin engine with the middleware chain and every route.
func NewRouter(cfg *config.Config, mode store.Mode, svc Services, log *zap.Logger) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svc.Metrics))

	system := NewMetricsHandler(svc.Metrics, mode)
	r.GET("/health", system.Health)
	r.GET("/ready", system.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", system.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.ResponseMeta(string(mode)))

	students := NewStudentHandler(svc.Students)
	api.GET("/students", students.List)
	api.GET("/students/:id", students.Get)
	api.POST("/students", students.Create)
	api.PATCH("/students/:id", students.Update)
	api.DELETE("/students/:id", students.Delete)

	teachers := NewTeacherHandler(svc.Teachers)
	api.GET("/teachers", teachers.List)
	api.GET("/teachers/:id", teachers.Get)
	api.POST("/teachers", teachers.Create)
	api.PATCH("/teachers/:id", teachers.Update)
	api.DELETE("/teachers/:id", teachers.Delete)

	subjects := NewSubjectHandler(svc.Subjects)
	api.GET("/subjects", subjects.List)
	api.GET("/subjects/:id", subjects.Get)
	api.POST("/subjects", subjects.Create)
	api.PATCH("/subjects/:id", subjects.Update)
	api.DELETE("/subjects/:id", subjects.Delete)

	classrooms := NewClassroomHandler(svc.Classrooms)
	api.GET("/classrooms", classrooms.List)
	api.GET("/classrooms/:id", classrooms.Get)
	api.POST("/classrooms", classrooms.Create)
	api.PATCH("/classrooms/:id", classrooms.Update)
	api.DELETE("/classrooms/:id", classrooms.Delete)

	attendance := NewAttendanceHandler(svc.Attendance)
	api.POST("/attendance", attendance.Save)
	api.GET("/attendance/history", attendance.History)
	api.GET("/attendance/sessions/:id/details", attendance.Details)
	api.GET("/attendance/students/:id/stats", attendance.StudentStats)
	api.GET("/attendance/report", attendance.Report)
	api.GET("/attendance/report/export", attendance.Export)

	grades := NewGradeHandler(svc.Grades)
	api.GET("/grades", grades.CourseGrades)
	api.PUT("/grades", grades.Save)
	api.POST("/grades/batch", grades.SaveBatch)
	api.GET("/grades/students/:id", grades.StudentGrades)

	topics := NewTopicHandler(svc.Topics)
	api.GET("/topics", topics.List)
	api.GET("/topics/:id", topics.Get)
	api.POST("/topics", topics.Create)
	api.PATCH("/topics/:id", topics.Update)
	api.DELETE("/topics/:id", topics.Delete)

	reports := NewReportHandler(svc.Reports)
	api.GET("/reports", reports.List)
	api.GET("/reports/:id", reports.Get)
	api.POST("/reports", reports.Create)
	api.PATCH("/reports/:id", reports.Update)
	api.DELETE("/reports/:id", reports.Delete)
	api.GET("/report-templates", reports.Templates)

	return r
}
