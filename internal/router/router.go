package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/campushq/school-api/internal/handler"
	"github.com/campushq/school-api/internal/middleware"
	"github.com/campushq/school-api/internal/models"
	"github.com/campushq/school-api/internal/service"
	"github.com/campushq/school-api/pkg/config"
	"github.com/campushq/school-api/pkg/logger"
	corsmiddleware "github.com/campushq/school-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/school-api/pkg/middleware/requestid"
)

// Dependencies bundles everything the router mounts.
type Dependencies struct {
	Auth    *service.AuthService
	Metrics *service.MetricsService

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	ClassHandler      *handler.ClassHandler
	AttendanceHandler *handler.AttendanceHandler
	HomeworkHandler   *handler.HomeworkHandler
	MarkHandler       *handler.MarkHandler
	NoticeHandler     *handler.NoticeHandler
	CalendarHandler   *handler.CalendarHandler
	TimetableHandler  *handler.TimetableHandler
	AuditHandler      *handler.AuditHandler
	ReportHandler     *handler.ReportHandler
	HealthHandler     *handler.HealthHandler
}

// Setup builds the gin engine with the full route table. Each role partition
// lives under its own prefix and is guarded by the auth chain for that role.
func Setup(cfg *config.Config, logr *zap.Logger, deps Dependencies) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.GET("/health", deps.HealthHandler.Check)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	students := api.Group("/students")
	{
		students.POST("/login", middleware.GuestOnly(deps.Auth), deps.AuthHandler.Login(models.RoleStudent))

		authed := students.Group("", middleware.RequireRole(deps.Auth, models.RoleStudent))
		authed.POST("/logout", deps.AuthHandler.Logout)
		authed.GET("/me", deps.AuthHandler.Me)
		authed.POST("/password", deps.AuthHandler.ChangePassword)

		authed.GET("/attendance", deps.AttendanceHandler.ListMine)
		authed.GET("/homework", deps.HomeworkHandler.ListMine)
		authed.GET("/marks", deps.MarkHandler.ListMine)
		authed.GET("/notices", deps.NoticeHandler.ListMine)
		authed.GET("/calendar", deps.CalendarHandler.List)
		authed.GET("/timetable", deps.TimetableHandler.ListMine)
	}

	teachers := api.Group("/teachers")
	{
		teachers.POST("/login", middleware.GuestOnly(deps.Auth), deps.AuthHandler.Login(models.RoleTeacher))

		authed := teachers.Group("", middleware.RequireRole(deps.Auth, models.RoleTeacher))
		authed.POST("/logout", deps.AuthHandler.Logout)
		authed.GET("/me", deps.AuthHandler.Me)
		authed.POST("/password", deps.AuthHandler.ChangePassword)

		authed.POST("/attendance", deps.AttendanceHandler.Take)
		authed.GET("/attendance", deps.AttendanceHandler.List)

		authed.POST("/homework", deps.HomeworkHandler.Create)
		authed.GET("/homework", deps.HomeworkHandler.List)
		authed.PUT("/homework/:id", deps.HomeworkHandler.Update)
		authed.DELETE("/homework/:id", deps.HomeworkHandler.Delete)

		authed.POST("/marks", deps.MarkHandler.Record)
		authed.GET("/marks", deps.MarkHandler.List)
		authed.PUT("/marks/:id", deps.MarkHandler.Update)
		authed.DELETE("/marks/:id", deps.MarkHandler.Delete)

		authed.GET("/notices", deps.NoticeHandler.List)
		authed.GET("/calendar", deps.CalendarHandler.List)
		authed.GET("/timetable", deps.TimetableHandler.ListMine)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", middleware.GuestOnly(deps.Auth), deps.AuthHandler.Login(models.RoleAdmin))

		authed := admin.Group("", middleware.RequireRole(deps.Auth, models.RoleAdmin))
		authed.POST("/logout", deps.AuthHandler.Logout)
		authed.GET("/me", deps.AuthHandler.Me)
		authed.POST("/password", deps.AuthHandler.ChangePassword)

		authed.GET("/accounts", deps.UserHandler.List)
		authed.POST("/accounts", deps.UserHandler.Create)
		authed.GET("/accounts/:id", deps.UserHandler.Get)
		authed.PUT("/accounts/:id", deps.UserHandler.Update)
		authed.POST("/accounts/:id/password", deps.UserHandler.ResetPassword)
		authed.DELETE("/accounts/:id", deps.UserHandler.Delete)

		authed.GET("/classes", deps.ClassHandler.List)
		authed.POST("/classes", deps.ClassHandler.Create)
		authed.GET("/classes/:id", deps.ClassHandler.Get)
		authed.PUT("/classes/:id", deps.ClassHandler.Update)
		authed.DELETE("/classes/:id", deps.ClassHandler.Delete)

		authed.GET("/attendance", deps.AttendanceHandler.List)
		authed.GET("/homework", deps.HomeworkHandler.List)
		authed.GET("/marks", deps.MarkHandler.List)

		authed.GET("/notices", deps.NoticeHandler.List)
		authed.POST("/notices", deps.NoticeHandler.Create)
		authed.PUT("/notices/:id", deps.NoticeHandler.Update)
		authed.DELETE("/notices/:id", deps.NoticeHandler.Delete)

		authed.GET("/calendar", deps.CalendarHandler.List)
		authed.POST("/calendar", deps.CalendarHandler.Create)
		authed.PUT("/calendar/:id", deps.CalendarHandler.Update)
		authed.DELETE("/calendar/:id", deps.CalendarHandler.Delete)

		authed.GET("/timetable", deps.TimetableHandler.List)
		authed.POST("/timetable", deps.TimetableHandler.Create)
		authed.PUT("/timetable/:id", deps.TimetableHandler.Update)
		authed.DELETE("/timetable/:id", deps.TimetableHandler.Delete)

		authed.GET("/audit", deps.AuditHandler.List)
		authed.GET("/reports/marks", deps.ReportHandler.Marks)
		authed.GET("/reports/attendance", deps.ReportHandler.Attendance)
	}

	return r
}
