package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/campushq/school-api/api/swagger"
	"github.com/campushq/school-api/internal/handler"
	"github.com/campushq/school-api/internal/repository"
	"github.com/campushq/school-api/internal/router"
	"github.com/campushq/school-api/internal/service"
	"github.com/campushq/school-api/pkg/cache"
	"github.com/campushq/school-api/pkg/config"
	"github.com/campushq/school-api/pkg/database"
	"github.com/campushq/school-api/pkg/export"
	"github.com/campushq/school-api/pkg/logger"
)

const version = "1.0.0"

// @title School Management API
// @version 1.0.0
// @description Role-partitioned REST backend for school administration
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.NoticeTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	classRepo := repository.NewClassRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	homeworkRepo := repository.NewHomeworkRepository(db)
	markRepo := repository.NewMarkRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, logr)
	authSvc := service.NewAuthService(userRepo, sessionRepo, auditRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.Auth.TokenSecret,
		SessionTTL:  cfg.Auth.SessionTTL,
		Issuer:      cfg.Auth.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, validate, logr)
	homeworkSvc := service.NewHomeworkService(homeworkRepo, validate, logr)
	markSvc := service.NewMarkService(markRepo, validate, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, cacheSvc, cfg.Cache.NoticeTTL, validate, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, cacheSvc, cfg.Cache.CalendarTTL, validate, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, cacheSvc, cfg.Cache.TimetableTTL, validate, logr)
	reportSvc := service.NewReportService(markRepo, attendanceRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	r := router.Setup(cfg, logr, router.Dependencies{
		Auth:    authSvc,
		Metrics: metrics,

		AuthHandler:       handler.NewAuthHandler(authSvc),
		UserHandler:       handler.NewUserHandler(userSvc, auditSvc),
		ClassHandler:      handler.NewClassHandler(classSvc, auditSvc),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceSvc, auditSvc),
		HomeworkHandler:   handler.NewHomeworkHandler(homeworkSvc, auditSvc),
		MarkHandler:       handler.NewMarkHandler(markSvc, auditSvc),
		NoticeHandler:     handler.NewNoticeHandler(noticeSvc, auditSvc),
		CalendarHandler:   handler.NewCalendarHandler(calendarSvc, auditSvc),
		TimetableHandler:  handler.NewTimetableHandler(timetableSvc, auditSvc),
		AuditHandler:      handler.NewAuditHandler(auditSvc),
		ReportHandler:     handler.NewReportHandler(reportSvc),
		HealthHandler:     handler.NewHealthHandler(db, redisClient, version),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
