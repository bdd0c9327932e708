package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	_ "github.com/noah-isme/gradebook-api/api/swagger"
	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/router"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/cache"
	"github.com/noah-isme/gradebook-api/pkg/config"
	"github.com/noah-isme/gradebook-api/pkg/database"
	"github.com/noah-isme/gradebook-api/pkg/logger"
	"github.com/noah-isme/gradebook-api/pkg/response"
)

// @title Gradebook API
// @version 1.0.0
// @description Student grade records with per-subject and per-student reports
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	response.SetDebug(cfg.Env != config.EnvProduction)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
	}
	reportCache := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)

	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWT, nil, logr)
	studentService := service.NewStudentService(studentRepo, gradeRepo, reportCache, cfg.Cleanup.OrphanPolicy, logr)
	subjectService := service.NewSubjectService(subjectRepo, gradeRepo, reportCache, cfg.Cleanup.OrphanPolicy, logr)
	gradeService := service.NewGradeService(gradeRepo, studentRepo, subjectRepo, reportCache, logr)
	reportService := service.NewReportService(reportRepo, reportCache, metrics, logr)

	r := router.New(cfg, logr, router.Dependencies{
		Auth:        handler.NewAuthHandler(authService),
		Students:    handler.NewStudentHandler(studentService),
		Subjects:    handler.NewSubjectHandler(subjectService),
		Grades:      handler.NewGradeHandler(gradeService),
		Reports:     handler.NewReportHandler(reportService),
		AuthService: authService,
		Metrics:     metrics,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
