package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/config"
	"github.com/noah-isme/gradebook-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gradebook-api/pkg/middleware/requestid"
)

// Dependencies carries everything the router needs to wire the HTTP surface.
type Dependencies struct {
	Auth     *handler.AuthHandler
	Students *handler.StudentHandler
	Subjects *handler.SubjectHandler
	Grades   *handler.GradeHandler
	Reports  *handler.ReportHandler

	AuthService *service.AuthService
	Metrics     *service.MetricsService
}

// New assembles the gin engine: recovery, request id, logging, CORS and
// metrics on every route; bearer auth on everything except health, metrics,
// docs and the auth endpoints themselves.
func New(cfg *config.Config, logr *zap.Logger, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
	}

	protected := api.Group("", middleware.Auth(deps.AuthService))

	students := protected.Group("/students")
	{
		students.POST("", deps.Students.Create)
		students.GET("", deps.Students.List)
		students.GET("/details", deps.Students.Details)
		students.GET("/alldetails", deps.Students.AllDetails)
		students.DELETE("/:student_id", deps.Students.Delete)
	}

	subjects := protected.Group("/subjects")
	{
		subjects.POST("", deps.Subjects.Create)
		subjects.GET("", deps.Subjects.List)
		subjects.DELETE("/:subject_id", deps.Subjects.Delete)
	}

	grades := protected.Group("/grades")
	{
		grades.POST("", deps.Grades.Create)
		grades.PUT("/update", deps.Grades.Update)
		grades.DELETE("/:student_id/:subject_id", deps.Grades.Delete)
		grades.GET("/student/:student_id", deps.Grades.ListByStudent)
		grades.GET("/subject/:subject_id", deps.Grades.ListBySubject)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("", deps.Reports.AveragePerSubject)
		reports.GET("/top/:subject_id", deps.Reports.TopBySubject)
		reports.GET("/top", deps.Reports.TopOverall)
		reports.GET("/rank", deps.Reports.Ranklist)
		reports.GET("/rank/export", deps.Reports.ExportRanklist)
	}

	return r
}
