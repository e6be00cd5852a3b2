package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schoolward/timetable-api/api/swagger"
	"github.com/schoolward/timetable-api/internal/handler"
	"github.com/schoolward/timetable-api/internal/middleware"
	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/internal/repository"
	"github.com/schoolward/timetable-api/internal/service"
	"github.com/schoolward/timetable-api/pkg/cache"
	"github.com/schoolward/timetable-api/pkg/config"
	"github.com/schoolward/timetable-api/pkg/database"
	"github.com/schoolward/timetable-api/pkg/logger"
	corsmiddleware "github.com/schoolward/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolward/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 1.0.0
// @description Recurring weekly timetable management scoped to academic quarters
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The calendar cache degrades to a pass-through without Redis.
		logr.Sugar().Warnw("redis unavailable, calendar cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	yearRepo := repository.NewAcademicYearRepository(db)
	slotRepo := repository.NewScheduleSlotRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	calendarSvc := service.NewCalendarService(yearRepo, cacheRepo, cfg.Calendar.CacheTTL, logr)
	yearSvc := service.NewAcademicYearService(yearRepo, calendarSvc, cfg.Timetable, validate, logr)
	syncSvc := service.NewSlotSyncService(slotRepo, calendarSvc, cfg.Timetable, logr).WithMetrics(metricsSvc)
	slotSvc := service.NewScheduleSlotService(slotRepo, syncSvc, validate, logr)
	exportSvc := service.NewExportService(slotRepo)

	yearHandler := handler.NewAcademicYearHandler(yearSvc)
	slotHandler := handler.NewScheduleSlotHandler(slotSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	years := api.Group("/academic-years")
	{
		years.GET("", yearHandler.List)
		years.GET("/current", yearHandler.GetCurrent)
		years.GET("/current/quarter", yearHandler.GetCurrentQuarter)
		years.GET("/:id", yearHandler.Get)
		years.GET("/:id/quarters", yearHandler.GetQuarters)

		admin := years.Group("", middleware.JWT(cfg.JWT.Secret), middleware.RBAC(models.RoleAdmin))
		admin.POST("", yearHandler.Create)
		admin.PUT("/:id", yearHandler.Update)
		admin.POST("/:id/activate", yearHandler.Activate)
		admin.DELETE("/:id", yearHandler.Delete)
	}

	slots := api.Group("/schedule-slots")
	{
		slots.GET("", slotHandler.List)
		slots.GET("/:id", slotHandler.Get)

		staff := slots.Group("", middleware.JWT(cfg.JWT.Secret), middleware.RBAC(models.RoleAdmin, models.RoleTeacher))
		staff.POST("", slotHandler.Create)
		staff.PATCH("/:id", slotHandler.Patch)
		staff.DELETE("/:id", slotHandler.Delete)
	}

	groups := api.Group("/subject-groups")
	{
		groups.GET("/:id/schedule-slots/export", slotHandler.Export)

		staff := groups.Group("", middleware.JWT(cfg.JWT.Secret), middleware.RBAC(models.RoleAdmin, models.RoleTeacher))
		staff.PUT("/:id/schedule-slots", slotHandler.Replace)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
