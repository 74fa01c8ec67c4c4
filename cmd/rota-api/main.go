package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/calloway-health/pbx-rota-api/internal/handler"
	"github.com/calloway-health/pbx-rota-api/internal/middleware"
	"github.com/calloway-health/pbx-rota-api/internal/repository"
	"github.com/calloway-health/pbx-rota-api/internal/scheduling"
	"github.com/calloway-health/pbx-rota-api/internal/service"
	"github.com/calloway-health/pbx-rota-api/pkg/cache"
	"github.com/calloway-health/pbx-rota-api/pkg/config"
	"github.com/calloway-health/pbx-rota-api/pkg/database"
	"github.com/calloway-health/pbx-rota-api/pkg/export"
	"github.com/calloway-health/pbx-rota-api/pkg/jobs"
	"github.com/calloway-health/pbx-rota-api/pkg/logger"
	corsmiddleware "github.com/calloway-health/pbx-rota-api/pkg/middleware/cors"
	reqidmiddleware "github.com/calloway-health/pbx-rota-api/pkg/middleware/requestid"
	"github.com/calloway-health/pbx-rota-api/pkg/storage"
)

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
		logr.Sugar().Warnw("redis unavailable, coverage report caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	employeeRepo := repository.NewEmployeeRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	timeOffRepo := repository.NewTimeOffRepository(db)
	tradeRepo := repository.NewShiftTradeRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	engine := scheduling.NewEngine(logr)

	rotaSvc := service.NewRotaService(db, employeeRepo, assignmentRepo, timeOffRepo, engine, redisClient, metricsSvc, validate, logr, service.RotaServiceConfig{
		MaxWeeks:       cfg.Rota.MaxWeeks,
		AuditInterval:  cfg.Rota.AuditInterval,
		ReportCacheTTL: cfg.Rota.ReportCacheTTL,
	})
	employeeSvc := service.NewEmployeeService(employeeRepo, validate, logr)
	timeOffSvc := service.NewTimeOffService(timeOffRepo, employeeRepo, validate, logr)
	tradeSvc := service.NewTradeService(db, tradeRepo, assignmentRepo, validate, logr)

	rotaHandler := handler.NewRotaHandler(rotaSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	timeOffHandler := handler.NewTimeOffHandler(timeOffSvc)
	tradeHandler := handler.NewTradeHandler(tradeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	rota := api.Group("/rota")
	rota.POST("/generate", rotaHandler.Generate)
	rota.GET("/assignments", rotaHandler.ListAssignments)
	rota.GET("/coverage", rotaHandler.CoverageReport)

	employees := api.Group("/employees")
	employees.POST("", employeeHandler.Create)
	employees.GET("", employeeHandler.List)
	employees.GET("/:id", employeeHandler.Get)
	employees.PATCH("/:id", employeeHandler.Update)
	employees.DELETE("/:id", employeeHandler.Deactivate)

	timeOff := api.Group("/time-off")
	timeOff.POST("", timeOffHandler.Create)
	timeOff.GET("", timeOffHandler.List)
	timeOff.POST("/:id/decision", timeOffHandler.Decide)

	trades := api.Group("/trades")
	trades.POST("", tradeHandler.Propose)
	trades.GET("", tradeHandler.List)
	trades.POST("/:id/decision", tradeHandler.Decide)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(assignmentRepo, files, signer, service.ExportConfig{
			APIPrefix:     cfg.APIPrefix,
			ResultTTL:     cfg.Exports.SignedURLTTL,
			AuditInterval: cfg.Rota.AuditInterval,
		}, logr, export.NewCSVExporter(), export.NewPDFExporter(), export.NewExcelExporter())

		worker := service.NewExportWorker(exportJobRepo, exportSvc, metricsSvc, cfg.Exports.WorkerRetries, logr)
		exportQueue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportQueue.Start(ctx)

		exportJobSvc := service.NewExportJobService(exportJobRepo, exportQueue, exportSvc, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)

		exportHandler := handler.NewExportHandler(exportJobSvc)
		exports := api.Group("/exports")
		exports.POST("", exportHandler.Create)
		exports.GET("/:id", exportHandler.Status)
		exports.GET("/download/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if exportQueue != nil {
		exportQueue.Stop()
	}
}
