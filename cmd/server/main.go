package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/bookworks/backend/internal/application/catalog"
	partnerapp "github.com/bookworks/backend/internal/application/partner"
	salesapp "github.com/bookworks/backend/internal/application/sales"
	"github.com/bookworks/backend/internal/domain/metadata"
	"github.com/bookworks/backend/internal/infrastructure/catalogapi"
	"github.com/bookworks/backend/internal/infrastructure/config"
	"github.com/bookworks/backend/internal/infrastructure/export"
	"github.com/bookworks/backend/internal/infrastructure/logger"
	"github.com/bookworks/backend/internal/infrastructure/persistence"
	"github.com/bookworks/backend/internal/infrastructure/scheduler"
	"github.com/bookworks/backend/internal/interfaces/http/handler"
	"github.com/bookworks/backend/internal/interfaces/http/middleware"
	"github.com/bookworks/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Bookworks Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	bookRepo := persistence.NewGormBookRepository(db.DB)
	vendorRepo := persistence.NewGormBookVendorRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	exportLogRepo := persistence.NewGormExportLogRepository(db.DB)
	salesQuery := persistence.NewGormSalesQuery(db.DB)

	// Catalog sources and enrichment
	images := catalogapi.NewImageDownloader(log)
	vendorLinkService := catalogapp.NewVendorLinkService(bookRepo, supplierRepo, vendorRepo, log)
	sources := buildSources(cfg, images, vendorLinkService, log)

	bookService := catalogapp.NewBookService(bookRepo)
	enrichmentService := catalogapp.NewEnrichmentService(bookRepo, sources, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo)

	// Sales export
	uploader := export.NewSFTPUploader(cfg.Export.SFTP, log)
	exportService := salesapp.NewExportService(salesQuery, exportLogRepo, uploader, cfg.Export.OutletName, log)

	var exportScheduler *scheduler.ExportCronScheduler
	if cfg.Scheduler.Enabled {
		exportScheduler, err = scheduler.NewExportCronScheduler(scheduler.ExportCronSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			DailyCronSchedule: cfg.Scheduler.DailyCronSchedule,
			JobTimeout:        cfg.Scheduler.JobTimeout,
		}, exportService, log)
		if err != nil {
			log.Fatal("Failed to create export scheduler", zap.Error(err))
		}
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start export scheduler", zap.Error(err))
		}
	}

	// Handlers
	bookHandler := handler.NewBookHandler(bookService, enrichmentService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	exportHandler := handler.NewExportHandler(exportService, exportScheduler)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))

	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/books", bookHandler.List)
	catalogRoutes.GET("/books/:id", bookHandler.GetByID)
	catalogRoutes.GET("/books/isbn/:isbn", bookHandler.GetByISBN)
	catalogRoutes.POST("/books/:id/enrich", bookHandler.Enrich)
	catalogRoutes.POST("/books/:id/refresh-metadata", bookHandler.RefreshMetadata)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/suppliers", supplierHandler.Create)
	partnerRoutes.GET("/suppliers", supplierHandler.List)
	partnerRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	partnerRoutes.GET("/suppliers/code/:code", supplierHandler.GetByCode)
	partnerRoutes.PUT("/suppliers/:id", supplierHandler.Rename)
	partnerRoutes.POST("/suppliers/:id/deactivate", supplierHandler.Deactivate)

	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("/exports/run", exportHandler.Run)
	salesRoutes.GET("/exports/logs", exportHandler.ListLogs)
	salesRoutes.GET("/exports/schedule", exportHandler.ScheduleStatus)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(partnerRoutes).
		Register(salesRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: engine,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if exportScheduler != nil {
		if err := exportScheduler.Stop(ctx); err != nil {
			log.Warn("Export scheduler did not stop cleanly", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildSources assembles the configured catalog sources in priority order.
// Hardcover is consulted first; a source with no credential is skipped.
func buildSources(cfg *config.Config, images *catalogapi.ImageDownloader, linker catalogapi.SupplierLinker, log *zap.Logger) []metadata.Source {
	sources := make([]metadata.Source, 0, 2)

	if cfg.Hardcover.Configured() {
		adapter, err := catalogapi.NewHardcoverAdapter(&catalogapi.HardcoverConfig{
			APIKey:  cfg.Hardcover.APIKey,
			BaseURL: cfg.Hardcover.BaseURL,
			Timeout: time.Duration(cfg.Hardcover.TimeoutSeconds) * time.Second,
		}, images, log)
		if err != nil {
			log.Warn("Hardcover source disabled", zap.Error(err))
		} else {
			sources = append(sources, adapter)
			log.Info("Hardcover source configured")
		}
	}

	if cfg.Titlepage.Configured() {
		adapter, err := catalogapi.NewTitlepageAdapter(&catalogapi.TitlepageConfig{
			APIToken:    cfg.Titlepage.APIToken,
			BaseURL:     cfg.Titlepage.BaseURL,
			Timeout:     time.Duration(cfg.Titlepage.TimeoutSeconds) * time.Second,
			CountryCode: cfg.Titlepage.CountryCode,
		}, images, linker, log)
		if err != nil {
			log.Warn("Titlepage source disabled", zap.Error(err))
		} else {
			sources = append(sources, adapter)
			log.Info("Titlepage source configured")
		}
	}

	if len(sources) == 0 {
		log.Warn("No catalog source configured; enrichment will be rejected")
	}

	return sources
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
