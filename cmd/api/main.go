package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/velocejet/charter-api/docs"
	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/catalog"
	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/database"
	"github.com/velocejet/charter-api/internal/http/handler"
	"github.com/velocejet/charter-api/internal/http/middleware"
	"github.com/velocejet/charter-api/internal/http/router"
	"github.com/velocejet/charter-api/internal/jobs"
	"github.com/velocejet/charter-api/internal/logger"
	"github.com/velocejet/charter-api/internal/maps"
	"github.com/velocejet/charter-api/internal/pdf"
	"github.com/velocejet/charter-api/internal/repository"
	"github.com/velocejet/charter-api/internal/service"
	"github.com/velocejet/charter-api/internal/storage"
	"go.uber.org/zap"
)

// @title VeloceJet Charter API
// @version 1.0
// @description Charter proposal API for private jet flight quoting and PDF generation

// @contact.name API Support
// @contact.email support@velocejet.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "charter-api-staging.velocejet.com"
	case "production":
		docs.SwaggerInfo.Host = "api.velocejet.com"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// In development the schema is kept in sync automatically; staging and
	// production run goose migrations via cmd/migrate.
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto-migrations: %w", err)
		}
	}

	// Initialize storage for uploaded proposal images
	fileStore, err := storage.NewStore(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize the reference catalog source
	var catalogSource catalog.Source
	switch cfg.Catalog.Source {
	case "file":
		catalogSource = catalog.NewFileSource(cfg.Catalog.SnapshotPath)
	default:
		catalogSource, err = catalog.NewSheetsSource(ctx, cfg.Catalog)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets source: %w", err)
		}
	}
	catalogService := catalog.NewService(catalogSource, catalog.NewSnapshotCache(cfg.Catalog.CacheTTL()), log)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	settingsRepo := repository.NewCompanySettingsRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	recentRepo := repository.NewRecentSetupRepository(db)

	// Initialize services
	tokenIssuer := auth.NewTokenIssuer(cfg.Auth)
	accountService := service.NewAccountService(userRepo, profileRepo, settingsRepo, statsRepo, tokenIssuer, log)
	settingsService := service.NewSettingsService(settingsRepo, log)
	renderer := pdf.NewRenderer(pdf.NewHTTPFetcher(), log)
	mapBuilder := maps.NewURLBuilder(cfg.Maps)
	proposalService := service.NewProposalService(settingsService, renderer, mapBuilder, statsRepo, recentRepo, log)
	uploadService := service.NewUploadService(fileStore, cfg.Storage.MaxUploadBytes(), log)
	audienceService := service.NewAudienceService(cfg.Audience, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokenIssuer, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(accountService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)
	proposalHandler := handler.NewProposalHandler(proposalService, log)
	uploadHandler := handler.NewUploadHandler(uploadService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	webhookHandler := handler.NewWebhookHandler(audienceService, log)
	diagnosticsHandler := handler.NewDiagnosticsHandler(catalogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		settingsHandler,
		proposalHandler,
		uploadHandler,
		catalogHandler,
		webhookHandler,
		diagnosticsHandler,
	)

	// Start scheduler with the daily catalog refresh.
	// warmStart=true pre-fetches the catalog so the first search after
	// boot is served from memory.
	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterCatalogRefreshJob(scheduler, catalogService, log, cfg.Catalog.RefreshCron, true); err != nil {
		log.Error("Failed to register catalog refresh job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started with catalog refresh job",
			zap.String("cron_expr", cfg.Catalog.RefreshCron),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler, letting a running refresh finish
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
