package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realtyflow/internal/cache"
	"realtyflow/internal/config"
	"realtyflow/internal/questionnaire"
	"realtyflow/internal/repository"
	"realtyflow/internal/service"
	"realtyflow/internal/transport/rest"
	"realtyflow/internal/transport/ws"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)
	logger.Info("Connected to MongoDB", zap.String("db", cfg.MongoDB))

	db := mongoClient.Database(cfg.MongoDB)
	repository.EnsureIndexes(ctx, db, logger)

	// Redis connection
	rdb, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()
	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)
	defer wsHub.Close()

	// Initialize repositories
	leadRepo := repository.NewLeadRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	postRepo := repository.NewPostRepo(db)
	draftRepo := repository.NewDraftRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb, cfg.Wizard.SessionTTL)
	tokenCache := cache.NewTokenCache(rdb)

	// Questionnaires: embedded catalogs, optionally overlaid and hot-reloaded from a directory
	registry, err := questionnaire.Load(cfg.Wizard.CatalogDir)
	if err != nil {
		logger.Fatal("Failed to load questionnaires", zap.Error(err))
	}
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Wizard.CatalogDir != "" {
		if _, err := questionnaire.Watch(watchCtx, cfg.Wizard.CatalogDir, registry, logger.Named("catalog")); err != nil {
			logger.Warn("Catalog hot reload disabled", zap.Error(err))
		}
	}

	// Async boundary: simulated submitter, media processor and sender
	submitter, media, sender := service.NewSimulatedPorts(cfg.Automation)

	// Initialize services
	authSvc := service.NewAuthService(cfg.Auth, tokenCache)
	wizardSvc, err := service.NewWizardService(
		registry,
		sessionCache,
		draftRepo,
		submissionRepo,
		submitter,
		cfg.Wizard,
		logger.Named("wizard"),
	)
	if err != nil {
		logger.Fatal("Failed to create wizard service", zap.Error(err))
	}
	dashboardSvc := service.NewDashboardService(leadRepo, commentRepo, postRepo, submissionRepo, logger.Named("dashboard"))
	automationSvc := service.NewAutomationService(media, sender, leadRepo, cfg.Automation.MaxConcurrentSends, logger.Named("automation"))

	// Inject broadcaster (wsHub implements service.Broadcaster)
	wizardSvc.SetBroadcaster(wsHub)
	dashboardSvc.SetBroadcaster(wsHub)
	automationSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:       authSvc,
		WizardService:     wizardSvc,
		DashboardService:  dashboardSvc,
		AutomationService: automationSvc,
		WSHub:             wsHub,
		CORS:              cfg.CORS,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("agent", cfg.Auth.Username),
			zap.String("progressPolicy", cfg.Wizard.ProgressPolicy),
			zap.Bool("gateOnRequired", cfg.Wizard.GateOnRequired),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
