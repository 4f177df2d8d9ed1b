package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"report-templates/api"
	"report-templates/config"
	"report-templates/metrics"
	"report-templates/repository"
	"report-templates/services"
	"report-templates/storage"
	"report-templates/terms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	logging, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	// Setup Database Connection
	db, err := repository.Open(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	logging.Info("Successfully connected to database.", zap.String("driver", cfg.DBDriver))

	logging.Info("Running database auto-migration...")
	if err := repository.AutoMigrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Seeding
	concepts := repository.NewConceptRepository(db)
	if cfg.ConceptCatalogFile != "" {
		n, err := terms.SeedCatalog(context.Background(), concepts, cfg.ConceptCatalogFile)
		if err != nil {
			logging.Fatal("Konzeptkatalog konnte nicht geladen werden", zap.String("file", cfg.ConceptCatalogFile), zap.Error(err))
		}
		logging.Info("Konzeptkatalog geladen", zap.Int("concepts", n))
	}

	// Setup Services
	files, err := storage.NewFileStore(cfg.TemplateHome, logging)
	if err != nil {
		logging.Fatal("Template home not usable", zap.String("home", cfg.TemplateHome), zap.Error(err))
	}
	templates := repository.NewTemplateRepository(db)
	m := metrics.New(prometheus.DefaultRegisterer)
	store := services.NewTemplateStore(templates, files, logging)
	service := services.NewTemplateService(store, terms.NewResolver(concepts, logging), m, logging)

	// Setup Cron
	cronScheduler := cron.New()
	sweeper := services.NewSweeper(templates, files, cfg.SweepGrace, m, logging)
	if _, err := sweeper.Schedule(cronScheduler, cfg.SweepSchedule); err != nil {
		logging.Fatal("Invalid sweep schedule", zap.String("schedule", cfg.SweepSchedule), zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Setup Router
	server := &api.Server{
		Service:  service,
		Health:   func(ctx context.Context) error { return repository.Ping(ctx, db) },
		Gatherer: prometheus.DefaultGatherer,
		APIKey:   cfg.APISecretKey,
		Logger:   logging,
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("template_home", files.Home()))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           server.Router(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	waitForShutdown(srv, db, logging)
}

func waitForShutdown(srv *http.Server, db *gorm.DB, logging *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
