// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/config"
	"github.com/smartadega/smartadega-api/internal/database"
	"github.com/smartadega/smartadega-api/internal/i18n"
	"github.com/smartadega/smartadega-api/internal/repository"
	"github.com/smartadega/smartadega-api/internal/router"
	"github.com/smartadega/smartadega-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	setupLogging(cfg)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	deps := router.Dependencies{Config: cfg}

	// Initialize storage
	switch cfg.Database.Driver {
	case config.DatabaseDriverMemory:
		logrus.Warn("Using in-memory wine storage; data is lost on restart")
		deps.Wines = repository.NewMemoryWineRepository()
	default:
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(db); err != nil {
				logrus.WithError(err).Fatal("Failed to run migrations")
			}
		}
		deps.Wines = repository.NewWineRepository(db, cfg.Database.QueryTimeout)
	}

	// Optional recognition cache
	if cfg.Redis.Enabled() {
		client, err := services.NewRedisClient(cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("Recognition cache disabled")
		} else {
			defer client.Close()
			deps.Cache = services.NewRedisSummaryCache(client, cfg.Redis.CacheTTL)
		}
	}

	// Optional label archive
	if cfg.AWS.LabelArchiveEnabled() {
		storage, err := services.NewStorageService(cfg.AWS)
		if err != nil {
			logrus.WithError(err).Warn("Label archive disabled")
		} else {
			deps.Archive = storage
		}
	}

	if cfg.Recognition.Mock {
		logrus.Warn("Recognition mock mode is on; labels are not sent upstream")
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, stopRouter := router.Initialize(deps)
	defer stopRouter()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":            cfg.Server.Port,
			"environment":     cfg.Environment,
			"validation_mode": cfg.Validation.Mode,
			"database_driver": cfg.Database.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
		return
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Log.Format == "json" || (cfg.Log.Format == "" && cfg.IsProduction()) {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
