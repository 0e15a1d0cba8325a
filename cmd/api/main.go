// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockmana/internal/config"
	"stockmana/internal/db"
	"stockmana/internal/db/migrations"
	"stockmana/internal/logging"
	"stockmana/internal/routes"
	"stockmana/internal/services"
)

// @title Stock Mana API
// @version 1.0
// @description Inventory management API: accounts, products and support contact.
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name token
func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New("production").Error(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Environment)

	if err := cfg.Validate(); err != nil {
		fatal(ctx, log, "invalid config", err)
	}
	if cfg.JWTSecret == "" {
		log.Warn(ctx, "JWT_SECRET is empty, sessions are signed with an empty key")
	}

	// Create database if it doesn't exist
	created, err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal(ctx, log, "failed to ensure database exists", err)
	}
	if created {
		log.Info(ctx, "database created")
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal(ctx, log, "failed to connect to database", err)
	}
	defer database.Close()

	// Run database migrations
	if err := migrations.Run(ctx, database.DB); err != nil {
		fatal(ctx, log, "failed to run migrations", err)
	}

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		fatal(ctx, log, "failed to configure image storage", err)
	}

	mailer := &services.SMTPSender{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		User:       cfg.SMTPUser,
		Pass:       cfg.SMTPPassword,
		From:       cfg.SMTPFrom,
		UseTLS:     cfg.SMTPUseTLS,
		SkipVerify: cfg.SMTPSkipVerify,
	}

	// Create router and setup routes
	router := routes.SetupRoutes(database.DB, cfg, routes.Deps{
		Log:    log,
		Mailer: mailer,
		Images: services.NewS3ImageStore(s3Config),
	})

	// Create server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(ctx, log, "failed to start server", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info(ctx, "shutting down server")

	// Give server 5 seconds to finish current requests
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", "error", err)
	}

	log.Info(ctx, "server exiting")
}

func fatal(ctx context.Context, log logging.Logger, msg string, err error) {
	log.Error(ctx, msg, "error", err)
	os.Exit(1)
}
