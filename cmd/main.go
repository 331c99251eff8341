// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adilnd/portfolio-api/internal/config"
	"github.com/adilnd/portfolio-api/internal/database"
	"github.com/adilnd/portfolio-api/internal/handler"
	"github.com/adilnd/portfolio-api/internal/mailer"
	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/adilnd/portfolio-api/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config", slog.Any("err", err))
		os.Exit(1)
	}

	// ── 1. Connect to PostgreSQL and apply the schema ─────────────────────
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database", slog.Any("err", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("migrate", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("connected to postgres", slog.String("db", cfg.Database.DBName))

	// ── 2. Wire up layers ────────────────────────────────────────────────
	mail := mailer.New(cfg.SMTP, logger)

	formationRepo := repository.NewFormationRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL.Duration(), logger)
	if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		logger.Error("seed admin", slog.Any("err", err))
		os.Exit(1)
	}

	h := handler.Handlers{
		Auth: handler.NewAuthHandler(authSvc),
		Formations: handler.NewFormationHandler(
			service.NewFormationService(formationRepo, logger),
		),
		Registrations: handler.NewRegistrationHandler(
			service.NewRegistrationService(regRepo, formationRepo, mail, logger,
				cfg.BaseURL, cfg.SMTP.AdminEmail),
		),
		Messages: handler.NewMessageHandler(
			service.NewMessageService(messageRepo, mail, logger, cfg.SMTP.AdminEmail),
		),
		Projects: handler.NewProjectHandler(
			service.NewProjectService(projectRepo, logger),
		),
		Books: handler.NewBookHandler(
			service.NewBookService(bookRepo),
		),
	}

	// ── 3. Build the router and start with graceful shutdown ─────────────
	r := handler.NewRouter(h, cfg.JWT.Secret, logger)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
