package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"wishlist-service/internal/api"
	"wishlist-service/internal/clients"
	"wishlist-service/internal/config"
	"wishlist-service/internal/store"
)

func connectToDB(dbURL string, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("successfully connected to PostgreSQL database")
	return db, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	validate := validator.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := connectToDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Error("failed to initialize database connection", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		logger.Info("closing PostgreSQL database connection")
		if err := db.Close(); err != nil {
			logger.Error("failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}()

	movieStore, err := store.NewPostgresMovieStore(db, logger)
	if err != nil {
		logger.Error("failed to initialize movie store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logStore, err := store.NewPostgresLogStore(db, logger)
	if err != nil {
		logger.Error("failed to initialize log store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	userStore, err := store.NewPostgresUserStore(db, logger)
	if err != nil {
		logger.Error("failed to initialize user store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalog := clients.NewTMDBClient(cfg.TMDB, logger)

	handler := api.NewMovieHandler(movieStore, logStore, catalog, logger, validate)
	auth := api.AuthMiddleware(cfg.Auth, userStore, logger)
	audit := api.AuditMiddleware(logStore, movieStore, logger)
	router := api.NewRouter(handler, auth, audit)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
}
