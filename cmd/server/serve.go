package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/config"
	"github.com/pensao-tracker/internal/database"
	"github.com/pensao-tracker/internal/handler"
	"github.com/pensao-tracker/internal/logger"
	"github.com/pensao-tracker/internal/middleware"
	"github.com/pensao-tracker/internal/repository"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/internal/session"
	"github.com/pensao-tracker/pkg/keygen"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Auto migrate database
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		// Sessions do not survive a restart with a generated secret.
		secret, err = keygen.RandomURLSafe(32)
		if err != nil {
			return err
		}
		logger.Info("Warning: SECRET_KEY not set, using a random session secret")
	}

	store, rdb, err := initSessionStore(cfg)
	if err != nil {
		return err
	}
	sessions := session.NewManager(store, secret, cfg.Session.CookieName, cfg.Session.TTL())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	childRepo := repository.NewChildRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	tokenRepo := repository.NewResetTokenRepository(db)

	// Initialize services
	services := handler.Services{
		Auth:     service.NewAuthService(userRepo, sessions),
		Password: service.NewPasswordService(userRepo, tokenRepo, service.NewLogMailer(cfg.Reset.TokenTTL()), cfg.Reset.FrontendBaseURL, cfg.Reset.TokenTTL()),
		Children: service.NewChildService(childRepo),
		Payments: service.NewPaymentService(paymentRepo, childRepo),
		Sessions: sessions,
	}

	router := handler.NewRouter(services, handler.BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on %s (version %s)", addr, Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	logger.Info("Shutting down server...")

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Close Redis connection
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing Redis connection: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server exited properly")
	return nil
}

// initSessionStore returns the configured store and, for redis, the client to close on exit
func initSessionStore(cfg *config.Config) (session.Store, *redis.Client, error) {
	if cfg.Session.Store == config.StoreMemory {
		return session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL()), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return session.NewRedisStore(rdb), rdb, nil
}
