package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/recipes-api/backend/config"
	"github.com/pageza/recipes-api/backend/internal/api"
	"github.com/pageza/recipes-api/backend/internal/database"
	"github.com/pageza/recipes-api/backend/internal/middleware"
	"github.com/pageza/recipes-api/backend/internal/router"
	"github.com/pageza/recipes-api/backend/internal/server"
	"github.com/pageza/recipes-api/backend/internal/service"
	"github.com/pageza/recipes-api/backend/internal/storage/backend"
	"github.com/pageza/recipes-api/backend/pkg/logging"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := backend.Open(startCtx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	commentService := service.NewCommentService(store.Comments, cfg.DefaultCommentAuthor)
	recipeService := service.NewRecipeService(store.Recipes, store.Comments, commentService)

	// Rate limiting needs Redis; continue without it if Redis is not available
	var writeLimiter *middleware.RateLimiter
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			slog.Warn("rate limiting disabled", "error", err)
		} else {
			defer redisClient.Close()
			writeLimiter = middleware.NewRecipeWriteRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
		}
	}

	recipeHandler := api.NewRecipeHandlerWithRateLimit(recipeService, writeLimiter)
	srv := server.New(cfg, router.SetupRouter(recipeHandler, store, cfg.CORSAllowedOrigins, cfg.TrustedProxies))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-errChan:
		if err != nil {
			slog.Error("server error", "error", err)
			exitCode = 1
		}
	case sig := <-quit:
		slog.Info("received signal", "signal", sig.String())
	}

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
		exitCode = 1
	}
	if err := store.Close(ctx); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
	slog.Info("server stopped")

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
