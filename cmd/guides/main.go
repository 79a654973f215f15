package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vbonduro/guides/internal/auth"
	"github.com/vbonduro/guides/internal/bootstrap"
	"github.com/vbonduro/guides/internal/config"
	"github.com/vbonduro/guides/internal/db"
	"github.com/vbonduro/guides/internal/logging"
	"github.com/vbonduro/guides/internal/service"
	"github.com/vbonduro/guides/internal/store"
	"github.com/vbonduro/guides/internal/templates"
	claudetemplates "github.com/vbonduro/guides/internal/templates/claude"
	ollamatemplates "github.com/vbonduro/guides/internal/templates/ollama"
	"github.com/vbonduro/guides/internal/uploadstore/local"
	"github.com/vbonduro/guides/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET is not set, using the development secret")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	userStore := store.NewUserStore(database)
	guideStore := store.NewGuideStore(database)
	hasher := auth.NewPasswordHasher()

	ctx := context.Background()
	boot := bootstrap.New(userStore, guideStore, hasher, logger)
	if err := boot.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}
	if cfg.SeedDemo {
		if err := boot.SeedDemo(ctx); err != nil {
			return err
		}
	}

	uploads, err := local.NewLocalUploadStore(cfg.UploadDir, logger)
	if err != nil {
		return err
	}

	server := web.NewServer(web.Deps{
		Users: service.NewUserService(userStore, hasher, cfg.PasswordChangeCooldownDays, logger),
		Guides: service.NewGuideService(
			guideStore,
			store.NewLikeStore(database),
			store.NewFavoriteStore(database),
			store.NewCommentStore(database),
			store.NewCheckInStore(database),
			logger,
		),
		Follows:   service.NewFollowService(store.NewFollowStore(database), userStore, logger),
		Templates: service.NewTemplateService(newDrafter(cfg, logger), logger),
		Uploads:   uploads,
		Tokens:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTExpiresMinutes)*time.Minute),
		Logger:    logger,
	})

	srv := server.HTTPServer(cfg.ListenAddr)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newDrafter returns nil when drafting is disabled or misconfigured.
func newDrafter(cfg *config.Config, logger *slog.Logger) templates.Drafter {
	switch cfg.TemplateBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when TEMPLATE_BACKEND=claude, drafting disabled")
			return nil
		}
		logger.Info("using Claude template drafter", "model", cfg.ClaudeModel)
		return claudetemplates.NewClaudeDrafter(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	case "ollama":
		logger.Info("using Ollama template drafter", "model", cfg.OllamaModel)
		return ollamatemplates.NewOllamaDrafter(cfg.OllamaHost, cfg.OllamaModel)
	default:
		return nil
	}
}
