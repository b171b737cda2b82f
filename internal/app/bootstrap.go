package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/middleware"
	appenv "github.com/ferdiebergado/tokenkit/internal/pkg/env"
	"github.com/ferdiebergado/tokenkit/internal/pkg/logging"
	"github.com/ferdiebergado/tokenkit/internal/pkg/message"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

const envKey = "KEY"

func Run(baseCtx context.Context) error {
	slog.Info("Initializing...")

	signalCtx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if appenv.Env("ENV", "development") != "production" {
		if err := env.Load(".env"); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	cfg, err := config.Load("config.json")
	if err != nil {
		return err
	}

	logging.SetupLogger(cfg.App.Env, cfg.App.LogLevel, os.Stdout)

	securityKey, err := loadSecurityKey()
	if err != nil {
		return err
	}

	dbConn, err := db.NewPostgresDB(signalCtx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	provider, err := newProvider(signalCtx, cfg, securityKey, dbConn)
	if err != nil {
		return err
	}
	defer func() {
		if err := provider.Close(); err != nil {
			slog.Error("failed to close provider", "reason", err)
		}
	}()

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.CORS(cfg.Server.AllowedOrigin),
		middleware.ContextGuard,
	}

	api := New(cfg, provider, middlewares)
	if err := api.Start(signalCtx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return api.Shutdown()
}

func loadSecurityKey() (string, error) {
	key, ok := os.LookupEnv(envKey)
	if !ok {
		return "", fmt.Errorf(message.EnvErrFmt, envKey)
	}
	if len(key) < token.MinSecretLength {
		return "", fmt.Errorf("%s: %w", envKey, token.ErrShortSecret)
	}
	return key, nil
}
