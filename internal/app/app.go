// Package app wires the service together and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/refresh"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type App struct {
	server          *http.Server
	config          *config.Config
	provider        *Provider
	middlewares     []func(http.Handler) http.Handler
	serverCtx       context.Context
	stop            context.CancelFunc
	shutdownTimeout time.Duration
	janitor         *refresh.Janitor
	wg              sync.WaitGroup
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.provider.Router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	accessCookie := auth.DefaultAccessCookie
	if a.config.Cookie != nil && a.config.Cookie.AccessName != "" {
		accessCookie = a.config.Cookie.AccessName
	}

	userModule := user.NewModule(a.provider.DB)
	mountUserRoutes(a.provider.Router, userModule.Handler(), a.provider.Signer, accessCookie)

	authModule := auth.NewModule(&auth.Provider{
		Cfg:       a.config,
		Hasher:    a.provider.Hasher,
		Digester:  a.provider.Digester,
		Signer:    a.provider.Signer,
		Store:     a.provider.Store,
		TxMgr:     a.provider.TxMgr,
		UserSvc:   userModule.Service(),
		CSRFBaker: a.provider.CSRFBaker,
	})
	mountAuthRoutes(a.provider.Router, authModule.Handler(), a.provider.Validator,
		a.provider.Signer, accessCookie, a.config.Server.MaxBodyBytes)
}

// Handler returns the fully routed handler the server serves.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Start runs the janitor and the server until ctx is done or the server fails.
func (a *App) Start(ctx context.Context) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.janitor.Run(a.serverCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		return err
	}
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.wg.Wait()

	if err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func New(cfg *config.Config, provider *Provider, middlewares []func(http.Handler) http.Handler) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := cfg.Server

	var interval time.Duration
	if cfg.Refresh != nil {
		interval = cfg.Refresh.CleanupInterval.Duration
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: provider.Router,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	a := &App{
		server:          server,
		config:          cfg,
		provider:        provider,
		middlewares:     middlewares,
		serverCtx:       serverCtx,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
		janitor:         refresh.NewJanitor(provider.Store, interval),
	}

	a.registerMiddlewares()
	a.setupRoutes()

	return a
}
