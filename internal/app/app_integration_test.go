//go:build integration

package app_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ferdiebergado/gopherkit/env"

	"github.com/ferdiebergado/tokenkit/internal/app"
	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/pkg/security"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/platform/router"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
	"github.com/ferdiebergado/tokenkit/internal/refresh"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

func setupApp(t *testing.T) (*app.App, *config.Config) {
	t.Helper()

	if err := env.Load("../../.env.testing"); err != nil {
		t.Fatalf("load env: %v", err)
	}

	cfg, err := config.Load("../../config.json")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	conn, err := db.NewPostgresDB(t.Context(), cfg.DB)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	codec, err := token.New(token.Config{Secret: []byte(testKey)})
	if err != nil {
		t.Fatalf("token.New() = %v", err)
	}

	provider := &app.Provider{
		DB:        conn,
		Signer:    codec,
		Validator: validation.NewGoPlaygroundValidator(),
		Hasher:    security.NewArgon2Hasher(cfg.Argon2, testKey),
		Digester:  security.NewSHA256Hasher(testKey),
		Router:    router.NewGoexpressRouter(),
		CSRFBaker: security.NewCSRFCookieBaker(cfg.CSRF, testKey),
		TxMgr:     db.NewSQLTxManager(conn),
		Store:     refresh.NewPostgresStore(conn),
	}

	return app.New(cfg, provider, nil), cfg
}

func TestIntegration_StartAndShutdown(t *testing.T) {
	api, cfg := setupApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := api.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("server error: %v", err)
		}
	}()

	time.Sleep(300 * time.Millisecond)

	url := fmt.Sprintf("http://127.0.0.1:%d/users/me", cfg.Server.Port)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		t.Fatalf("new http request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Errorf("failed to GET: %v", err)
	} else {
		if got, want := resp.StatusCode, http.StatusUnauthorized; got != want {
			t.Errorf("resp.StatusCode = %d, want: %d", got, want)
		}
		resp.Body.Close()
	}

	if err := api.Shutdown(); err != nil {
		t.Errorf("failed to shutdown app: %v", err)
	}
}
