//go:build integration

package db

import (
	"database/sql"
	"testing"

	"github.com/ferdiebergado/gopherkit/env"

	"github.com/ferdiebergado/tokenkit/internal/config"
)

// Setup connects to the test database and returns a transaction that is
// rolled back when the test ends.
func Setup(t *testing.T, projRoot string) (*sql.DB, *sql.Tx) {
	t.Helper()

	if err := env.Load(projRoot + ".env.testing"); err != nil {
		t.Fatalf("failed to load environment file: %v", err)
	}

	cfg, err := config.Load(projRoot + "config.json")
	if err != nil {
		t.Fatalf("failed to load config file: %v", err)
	}

	conn, err := NewPostgresDB(t.Context(), cfg.DB)
	if err != nil {
		t.Fatalf("failed to connect to the database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	tx, err := conn.BeginTx(t.Context(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Logf("failed to rollback transaction: %v", err)
		}
	})

	return conn, tx
}
