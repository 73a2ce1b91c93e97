package repository

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/db"
)

// setupTestDB creates an in-memory SQLite database with all migrations
// and seed data applied.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	database := &db.DB{DB: conn}
	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := database.Seed("Example GmbH"); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	return conn
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := setupTestDB(t)

	database := &db.DB{DB: conn}
	if err := database.Migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	if err := database.Seed("Example GmbH"); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM templates").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 seeded template, got %d", n)
	}
}
