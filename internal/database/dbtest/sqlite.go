// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/locvowork/employee_crud/internal/database"
	"github.com/rs/zerolog"
)

// SQLiteConfig returns a sqlite3 config pointing at a file in a per-test temp dir.
func SQLiteConfig(t testing.TB) database.Config {
	t.Helper()
	return database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "employees.db"),
	}
}

// NewSQLite returns a migrated sqlite3 database that is closed when the test ends.
func NewSQLite(t testing.TB) *database.DB {
	t.Helper()

	logger := zerolog.Nop()
	cfg := SQLiteConfig(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, cfg, &logger); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	db, err := database.New(ctx, cfg, &logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// CountEmployees returns the number of rows in the employees table.
func CountEmployees(t testing.TB, db *database.DB) int {
	t.Helper()

	var n int
	if err := db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM employees"); err != nil {
		t.Fatalf("count employees: %v", err)
	}
	return n
}
