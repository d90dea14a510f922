// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/abdusco/shortener/internal/db"
	"github.com/google/uuid"
)

// New returns a migrated in-memory SQLite database private to the test.
func New(t testing.TB) *db.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := db.Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database
}
