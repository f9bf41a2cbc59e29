package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edvass/notevault/internal/database"
)

// newTestDB opens a migrated in-memory database. The pool is pinned to a
// single connection so every statement sees the same :memory: store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
