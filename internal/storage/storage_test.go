package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func currentRevision(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	id, err := NewRevisionRepo(db).RevisionID(context.Background())
	require.NoError(t, err)
	return id
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	// The singleton meta row keeps its revision across re-migrations.
	_, err := db.Exec("UPDATE meta SET revision_id = 7 WHERE id = 1")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.EqualValues(t, 7, currentRevision(t, db))
}

func TestRevisionRepoMeta(t *testing.T) {
	db := newTestDB(t)
	repo := NewRevisionRepo(db)
	ctx := context.Background()

	schemaVersion, info, err := repo.Meta(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, schemaVersion)
	require.EqualValues(t, 0, info.RevisionID)
	require.NotEmpty(t, info.GeneratedAt)
}
