package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	tables := []string{"snapshots", "rolls", "audit_log"}
	for _, table := range tables {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Snapshots(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("load missing returns nil", func(t *testing.T) {
		snap, err := repo.LoadSnapshot(ctx, "nowhere")
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("save increments version", func(t *testing.T) {
		first, err := repo.SaveSnapshot(ctx, "saltmarsh", []byte(`{"version":"1.0"}`))
		require.NoError(t, err)
		assert.Equal(t, 1, first.Version)

		second, err := repo.SaveSnapshot(ctx, "saltmarsh", []byte(`{"version":"1.0","threads":[]}`))
		require.NoError(t, err)
		assert.Equal(t, 2, second.Version)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("load returns latest", func(t *testing.T) {
		snap, err := repo.LoadSnapshot(ctx, "saltmarsh")
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, 2, snap.Version)
		assert.Equal(t, "saltmarsh", snap.Name)
		assert.JSONEq(t, `{"version":"1.0","threads":[]}`, string(snap.Data))
	})

	t.Run("list summarises sessions", func(t *testing.T) {
		_, err := repo.SaveSnapshot(ctx, "barrow", []byte(`{}`))
		require.NoError(t, err)

		infos, err := repo.ListSnapshots(ctx)
		require.NoError(t, err)
		require.Len(t, infos, 2)
		assert.Equal(t, "barrow", infos[0].Name)
		assert.Equal(t, 1, infos[0].Versions)
		assert.Equal(t, "saltmarsh", infos[1].Name)
		assert.Equal(t, 2, infos[1].Versions)
	})

	t.Run("delete removes every version", func(t *testing.T) {
		require.NoError(t, repo.DeleteSnapshot(ctx, "saltmarsh"))

		snap, err := repo.LoadSnapshot(ctx, "saltmarsh")
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("delete missing returns not found", func(t *testing.T) {
		err := repo.DeleteSnapshot(ctx, "saltmarsh")
		var notFound *entities.SnapshotNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "saltmarsh", notFound.Name)
	})
}

func TestRepository_Rolls(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, tableID := range []string{"weather", "encounters", "treasure"} {
		err := repo.LogRoll(ctx, &entities.RollRecord{
			Session:   "saltmarsh",
			TableID:   tableID,
			Roll:      i + 1,
			Text:      "result " + tableID,
			Fallback:  tableID == "encounters",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	require.NoError(t, repo.LogRoll(ctx, &entities.RollRecord{Session: "other", TableID: "weather", Text: "Rain"}))

	t.Run("newest first with limit", func(t *testing.T) {
		rolls, err := repo.ListRolls(ctx, "saltmarsh", 2)
		require.NoError(t, err)
		require.Len(t, rolls, 2)
		assert.Equal(t, "treasure", rolls[0].TableID)
		assert.Equal(t, "encounters", rolls[1].TableID)
		assert.True(t, rolls[1].Fallback)
		assert.False(t, rolls[0].Fallback)
		assert.NotEmpty(t, rolls[0].ID)
	})

	t.Run("no limit returns all for session", func(t *testing.T) {
		rolls, err := repo.ListRolls(ctx, "saltmarsh", 0)
		require.NoError(t, err)
		assert.Len(t, rolls, 3)
	})
}

func TestRepository_AuditLog(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.LogAction(ctx, entities.ActionSessionSave, "saltmarsh", map[string]any{"version": 1}))
	require.NoError(t, repo.LogAction(ctx, entities.ActionSessionSave, "barrow", nil))
	require.NoError(t, repo.LogAction(ctx, entities.ActionSessionDelete, "", nil))

	entries, err := repo.FindAuditLogByAction(ctx, entities.ActionSessionSave, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "barrow", entries[0].SubjectID)
	assert.Nil(t, entries[0].Details)
	assert.Equal(t, "saltmarsh", entries[1].SubjectID)
	assert.Equal(t, float64(1), entries[1].Details["version"])

	deletes, err := repo.FindAuditLogByAction(ctx, entities.ActionSessionDelete, 10)
	require.NoError(t, err)
	require.Len(t, deletes, 1)
	assert.Empty(t, deletes[0].SubjectID)
}

func TestRepository_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.db")
	ctx := context.Background()

	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))
	_, err = repo.SaveSnapshot(ctx, "default", []byte(`{"version":"1.0"}`))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.EnsureSchema(ctx))

	snap, err := reopened.LoadSnapshot(ctx, "default")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Version)
}
