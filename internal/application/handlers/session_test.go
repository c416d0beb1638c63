package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

func TestSessionHandler_LoadMissingIsEmpty(t *testing.T) {
	sessions, _ := newTestSessions()

	s, err := sessions.Load(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, s.Relationships.List())
	assert.Empty(t, s.Story.Threads())
}

func TestSessionHandler_UpdatePersists(t *testing.T) {
	sessions, store := newTestSessions()
	ctx := context.Background()

	err := sessions.Update(ctx, "Red Hand", func(s *services.Session) error {
		s.Relationships.Create("Aerdrie", "Bram", entities.RelationFriend, 10)
		return nil
	})
	require.NoError(t, err)

	// Names are sanitised before they reach the store
	require.Len(t, store.Snapshots["red_hand"], 1)

	s, err := sessions.Load(ctx, "red-hand")
	require.NoError(t, err)
	rels := s.Relationships.List()
	require.Len(t, rels, 1)
	assert.Equal(t, 10, rels[0].Trust)

	saves, err := store.FindAuditLogByAction(ctx, entities.ActionSessionSave, 10)
	require.NoError(t, err)
	assert.Len(t, saves, 1)
}

func TestSessionHandler_UpdateErrorSavesNothing(t *testing.T) {
	sessions, store := newTestSessions()

	boom := errors.New("boom")
	err := sessions.Update(context.Background(), "default", func(s *services.Session) error {
		s.Relationships.Create("A", "B", entities.RelationRival, 0)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, store.Snapshots["default"])
}

func TestSessionHandler_LoadStoreError(t *testing.T) {
	sessions, store := newTestSessions()
	store.Err = errors.New("disk on fire")

	_, err := sessions.Load(context.Background(), "default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestSessionHandler_ExportImportRoundTrip(t *testing.T) {
	sessions, store := newTestSessions()
	ctx := context.Background()

	require.NoError(t, sessions.Update(ctx, "source", func(s *services.Session) error {
		rel := s.Relationships.Create("Aerdrie", "Bram", entities.RelationAlly, 0)
		if _, err := s.Relationships.AddEvent(rel.ID, "rescue", "Pulled from the river"); err != nil {
			return err
		}
		s.Story.ActivateThread("cult", "The Cult of the Dragon")
		s.Story.RecordEvent("aerdrie", entities.StoryEvent{Type: "milestone", Title: "Level 2"})
		return nil
	}))

	export, err := sessions.HandleExport(ctx, "source")
	require.NoError(t, err)
	assert.Equal(t, services.ExportVersion, export.Version)

	data, err := json.Marshal(export)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	imported, err := sessions.HandleImport(ctx, "copy", path)
	require.NoError(t, err)
	require.Len(t, imported.Relationships, 1)
	assert.Equal(t, 20, imported.Relationships[0].Trust)
	require.Len(t, imported.Threads, 1)
	assert.True(t, imported.Threads[0].Active)
	assert.Len(t, imported.Events["aerdrie"], 1)

	imports, err := store.FindAuditLogByAction(ctx, entities.ActionSessionImport, 10)
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, "copy", imports[0].SubjectID)
}

func TestSessionHandler_ImportRejectsUnknownVersion(t *testing.T) {
	sessions, store := newTestSessions()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.0"}`), 0644))

	_, err := sessions.HandleImport(context.Background(), "copy", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export version")
	assert.Empty(t, store.Snapshots)
}

func TestSessionHandler_ImportMissingFile(t *testing.T) {
	sessions, _ := newTestSessions()

	_, err := sessions.HandleImport(context.Background(), "copy", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading file")
}

func TestSessionHandler_ListAndDelete(t *testing.T) {
	sessions, store := newTestSessions()
	ctx := context.Background()

	noop := func(*services.Session) error { return nil }
	require.NoError(t, sessions.Update(ctx, "alpha", noop))
	require.NoError(t, sessions.Update(ctx, "alpha", noop))
	require.NoError(t, sessions.Update(ctx, "beta", noop))

	infos, err := sessions.HandleList(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, 2, infos[0].Versions)

	require.NoError(t, sessions.HandleDelete(ctx, "alpha"))
	infos, err = sessions.HandleList(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)

	deletes, err := store.FindAuditLogByAction(ctx, entities.ActionSessionDelete, 10)
	require.NoError(t, err)
	assert.Len(t, deletes, 1)

	err = sessions.HandleDelete(ctx, "alpha")
	var notFound *entities.SnapshotNotFoundError
	assert.True(t, errors.As(err, &notFound))
}
