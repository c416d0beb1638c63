package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

// SessionHandler loads and saves session trackers through the SessionStore.
// Each CLI invocation loads the latest snapshot, applies one change and
// saves a new version.
type SessionHandler struct {
	store  ports.SessionStore
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(store ports.SessionStore, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{store: store, logger: logger}
}

// Load returns the named session, or an empty one if it was never saved.
func (h *SessionHandler) Load(ctx context.Context, name string) (*services.Session, error) {
	name = config.SanitizeSessionName(name)
	session := services.NewSession()

	snap, err := h.store.LoadSnapshot(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading session %q: %w", name, err)
	}
	if snap == nil {
		h.logger.Debug("starting new session", zap.String("session", name))
		return session, nil
	}

	if err := session.Unmarshal(snap.Data); err != nil {
		return nil, fmt.Errorf("restoring session %q: %w", name, err)
	}
	return session, nil
}

// Save stores the session as a new snapshot version.
func (h *SessionHandler) Save(ctx context.Context, name string, session *services.Session) (*entities.Snapshot, error) {
	name = config.SanitizeSessionName(name)

	data, err := session.Marshal()
	if err != nil {
		return nil, err
	}

	snap, err := h.store.SaveSnapshot(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("saving session %q: %w", name, err)
	}

	h.logAction(ctx, entities.ActionSessionSave, name, map[string]any{"version": snap.Version})
	return snap, nil
}

// Update loads the session, applies fn and saves the result.
// Nothing is saved when fn fails.
func (h *SessionHandler) Update(ctx context.Context, name string, fn func(*services.Session) error) error {
	session, err := h.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	_, err = h.Save(ctx, name, session)
	return err
}

// HandleExport returns the session in export format.
func (h *SessionHandler) HandleExport(ctx context.Context, name string) (*services.SessionExport, error) {
	session, err := h.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	export := session.Export()
	return &export, nil
}

// HandleImport replaces the named session with the contents of an export file.
func (h *SessionHandler) HandleImport(ctx context.Context, name, filePath string) (*services.SessionExport, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var export services.SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing session export: %w", err)
	}

	session := services.NewSession()
	if err := session.Import(export); err != nil {
		return nil, err
	}
	if _, err := h.Save(ctx, name, session); err != nil {
		return nil, err
	}

	h.logAction(ctx, entities.ActionSessionImport, config.SanitizeSessionName(name), map[string]any{
		"file":          filePath,
		"relationships": len(export.Relationships),
		"threads":       len(export.Threads),
	})

	result := session.Export()
	return &result, nil
}

// HandleList summarises every saved session.
func (h *SessionHandler) HandleList(ctx context.Context) ([]entities.SnapshotInfo, error) {
	infos, err := h.store.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return infos, nil
}

// HandleDelete removes every saved version of a session.
func (h *SessionHandler) HandleDelete(ctx context.Context, name string) error {
	name = config.SanitizeSessionName(name)
	if err := h.store.DeleteSnapshot(ctx, name); err != nil {
		return err
	}
	h.logAction(ctx, entities.ActionSessionDelete, name, nil)
	return nil
}

// HandleHistory returns the most recent rolls logged for a session.
func (h *SessionHandler) HandleHistory(ctx context.Context, name string, limit int) ([]entities.RollRecord, error) {
	rolls, err := h.store.ListRolls(ctx, config.SanitizeSessionName(name), limit)
	if err != nil {
		return nil, fmt.Errorf("listing rolls: %w", err)
	}
	return rolls, nil
}

// logAction writes to the audit log; failures are logged and otherwise ignored.
func (h *SessionHandler) logAction(ctx context.Context, action, subject string, details map[string]any) {
	if err := h.store.LogAction(ctx, action, subject, details); err != nil {
		h.logger.Warn("writing audit log", zap.String("action", action), zap.Error(err))
	}
}
