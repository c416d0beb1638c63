package ports

import (
	"context"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// SessionStore persists session snapshots and roll history between CLI runs.
type SessionStore interface {
	// EnsureSchema creates the storage schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error

	// SaveSnapshot stores data as the next version of the named session.
	SaveSnapshot(ctx context.Context, name string, data []byte) (*entities.Snapshot, error)

	// LoadSnapshot returns the latest version of the named session.
	// Returns nil if the session has never been saved.
	LoadSnapshot(ctx context.Context, name string) (*entities.Snapshot, error)

	// ListSnapshots summarises every saved session.
	ListSnapshots(ctx context.Context) ([]entities.SnapshotInfo, error)

	// DeleteSnapshot removes every version of the named session.
	DeleteSnapshot(ctx context.Context, name string) error

	// LogRoll appends a resolution to the roll history.
	LogRoll(ctx context.Context, record *entities.RollRecord) error

	// ListRolls returns the most recent rolls for a session, newest first.
	ListRolls(ctx context.Context, session string, limit int) ([]entities.RollRecord, error)

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action, subjectID string, details map[string]any) error

	// FindAuditLogByAction finds audit log entries by action type.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
