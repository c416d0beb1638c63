package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// SessionStore is an in-memory implementation of ports.SessionStore.
type SessionStore struct {
	Snapshots map[string][]entities.Snapshot
	Rolls     []entities.RollRecord
	Audit     []entities.AuditEntry
	Err       error
}

// NewSessionStore creates a new mock SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		Snapshots: make(map[string][]entities.Snapshot),
	}
}

// EnsureSchema returns the configured error.
func (m *SessionStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the store.
func (m *SessionStore) Close() error {
	return nil
}

// SaveSnapshot appends a new version of the named session.
func (m *SessionStore) SaveSnapshot(_ context.Context, name string, data []byte) (*entities.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	snap := entities.Snapshot{
		ID:        uuid.New().String(),
		Name:      name,
		Version:   len(m.Snapshots[name]) + 1,
		Data:      append([]byte(nil), data...),
		CreatedAt: time.Now(),
	}
	m.Snapshots[name] = append(m.Snapshots[name], snap)
	return &snap, nil
}

// LoadSnapshot returns the latest version, or nil if none exists.
func (m *SessionStore) LoadSnapshot(_ context.Context, name string) (*entities.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	versions := m.Snapshots[name]
	if len(versions) == 0 {
		return nil, nil
	}
	snap := versions[len(versions)-1]
	return &snap, nil
}

// ListSnapshots summarises every saved session ordered by name.
func (m *SessionStore) ListSnapshots(_ context.Context) ([]entities.SnapshotInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.SnapshotInfo, 0, len(m.Snapshots))
	for name, versions := range m.Snapshots {
		if len(versions) == 0 {
			continue
		}
		result = append(result, entities.SnapshotInfo{
			Name:      name,
			Versions:  len(versions),
			UpdatedAt: versions[len(versions)-1].CreatedAt,
		})
	}
	// Sort by name for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// DeleteSnapshot removes every version of the named session.
func (m *SessionStore) DeleteSnapshot(_ context.Context, name string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Snapshots[name]; !ok {
		return &entities.SnapshotNotFoundError{Name: name}
	}
	delete(m.Snapshots, name)
	return nil
}

// LogRoll appends a roll record.
func (m *SessionStore) LogRoll(_ context.Context, record *entities.RollRecord) error {
	if m.Err != nil {
		return m.Err
	}
	m.Rolls = append(m.Rolls, *record)
	return nil
}

// ListRolls returns the newest rolls for a session first.
func (m *SessionStore) ListRolls(_ context.Context, session string, limit int) ([]entities.RollRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.RollRecord
	for i := len(m.Rolls) - 1; i >= 0; i-- {
		if m.Rolls[i].Session != session {
			continue
		}
		result = append(result, m.Rolls[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// LogAction appends an audit entry.
func (m *SessionStore) LogAction(_ context.Context, action, subjectID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		SubjectID: subjectID,
		Details:   details,
		CreatedAt: time.Now(),
	})
	return nil
}

// FindAuditLogByAction returns the newest audit entries with the given action.
func (m *SessionStore) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].Action != action {
			continue
		}
		result = append(result, m.Audit[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
