package entities

import "time"

// Audit actions recorded for session changes.
const (
	ActionSessionSave   = "session_save"
	ActionSessionImport = "session_import"
	ActionSessionDelete = "session_delete"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	SubjectID string         `json:"subject_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
