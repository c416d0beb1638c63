package entities

import "time"

// Snapshot is a saved copy of a session's trackers.
// Every save creates a new version; loading returns the latest.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotInfo summarises a saved session without its payload.
type SnapshotInfo struct {
	Name      string    `json:"name"`
	Versions  int       `json:"versions"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RollRecord is one resolution kept in the roll history.
type RollRecord struct {
	ID        string    `json:"id"`
	Session   string    `json:"session"`
	TableID   string    `json:"table_id"`
	Roll      int       `json:"roll"`
	Text      string    `json:"text"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}
