package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// ExportVersion is written into every export and checked on import.
const ExportVersion = "1.0"

// TablesExport is the export format for the table registry.
type TablesExport struct {
	Tables     []entities.Table `json:"tables"`
	ExportedAt time.Time        `json:"exported_at"`
	Version    string           `json:"version"`
}

// ExportTables snapshots every registered table.
func ExportTables(registry *Registry) TablesExport {
	return TablesExport{
		Tables:     registry.List(),
		ExportedAt: time.Now().UTC(),
		Version:    ExportVersion,
	}
}

// SessionExport is the export format for a session's trackers.
type SessionExport struct {
	Relationships []entities.Relationship          `json:"relationships"`
	Threads       []entities.PlotThread            `json:"threads"`
	Events        map[string][]entities.StoryEvent `json:"events"`
	Outlines      map[string]entities.PlotOutline  `json:"outlines"`
	ExportedAt    time.Time                        `json:"exported_at"`
	Version       string                           `json:"version"`
}

// Session groups the trackers whose state belongs to one campaign session.
type Session struct {
	Relationships *RelationshipManager
	Story         *StoryTracker
}

// NewSession creates a Session with empty trackers.
func NewSession() *Session {
	return &Session{
		Relationships: NewRelationshipManager(),
		Story:         NewStoryTracker(),
	}
}

// Export returns the session state in export format.
func (s *Session) Export() SessionExport {
	st := s.Story.State()
	return SessionExport{
		Relationships: s.Relationships.List(),
		Threads:       st.Threads,
		Events:        st.Events,
		Outlines:      st.Outlines,
		ExportedAt:    time.Now().UTC(),
		Version:       ExportVersion,
	}
}

// Import replaces the session state with data.
func (s *Session) Import(data SessionExport) error {
	if err := checkVersion(data.Version); err != nil {
		return err
	}
	s.Relationships.Restore(data.Relationships)
	s.Story.Restore(StoryState{
		Events:   data.Events,
		Threads:  data.Threads,
		Outlines: data.Outlines,
	})
	return nil
}

// Marshal encodes the session as JSON.
func (s *Session) Marshal() ([]byte, error) {
	data, err := json.Marshal(s.Export())
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return data, nil
}

// Unmarshal decodes JSON produced by Marshal and imports it.
func (s *Session) Unmarshal(data []byte) error {
	var export SessionExport
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}
	return s.Import(export)
}

// checkVersion accepts an empty version or any 1.x version.
func checkVersion(v string) error {
	if v == "" || v == ExportVersion || strings.HasPrefix(v, "1.") {
		return nil
	}
	return fmt.Errorf("unsupported export version %q (supported: %s)", v, ExportVersion)
}
