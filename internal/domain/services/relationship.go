package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// RelationshipManager tracks trust between characters for one session.
// Trust is always clamped to [entities.MinTrust, entities.MaxTrust].
type RelationshipManager struct {
	relationships map[string]*entities.Relationship
	// conflictIndex and allianceIndex map child ids to their relationship id.
	conflictIndex map[string]string
	allianceIndex map[string]string
	now           func() time.Time
	mu            sync.Mutex
}

// NewRelationshipManager creates an empty RelationshipManager.
func NewRelationshipManager() *RelationshipManager {
	return &RelationshipManager{
		relationships: make(map[string]*entities.Relationship),
		conflictIndex: make(map[string]string),
		allianceIndex: make(map[string]string),
		now:           time.Now,
	}
}

// Create starts tracking a relationship between two characters.
func (m *RelationshipManager) Create(
	characterA, characterB string,
	relType entities.RelationType,
	initialTrust int,
) *entities.Relationship {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rel := &entities.Relationship{
		ID:         uuid.New().String(),
		CharacterA: characterA,
		CharacterB: characterB,
		Type:       relType,
		Trust:      entities.ClampTrust(initialTrust),
		Status:     "active",
		Events:     []entities.RelationshipEvent{},
		Conflicts:  []entities.Conflict{},
		Alliances:  []entities.Alliance{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.relationships[rel.ID] = rel
	return copyRelationship(rel)
}

// Get returns a copy of the relationship or *entities.RelationshipNotFoundError.
func (m *RelationshipManager) Get(id string) (*entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return copyRelationship(rel), nil
}

func (m *RelationshipManager) get(id string) (*entities.Relationship, error) {
	rel, ok := m.relationships[id]
	if !ok {
		return nil, &entities.RelationshipNotFoundError{ID: id}
	}
	return rel, nil
}

// List returns every relationship ordered by creation time.
func (m *RelationshipManager) List() []entities.Relationship {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(func(*entities.Relationship) bool { return true })
}

// ForCharacter returns the relationships the named character takes part in.
func (m *RelationshipManager) ForCharacter(name string) []entities.Relationship {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(func(r *entities.Relationship) bool { return r.Involves(name) })
}

func (m *RelationshipManager) listLocked(keep func(*entities.Relationship) bool) []entities.Relationship {
	out := make([]entities.Relationship, 0, len(m.relationships))
	for _, rel := range m.relationships {
		if keep(rel) {
			out = append(out, *copyRelationship(rel))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// UpdateStatus sets the free-text status of a relationship.
func (m *RelationshipManager) UpdateStatus(id, status string) (*entities.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel, err := m.get(id)
	if err != nil {
		return nil, err
	}
	rel.Status = status
	rel.UpdatedAt = m.now()
	return copyRelationship(rel), nil
}

// adjust applies delta to trust, clamps, and records the change as an event.
func (m *RelationshipManager) adjust(rel *entities.Relationship, eventType, description string, delta int) entities.RelationshipEvent {
	now := m.now()
	rel.Trust = entities.ClampTrust(rel.Trust + delta)
	rel.UpdatedAt = now
	ev := entities.RelationshipEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Description: description,
		TrustDelta:  delta,
		TrustAfter:  rel.Trust,
		CreatedAt:   now,
	}
	rel.Events = append(rel.Events, ev)
	return ev
}

// AddEvent records an interaction. Known event types carry a fixed trust
// delta from entities.EventTrustDeltas; unknown types change nothing.
func (m *RelationshipManager) AddEvent(id, eventType, description string) (*entities.RelationshipEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel, err := m.get(id)
	if err != nil {
		return nil, err
	}
	eventType = strings.ToLower(strings.TrimSpace(eventType))
	ev := m.adjust(rel, eventType, description, entities.EventTrustDeltas[eventType])
	return &ev, nil
}

// CreateConflict opens a conflict and applies its severity's trust penalty.
func (m *RelationshipManager) CreateConflict(id, description, severity string) (*entities.Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel, err := m.get(id)
	if err != nil {
		return nil, err
	}

	severity = strings.ToLower(strings.TrimSpace(severity))
	delta, ok := entities.ConflictSeverityDeltas[severity]
	if !ok {
		severity = entities.DefaultConflictSeverity
		delta = entities.ConflictSeverityDeltas[severity]
	}

	c := entities.Conflict{
		ID:          uuid.New().String(),
		Description: description,
		Severity:    severity,
		CreatedAt:   m.now(),
	}
	rel.Conflicts = append(rel.Conflicts, c)
	m.conflictIndex[c.ID] = rel.ID
	m.adjust(rel, "conflict", description, delta)
	return &c, nil
}

// ResolveConflict closes a conflict and applies the resolution method's delta.
// Resolving an already resolved conflict returns it unchanged.
func (m *RelationshipManager) ResolveConflict(conflictID, method string) (*entities.Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	relID, ok := m.conflictIndex[conflictID]
	if !ok {
		return nil, &entities.ConflictNotFoundError{ID: conflictID}
	}
	rel, err := m.get(relID)
	if err != nil {
		return nil, err
	}

	for i := range rel.Conflicts {
		c := &rel.Conflicts[i]
		if c.ID != conflictID {
			continue
		}
		if c.Resolved {
			out := *c
			return &out, nil
		}
		method = strings.ToLower(strings.TrimSpace(method))
		now := m.now()
		c.Resolved = true
		c.ResolutionMethod = method
		c.ResolvedAt = &now
		out := *c
		m.adjust(rel, "conflict_resolved", method, entities.ResolutionDeltas[method])
		return &out, nil
	}
	return nil, &entities.ConflictNotFoundError{ID: conflictID}
}

// FormAlliance binds the pair to a shared purpose. If an alliance is already
// active it is returned unchanged.
func (m *RelationshipManager) FormAlliance(id, purpose string) (*entities.Alliance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if active := rel.ActiveAlliance(); active != nil {
		out := *active
		return &out, nil
	}

	a := entities.Alliance{
		ID:       uuid.New().String(),
		Purpose:  purpose,
		Active:   true,
		FormedAt: m.now(),
	}
	rel.Alliances = append(rel.Alliances, a)
	m.allianceIndex[a.ID] = rel.ID
	m.adjust(rel, "alliance_formed", purpose, entities.AllianceFormedDelta)
	return &a, nil
}

// DissolveAlliance ends an alliance. Dissolving an inactive alliance is a no-op.
func (m *RelationshipManager) DissolveAlliance(allianceID, reason string) (*entities.Alliance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	relID, ok := m.allianceIndex[allianceID]
	if !ok {
		return nil, &entities.AllianceNotFoundError{ID: allianceID}
	}
	rel, err := m.get(relID)
	if err != nil {
		return nil, err
	}

	for i := range rel.Alliances {
		a := &rel.Alliances[i]
		if a.ID != allianceID {
			continue
		}
		if !a.Active {
			out := *a
			return &out, nil
		}
		now := m.now()
		a.Active = false
		a.DissolvedReason = reason
		a.DissolvedAt = &now
		out := *a
		m.adjust(rel, "alliance_dissolved", reason, entities.AllianceDissolvedDelta)
		return &out, nil
	}
	return nil, &entities.AllianceNotFoundError{ID: allianceID}
}

// Restore replaces the manager's state with the given relationships.
func (m *RelationshipManager) Restore(rels []entities.Relationship) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.relationships = make(map[string]*entities.Relationship, len(rels))
	m.conflictIndex = make(map[string]string)
	m.allianceIndex = make(map[string]string)
	for i := range rels {
		rel := copyRelationship(&rels[i])
		rel.Trust = entities.ClampTrust(rel.Trust)
		m.relationships[rel.ID] = rel
		for _, c := range rel.Conflicts {
			m.conflictIndex[c.ID] = rel.ID
		}
		for _, a := range rel.Alliances {
			m.allianceIndex[a.ID] = rel.ID
		}
	}
}

func copyRelationship(r *entities.Relationship) *entities.Relationship {
	out := *r
	out.Events = append([]entities.RelationshipEvent{}, r.Events...)
	out.Conflicts = append([]entities.Conflict{}, r.Conflicts...)
	out.Alliances = append([]entities.Alliance{}, r.Alliances...)
	return &out
}
