package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

// ValidRelationTypes lists the suggested relationship type strings.
var ValidRelationTypes = []string{
	"friend", "rival", "family", "mentor", "romance", "enemy", "ally",
}

// RelationshipHandler handles relationship operations within a session.
type RelationshipHandler struct {
	sessions *SessionHandler
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(sessions *SessionHandler) *RelationshipHandler {
	return &RelationshipHandler{sessions: sessions}
}

// HandleCreate starts tracking a relationship between two characters.
func (h *RelationshipHandler) HandleCreate(
	ctx context.Context,
	session string,
	characterA, characterB string,
	relType string,
	initialTrust int,
) (*entities.Relationship, error) {
	if strings.TrimSpace(characterA) == "" || strings.TrimSpace(characterB) == "" {
		return nil, fmt.Errorf("both characters are required")
	}
	rt, err := parseRelationType(relType)
	if err != nil {
		return nil, err
	}

	var rel *entities.Relationship
	err = h.sessions.Update(ctx, session, func(s *services.Session) error {
		rel = s.Relationships.Create(characterA, characterB, rt, initialTrust)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// HandleEvent records an interaction and its trust change.
func (h *RelationshipHandler) HandleEvent(ctx context.Context, session, id, eventType, description string) (*entities.Relationship, error) {
	return h.apply(ctx, session, id, func(m *services.RelationshipManager) error {
		_, err := m.AddEvent(id, eventType, description)
		return err
	})
}

// HandleConflict opens a conflict on a relationship.
func (h *RelationshipHandler) HandleConflict(ctx context.Context, session, id, description, severity string) (*entities.Conflict, error) {
	var conflict *entities.Conflict
	_, err := h.apply(ctx, session, id, func(m *services.RelationshipManager) error {
		var err error
		conflict, err = m.CreateConflict(id, description, severity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conflict, nil
}

// HandleResolve resolves a conflict by id.
func (h *RelationshipHandler) HandleResolve(ctx context.Context, session, conflictID, method string) (*entities.Conflict, error) {
	var conflict *entities.Conflict
	err := h.sessions.Update(ctx, session, func(s *services.Session) error {
		var err error
		conflict, err = s.Relationships.ResolveConflict(conflictID, method)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conflict, nil
}

// HandleAlly forms an alliance on a relationship.
func (h *RelationshipHandler) HandleAlly(ctx context.Context, session, id, purpose string) (*entities.Alliance, error) {
	var alliance *entities.Alliance
	_, err := h.apply(ctx, session, id, func(m *services.RelationshipManager) error {
		var err error
		alliance, err = m.FormAlliance(id, purpose)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alliance, nil
}

// HandleDissolve dissolves an alliance by id.
func (h *RelationshipHandler) HandleDissolve(ctx context.Context, session, allianceID, reason string) (*entities.Alliance, error) {
	var alliance *entities.Alliance
	err := h.sessions.Update(ctx, session, func(s *services.Session) error {
		var err error
		alliance, err = s.Relationships.DissolveAlliance(allianceID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alliance, nil
}

// HandleStatus sets the free-text status of a relationship.
func (h *RelationshipHandler) HandleStatus(ctx context.Context, session, id, status string) (*entities.Relationship, error) {
	return h.apply(ctx, session, id, func(m *services.RelationshipManager) error {
		_, err := m.UpdateStatus(id, status)
		return err
	})
}

// HandleGet returns one relationship.
func (h *RelationshipHandler) HandleGet(ctx context.Context, session, id string) (*entities.Relationship, error) {
	s, err := h.sessions.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.Relationships.Get(id)
}

// HandleList returns the session's relationships, optionally for one character.
func (h *RelationshipHandler) HandleList(ctx context.Context, session, character string) ([]entities.Relationship, error) {
	s, err := h.sessions.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	if character != "" {
		return s.Relationships.ForCharacter(character), nil
	}
	return s.Relationships.List(), nil
}

// apply runs fn inside a session update and returns the updated relationship.
func (h *RelationshipHandler) apply(
	ctx context.Context,
	session, id string,
	fn func(*services.RelationshipManager) error,
) (*entities.Relationship, error) {
	var rel *entities.Relationship
	err := h.sessions.Update(ctx, session, func(s *services.Session) error {
		if err := fn(s.Relationships); err != nil {
			return err
		}
		var err error
		rel, err = s.Relationships.Get(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rel, nil
}

// parseRelationType normalises a relationship type. Types outside
// ValidRelationTypes are accepted as free-form labels.
func parseRelationType(s string) (entities.RelationType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("relationship type is required (suggested: %s)", strings.Join(ValidRelationTypes, ", "))
	}
	return entities.RelationType(s), nil
}
