package handlers

import (
	"context"
	"strings"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/services"
)

// StoryHandler handles story event and plot thread operations within a session.
type StoryHandler struct {
	sessions *SessionHandler
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(sessions *SessionHandler) *StoryHandler {
	return &StoryHandler{sessions: sessions}
}

// ThreadResult reports the thread after an activation attempt.
type ThreadResult struct {
	Thread  entities.PlotThread `json:"thread"`
	Changed bool                `json:"changed"`
}

// StorySummary is everything the story tracker holds for a session.
type StorySummary struct {
	Timeline []entities.StoryEvent `json:"timeline"`
	Threads  []entities.PlotThread `json:"threads"`
}

// HandleRecord records a story event for a character.
func (h *StoryHandler) HandleRecord(ctx context.Context, session, characterID string, ev entities.StoryEvent) (*entities.StoryEvent, error) {
	var recorded entities.StoryEvent
	err := h.sessions.Update(ctx, session, func(s *services.Session) error {
		recorded = s.Story.RecordEvent(strings.TrimSpace(characterID), ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recorded, nil
}

// HandleActivate activates a plot thread. Activating an active thread
// reports Changed=false and leaves it untouched.
func (h *StoryHandler) HandleActivate(ctx context.Context, session, id, title string) (*ThreadResult, error) {
	var result ThreadResult
	err := h.sessions.Update(ctx, session, func(s *services.Session) error {
		result.Thread, result.Changed = s.Story.ActivateThread(id, title)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HandleComplete completes a plot thread with an outcome.
func (h *StoryHandler) HandleComplete(ctx context.Context, session, id, outcome string) (*entities.PlotThread, error) {
	var thread entities.PlotThread
	err := h.sessions.Update(ctx, session, func(s *services.Session) error {
		var err error
		thread, err = s.Story.CompleteThread(id, outcome)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// HandleAttachOutline stores a generated outline against a character or party.
func (h *StoryHandler) HandleAttachOutline(ctx context.Context, session, characterID string, outline entities.PlotOutline) error {
	return h.sessions.Update(ctx, session, func(s *services.Session) error {
		s.Story.AttachOutline(characterID, outline)
		return nil
	})
}

// HandleList returns the session timeline and plot threads. With a
// character id only that character's events are returned.
func (h *StoryHandler) HandleList(ctx context.Context, session, characterID string, activeOnly bool) (*StorySummary, error) {
	s, err := h.sessions.Load(ctx, session)
	if err != nil {
		return nil, err
	}

	summary := &StorySummary{}
	if characterID != "" {
		summary.Timeline = s.Story.Events(characterID)
	} else {
		summary.Timeline = s.Story.Timeline()
	}
	if activeOnly {
		summary.Threads = s.Story.ActiveThreads()
	} else {
		summary.Threads = s.Story.Threads()
	}
	return summary, nil
}
