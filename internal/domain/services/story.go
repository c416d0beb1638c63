package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// StoryTracker records story events, plot threads and outlines for a session.
type StoryTracker struct {
	events   map[string][]entities.StoryEvent
	threads  map[string]*entities.PlotThread
	outlines map[string]entities.PlotOutline
	now      func() time.Time
	mu       sync.Mutex
}

// NewStoryTracker creates an empty StoryTracker.
func NewStoryTracker() *StoryTracker {
	return &StoryTracker{
		events:   make(map[string][]entities.StoryEvent),
		threads:  make(map[string]*entities.PlotThread),
		outlines: make(map[string]entities.PlotOutline),
		now:      time.Now,
	}
}

// RecordEvent appends an event to a character's story. Missing ids and
// timestamps are filled in.
func (s *StoryTracker) RecordEvent(characterID string, ev entities.StoryEvent) entities.StoryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}
	ev.CharacterID = characterID
	s.events[characterID] = append(s.events[characterID], ev)
	return ev
}

// Events returns a character's events in the order they were recorded.
func (s *StoryTracker) Events(characterID string) []entities.StoryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.StoryEvent{}, s.events[characterID]...)
}

// Timeline returns every event across characters ordered by time.
func (s *StoryTracker) Timeline() []entities.StoryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []entities.StoryEvent
	for _, evs := range s.events {
		all = append(all, evs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

// ActivateThread starts a plot thread. It reports false, leaving the thread
// untouched, when the thread is already active.
func (s *StoryTracker) ActivateThread(id, title string) (entities.PlotThread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.threads[id]; ok && t.Active {
		return *t, false
	}
	t := &entities.PlotThread{
		ID:          id,
		Title:       title,
		Active:      true,
		ActivatedAt: s.now(),
	}
	s.threads[id] = t
	return *t, true
}

// CompleteThread closes a plot thread with an outcome.
func (s *StoryTracker) CompleteThread(id, outcome string) (entities.PlotThread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return entities.PlotThread{}, &entities.ThreadNotFoundError{ID: id}
	}
	if t.Active {
		now := s.now()
		t.Active = false
		t.Outcome = outcome
		t.CompletedAt = &now
	}
	return *t, nil
}

// IsActive reports whether a plot thread is currently active.
func (s *StoryTracker) IsActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	return ok && t.Active
}

// Threads returns every plot thread ordered by activation time.
func (s *StoryTracker) Threads() []entities.PlotThread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadsLocked(false)
}

// ActiveThreads returns the active plot threads ordered by activation time.
func (s *StoryTracker) ActiveThreads() []entities.PlotThread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadsLocked(true)
}

func (s *StoryTracker) threadsLocked(activeOnly bool) []entities.PlotThread {
	out := make([]entities.PlotThread, 0, len(s.threads))
	for _, t := range s.threads {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ActivatedAt.Equal(out[j].ActivatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ActivatedAt.Before(out[j].ActivatedAt)
	})
	return out
}

// AttachOutline stores the plot outline generated for a character or party.
func (s *StoryTracker) AttachOutline(characterID string, outline entities.PlotOutline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outlines[characterID] = outline
}

// Outline returns the stored outline for a character, if any.
func (s *StoryTracker) Outline(characterID string) (entities.PlotOutline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.outlines[characterID]
	return o, ok
}

// StoryState is the serialisable state of a StoryTracker.
type StoryState struct {
	Events   map[string][]entities.StoryEvent `json:"events"`
	Threads  []entities.PlotThread            `json:"threads"`
	Outlines map[string]entities.PlotOutline  `json:"outlines"`
}

// State returns a copy of the tracker's state.
func (s *StoryTracker) State() StoryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := StoryState{
		Events:   make(map[string][]entities.StoryEvent, len(s.events)),
		Threads:  s.threadsLocked(false),
		Outlines: make(map[string]entities.PlotOutline, len(s.outlines)),
	}
	for k, v := range s.events {
		st.Events[k] = append([]entities.StoryEvent{}, v...)
	}
	for k, v := range s.outlines {
		st.Outlines[k] = v
	}
	return st
}

// Restore replaces the tracker's state.
func (s *StoryTracker) Restore(st StoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = make(map[string][]entities.StoryEvent, len(st.Events))
	for k, v := range st.Events {
		s.events[k] = append([]entities.StoryEvent{}, v...)
	}
	s.threads = make(map[string]*entities.PlotThread, len(st.Threads))
	for i := range st.Threads {
		t := st.Threads[i]
		s.threads[t.ID] = &t
	}
	s.outlines = make(map[string]entities.PlotOutline, len(st.Outlines))
	for k, v := range st.Outlines {
		s.outlines[k] = v
	}
}
