package entities

import "time"

// StoryEvent is a recorded moment in a character's story.
type StoryEvent struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Session     int       `json:"session,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlotThread is an ongoing storyline that can be activated once.
type PlotThread struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Active      bool       `json:"active"`
	Outcome     string     `json:"outcome,omitempty"`
	ActivatedAt time.Time  `json:"activated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
