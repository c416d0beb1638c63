package entities

import "time"

// BackstoryItem is one selectable element of a backstory category.
type BackstoryItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Background is a character's upbringing or former profession.
type Background struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Skills      []string `json:"skills,omitempty"`
}

// BackstoryOptions narrows backstory generation. Empty fields mean "any".
type BackstoryOptions struct {
	Class     string `json:"class,omitempty"`
	Race      string `json:"race,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

// Per-category draw counts for a backstory.
const (
	BackstoryMotivations       = 2
	BackstoryFlaws             = 1
	BackstoryIdeals            = 1
	BackstoryBonds             = 1
	BackstoryPersonalityTraits = 2
)

// Backstory is a generated character history.
type Backstory struct {
	ID                string          `json:"id"`
	Class             string          `json:"class,omitempty"`
	Race              string          `json:"race,omitempty"`
	Alignment         string          `json:"alignment,omitempty"`
	Background        Background      `json:"background"`
	Origin            BackstoryItem   `json:"origin"`
	Motivations       []BackstoryItem `json:"motivations"`
	Flaws             []BackstoryItem `json:"flaws"`
	Ideals            []BackstoryItem `json:"ideals"`
	Bonds             []BackstoryItem `json:"bonds"`
	PersonalityTraits []BackstoryItem `json:"personality_traits"`
	Narrative         string          `json:"narrative"`
	CreatedAt         time.Time       `json:"created_at"`
}
