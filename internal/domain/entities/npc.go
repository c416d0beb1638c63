package entities

import "time"

// NPC is a generated non-player character.
type NPC struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FirstName   string    `json:"first_name"`
	Surname     string    `json:"surname"`
	Race        string    `json:"race,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Personality string    `json:"personality"`
	Motivation  string    `json:"motivation"`
	Quirk       string    `json:"quirk"`
	CreatedAt   time.Time `json:"created_at"`
}

// Adventure bundles the pieces of a one-shot adventure seed.
type Adventure struct {
	ID           string    `json:"id"`
	Hook         string    `json:"hook"`
	Location     string    `json:"location"`
	Antagonist   NPC       `json:"antagonist"`
	Complication string    `json:"complication"`
	Encounter    string    `json:"encounter"`
	Treasure     string    `json:"treasure"`
	CreatedAt    time.Time `json:"created_at"`
}
