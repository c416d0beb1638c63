package entities

import (
	"strings"
	"time"
)

// Trust bounds for a relationship.
const (
	MinTrust = -100
	MaxTrust = 100
)

// ClampTrust bounds a trust value to [MinTrust, MaxTrust].
func ClampTrust(v int) int {
	if v < MinTrust {
		return MinTrust
	}
	if v > MaxTrust {
		return MaxTrust
	}
	return v
}

// RelationType is a free-form label for how two characters relate.
type RelationType string

const (
	RelationFriend  RelationType = "friend"
	RelationRival   RelationType = "rival"
	RelationFamily  RelationType = "family"
	RelationMentor  RelationType = "mentor"
	RelationRomance RelationType = "romance"
	RelationEnemy   RelationType = "enemy"
	RelationAlly    RelationType = "ally"
)

// Relationship tracks trust between two characters over a campaign.
type Relationship struct {
	ID         string              `json:"id"`
	CharacterA string              `json:"character_a"`
	CharacterB string              `json:"character_b"`
	Type       RelationType        `json:"type"`
	Trust      int                 `json:"trust"`
	Status     string              `json:"status"`
	Events     []RelationshipEvent `json:"events"`
	Conflicts  []Conflict          `json:"conflicts"`
	Alliances  []Alliance          `json:"alliances"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Involves reports whether the named character is part of the relationship.
func (r *Relationship) Involves(character string) bool {
	return NormalizeName(r.CharacterA) == NormalizeName(character) ||
		NormalizeName(r.CharacterB) == NormalizeName(character)
}

// ActiveAlliance returns the currently active alliance, if any.
func (r *Relationship) ActiveAlliance() *Alliance {
	for i := range r.Alliances {
		if r.Alliances[i].Active {
			return &r.Alliances[i]
		}
	}
	return nil
}

// RelationshipEvent is one recorded interaction and its trust effect.
type RelationshipEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	TrustDelta  int       `json:"trust_delta"`
	TrustAfter  int       `json:"trust_after"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conflict is a dispute inside a relationship.
type Conflict struct {
	ID               string     `json:"id"`
	Description      string     `json:"description"`
	Severity         string     `json:"severity"`
	Resolved         bool       `json:"resolved"`
	ResolutionMethod string     `json:"resolution_method,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

// Alliance is a shared purpose binding two characters.
type Alliance struct {
	ID              string     `json:"id"`
	Purpose         string     `json:"purpose"`
	Active          bool       `json:"active"`
	DissolvedReason string     `json:"dissolved_reason,omitempty"`
	FormedAt        time.Time  `json:"formed_at"`
	DissolvedAt     *time.Time `json:"dissolved_at,omitempty"`
}

// Trust deltas applied by relationship operations.
var (
	EventTrustDeltas = map[string]int{
		"help":     10,
		"gift":     5,
		"rescue":   20,
		"insult":   -10,
		"argument": -5,
		"betrayal": -30,
	}

	ConflictSeverityDeltas = map[string]int{
		"minor":    -10,
		"moderate": -15,
		"major":    -25,
		"severe":   -40,
	}

	ResolutionDeltas = map[string]int{
		"forgiveness": 20,
		"mediation":   15,
		"compromise":  10,
		"apology":     10,
		"victory":     -5,
		"separation":  0,
	}
)

// DefaultConflictSeverity is used when a severity is not recognised.
const DefaultConflictSeverity = "moderate"

// Alliance trust effects.
const (
	AllianceFormedDelta    = 15
	AllianceDissolvedDelta = -20
)

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
