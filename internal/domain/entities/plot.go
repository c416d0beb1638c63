package entities

import "time"

// Impact buckets for key events by position in the campaign.
const (
	ImpactSetup       = "setup"
	ImpactDevelopment = "development"
	ImpactClimax      = "climax"
)

// DefaultCampaignLength is used when a plot outline is requested without a length.
const DefaultCampaignLength = 10

// DefaultPattern is the story pattern chosen when no rule matches.
const DefaultPattern = "hero_journey"

// DefaultArc is the character arc assigned when no flaw keyword matches.
const DefaultArc = "growth"

// CharacterData is the party-member input to plot generation.
type CharacterData struct {
	Name        string   `json:"name"`
	Class       string   `json:"class,omitempty"`
	Background  string   `json:"background,omitempty"`
	Motivations []string `json:"motivations,omitempty"`
	Flaws       []string `json:"flaws,omitempty"`
}

// StoryPattern is a narrative shape broken into acts.
type StoryPattern struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Acts        []string `json:"acts"`
}

// PatternRule maps keywords to a story pattern. First match wins.
type PatternRule struct {
	Keywords []string
	Pattern  string
}

// ArcRule maps flaw keywords to a character arc.
type ArcRule struct {
	Keywords []string
	Arc      string
	Summary  string
}

// Act is one section of a plot outline.
type Act struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	ChapterStart int    `json:"chapter_start"`
	ChapterEnd   int    `json:"chapter_end"`
	Chapters     int    `json:"chapters"`
}

// CharacterArc is the personal story assigned to one party member.
type CharacterArc struct {
	Character string `json:"character"`
	Arc       string `json:"arc"`
	Summary   string `json:"summary"`
}

// KeyEvent is one planned beat of the campaign.
type KeyEvent struct {
	Chapter     int    `json:"chapter"`
	Trope       string `json:"trope"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

// PlotOutline is a generated campaign structure.
type PlotOutline struct {
	ID             string         `json:"id"`
	Pattern        StoryPattern   `json:"pattern"`
	CampaignLength int            `json:"campaign_length"`
	Acts           []Act          `json:"acts"`
	CharacterArcs  []CharacterArc `json:"character_arcs"`
	KeyEvents      []KeyEvent     `json:"key_events"`
	Summary        string         `json:"summary"`
	CreatedAt      time.Time      `json:"created_at"`
}
