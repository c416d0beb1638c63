package entities

// DefaultStoryPatterns are the narrative shapes a plot outline can follow.
var DefaultStoryPatterns = []StoryPattern{
	{
		ID:          "hero_journey",
		Name:        "Hero's Journey",
		Description: "Ordinary heroes are called away, tested, and return changed.",
		Acts:        []string{"Departure", "Initiation", "Return"},
	},
	{
		ID:          "tragedy",
		Name:        "Tragedy",
		Description: "Ambition lifts the heroes high before it brings them low.",
		Acts:        []string{"Rise", "Hubris", "Fall", "Catastrophe"},
	},
	{
		ID:          "redemption",
		Name:        "Redemption",
		Description: "Old sins surface and must be paid for.",
		Acts:        []string{"The Sin", "The Reckoning", "Atonement"},
	},
	{
		ID:          "revenge",
		Name:        "Revenge",
		Description: "A wrong demands an answer, whatever the cost.",
		Acts:        []string{"The Wrong", "The Hunt", "The Confrontation"},
	},
	{
		ID:          "mystery",
		Name:        "Mystery",
		Description: "A hidden truth pulls the party deeper with every clue.",
		Acts:        []string{"The Crime", "The Investigation", "The Revelation", "The Confrontation"},
	},
	{
		ID:          "rags_to_riches",
		Name:        "Rags to Riches",
		Description: "From nothing the heroes build a fortune, and must keep it.",
		Acts:        []string{"Poverty", "Opportunity", "Success", "Test"},
	},
}

// DefaultPatternRules select a story pattern from party motivations and backgrounds.
var DefaultPatternRules = []PatternRule{
	{Keywords: []string{"revenge", "vengeance", "avenge"}, Pattern: "revenge"},
	{Keywords: []string{"redemption", "atone", "forgive"}, Pattern: "redemption"},
	{Keywords: []string{"secret", "mystery", "knowledge", "truth"}, Pattern: "mystery"},
	{Keywords: []string{"power", "ambition", "pride"}, Pattern: "tragedy"},
	{Keywords: []string{"wealth", "poverty", "urchin"}, Pattern: "rags_to_riches"},
}

// DefaultArcRules assign character arcs from flaw keywords.
var DefaultArcRules = []ArcRule{
	{Keywords: []string{"pride", "arrogan"}, Arc: "humility", Summary: "learns that strength is shared"},
	{Keywords: []string{"greed"}, Arc: "generosity", Summary: "gives up something precious for others"},
	{Keywords: []string{"fear", "coward"}, Arc: "courage", Summary: "stands firm when it matters most"},
	{Keywords: []string{"anger", "wrath"}, Arc: "temperance", Summary: "masters their temper"},
	{Keywords: []string{"distrust", "suspicio"}, Arc: "trust", Summary: "learns to rely on companions"},
	{Keywords: []string{"grudge", "vengeance", "revenge"}, Arc: "letting go", Summary: "chooses mercy over revenge"},
}

// DefaultArcSummary describes the arc given when no rule matches.
const DefaultArcSummary = "grows into their role in the party"

// FindStoryPattern returns the pattern with the given id.
func FindStoryPattern(id string) (StoryPattern, bool) {
	for _, p := range DefaultStoryPatterns {
		if p.ID == id {
			return p, true
		}
	}
	return StoryPattern{}, false
}
