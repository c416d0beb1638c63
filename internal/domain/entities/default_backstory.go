package entities

// DefaultBackgrounds are the built-in character backgrounds.
var DefaultBackgrounds = []Background{
	{ID: "scholar", Name: "Scholar", Description: "years spent in libraries and lecture halls chasing forgotten lore", Skills: []string{"Knowledge", "Decipher Script"}},
	{ID: "noble", Name: "Noble", Description: "a childhood of privilege, courtly intrigue and expectation", Skills: []string{"Diplomacy", "Ride"}},
	{ID: "merchant", Name: "Merchant", Description: "a life on trade routes haggling over silk, spice and secrets", Skills: []string{"Appraise", "Bluff"}},
	{ID: "soldier", Name: "Soldier", Description: "hard years in a mercenary company or a lord's levy", Skills: []string{"Intimidate", "Climb"}},
	{ID: "criminal", Name: "Criminal", Description: "a past spent running with a thieves' guild", Skills: []string{"Hide", "Open Lock"}},
	{ID: "acolyte", Name: "Acolyte", Description: "service in a temple, tending altars and copying scripture", Skills: []string{"Knowledge (religion)", "Heal"}},
	{ID: "folk_hero", Name: "Folk Hero", Description: "a humble village life until the day they stood up to a tyrant", Skills: []string{"Handle Animal", "Survival"}},
	{ID: "hermit", Name: "Hermit", Description: "long seclusion in the wilderness seeking a private truth", Skills: []string{"Heal", "Concentration"}},
	{ID: "outlander", Name: "Outlander", Description: "a youth among nomads far beyond the borders of civilisation", Skills: []string{"Survival", "Listen"}},
	{ID: "urchin", Name: "Urchin", Description: "a hungry childhood on the streets of a great city", Skills: []string{"Sleight of Hand", "Move Silently"}},
	{ID: "entertainer", Name: "Entertainer", Description: "a travelling troupe, applause and the occasional rotten cabbage", Skills: []string{"Perform", "Tumble"}},
	{ID: "sailor", Name: "Sailor", Description: "a life at sea under a demanding captain", Skills: []string{"Use Rope", "Swim"}},
}

// ClassBackgrounds lists the backgrounds compatible with each class.
// Classes not listed draw from every background.
var ClassBackgrounds = map[string][]string{
	"barbarian": {"outlander", "folk_hero", "soldier"},
	"bard":      {"entertainer", "noble", "urchin"},
	"cleric":    {"acolyte", "hermit", "noble"},
	"druid":     {"hermit", "outlander", "folk_hero"},
	"fighter":   {"soldier", "noble", "folk_hero", "sailor"},
	"monk":      {"acolyte", "hermit", "urchin"},
	"paladin":   {"noble", "acolyte", "soldier"},
	"ranger":    {"outlander", "folk_hero", "hermit"},
	"rogue":     {"criminal", "urchin", "merchant", "sailor"},
	"sorcerer":  {"noble", "hermit", "entertainer"},
	"wizard":    {"scholar", "noble", "merchant"},
}

// Backstory category data.
var (
	DefaultOrigins = []BackstoryItem{
		{ID: "village", Name: "Farming village", Description: "in a quiet farming village"},
		{ID: "city", Name: "Great city", Description: "amid the crowds of a great city"},
		{ID: "frontier", Name: "Frontier fort", Description: "behind the palisade of a frontier fort"},
		{ID: "monastery", Name: "Monastery", Description: "within the walls of a remote monastery"},
		{ID: "ship", Name: "Merchant ship", Description: "aboard a merchant ship that never stayed long in port"},
		{ID: "caravan", Name: "Caravan", Description: "in the wagons of a wandering caravan"},
		{ID: "ruins", Name: "Ancient ruins", Description: "among the ruins of a fallen empire"},
		{ID: "court", Name: "Royal court", Description: "in the shadow of a royal court"},
	}

	DefaultMotivations = []BackstoryItem{
		{ID: "revenge", Name: "Revenge", Description: "revenge against those who wronged their family"},
		{ID: "knowledge", Name: "Knowledge", Description: "a hunger for secret knowledge"},
		{ID: "wealth", Name: "Wealth", Description: "the promise of wealth"},
		{ID: "redemption", Name: "Redemption", Description: "the need to atone for a past mistake"},
		{ID: "glory", Name: "Glory", Description: "dreams of glory and song"},
		{ID: "protection", Name: "Protection", Description: "a vow to protect the helpless"},
		{ID: "freedom", Name: "Freedom", Description: "a longing for freedom"},
		{ID: "faith", Name: "Faith", Description: "devotion to their god"},
	}

	DefaultFlaws = []BackstoryItem{
		{ID: "pride", Name: "Pride", Description: "their pride blinds them to good advice"},
		{ID: "greed", Name: "Greed", Description: "greed gnaws at them whenever gold is near"},
		{ID: "fear", Name: "Cowardice", Description: "fear grips them when the odds turn"},
		{ID: "anger", Name: "Anger", Description: "anger comes to them too quickly"},
		{ID: "distrust", Name: "Distrust", Description: "distrust keeps even friends at arm's length"},
		{ID: "grudge", Name: "Grudge", Description: "they never forget a grudge"},
		{ID: "recklessness", Name: "Recklessness", Description: "recklessness drags them into trouble"},
		{ID: "secret", Name: "Dark secret", Description: "a dark secret could ruin them"},
	}

	DefaultIdeals = []BackstoryItem{
		{ID: "honor", Name: "Honor", Description: "a code of honor"},
		{ID: "charity", Name: "Charity", Description: "charity toward the poor"},
		{ID: "independence", Name: "Independence", Description: "fierce independence"},
		{ID: "tradition", Name: "Tradition", Description: "the traditions of their people"},
		{ID: "change", Name: "Change", Description: "the belief that the world must change"},
		{ID: "balance", Name: "Balance", Description: "balance in all things"},
	}

	DefaultBonds = []BackstoryItem{
		{ID: "mentor", Name: "Mentor", Description: "a debt to the mentor who trained them"},
		{ID: "sibling", Name: "Sibling", Description: "a promise to a missing sibling"},
		{ID: "hometown", Name: "Hometown", Description: "loyalty to their hometown"},
		{ID: "heirloom", Name: "Heirloom", Description: "a family heirloom they must recover"},
		{ID: "oath", Name: "Oath", Description: "an oath sworn before a dying friend"},
		{ID: "order", Name: "Order", Description: "their sworn order"},
	}

	DefaultPersonalityTraits = []BackstoryItem{
		{ID: "blunt", Name: "Blunt", Description: "blunt"},
		{ID: "curious", Name: "Curious", Description: "curious"},
		{ID: "generous", Name: "Generous", Description: "generous"},
		{ID: "sarcastic", Name: "Sarcastic", Description: "sarcastic"},
		{ID: "stoic", Name: "Stoic", Description: "stoic"},
		{ID: "cheerful", Name: "Cheerful", Description: "cheerful"},
		{ID: "methodical", Name: "Methodical", Description: "methodical"},
		{ID: "restless", Name: "Restless", Description: "restless"},
		{ID: "soft_spoken", Name: "Soft-spoken", Description: "soft-spoken"},
		{ID: "superstitious", Name: "Superstitious", Description: "superstitious"},
	}
)

// FindBackground returns the background with the given id.
func FindBackground(id string) (Background, bool) {
	for _, b := range DefaultBackgrounds {
		if b.ID == id {
			return b, true
		}
	}
	return Background{}, false
}
