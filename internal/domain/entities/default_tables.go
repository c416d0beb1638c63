package entities

// Built-in table ids.
const (
	TableCharacterNames = "characterNames"
	TableSurnames       = "surnames"
	TablePersonality    = "personality"
	TableMotivation     = "motivation"
	TableQuirk          = "quirk"
	TableWeather        = "weather"
	TableEncounters     = "encounters"
	TableTreasure       = "treasure"
	TableGems           = "gems"
	TableArtObjects     = "artObjects"
	TableMagicItems     = "magicItems"
	TableMonsters       = "monsters"
	TableLocations      = "locations"
	TableRumors         = "rumors"
	TablePlotHooks      = "plotHooks"
	TableComplications  = "complications"
	TableTropes         = "tropes"
	TableTaverns        = "taverns"
)

func ranged(lo, hi int, text string) Entry {
	return Entry{Min: lo, Max: hi, Text: text}
}

func named(lo, hi int, text, race, gender string) Entry {
	return Entry{Min: lo, Max: hi, Text: text, Attributes: map[string]string{
		"name":   text,
		"race":   race,
		"gender": gender,
	}}
}

func weighted(w float64, text string) Entry {
	return Entry{Weight: w, Text: text}
}

func when(text string, conds ...Condition) Entry {
	return Entry{Text: text, Conditions: conds}
}

func envIs(env string) Condition {
	return Condition{Type: ConditionParameter, Key: "environment", Value: env}
}

func levelBetween(lo, hi int) Condition {
	return Condition{Type: ConditionRange, Key: "partyLevel", Min: lo, Max: hi}
}

// DefaultTables are the built-in tables registered at startup.
// Ranged tables cover every outcome of their dice expression exactly once.
var DefaultTables = []Table{
	{
		ID:     TableCharacterNames,
		Name:   "Character Names",
		Dice:   "1d100",
		Method: MethodStandard,
		Entries: []Entry{
			named(1, 5, "Aerdrie", "human", "female"),
			named(6, 10, "Alaric", "human", "male"),
			named(11, 15, "Berrian", "elf", "male"),
			named(16, 20, "Caelynn", "elf", "female"),
			named(21, 25, "Dorn", "dwarf", "male"),
			named(26, 30, "Eldeth", "dwarf", "female"),
			named(31, 35, "Finnan", "halfling", "male"),
			named(36, 40, "Lidda", "halfling", "female"),
			named(41, 45, "Gimble", "gnome", "male"),
			named(46, 50, "Nissa", "gnome", "female"),
			named(51, 55, "Krusk", "half-orc", "male"),
			named(56, 60, "Baggi", "half-orc", "female"),
			named(61, 65, "Tordek", "dwarf", "male"),
			named(66, 70, "Mialee", "elf", "female"),
			named(71, 75, "Jozan", "human", "male"),
			named(76, 80, "Ember", "human", "female"),
			named(81, 85, "Soveliss", "elf", "male"),
			named(86, 90, "Kethra", "human", "female"),
			named(91, 95, "Regdar", "human", "male"),
			named(96, 100, "Naull", "human", "female"),
		},
	},
	{
		ID:     TableSurnames,
		Name:   "Surnames",
		Dice:   "1d30",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 3, "Brightwood"),
			ranged(4, 6, "Ironfist"),
			ranged(7, 9, "Amakiir"),
			ranged(10, 12, "Tealeaf"),
			ranged(13, 15, "Holderhek"),
			ranged(16, 18, "Nackle"),
			ranged(19, 21, "Dundragon"),
			ranged(22, 24, "Galanodel"),
			ranged(25, 27, "Stormwind"),
			ranged(28, 30, "Xiloscient"),
		},
	},
	{
		ID:     TablePersonality,
		Name:   "NPC Personality",
		Method: MethodWeighted,
		Entries: []Entry{
			weighted(3, "Cheerful and talkative"),
			weighted(3, "Kind-hearted"),
			weighted(2, "Gruff but fair"),
			weighted(2, "Suspicious of strangers"),
			weighted(2, "Endlessly curious"),
			weighted(1, "Nervous and fidgety"),
			weighted(1, "Arrogant"),
			weighted(1, "Cold and calculating"),
		},
	},
	{
		ID:     TableMotivation,
		Name:   "NPC Motivation",
		Method: MethodWeighted,
		Entries: []Entry{
			weighted(3, "Wealth"),
			weighted(2, "Knowledge"),
			weighted(2, "Protecting their family"),
			weighted(2, "Fame"),
			weighted(1, "Revenge"),
			weighted(1, "Power"),
			weighted(1, "Love"),
			weighted(1, "Redemption"),
		},
	},
	{
		ID:     TableQuirk,
		Name:   "NPC Quirk",
		Dice:   "1d20",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 2, "Hums constantly"),
			ranged(3, 4, "Counts coins while talking ([ROLL:3d6] gold in their purse)"),
			ranged(5, 6, "Speaks of themself in the third person"),
			ranged(7, 8, "Collects teeth"),
			ranged(9, 10, "Never makes eye contact"),
			ranged(11, 12, "Quotes a long-dead philosopher"),
			ranged(13, 14, "Sniffs food before eating it"),
			ranged(15, 16, "Claims to have met [TABLE:monsters] and lived"),
			ranged(17, 18, "Twirls a dagger absently"),
			ranged(19, 20, "Laughs at the wrong moments"),
		},
	},
	{
		ID:     TableWeather,
		Name:   "Weather",
		Method: MethodPercentile,
		Entries: []Entry{
			ranged(1, 70, "Clear skies"),
			ranged(71, 80, "Overcast"),
			ranged(81, 90, "Rain"),
			ranged(91, 95, "Fog"),
			ranged(96, 99, "Thunderstorm"),
			ranged(100, 100, "Freak weather: roll twice and combine"),
		},
	},
	{
		ID:     TableEncounters,
		Name:   "Random Encounters",
		Method: MethodConditional,
		Entries: []Entry{
			when("A pack of [ROLL:1d4+2] wolves", envIs("forest")),
			when("An owlbear guarding its den", envIs("forest"), levelBetween(3, 20)),
			when("A wandering druid", envIs("forest")),
			when("Giant eagles circling overhead", envIs("mountain")),
			when("An ogre demanding a toll", envIs("mountain"), levelBetween(2, 20)),
			when("A band of [ROLL:2d4] kobolds", envIs("underground")),
			when("A drow patrol", envIs("underground"), levelBetween(5, 20)),
			when("A gelatinous cube", envIs("underground"), levelBetween(3, 20)),
			when("Bandits posing as merchants", envIs("road")),
			when("A broken-down caravan", envIs("road")),
			when("A lich's envoy bearing a message", levelBetween(15, 20)),
			when("Travelers from {homeland}", Condition{Type: ConditionExists, Key: "homeland"}),
		},
		Fallback: &Entry{Text: "The road is quiet"},
	},
	{
		ID:     TableTreasure,
		Name:   "Treasure",
		Dice:   "1d100",
		Method: MethodNested,
		Entries: []Entry{
			{Min: 1, Max: 35, Text: "Coins", Dice: "3d6"},
			{Min: 36, Max: 60, Text: "Gems", Subtable: TableGems},
			{Min: 61, Max: 85, Text: "Art object", Subtable: TableArtObjects},
			{Min: 86, Max: 100, Text: "Magic item", Subtable: TableMagicItems},
		},
	},
	{
		ID:     TableGems,
		Name:   "Gems",
		Dice:   "1d10",
		Method: MethodStandard,
		Entries: []Entry{
			{Min: 1, Max: 3, Text: "Banded agate", Attributes: map[string]string{"value": "10"}},
			{Min: 4, Max: 6, Text: "Bloodstone", Attributes: map[string]string{"value": "50"}},
			{Min: 7, Max: 8, Text: "Amethyst", Attributes: map[string]string{"value": "100"}},
			{Min: 9, Max: 9, Text: "Black pearl", Attributes: map[string]string{"value": "500"}},
			{Min: 10, Max: 10, Text: "Emerald", Attributes: map[string]string{"value": "1000"}},
		},
	},
	{
		ID:     TableArtObjects,
		Name:   "Art Objects",
		Dice:   "1d8",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 2, "Silver ewer"),
			ranged(3, 4, "Carved bone statuette"),
			ranged(5, 6, "Embroidered silk tapestry"),
			ranged(7, 7, "Gold ring set with bloodstones"),
			ranged(8, 8, "Jeweled electrum crown"),
		},
	},
	{
		ID:     TableMagicItems,
		Name:   "Minor Magic Items",
		Method: MethodWeighted,
		Entries: []Entry{
			{Weight: 5, Text: "Potion of cure light wounds", Dice: "1d3"},
			{Weight: 3, Text: "Scroll of magic missile"},
			{Weight: 2, Text: "+1 dagger"},
			{Weight: 1, Text: "Cloak of resistance +1"},
			{Weight: 1, Text: "Bag of holding (type I)"},
		},
	},
	{
		ID:     TableMonsters,
		Name:   "Monsters",
		Method: MethodWeighted,
		Entries: []Entry{
			{Weight: 4, Text: "a goblin war band", Attributes: map[string]string{"cr": "1"}},
			{Weight: 3, Text: "a troll", Attributes: map[string]string{"cr": "5"}},
			{Weight: 2, Text: "a young black dragon", Attributes: map[string]string{"cr": "7"}},
			{Weight: 2, Text: "a wraith", Attributes: map[string]string{"cr": "5"}},
			{Weight: 1, Text: "a beholder", Attributes: map[string]string{"cr": "13"}},
		},
	},
	{
		ID:     TableLocations,
		Name:   "Locations",
		Dice:   "1d8",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 1, "the old mill"),
			ranged(2, 2, "the sunken temple"),
			ranged(3, 3, "the king's road"),
			ranged(4, 4, "the abandoned mine"),
			ranged(5, 5, "the Whispering Woods"),
			ranged(6, 6, "the harbor warehouses"),
			ranged(7, 7, "the wizard's tower"),
			ranged(8, 8, "the crossroads shrine"),
		},
	},
	{
		ID:     TableRumors,
		Name:   "Tavern Rumors",
		Dice:   "1d6",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 1, "{name} swears they saw [TABLE:monsters] near [TABLE:locations]."),
			ranged(2, 2, "The baron is paying [ROLL:4d6+20] gold for news of [TABLE:locations]."),
			ranged(3, 3, "Nobody has returned from [TABLE:locations] in [ROLL:1d4+1] weeks."),
			ranged(4, 4, "A stranger at [TABLE:taverns] is buying drinks with ancient coins."),
			ranged(5, 5, "The priests at [TABLE:locations] are hiding something."),
			ranged(6, 6, "Someone is asking about adventurers from {homeland}."),
		},
	},
	{
		ID:     TablePlotHooks,
		Name:   "Plot Hooks",
		Dice:   "1d8",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 1, "A merchant hires the party to escort a caravan past [TABLE:locations]."),
			ranged(2, 2, "A child goes missing near [TABLE:locations]."),
			ranged(3, 3, "A map fragment points to treasure guarded by [TABLE:monsters]."),
			ranged(4, 4, "The local temple's relic has been stolen."),
			ranged(5, 5, "A dying messenger presses a sealed letter into {name}'s hands."),
			ranged(6, 6, "Strange lights are seen over [TABLE:locations] every night."),
			ranged(7, 7, "An old friend begs for help against [TABLE:monsters]."),
			ranged(8, 8, "The town is offering a bounty on [TABLE:monsters]."),
		},
	},
	{
		ID:     TableComplications,
		Name:   "Complications",
		Dice:   "1d6",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 1, "The patron is lying about the reward."),
			ranged(2, 2, "A rival adventuring party is after the same goal."),
			ranged(3, 3, "The weather turns: [TABLE:weather]."),
			ranged(4, 4, "An ally is secretly working for the antagonist."),
			ranged(5, 5, "The target has already moved on."),
			ranged(6, 6, "Local authorities want the party arrested."),
		},
	},
	{
		ID:     TableTropes,
		Name:   "Story Tropes",
		Method: MethodWeighted,
		Entries: []Entry{
			weighted(3, "Betrayal by an ally"),
			weighted(3, "Mysterious stranger"),
			weighted(2, "Ancient prophecy"),
			weighted(2, "Race against time"),
			weighted(2, "Hidden identity"),
			weighted(2, "Unlikely alliance"),
			weighted(1, "Sacrifice for the greater good"),
			weighted(1, "The villain was right"),
		},
	},
	{
		ID:     TableTaverns,
		Name:   "Tavern Names",
		Dice:   "1d6",
		Method: MethodStandard,
		Entries: []Entry{
			ranged(1, 1, "the Prancing Pony"),
			ranged(2, 2, "the Drunken Dragon"),
			ranged(3, 3, "the Rusty Tankard"),
			ranged(4, 4, "the Gilded Griffon"),
			ranged(5, 5, "the Sleeping Giant"),
			ranged(6, 6, "the Crooked Lantern"),
		},
	},
}
