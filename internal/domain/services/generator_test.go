package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/mocks"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/infrastructure/random"
)

func newSeededGenerator(t *testing.T, seed int64, narrator ports.Narrator) *Generator {
	t.Helper()
	registry, err := NewDefaultRegistry()
	require.NoError(t, err)
	rng := random.New(seed)
	return NewGenerator(NewResolver(registry, nil, rng, nil), rng, narrator, nil)
}

func TestGenerator_GenerateNPC(t *testing.T) {
	g := newSeededGenerator(t, 7, nil)

	npc, err := g.GenerateNPC(nil)
	require.NoError(t, err)

	assert.NotEmpty(t, npc.ID)
	assert.NotEmpty(t, npc.FirstName)
	assert.NotEmpty(t, npc.Surname)
	assert.Equal(t, npc.FirstName+" "+npc.Surname, npc.Name)
	assert.NotEmpty(t, npc.Race)
	assert.NotEmpty(t, npc.Gender)
	assert.NotEmpty(t, npc.Personality)
	assert.NotEmpty(t, npc.Motivation)
	assert.NotEmpty(t, npc.Quirk)
}

func TestGenerator_GenerateNPCSameSeedSameResult(t *testing.T) {
	a, err := newSeededGenerator(t, 99, nil).GenerateNPC(nil)
	require.NoError(t, err)
	b, err := newSeededGenerator(t, 99, nil).GenerateNPC(nil)
	require.NoError(t, err)

	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, a.Personality, b.Personality)
	assert.Equal(t, a.Quirk, b.Quirk)
}

func TestGenerator_GenerateBackstoryCounts(t *testing.T) {
	g := newSeededGenerator(t, 11, nil)

	b, err := g.GenerateBackstory(context.Background(), entities.BackstoryOptions{
		Class: "Wizard", Race: "Elf", Alignment: "Neutral Good",
	})
	require.NoError(t, err)

	assert.Len(t, b.Motivations, entities.BackstoryMotivations)
	assert.Len(t, b.Flaws, entities.BackstoryFlaws)
	assert.Len(t, b.Ideals, entities.BackstoryIdeals)
	assert.Len(t, b.Bonds, entities.BackstoryBonds)
	assert.Len(t, b.PersonalityTraits, entities.BackstoryPersonalityTraits)
	assert.NotEqual(t, b.Motivations[0].ID, b.Motivations[1].ID)
	assert.NotEmpty(t, b.Origin.ID)
	assert.Contains(t, b.Narrative, "elf wizard")
	assert.Contains(t, b.Narrative, "neutral good")
}

func TestGenerator_WizardBackgrounds(t *testing.T) {
	g := newSeededGenerator(t, 3, nil)
	allowed := map[string]bool{"scholar": true, "noble": true, "merchant": true}

	for i := 0; i < 200; i++ {
		bg := g.SelectRandomBackground(" WIZARD ")
		require.True(t, allowed[bg.ID], "wizard drew %q", bg.ID)
	}
}

func TestGenerator_SelectRandomBackground(t *testing.T) {
	tests := []struct {
		name  string
		class string
		draw  int
		want  string
	}{
		{name: "class list", class: "wizard", draw: 1, want: "noble"},
		{name: "unknown class uses every background", class: "artificer", draw: 4, want: "criminal"},
		{name: "no class", class: "", draw: 0, want: "scholar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &mocks.Randomizer{Ints: []int{tt.draw}}
			g := NewGenerator(nil, rng, nil, nil)
			assert.Equal(t, tt.want, g.SelectRandomBackground(tt.class).ID)
		})
	}
}

func TestGenerator_BackstoryWithoutRaceOrClass(t *testing.T) {
	g := newSeededGenerator(t, 5, nil)

	b, err := g.GenerateBackstory(context.Background(), entities.BackstoryOptions{})
	require.NoError(t, err)
	assert.Contains(t, b.Narrative, "this adventurer")
	assert.NotContains(t, b.Narrative, "Their conduct")
}

func TestGenerator_NarratorFailureKeepsDraft(t *testing.T) {
	narrator := &mocks.Narrator{Err: errors.New("rate limited")}
	g := newSeededGenerator(t, 5, narrator)

	b, err := g.GenerateBackstory(context.Background(), entities.BackstoryOptions{Class: "rogue"})
	require.NoError(t, err)
	require.Len(t, narrator.Drafts, 1)
	assert.Equal(t, narrator.Drafts[0], b.Narrative)
}

func TestSelectPattern(t *testing.T) {
	tests := []struct {
		name       string
		characters []entities.CharacterData
		want       string
	}{
		{
			name:       "empty party",
			characters: nil,
			want:       entities.DefaultPattern,
		},
		{
			name: "no keyword",
			characters: []entities.CharacterData{
				{Name: "Tordek", Motivations: []string{"Protect the clan"}, Background: "soldier"},
			},
			want: entities.DefaultPattern,
		},
		{
			name: "motivation keyword",
			characters: []entities.CharacterData{
				{Name: "Regdar", Motivations: []string{"Seek REVENGE on the orcs"}},
			},
			want: "revenge",
		},
		{
			name: "background keyword",
			characters: []entities.CharacterData{
				{Name: "Lidda", Background: "Urchin"},
			},
			want: "rags_to_riches",
		},
		{
			name: "earlier rule wins across characters",
			characters: []entities.CharacterData{
				{Name: "Mialee", Motivations: []string{"Uncover a secret"}},
				{Name: "Jozan", Motivations: []string{"Atone for a failure"}},
			},
			want: "redemption",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPattern(tt.characters).ID)
		})
	}
}

func TestAssignArc(t *testing.T) {
	tests := []struct {
		name  string
		flaws []string
		want  string
	}{
		{name: "no flaws", flaws: nil, want: entities.DefaultArc},
		{name: "pride", flaws: []string{"Overwhelming Pride"}, want: "humility"},
		{name: "greed", flaws: []string{"Greedy for gold"}, want: "generosity"},
		{name: "first rule wins", flaws: []string{"cowardice", "arrogance"}, want: "humility"},
		{name: "unmatched", flaws: []string{"talks too much"}, want: entities.DefaultArc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arc := AssignArc(entities.CharacterData{Name: "Eberk", Flaws: tt.flaws})
			assert.Equal(t, "Eberk", arc.Character)
			assert.Equal(t, tt.want, arc.Arc)
			assert.NotEmpty(t, arc.Summary)
		})
	}
}

func TestPartitionActs(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		length   int
		chapters []int
		starts   []int
	}{
		{name: "uneven", titles: []string{"A", "B", "C"}, length: 10, chapters: []int{4, 4, 2}, starts: []int{1, 5, 9}},
		{name: "even", titles: []string{"A", "B", "C"}, length: 9, chapters: []int{3, 3, 3}, starts: []int{1, 4, 7}},
		{name: "short campaign leaves empty acts", titles: []string{"A", "B", "C", "D"}, length: 2, chapters: []int{1, 1, 0, 0}, starts: []int{1, 2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts := PartitionActs(tt.titles, tt.length)
			require.Len(t, acts, len(tt.titles))
			total := 0
			for i, a := range acts {
				assert.Equal(t, i+1, a.Number)
				assert.Equal(t, tt.titles[i], a.Title)
				assert.Equal(t, tt.chapters[i], a.Chapters)
				assert.Equal(t, tt.starts[i], a.ChapterStart)
				total += a.Chapters
			}
			assert.Equal(t, tt.length, total)
		})
	}

	assert.Nil(t, PartitionActs(nil, 10))
}

func TestImpactFor(t *testing.T) {
	want := []string{
		entities.ImpactSetup, entities.ImpactSetup, entities.ImpactSetup,
		entities.ImpactDevelopment, entities.ImpactDevelopment, entities.ImpactDevelopment, entities.ImpactDevelopment,
		entities.ImpactClimax, entities.ImpactClimax, entities.ImpactClimax,
	}
	for i, w := range want {
		assert.Equal(t, w, ImpactFor(i, len(want)), "chapter index %d", i)
	}
}

func TestGenerator_GeneratePlotOutline(t *testing.T) {
	g := newSeededGenerator(t, 21, nil)
	party := []entities.CharacterData{
		{Name: "Regdar", Motivations: []string{"avenge his village"}, Flaws: []string{"pride"}},
		{Name: "Lidda", Flaws: []string{"greed"}},
	}

	outline, err := g.GeneratePlotOutline(context.Background(), party, 6)
	require.NoError(t, err)

	assert.Equal(t, "revenge", outline.Pattern.ID)
	assert.Equal(t, 6, outline.CampaignLength)
	require.Len(t, outline.Acts, 3)
	assert.Equal(t, []int{2, 2, 2}, []int{outline.Acts[0].Chapters, outline.Acts[1].Chapters, outline.Acts[2].Chapters})

	require.Len(t, outline.CharacterArcs, 2)
	assert.Equal(t, "humility", outline.CharacterArcs[0].Arc)
	assert.Equal(t, "generosity", outline.CharacterArcs[1].Arc)

	require.Len(t, outline.KeyEvents, 6)
	for i, ev := range outline.KeyEvents {
		assert.Equal(t, i+1, ev.Chapter)
		assert.NotEmpty(t, ev.Trope)
		assert.Equal(t, ImpactFor(i, 6), ev.Impact)
	}
	assert.True(t, strings.Contains(outline.KeyEvents[0].Description, "The Wrong"))
	assert.True(t, strings.Contains(outline.KeyEvents[5].Description, "The Confrontation"))
	assert.Contains(t, outline.Summary, "Revenge")
}

func TestGenerator_GeneratePlotOutlineDefaultLength(t *testing.T) {
	g := newSeededGenerator(t, 21, nil)

	for _, length := range []int{0, -4} {
		outline, err := g.GeneratePlotOutline(context.Background(), nil, length)
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultCampaignLength, outline.CampaignLength)
		assert.Len(t, outline.KeyEvents, entities.DefaultCampaignLength)
		assert.Empty(t, outline.CharacterArcs)
	}
}

func TestGenerator_GenerateAdventure(t *testing.T) {
	g := newSeededGenerator(t, 13, nil)

	adv, err := g.GenerateAdventure(entities.Params{"environment": "forest", "partyLevel": "4"})
	require.NoError(t, err)

	assert.NotEmpty(t, adv.ID)
	assert.NotEmpty(t, adv.Antagonist.Name)
	assert.NotEmpty(t, adv.Hook)
	assert.NotEmpty(t, adv.Location)
	assert.NotEmpty(t, adv.Complication)
	assert.NotEmpty(t, adv.Encounter)
	assert.NotEqual(t, "The road is quiet", adv.Encounter)
	assert.NotEmpty(t, adv.Treasure)
	for _, field := range []string{adv.Hook, adv.Location, adv.Complication, adv.Encounter, adv.Treasure} {
		assert.False(t, HasTokens(field), field)
	}
}
