package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
	"github.com/ersonp/campaign-forge/internal/domain/mocks"
	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/random"
)

func newTestGenerateHandler(t *testing.T, story *StoryHandler) *GenerateHandler {
	t.Helper()
	return NewGenerateHandler(services.NewGenerator(newTestResolver(t), random.New(7), nil, nil), story)
}

func TestGenerateHandler_NPC(t *testing.T) {
	handler := newTestGenerateHandler(t, nil)

	npc, err := handler.HandleNPC(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, npc.FirstName)
	assert.NotEmpty(t, npc.Surname)
	assert.Equal(t, npc.FirstName+" "+npc.Surname, npc.Name)
	assert.NotEmpty(t, npc.Personality)
}

func TestGenerateHandler_Backstory(t *testing.T) {
	handler := newTestGenerateHandler(t, nil)

	b, err := handler.HandleBackstory(context.Background(), entities.BackstoryOptions{Class: "wizard", Race: "elf"})
	require.NoError(t, err)
	assert.Len(t, b.Motivations, entities.BackstoryMotivations)
	assert.Len(t, b.PersonalityTraits, entities.BackstoryPersonalityTraits)
	assert.Contains(t, b.Narrative, "elf wizard")
}

func TestGenerateHandler_Adventure(t *testing.T) {
	handler := newTestGenerateHandler(t, nil)

	adv, err := handler.HandleAdventure(entities.Params{"environment": "forest", "partyLevel": "3"})
	require.NoError(t, err)
	assert.NotEmpty(t, adv.Hook)
	assert.NotEmpty(t, adv.Location)
	assert.NotEmpty(t, adv.Antagonist.Name)
	assert.NotEmpty(t, adv.Treasure)
}

func TestGenerateHandler_PlotAttachesOutline(t *testing.T) {
	sessions, _ := newTestSessions()
	story := NewStoryHandler(sessions)
	handler := newTestGenerateHandler(t, story)
	ctx := context.Background()

	party := []entities.CharacterData{{Name: "Aerdrie", Motivations: []string{"revenge"}}}
	outline, err := handler.HandlePlot(ctx, party, PlotOptions{Length: 6, Session: "default", AttachTo: "party"})
	require.NoError(t, err)
	assert.Equal(t, 6, outline.CampaignLength)
	assert.Len(t, outline.KeyEvents, 6)

	s, err := sessions.Load(ctx, "default")
	require.NoError(t, err)
	stored, ok := s.Story.Outline("party")
	require.True(t, ok)
	assert.Equal(t, outline.ID, stored.ID)
}

func TestGenerateHandler_PlotDefaultLength(t *testing.T) {
	handler := newTestGenerateHandler(t, nil)

	outline, err := handler.HandlePlot(context.Background(), nil, PlotOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultCampaignLength, outline.CampaignLength)
}

func TestGenerateHandler_PlotAttachWithoutStory(t *testing.T) {
	handler := newTestGenerateHandler(t, nil)

	_, err := handler.HandlePlot(context.Background(), nil, PlotOptions{AttachTo: "party"})
	require.Error(t, err)
}

func TestGenerateHandler_NarratorPolishesBackstory(t *testing.T) {
	narrator := &mocks.Narrator{Prefix: "Told by the fire: "}
	gen := services.NewGenerator(newTestResolver(t), random.New(7), narrator, nil)
	handler := NewGenerateHandler(gen, nil)

	b, err := handler.HandleBackstory(context.Background(), entities.BackstoryOptions{})
	require.NoError(t, err)
	assert.Contains(t, b.Narrative, "Told by the fire:")
	assert.Equal(t, []string{services.NarrateBackstory}, narrator.Kinds)
}

func TestParseCharacter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    entities.CharacterData
		wantErr bool
	}{
		{
			name:  "name only",
			input: "Aerdrie",
			want:  entities.CharacterData{Name: "Aerdrie"},
		},
		{
			name:  "all fields",
			input: "Bram/fighter:revenge, glory:soldier:pride",
			want: entities.CharacterData{
				Name:        "Bram",
				Class:       "fighter",
				Motivations: []string{"revenge", "glory"},
				Background:  "soldier",
				Flaws:       []string{"pride"},
			},
		},
		{
			name:  "empty motivations",
			input: "Cora::noble",
			want:  entities.CharacterData{Name: "Cora", Background: "noble"},
		},
		{
			name:    "missing name",
			input:   ":revenge",
			wantErr: true,
		},
		{
			name:    "too many fields",
			input:   "a:b:c:d:e",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCharacter(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseParams(t *testing.T) {
	params, err := ParseParams([]string{"environment=forest", " partyLevel = 5 ", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, entities.Params{"environment": "forest", "partyLevel": "5", "note": "a=b"}, params)

	_, err = ParseParams([]string{"novalue"})
	require.Error(t, err)

	_, err = ParseParams([]string{"=x"})
	require.Error(t, err)
}
