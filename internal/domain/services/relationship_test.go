package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

func TestRelationshipManager_CreateClampsTrust(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		want    int
	}{
		{name: "in range", initial: 25, want: 25},
		{name: "above max", initial: 150, want: entities.MaxTrust},
		{name: "below min", initial: -300, want: entities.MinTrust},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewRelationshipManager()
			rel := m.Create("Regdar", "Lidda", entities.RelationFriend, tt.initial)
			assert.Equal(t, tt.want, rel.Trust)
			assert.Equal(t, "active", rel.Status)
			assert.NotEmpty(t, rel.ID)
		})
	}
}

func TestRelationshipManager_AddEvent(t *testing.T) {
	tests := []struct {
		eventType string
		want      int
	}{
		{eventType: "help", want: 10},
		{eventType: "Gift", want: 5},
		{eventType: " rescue ", want: 20},
		{eventType: "insult", want: -10},
		{eventType: "argument", want: -5},
		{eventType: "betrayal", want: -30},
		{eventType: "shrug", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			m := NewRelationshipManager()
			rel := m.Create("Regdar", "Lidda", entities.RelationFriend, 0)

			ev, err := m.AddEvent(rel.ID, tt.eventType, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.TrustDelta)
			assert.Equal(t, tt.want, ev.TrustAfter)

			got, err := m.Get(rel.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Trust)
			assert.Len(t, got.Events, 1)
		})
	}
}

func TestRelationshipManager_TrustStaysClamped(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationFriend, 95)

	_, err := m.AddEvent(rel.ID, "rescue", "")
	require.NoError(t, err)
	got, _ := m.Get(rel.ID)
	assert.Equal(t, entities.MaxTrust, got.Trust)

	for i := 0; i < 10; i++ {
		_, err = m.AddEvent(rel.ID, "betrayal", "")
		require.NoError(t, err)
	}
	got, _ = m.Get(rel.ID)
	assert.Equal(t, entities.MinTrust, got.Trust)
}

func TestRelationshipManager_ConflictLifecycle(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationRival, 0)

	c, err := m.CreateConflict(rel.ID, "stolen map", "MAJOR")
	require.NoError(t, err)
	assert.Equal(t, "major", c.Severity)
	got, _ := m.Get(rel.ID)
	assert.Equal(t, -25, got.Trust)

	resolved, err := m.ResolveConflict(c.ID, "forgiveness")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	assert.Equal(t, "forgiveness", resolved.ResolutionMethod)
	require.NotNil(t, resolved.ResolvedAt)
	got, _ = m.Get(rel.ID)
	assert.Equal(t, -5, got.Trust)

	again, err := m.ResolveConflict(c.ID, "victory")
	require.NoError(t, err)
	assert.Equal(t, "forgiveness", again.ResolutionMethod)
	got, _ = m.Get(rel.ID)
	assert.Equal(t, -5, got.Trust)
	assert.Len(t, got.Events, 2)
}

func TestRelationshipManager_UnknownSeverityIsModerate(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationRival, 0)

	c, err := m.CreateConflict(rel.ID, "an odd look", "catastrophic")
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultConflictSeverity, c.Severity)
	got, _ := m.Get(rel.ID)
	assert.Equal(t, -15, got.Trust)
}

func TestRelationshipManager_AllianceLifecycle(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationAlly, 0)

	a, err := m.FormAlliance(rel.ID, "clear the mine")
	require.NoError(t, err)
	assert.True(t, a.Active)

	same, err := m.FormAlliance(rel.ID, "something else")
	require.NoError(t, err)
	assert.Equal(t, a.ID, same.ID)
	assert.Equal(t, "clear the mine", same.Purpose)
	got, _ := m.Get(rel.ID)
	assert.Equal(t, 15, got.Trust)
	assert.Len(t, got.Alliances, 1)

	dissolved, err := m.DissolveAlliance(a.ID, "mine cleared")
	require.NoError(t, err)
	assert.False(t, dissolved.Active)
	assert.Equal(t, "mine cleared", dissolved.DissolvedReason)
	got, _ = m.Get(rel.ID)
	assert.Equal(t, -5, got.Trust)
	assert.Nil(t, got.ActiveAlliance())

	_, err = m.DissolveAlliance(a.ID, "again")
	require.NoError(t, err)
	got, _ = m.Get(rel.ID)
	assert.Equal(t, -5, got.Trust)

	next, err := m.FormAlliance(rel.ID, "new job")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, next.ID)
}

func TestRelationshipManager_NotFound(t *testing.T) {
	m := NewRelationshipManager()

	_, err := m.Get("missing")
	var relErr *entities.RelationshipNotFoundError
	assert.True(t, errors.As(err, &relErr))

	_, err = m.AddEvent("missing", "help", "")
	assert.True(t, errors.As(err, &relErr))

	_, err = m.ResolveConflict("missing", "apology")
	var conflictErr *entities.ConflictNotFoundError
	assert.True(t, errors.As(err, &conflictErr))

	_, err = m.DissolveAlliance("missing", "")
	var allianceErr *entities.AllianceNotFoundError
	assert.True(t, errors.As(err, &allianceErr))
}

func TestRelationshipManager_ForCharacter(t *testing.T) {
	m := NewRelationshipManager()
	m.Create("Regdar", "Lidda", entities.RelationFriend, 0)
	m.Create("Jozan", "Mialee", entities.RelationMentor, 0)
	m.Create("Lidda", "Jozan", entities.RelationRival, 0)

	rels := m.ForCharacter(" lidda ")
	require.Len(t, rels, 2)
	for _, r := range rels {
		assert.True(t, r.Involves("Lidda"))
	}
	assert.Len(t, m.List(), 3)
}

func TestRelationshipManager_GetReturnsCopy(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationFriend, 0)
	_, err := m.AddEvent(rel.ID, "help", "")
	require.NoError(t, err)

	got, _ := m.Get(rel.ID)
	got.Trust = 99
	got.Events[0].TrustDelta = 99

	fresh, _ := m.Get(rel.ID)
	assert.Equal(t, 10, fresh.Trust)
	assert.Equal(t, 10, fresh.Events[0].TrustDelta)
}

func TestRelationshipManager_RestoreRebuildsIndexes(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationFriend, 0)
	c, err := m.CreateConflict(rel.ID, "dice cheating", "minor")
	require.NoError(t, err)
	a, err := m.FormAlliance(rel.ID, "heist")
	require.NoError(t, err)

	saved := m.List()
	saved[0].Trust = 400

	restored := NewRelationshipManager()
	restored.Restore(saved)

	got, err := restored.Get(rel.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.MaxTrust, got.Trust)

	_, err = restored.ResolveConflict(c.ID, "apology")
	require.NoError(t, err)
	_, err = restored.DissolveAlliance(a.ID, "done")
	require.NoError(t, err)
}

func TestRelationshipManager_UpdateStatus(t *testing.T) {
	m := NewRelationshipManager()
	rel := m.Create("Regdar", "Lidda", entities.RelationFriend, 0)

	got, err := m.UpdateStatus(rel.ID, "estranged")
	require.NoError(t, err)
	assert.Equal(t, "estranged", got.Status)

	_, err = m.UpdateStatus("missing", "x")
	assert.Error(t, err)
}
