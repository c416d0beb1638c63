package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/entities"
)

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	t := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestStoryTracker_RecordEvent(t *testing.T) {
	s := NewStoryTracker()
	s.now = steppingClock()

	first := s.RecordEvent("Regdar", entities.StoryEvent{Type: "milestone", Title: "Reached level 2"})
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Regdar", first.CharacterID)
	assert.False(t, first.CreatedAt.IsZero())

	s.RecordEvent("Lidda", entities.StoryEvent{Title: "Picked the vault"})
	s.RecordEvent("Regdar", entities.StoryEvent{ID: "fixed", Title: "Lost a sword"})

	events := s.Events("Regdar")
	require.Len(t, events, 2)
	assert.Equal(t, "Reached level 2", events[0].Title)
	assert.Equal(t, "fixed", events[1].ID)
	assert.Empty(t, s.Events("Nobody"))

	timeline := s.Timeline()
	require.Len(t, timeline, 3)
	assert.Equal(t, []string{"Reached level 2", "Picked the vault", "Lost a sword"},
		[]string{timeline[0].Title, timeline[1].Title, timeline[2].Title})
}

func TestStoryTracker_ThreadLifecycle(t *testing.T) {
	s := NewStoryTracker()
	s.now = steppingClock()

	thread, activated := s.ActivateThread("cult", "The Red Hand")
	require.True(t, activated)
	assert.True(t, thread.Active)
	assert.True(t, s.IsActive("cult"))

	again, activated := s.ActivateThread("cult", "Renamed")
	assert.False(t, activated)
	assert.Equal(t, "The Red Hand", again.Title)
	assert.Equal(t, thread.ActivatedAt, again.ActivatedAt)

	done, err := s.CompleteThread("cult", "Cult scattered")
	require.NoError(t, err)
	assert.False(t, done.Active)
	assert.Equal(t, "Cult scattered", done.Outcome)
	require.NotNil(t, done.CompletedAt)
	assert.False(t, s.IsActive("cult"))

	// Completing twice keeps the first outcome.
	done, err = s.CompleteThread("cult", "Cult returned")
	require.NoError(t, err)
	assert.Equal(t, "Cult scattered", done.Outcome)

	// A completed thread can be activated again.
	_, activated = s.ActivateThread("cult", "The Red Hand returns")
	assert.True(t, activated)
}

func TestStoryTracker_CompleteUnknownThread(t *testing.T) {
	s := NewStoryTracker()

	_, err := s.CompleteThread("ghost", "")
	var notFound *entities.ThreadNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestStoryTracker_ThreadListing(t *testing.T) {
	s := NewStoryTracker()
	s.now = steppingClock()

	s.ActivateThread("b", "Second")
	s.ActivateThread("a", "Third")
	_, err := s.CompleteThread("b", "done")
	require.NoError(t, err)
	s.ActivateThread("c", "Fourth")

	all := s.Threads()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	active := s.ActiveThreads()
	require.Len(t, active, 2)
	assert.Equal(t, "a", active[0].ID)
	assert.Equal(t, "c", active[1].ID)
}

func TestStoryTracker_StateRoundTrip(t *testing.T) {
	s := NewStoryTracker()
	s.now = steppingClock()
	s.RecordEvent("Regdar", entities.StoryEvent{Title: "Joined the party"})
	s.ActivateThread("cult", "The Red Hand")
	s.AttachOutline("party", entities.PlotOutline{ID: "outline-1", CampaignLength: 6})

	state := s.State()
	restored := NewStoryTracker()
	restored.Restore(state)

	assert.Equal(t, s.Events("Regdar"), restored.Events("Regdar"))
	assert.True(t, restored.IsActive("cult"))
	outline, ok := restored.Outline("party")
	require.True(t, ok)
	assert.Equal(t, "outline-1", outline.ID)

	_, ok = restored.Outline("nobody")
	assert.False(t, ok)
}
