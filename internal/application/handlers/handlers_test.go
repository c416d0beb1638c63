package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-forge/internal/domain/mocks"
	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/dice"
	"github.com/ersonp/campaign-forge/internal/infrastructure/random"
)

// newTestResolver builds a resolver over the built-in tables with a fixed seed.
func newTestResolver(t *testing.T) *services.Resolver {
	t.Helper()
	registry, err := services.NewDefaultRegistry()
	require.NoError(t, err)
	rng := random.New(42)
	return services.NewResolver(registry, dice.NewRoller(rng), rng, nil)
}

func newTestSessions() (*SessionHandler, *mocks.SessionStore) {
	store := mocks.NewSessionStore()
	return NewSessionHandler(store, nil), store
}
