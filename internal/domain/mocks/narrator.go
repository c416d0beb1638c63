package mocks

import (
	"context"
	"strings"
)

// Narrator is a mock implementation of ports.Narrator.
type Narrator struct {
	Prefix string
	Err    error

	// Call tracking
	Kinds  []string
	Drafts []string
}

// Narrate returns the draft with Prefix prepended, or the configured error.
func (m *Narrator) Narrate(_ context.Context, kind, draft string) (string, error) {
	m.Kinds = append(m.Kinds, kind)
	m.Drafts = append(m.Drafts, draft)
	if m.Err != nil {
		return "", m.Err
	}
	return strings.TrimSpace(m.Prefix + draft), nil
}
