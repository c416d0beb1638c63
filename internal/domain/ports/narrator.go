package ports

import "context"

// Narrator rewrites plainly interpolated narrative into polished prose.
type Narrator interface {
	// Narrate returns an improved version of draft. kind names what is being
	// narrated (e.g. "backstory", "plot") so the prompt can be tailored.
	Narrate(ctx context.Context, kind, draft string) (string, error)
}
