package entities

import "time"

// Fallback reasons attached to ResolvedResult.Reason.
const (
	ReasonMissedRoll    = "missed roll"
	ReasonNoValidEntry  = "no valid entries"
	ReasonMaxDepth      = "max depth exceeded"
	ReasonEmptyTable    = "empty table"
	DefaultFallbackText = "Nothing of note"
)

// ResolvedResult is the outcome of one resolution call.
// It is not persisted by the engine; callers store it if needed.
type ResolvedResult struct {
	TableID        string          `json:"table_id"`
	TableName      string          `json:"table_name"`
	Roll           int             `json:"roll,omitempty"`
	Entry          Entry           `json:"entry"`
	EntryRoll      int             `json:"entry_roll,omitempty"`
	Params         Params          `json:"params,omitempty"`
	Fallback       bool            `json:"fallback,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	SubtableResult *ResolvedResult `json:"subtable_result,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Text returns the substituted text of the resolved entry.
func (r *ResolvedResult) Text() string {
	return r.Entry.Text
}

// FullText joins the entry text with any chained subtable results.
func (r *ResolvedResult) FullText() string {
	text := r.Entry.Label()
	if r.SubtableResult != nil {
		sub := r.SubtableResult.FullText()
		if sub != "" {
			if text == "" {
				return sub
			}
			text += ": " + sub
		}
	}
	return text
}
