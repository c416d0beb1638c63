// Package ports defines interfaces for collaborators the engine depends on.
package ports

// DiceResult is the outcome of rolling a dice expression.
type DiceResult struct {
	Expression string `json:"expression"`
	Rolls      []int  `json:"rolls,omitempty"`
	Modifier   int    `json:"modifier,omitempty"`
	Total      int    `json:"total"`
}

// DiceRoller rolls standard dice notation (NdM+K).
type DiceRoller interface {
	// Roll evaluates expr and returns the total with the individual dice.
	Roll(expr string) (DiceResult, error)
}
