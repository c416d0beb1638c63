package mocks

import (
	"github.com/ersonp/campaign-forge/internal/domain/ports"
)

// DiceRoller is a scripted implementation of ports.DiceRoller.
// Totals are consumed in order; Fixed is used once the queue is empty.
type DiceRoller struct {
	Totals []int
	Fixed  int
	Err    error

	// Call tracking
	Expressions []string
}

var _ ports.DiceRoller = (*DiceRoller)(nil)

// Roll returns the next scripted total or the configured error.
func (m *DiceRoller) Roll(expr string) (ports.DiceResult, error) {
	m.Expressions = append(m.Expressions, expr)
	if m.Err != nil {
		return ports.DiceResult{}, m.Err
	}
	total := m.Fixed
	if len(m.Totals) > 0 {
		total = m.Totals[0]
		m.Totals = m.Totals[1:]
	}
	return ports.DiceResult{Expression: expr, Rolls: []int{total}, Total: total}, nil
}
