// Package mocks provides mock implementations for testing.
package mocks

import "github.com/ersonp/campaign-forge/internal/domain/ports"

// Randomizer is a scripted implementation of ports.Randomizer.
// Each call consumes the next queued value; an exhausted queue returns 0.
// Shuffle is a no-op unless ShuffleFunc is set, so shuffled slices keep
// their original order.
type Randomizer struct {
	Ints        []int
	Floats      []float64
	ShuffleFunc func(n int, swap func(i, j int))

	// Call tracking
	IntnCalls    []int
	Float64Calls int
	ShuffleCalls int
}

var _ ports.Randomizer = (*Randomizer)(nil)

// Intn returns the next scripted int, reduced modulo n.
func (m *Randomizer) Intn(n int) int {
	m.IntnCalls = append(m.IntnCalls, n)
	if len(m.Ints) == 0 {
		return 0
	}
	v := m.Ints[0]
	m.Ints = m.Ints[1:]
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// Float64 returns the next scripted float.
func (m *Randomizer) Float64() float64 {
	m.Float64Calls++
	if len(m.Floats) == 0 {
		return 0
	}
	v := m.Floats[0]
	m.Floats = m.Floats[1:]
	return v
}

// Shuffle calls ShuffleFunc when set.
func (m *Randomizer) Shuffle(n int, swap func(i, j int)) {
	m.ShuffleCalls++
	if m.ShuffleFunc != nil {
		m.ShuffleFunc(n, swap)
	}
}
