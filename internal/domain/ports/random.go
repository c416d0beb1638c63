package ports

// Randomizer is the entropy source for uniform picks, weighted draws and shuffles.
// Implementations need not be cryptographically strong.
type Randomizer interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int

	// Float64 returns a uniform float in [0, 1).
	Float64() float64

	// Shuffle pseudo-randomizes the order of n elements using swap.
	Shuffle(n int, swap func(i, j int))
}
