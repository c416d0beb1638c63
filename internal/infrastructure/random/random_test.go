package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSource_SameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSource_Ranges(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		n := s.Intn(6)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)

		f := s.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}

func TestSource_Shuffle(t *testing.T) {
	s := New(1)
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	s.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, items)
}

func TestNewFromSeed(t *testing.T) {
	seed := int64(99)
	s, err := NewFromSeed(&seed)
	require.NoError(t, err)
	assert.Equal(t, int64(99), s.Seed())

	generated, err := NewFromSeed(nil)
	require.NoError(t, err)
	assert.NotNil(t, generated)
}

func TestSource_ConcurrentUse(t *testing.T) {
	s := New(3)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Intn(10)
				_ = s.Float64()
			}
		}()
	}
	wg.Wait()
}
