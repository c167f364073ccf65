package randx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterminism(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	c := New(8)
	assert.NotEqual(t, New(7).Uint64(), c.Uint64())
}

func TestFloat64Range(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		v := s.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestBernoulli(t *testing.T) {
	t.Run("AlwaysAndNever", func(t *testing.T) {
		s := New(3)
		all := s.Bernoulli(100, 1.0, nil)
		assert.Len(t, all, 100)

		none := s.Bernoulli(100, 0.0, nil)
		assert.Empty(t, none)
	})

	t.Run("AppendsToDst", func(t *testing.T) {
		s := New(3)
		dst := []int{-1}
		out := s.Bernoulli(10, 1.0, dst)
		require.Len(t, out, 11)
		assert.Equal(t, -1, out[0])
		assert.Equal(t, 0, out[1])
	})

	t.Run("RoughProportion", func(t *testing.T) {
		s := New(9)
		got := len(s.Bernoulli(100000, 0.25, nil))
		assert.InDelta(t, 25000, got, 1500)
	})
}

func TestConcurrentAccess(t *testing.T) {
	s := New(5)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				_ = s.Float64()
				_ = s.NormFloat64()
				_ = s.IntN(10)
			}
		}()
	}
	wg.Wait()
}
