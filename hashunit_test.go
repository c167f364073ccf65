package kdego

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdego/dataset"
	"github.com/hupe1980/kdego/internal/randx"
	"github.com/hupe1980/kdego/kernel"
	"github.com/hupe1980/kdego/testutil"
)

func TestLevelCount(t *testing.T) {
	t.Run("PowersOfTwo", func(t *testing.T) {
		j, err := levelCount(8, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, j)

		j, err = levelCount(8, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, j)
	})

	t.Run("NonPowerOfTwo", func(t *testing.T) {
		// ceil(log2(10)) = 4 and 3 < log2(10), so the guess is still legal.
		j, err := levelCount(10, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, j)
	})

	t.Run("AtLeastOneLevel", func(t *testing.T) {
		for _, n := range []int{2, 3, 10, 100, 1024} {
			max := ceilLog2(n)
			for logNMu := 0; logNMu < max; logNMu += 2 {
				if float64(logNMu) >= math.Log2(float64(n)) {
					continue
				}
				j, err := levelCount(n, logNMu)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, j, 1, "n=%d logNMu=%d", n, logNMu)
			}
		}
	})

	t.Run("GuessTooLarge", func(t *testing.T) {
		_, err := levelCount(8, 3) // log2(8) == 3
		assert.ErrorIs(t, err, ErrInvariantViolation)

		_, err = levelCount(10, 4)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})
}

func TestSamplingProb(t *testing.T) {
	assert.Equal(t, 0.5, samplingProb(1, 0))
	assert.Equal(t, 1.0/16, samplingProb(2, 2))

	for j := 1; j <= 20; j++ {
		p := samplingProb(j, 4)
		assert.Greater(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestLevelRadiusSquared(t *testing.T) {
	assert.InDelta(t, 2*math.Ln2/0.5, levelRadiusSquared(2, 0.5), 1e-15)

	// Radii grow with the level.
	assert.Less(t, levelRadiusSquared(1, 1.0), levelRadiusSquared(2, 1.0))
}

func TestLSHParams(t *testing.T) {
	for j := 1; j <= 8; j++ {
		k, l := lshParams(8, j, 100000, 0.5)
		assert.GreaterOrEqual(t, k, 1, "j=%d", j)
		assert.GreaterOrEqual(t, l, 1, "j=%d", j)
	}
}

func TestNewHashUnit(t *testing.T) {
	src := randx.New(11)

	t.Run("LevelExceedsJ", func(t *testing.T) {
		data := testutil.NewGenerator(1).Uniform(8, 2)
		_, err := newHashUnit(1.0, data, 0, 4, 1000, src) // J(8, 0) == 3
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("GuessTooLarge", func(t *testing.T) {
		data := testutil.NewGenerator(1).Uniform(8, 2)
		_, err := newHashUnit(1.0, data, 3, 1, 1000, src)
		assert.ErrorIs(t, err, ErrInvariantViolation)
	})

	t.Run("BelowCutoff", func(t *testing.T) {
		data := testutil.NewGenerator(2).Uniform(64, 2)
		u, err := newHashUnit(1.0, data, 0, 1, 1000, src)
		require.NoError(t, err)
		assert.True(t, u.belowCutoff)
		assert.Nil(t, u.index)
		assert.LessOrEqual(t, len(u.sample), 64)
	})

	t.Run("AboveCutoffBuildsIndex", func(t *testing.T) {
		data := testutil.NewGenerator(3).Uniform(512, 2)
		// A cutoff of 1 forces the LSH path for any non-trivial sample.
		u, err := newHashUnit(1.0, data, 0, 1, 1, randx.New(4))
		require.NoError(t, err)
		assert.False(t, u.belowCutoff)
		require.NotNil(t, u.index)
		assert.Greater(t, u.index.Len(), 1)

		q := data.Point(0)
		assert.GreaterOrEqual(t, u.query(q), 0.0)
	})
}

func TestHashUnitQueryAnnulus(t *testing.T) {
	// Points at squared distance 0.25 from the origin are inside the level-1
	// annulus (0, ln2] for a=1; points at squared distance 100 are far
	// outside every level.
	rows := [][]float64{}
	for i := 0; i < 20; i++ {
		rows = append(rows, []float64{0.5, 0})
	}
	for i := 0; i < 20; i++ {
		rows = append(rows, []float64{10, 0})
	}
	data, err := dataset.FromRows(rows)
	require.NoError(t, err)

	u, err := newHashUnit(1.0, data, 0, 1, 1000, randx.New(5))
	require.NoError(t, err)
	require.True(t, u.belowCutoff)

	near := 0
	for _, p := range u.sample {
		if p.Coords[0] == 0.5 {
			near++
		}
	}

	q := dataset.Point{Dim: 2, Coords: []float64{0, 0}}
	want := float64(near) * kernel.Gaussian(1.0, 0.25) / u.prob
	assert.InDelta(t, want, u.query(q), 1e-9)
}

func TestGridFullyBuilt(t *testing.T) {
	data := testutil.NewGenerator(6).Uniform(128, 3)
	c, err := NewCKNS(t.Context(), data, 1.0, 0.5, WithSeed(21))
	require.NoError(t, err)

	total := 0
	for iter, reps := range c.units {
		logNMu := 2 * iter
		wantLevels := c.maxLogNMu - logNMu
		require.Len(t, reps, c.k1)
		for _, levels := range reps {
			require.Len(t, levels, wantLevels)
			for j, u := range levels {
				require.NotNil(t, u, "unit (%d, %d) missing", iter, j)
				assert.Equal(t, logNMu, u.logNMu)
				assert.Equal(t, j+1, u.j)
				total++
			}
		}
	}

	// Total units = k1 * sum of J over the materialized guesses.
	wantTotal := 0
	for iter := 0; iter < c.iterations; iter++ {
		wantTotal += c.k1 * (c.maxLogNMu - 2*iter)
	}
	assert.Equal(t, wantTotal, total)
}
