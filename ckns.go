package kdego

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/kdego/dataset"
)

// CKNS answers approximate Gaussian kernel density queries over a fixed
// dataset using the Charikar-Kapralov-Nouri-Siminelakis layered LSH
// construction. The index is build-once, query-many: the full grid of hash
// units is constructed before NewCKNS returns and is read-only afterwards,
// so queries need no locking.
type CKNS struct {
	a   float64
	n   int
	dim int

	// k1 independent repetitions are combined by median to bound the
	// probability of a large single-repetition error.
	k1         int
	maxLogNMu  int
	iterations int
	workers    int

	logger  *Logger
	metrics MetricsCollector

	// units is indexed by [guess iteration][repetition][level-1]. Write-once:
	// each construction task fills exactly one pre-allocated slot.
	units [][][]*hashUnit
}

// NewCKNS builds a CKNS engine over data with Gaussian bandwidth a and
// accuracy parameter eps in (0, 1]. Construction fans out one task per
// (guess, repetition, level) triple on a fixed-size worker pool; the first
// failing task aborts the whole construction and the engine is never
// returned partially built.
func NewCKNS(ctx context.Context, data *dataset.Matrix, a, eps float64, optFns ...func(o *Options)) (*CKNS, error) {
	start := time.Now()
	o := applyOptions(optFns)

	if data == nil || data.Rows() == 0 {
		return nil, ErrEmptyDataset
	}
	if a <= 0 {
		return nil, ErrInvalidBandwidth
	}
	if eps <= 0 || eps > 1 {
		return nil, ErrInvalidEpsilon
	}

	n := data.Rows()
	c := &CKNS{
		a:         a,
		n:         n,
		dim:       data.Dim(),
		maxLogNMu: ceilLog2(n),
		workers:   o.Workers,
		logger:    o.Logger,
		metrics:   o.Metrics,
	}

	// Only every other guess of log(n*mu) is materialized. This trades a
	// constant-factor accuracy cost, absorbed by eps, for halving the
	// construction work.
	c.iterations = (c.maxLogNMu + 1) / 2

	c.k1 = int(math.Ceil(k1Constant * math.Log(float64(n)) / (eps * eps)))
	if c.k1 < 1 {
		c.k1 = 1
	}

	c.units = make([][][]*hashUnit, c.iterations)
	for iter := range c.units {
		levels := c.maxLogNMu - 2*iter // J(n, logNMu) for logNMu = 2*iter
		c.units[iter] = make([][]*hashUnit, c.k1)
		for rep := range c.units[iter] {
			c.units[iter][rep] = make([]*hashUnit, levels)
		}
	}

	src := o.randomSource()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	// Deepest levels first: they sample the most points, so scheduling them
	// early avoids a long single-task tail at the end of construction.
	totalUnits := 0
	for jOffset := c.maxLogNMu - 1; jOffset >= 0; jOffset-- {
		for iter := 0; iter < c.iterations; iter++ {
			logNMu := 2 * iter
			j := (c.maxLogNMu - logNMu) - jOffset
			if j < 1 {
				continue
			}
			for rep := 0; rep < c.k1; rep++ {
				totalUnits++
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					u, err := newHashUnit(c.a, data, logNMu, j, o.HashUnitCutoff, src)
					if err != nil {
						return err
					}
					// Unique slot per task; no lock needed.
					c.units[iter][rep][j-1] = u
					return nil
				})
			}
		}
	}

	err := g.Wait()
	c.logger.LogBuild(totalUnits, time.Since(start), err)
	c.metrics.RecordBuild(totalUnits, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Repetitions returns k1, the number of independent grid repetitions.
func (c *CKNS) Repetitions() int { return c.k1 }

// Guesses returns the number of materialized density guesses.
func (c *CKNS) Guesses() int { return c.iterations }

// Query estimates the kernel density at each row of q. It returns one
// strictly positive value per query point, in input order, regardless of
// internal scheduling. Points no density guess resolves receive the floor
// estimate 1/n.
func (c *CKNS) Query(ctx context.Context, q *dataset.Matrix) ([]float64, error) {
	start := time.Now()
	points := 0
	if q != nil {
		points = q.Rows()
	}

	results, err := c.query(ctx, q)
	c.logger.LogQuery(points, time.Since(start), err)
	c.metrics.RecordQuery(points, time.Since(start), err)
	return results, err
}

func (c *CKNS) query(ctx context.Context, q *dataset.Matrix) ([]float64, error) {
	if q == nil || q.Rows() == 0 {
		return nil, nil
	}
	if q.Dim() != c.dim {
		return nil, &ErrDimensionMismatch{Expected: c.dim, Actual: q.Dim()}
	}

	m := q.Rows()
	queryPoints := q.Points()

	results := make([]float64, m)
	resolved := bitset.New(uint(m))

	// One estimate buffer per repetition, reused across guess rounds.
	perRep := make([][]float64, c.k1)
	for rep := range perRep {
		perRep[rep] = make([]float64, m)
	}
	medianBuf := make([]float64, c.k1)

	// Sweep density guesses from loosest to tightest. All query points
	// advance through the rounds in lockstep: every repetition task of a
	// round must finish before the medians are taken, and the next round
	// must not start before that.
	for iter := c.iterations - 1; iter >= 0; iter-- {
		logNMu := 2 * iter
		levels := c.maxLogNMu - logNMu

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.workers)

		for rep := 0; rep < c.k1; rep++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				est := perRep[rep]
				for i := range est {
					est[i] = 0
				}
				for j := 1; j <= levels; j++ {
					unit := c.units[iter][rep][j-1]
					for i, qp := range queryPoints {
						// Skipping resolved points is an optimization; the
						// flags only change between rounds.
						if resolved.Test(uint(i)) {
							continue
						}
						est[i] += unit.query(qp)
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		// Aggregation is the single owner of the resolved flags and the
		// results; it runs strictly between rounds. A resolved point is
		// never overwritten by a later, tighter guess.
		for i := 0; i < m; i++ {
			if resolved.Test(uint(i)) {
				continue
			}
			for rep := 0; rep < c.k1; rep++ {
				medianBuf[rep] = perRep[rep][i]
			}
			sort.Float64s(medianBuf)
			med := stat.Quantile(0.5, stat.Empirical, medianBuf, nil)

			// Accept the guess once the median clears its implied threshold.
			if math.Log(med) >= float64(logNMu) {
				results[i] = med / float64(c.n)
				resolved.Set(uint(i))
			}
		}
	}

	floor := 1 / float64(c.n)
	for i := 0; i < m; i++ {
		if !resolved.Test(uint(i)) {
			results[i] = floor
		}
	}

	return results, nil
}
