package kdego

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kdego/dataset"
	"github.com/hupe1980/kdego/kernel"
)

// Exact is the brute-force KDE baseline: the exact mean kernel value of a
// query point against every dataset point. It is deterministic and is used
// to validate the statistical error of the CKNS engine.
type Exact struct {
	a       float64
	dim     int
	points  []dataset.Point
	workers int

	logger  *Logger
	metrics MetricsCollector
}

// NewExact creates the exact engine over data with Gaussian bandwidth a.
func NewExact(data *dataset.Matrix, a float64, optFns ...func(o *Options)) (*Exact, error) {
	o := applyOptions(optFns)

	if data == nil || data.Rows() == 0 {
		return nil, ErrEmptyDataset
	}
	if a <= 0 {
		return nil, ErrInvalidBandwidth
	}

	e := &Exact{
		a:       a,
		dim:     data.Dim(),
		points:  data.Points(),
		workers: o.Workers,
		logger:  o.Logger,
		metrics: o.Metrics,
	}
	e.metrics.RecordBuild(0, 0, nil)
	return e, nil
}

// Query computes the exact density at each row of q, in input order.
func (e *Exact) Query(ctx context.Context, q *dataset.Matrix) ([]float64, error) {
	start := time.Now()
	points := 0
	if q != nil {
		points = q.Rows()
	}

	results, err := e.query(ctx, q)
	e.logger.LogQuery(points, time.Since(start), err)
	e.metrics.RecordQuery(points, time.Since(start), err)
	return results, err
}

func (e *Exact) query(ctx context.Context, q *dataset.Matrix) ([]float64, error) {
	if q == nil || q.Rows() == 0 {
		return nil, nil
	}
	if q.Dim() != e.dim {
		return nil, &ErrDimensionMismatch{Expected: e.dim, Actual: q.Dim()}
	}

	m := q.Rows()
	queryPoints := q.Points()
	results := make([]float64, m)

	// Small batches are not worth the scheduling overhead.
	if m < e.workers {
		for i, qp := range queryPoints {
			results[i] = e.densityAt(qp)
		}
		return results, nil
	}

	// One contiguous chunk per worker, not one task per point. Each chunk
	// writes a disjoint range of results, so no merge step is needed.
	g, gctx := errgroup.WithContext(ctx)
	chunk := m / e.workers
	for w := 0; w < e.workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if w == e.workers-1 {
			hi = m
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				results[i] = e.densityAt(queryPoints[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// densityAt is the exact mean kernel value against every dataset point.
func (e *Exact) densityAt(q dataset.Point) float64 {
	var total float64
	for _, p := range e.points {
		total += kernel.GaussianBetween(e.a, q, p)
	}
	return total / float64(len(e.points))
}
