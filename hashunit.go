package kdego

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/hupe1980/kdego/dataset"
	"github.com/hupe1980/kdego/internal/randx"
	"github.com/hupe1980/kdego/kernel"
	"github.com/hupe1980/kdego/lsh"
)

// Magic constants of the CKNS construction controlling the probability
// guarantee and variance bounds.
const (
	k1Constant = 0.2 // k1 = C1 * log(n) / eps^2 repetitions
	k2Constant = 1.0 // L = C2 * log(n) * 2^phi tables per unit
)

// ceilLog2 returns ceil(log2(n)) for n >= 1, without float rounding.
func ceilLog2(n int) int {
	return bits.Len(uint(n - 1))
}

// levelCount returns J(n, logNMu), the number of distance levels for a
// density guess. logNMu must be strictly below log2(n).
func levelCount(n, logNMu int) (int, error) {
	if float64(logNMu) >= math.Log2(float64(n)) {
		return 0, fmt.Errorf("%w: guess log(n*mu)=%d is not below log2(%d)", ErrInvariantViolation, logNMu, n)
	}
	return ceilLog2(n) - logNMu, nil
}

// samplingProb returns the Bernoulli sampling probability 2^-j * 2^-logNMu
// for level j of a density guess.
func samplingProb(j, logNMu int) float64 {
	return math.Exp2(float64(-j - logNMu))
}

// levelRadiusSquared returns r_j^2 = j * ln(2) / a, the squared outer radius
// of distance level j under bandwidth a.
func levelRadiusSquared(j int, a float64) float64 {
	return float64(j) * math.Ln2 / a
}

// lshParams derives the E2LSH parameters K (hash functions per table) and L
// (number of tables) for level j of a guess with bigJ levels. The closed
// forms bound the probability of missing a point inside the level's annulus.
func lshParams(bigJ, j, n int, a float64) (k, l int) {
	rj := math.Sqrt(levelRadiusSquared(j, a))
	pj := lsh.CollisionProbability(rj)
	phi := math.Ceil(float64(j) / float64(bigJ) * float64(bigJ-j+1))

	k = int(math.Floor(-phi / math.Log2(pj)))
	if k < 1 {
		k = 1
	}
	l = int(math.Ceil(k2Constant * math.Log2(float64(n)) * math.Exp2(phi)))
	if l < 1 {
		l = 1
	}
	return k, l
}

// hashUnit is one leveled sampling+index unit of the CKNS grid, fixed to a
// (density guess, distance level) pair. It owns either a raw sample or an
// LSH index over the sample, and is immutable after construction.
type hashUnit struct {
	a      float64
	logNMu int
	j      int
	prob   float64

	belowCutoff bool
	sample      []dataset.Point // kept raw when belowCutoff
	index       *lsh.Index      // built otherwise
}

func newHashUnit(a float64, data *dataset.Matrix, logNMu, j, cutoff int, src *randx.Source) (*hashUnit, error) {
	n := data.Rows()
	bigJ, err := levelCount(n, logNMu)
	if err != nil {
		return nil, err
	}
	if j > bigJ {
		return nil, fmt.Errorf("%w: level %d exceeds J=%d for guess log(n*mu)=%d", ErrInvariantViolation, j, bigJ, logNMu)
	}

	u := &hashUnit{
		a:      a,
		logNMu: logNMu,
		j:      j,
		prob:   samplingProb(j, logNMu),
	}

	// Sample each dataset point independently with probability prob. The
	// sampled points are views into the dataset, not copies.
	ids := src.Bernoulli(n, u.prob, nil)
	points := make([]dataset.Point, len(ids))
	for i, id := range ids {
		points[i] = data.Point(id)
	}

	// A small sample is cheaper to scan than to index.
	if len(points) <= cutoff {
		u.belowCutoff = true
		u.sample = points
		return u, nil
	}

	k, l := lshParams(bigJ, j, n, a)
	index, err := lsh.New(k, l, points, src)
	if err != nil {
		return nil, err
	}
	u.index = index
	return u, nil
}

// query sums kernel(a, d^2)/prob over sampled points whose exact squared
// distance to q lies in the annulus (r_{j-1}^2, r_j^2]. Every candidate is
// re-filtered by exact distance because the index's radius guarantee is only
// probabilistic. Pure function of the unit's immutable state.
func (u *hashUnit) query(q dataset.Point) float64 {
	var candidates []dataset.Point
	if u.belowCutoff {
		candidates = u.sample
	} else {
		candidates = u.index.NearNeighbors(q)
	}

	outerSq := levelRadiusSquared(u.j, u.a)
	innerSq := 0.0
	if u.j > 1 {
		innerSq = levelRadiusSquared(u.j-1, u.a)
	}

	var total float64
	for _, p := range candidates {
		dSq := kernel.SquaredDistance(q, p)
		if dSq <= outerSq && dSq > innerSq {
			total += kernel.Gaussian(u.a, dSq) / u.prob
		}
	}
	return total
}
