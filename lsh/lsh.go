// Package lsh implements the Euclidean locality-sensitive hash family
// (E2LSH) used as the near-neighbor index inside the KDE grid. Nearby points
// collide in more hash buckets than distant points, so the union of a query's
// buckets across tables is a candidate set with a probabilistic radius
// guarantee only; callers must re-filter candidates by exact distance.
package lsh

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/viterin/vek"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hupe1980/kdego/dataset"
)

// bucketWidth is the projection quantization width w of the hash family.
// The collision probability closed form below is specific to this value.
const bucketWidth = 4.0

// CollisionProbability returns the probability that two points at distance r
// fall into the same bucket of a single hash function.
func CollisionProbability(r float64) float64 {
	if r <= 0 {
		return 1
	}
	wr := bucketWidth / r
	return 1 -
		2*distuv.UnitNormal.CDF(-wr) -
		(2/(math.Sqrt(2*math.Pi)*wr))*(1-math.Exp(-wr*wr/2))
}

// hashFunc is one K-tuple of quantized Gaussian projections. Two points
// share a bucket of the table only if all K projections agree.
type hashFunc struct {
	projections [][]float64 // K standard-normal vectors
	offsets     []float64   // K uniform offsets in [0, w)
}

func newHashFunc(k, dim int, src rand.Source) hashFunc {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	uniform := distuv.Uniform{Min: 0, Max: bucketWidth, Src: src}

	h := hashFunc{
		projections: make([][]float64, k),
		offsets:     make([]float64, k),
	}
	for i := 0; i < k; i++ {
		proj := make([]float64, dim)
		for d := range proj {
			proj[d] = normal.Rand()
		}
		h.projections[i] = proj
		h.offsets[i] = uniform.Rand()
	}
	return h
}

// key quantizes the K projections of p and folds them into a bucket key
// with FNV-1a.
func (h hashFunc) key(p dataset.Point) uint64 {
	const (
		fnvOffset = 14695981039346656037
		fnvPrime  = 1099511628211
	)
	key := uint64(fnvOffset)
	for i, proj := range h.projections {
		q := int64(math.Floor((vek.Dot(proj, p.Coords) + h.offsets[i]) / bucketWidth))
		for b := 0; b < 8; b++ {
			key ^= uint64(q>>(8*b)) & 0xff
			key *= fnvPrime
		}
	}
	return key
}

// Index is a set of L hash tables over an immutable point set. It is
// write-once: fully built by New, then safe for concurrent queries.
type Index struct {
	k, l   int
	points []dataset.Point
	funcs  []hashFunc
	tables []map[uint64][]uint32
}

// New builds an index with k hash functions per table and l tables over the
// given points. The points are referenced, not copied. If src is nil, a
// time-seeded generator is used.
func New(k, l int, points []dataset.Point, src rand.Source) (*Index, error) {
	if k < 1 || l < 1 {
		return nil, fmt.Errorf("lsh: parameters must be positive, got K=%d L=%d", k, l)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("lsh: no points to index")
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	dim := points[0].Dim
	idx := &Index{
		k:      k,
		l:      l,
		points: points,
		funcs:  make([]hashFunc, l),
		tables: make([]map[uint64][]uint32, l),
	}

	for t := 0; t < l; t++ {
		idx.funcs[t] = newHashFunc(k, dim, src)
		table := make(map[uint64][]uint32, len(points))
		for i, p := range points {
			key := idx.funcs[t].key(p)
			table[key] = append(table[key], uint32(i))
		}
		idx.tables[t] = table
	}

	return idx, nil
}

// Len returns the number of indexed points.
func (idx *Index) Len() int { return len(idx.points) }

// NearNeighbors returns the candidate points colliding with q in at least
// one table, deduplicated. Candidates are approximate: points outside the
// index radius may appear and near points may occasionally be missed.
func (idx *Index) NearNeighbors(q dataset.Point) []dataset.Point {
	seen := roaring.New()
	for t, fn := range idx.funcs {
		for _, id := range idx.tables[t][fn.key(q)] {
			seen.Add(id)
		}
	}

	candidates := make([]dataset.Point, 0, seen.GetCardinality())
	it := seen.Iterator()
	for it.HasNext() {
		candidates = append(candidates, idx.points[it.Next()])
	}
	return candidates
}
