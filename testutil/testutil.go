// Package testutil provides seeded dataset generators for tests and
// benchmarks. All generators are deterministic for a fixed seed.
package testutil

import (
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/kdego/dataset"
)

// Generator encapsulates a seeded random source for building test datasets.
// It is thread-safe.
type Generator struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed int64
}

// NewGenerator creates a Generator with the specified seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rand: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x6a09e667f3bcc909)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (g *Generator) Seed() int64 { return g.seed }

// Uniform generates n points with coordinates in [0, 1).
func (g *Generator) Uniform(n, dim int) *dataset.Matrix {
	g.mu.Lock()
	defer g.mu.Unlock()

	data := make([]float64, n*dim)
	for i := range data {
		data[i] = g.rand.Float64()
	}
	m, _ := dataset.FromSlice(n, dim, data)
	return m
}

// Gaussian generates n points drawn from a standard normal scaled by sigma.
func (g *Generator) Gaussian(n, dim int, sigma float64) *dataset.Matrix {
	g.mu.Lock()
	defer g.mu.Unlock()

	data := make([]float64, n*dim)
	for i := range data {
		data[i] = g.rand.NormFloat64() * sigma
	}
	m, _ := dataset.FromSlice(n, dim, data)
	return m
}

// Blobs generates perCenter points around each given center with Gaussian
// noise of the given spread. Point i belongs to center i/perCenter, so rows
// are grouped by cluster.
func (g *Generator) Blobs(perCenter int, centers [][]float64, spread float64) *dataset.Matrix {
	g.mu.Lock()
	defer g.mu.Unlock()

	dim := len(centers[0])
	n := perCenter * len(centers)
	data := make([]float64, n*dim)

	for i := 0; i < n; i++ {
		center := centers[i/perCenter]
		for d := 0; d < dim; d++ {
			data[i*dim+d] = center[d] + g.rand.NormFloat64()*spread
		}
	}
	m, _ := dataset.FromSlice(n, dim, data)
	return m
}

// TwoClusters generates two well-separated Gaussian blobs along the first
// axis, the standard fixture for density-estimation accuracy tests.
func (g *Generator) TwoClusters(perCluster, dim int, separation, spread float64) *dataset.Matrix {
	left := make([]float64, dim)
	right := make([]float64, dim)
	right[0] = separation
	return g.Blobs(perCluster, [][]float64{left, right}, spread)
}
