package kdego

import (
	"runtime"

	"github.com/hupe1980/kdego/internal/randx"
)

// Options contains configuration options shared by both engines.
type Options struct {
	// Workers is the fixed size of the worker pool used for construction and
	// query fan-out. Defaults to the available hardware parallelism.
	Workers int

	// HashUnitCutoff is the sample size at or below which a hash unit keeps
	// its raw sample and answers queries by linear scan instead of building
	// an LSH index.
	HashUnitCutoff int

	// Seed seeds the shared random source used for dataset sampling and LSH
	// function generation. Zero means seeded from the current time. Note that
	// a fixed seed does not make queries bit-reproducible: worker
	// interleaving still perturbs the randomized construction.
	Seed int64

	// Logger receives structured build/query logs. Defaults to a no-op logger.
	Logger *Logger

	// Metrics receives operational metrics. Defaults to a no-op collector.
	Metrics MetricsCollector
}

// DefaultOptions contains the default configuration options for the engines.
var DefaultOptions = Options{
	Workers:        0, // resolved to runtime.GOMAXPROCS(0) at apply time
	HashUnitCutoff: 1000,
	Seed:           0,
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) func(o *Options) {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithHashUnitCutoff sets the brute-force cutoff for hash units.
func WithHashUnitCutoff(n int) func(o *Options) {
	return func(o *Options) {
		o.HashUnitCutoff = n
	}
}

// WithSeed seeds the engine's random source, for deterministic-seed testing.
// Zero is the default and means "seed from the current time"; a literal zero
// seed cannot be requested. Pass any fixed non-zero value instead.
func WithSeed(seed int64) func(o *Options) {
	return func(o *Options) {
		o.Seed = seed
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(logger *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMetricsCollector configures a metrics collector. Pass nil to disable.
func WithMetricsCollector(mc MetricsCollector) func(o *Options) {
	return func(o *Options) {
		o.Metrics = mc
	}
}

func applyOptions(optFns []func(o *Options)) Options {
	o := DefaultOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.HashUnitCutoff < 0 {
		o.HashUnitCutoff = 0
	}
	if o.Logger == nil {
		o.Logger = NoopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetricsCollector{}
	}
	return o
}

func (o Options) randomSource() *randx.Source {
	if o.Seed == 0 {
		return randx.NewFromTime()
	}
	return randx.New(o.Seed)
}
