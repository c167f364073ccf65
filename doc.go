// Package kdego provides approximate Gaussian kernel density estimation for
// graph-analysis pipelines.
//
// The core engine implements the CKNS algorithm
// (Charikar-Kapralov-Nouri-Siminelakis): a grid of locality-sensitive hash
// units, layered by density guess and distance level, that answers "what is
// the local density of the dataset near query point q" without the O(n) cost
// of scanning every point. A brute-force Exact engine is provided as a
// deterministic baseline for validation and benchmarking.
//
// # Quick Start
//
//	data, _ := dataset.FromRows(rows)
//
//	ckns, err := kdego.NewCKNS(ctx, data, 0.5, 0.5)
//	if err != nil { ... }
//
//	densities, err := ckns.Query(ctx, queries)
//
// The index is build-once, query-many: construction happens entirely inside
// NewCKNS on a fixed-size worker pool, after which the engine is read-only
// and safe for concurrent queries.
//
// # Accuracy
//
// Estimates are randomized. For accuracy parameter eps in (0, 1], repeated
// queries land within relative error about eps of the exact density with
// high probability; shrinking eps increases the number of independent grid
// repetitions (and thus construction cost) as O(log(n)/eps^2). Results are
// never zero: unresolved points receive the floor estimate 1/n.
//
// Estimates are not bit-reproducible across runs, even with a fixed seed,
// because worker interleaving perturbs the randomized construction. This is
// a property of the algorithm, not a defect.
package kdego
