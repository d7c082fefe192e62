// Package cluster holds the feature standardization and the centroid-based
// partitioning algorithms.
package cluster

// Result is a fitted partition: fixed centroids, one label per input row,
// and the within-cluster sum of squared distances.
type Result struct {
	Centers [][]float64
	Labels  []int
	Inertia float64
}

type Algorithm interface {
	Run(data [][]float64, k int) (*Result, error)
}

type AlgorithmType string

const (
	// KMeans is Lloyd's algorithm with k-means++ initialization, multiple
	// seeded restarts and lowest-inertia selection. Deterministic for a
	// fixed seed.
	KMeans = AlgorithmType("kmeans")
	// KMeansPP delegates to the kmeanspp library. Not seedable; for callers
	// that do not need reproducible output.
	KMeansPP = AlgorithmType("kmeanspp")
)

const (
	DefaultSeed    = int64(42)
	DefaultNumInit = 10
	DefaultMaxIter = 300
)

// Options parameterize algorithm construction. Zero values fall back to the
// defaults above.
type Options struct {
	Seed    int64
	NumInit int
	MaxIter int
}

func (o *Options) complete() Options {
	out := Options{Seed: DefaultSeed, NumInit: DefaultNumInit, MaxIter: DefaultMaxIter}
	if o == nil {
		return out
	}
	if o.Seed != 0 {
		out.Seed = o.Seed
	}
	if o.NumInit > 0 {
		out.NumInit = o.NumInit
	}
	if o.MaxIter > 0 {
		out.MaxIter = o.MaxIter
	}
	return out
}

func Get(algorithmType AlgorithmType, opts *Options) Algorithm {
	o := opts.complete()
	switch algorithmType {
	case KMeans:
		return &kMeansRunner{seed: o.Seed, numInit: o.NumInit, maxIter: o.MaxIter}
	case KMeansPP:
		return &kMeansPPRunner{round: o.MaxIter}
	default:
		return nil
	}
}
