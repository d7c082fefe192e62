package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

type kMeansRunner struct {
	seed    int64
	numInit int
	maxIter int
}

// Run fits k centroids minimizing within-cluster squared distance. numInit
// independent initializations share one seeded source, and the
// lowest-inertia run wins, so output is deterministic for a fixed seed.
func (r *kMeansRunner) Run(data [][]float64, k int) (*Result, error) {
	if err := validate(data, k); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(r.seed))

	var best *Result
	for init := 0; init < r.numInit; init++ {
		result := lloyd(data, k, r.maxIter, rng)
		if best == nil || result.Inertia < best.Inertia {
			best = result
		}
	}

	return best, nil
}

func validate(data [][]float64, k int) error {
	if len(data) == 0 {
		return errors.New("no data to cluster")
	}
	if k < 1 {
		return fmt.Errorf("cluster count must be positive, got %d", k)
	}
	if k > len(data) {
		return fmt.Errorf("cluster count %d exceeds sample count %d", k, len(data))
	}
	return nil
}

func lloyd(data [][]float64, k, maxIter int, rng *rand.Rand) *Result {
	centers := seedCenters(data, k, rng)
	labels := make([]int, len(data))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, point := range data {
			l := nearest(point, centers)
			if l != labels[i] {
				labels[i] = l
				changed = true
			}
		}
		if !changed {
			break
		}

		recomputeCenters(data, labels, centers)
	}

	return &Result{
		Centers: centers,
		Labels:  labels,
		Inertia: Inertia(data, centers, labels),
	}
}

// seedCenters picks k initial centroids with the k-means++ scheme: the
// first uniformly, the rest weighted by squared distance to the closest
// center chosen so far.
func seedCenters(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(data[rng.Intn(len(data))]))

	dist := make([]float64, len(data))
	for len(centers) < k {
		sum := 0.0
		for i, point := range data {
			d := squaredDistance(point, centers[nearest(point, centers)])
			dist[i] = d
			sum += d
		}

		if sum == 0 {
			// all remaining points coincide with a center
			centers = append(centers, clone(data[rng.Intn(len(data))]))
			continue
		}

		target := rng.Float64() * sum
		idx := 0
		for i, d := range dist {
			target -= d
			if target <= 0 {
				idx = i
				break
			}
		}
		centers = append(centers, clone(data[idx]))
	}

	return centers
}

func recomputeCenters(data [][]float64, labels []int, centers [][]float64) {
	width := len(data[0])
	counts := make([]int, len(centers))
	sums := make([][]float64, len(centers))
	for c := range sums {
		sums[c] = make([]float64, width)
	}

	for i, point := range data {
		counts[labels[i]]++
		floats.Add(sums[labels[i]], point)
	}

	for c := range centers {
		if counts[c] == 0 {
			// re-seed an emptied cluster at the point farthest from its
			// current center
			centers[c] = clone(data[farthest(data, centers, labels)])
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		centers[c] = sums[c]
	}
}

func farthest(data [][]float64, centers [][]float64, labels []int) int {
	worst, worstDist := 0, -1.0
	for i, point := range data {
		d := squaredDistance(point, centers[labels[i]])
		if d > worstDist {
			worst, worstDist = i, d
		}
	}
	return worst
}

func nearest(point []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		d := squaredDistance(point, center)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Assign maps each row to the index of its nearest centroid.
func Assign(data [][]float64, centers [][]float64) []int {
	labels := make([]int, len(data))
	for i, point := range data {
		labels[i] = nearest(point, centers)
	}
	return labels
}

// Inertia is the within-cluster sum of squared distances.
func Inertia(data [][]float64, centers [][]float64, labels []int) float64 {
	sum := 0.0
	for i, point := range data {
		sum += squaredDistance(point, centers[labels[i]])
	}
	return sum
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
