package cluster

import "github.com/packagewjx/kmeanspp"

type kMeansPPRunner struct {
	round int
}

func (r *kMeansPPRunner) Run(data [][]float64, k int) (*Result, error) {
	if err := validate(data, k); err != nil {
		return nil, err
	}

	data32 := make([][]float32, len(data))
	for i, row := range data {
		row32 := make([]float32, len(row))
		for j, v := range row {
			row32[j] = float32(v)
		}
		data32[i] = row32
	}

	centers32, labels := kmeanspp.KMeansPP(k, r.round, data32)

	centers := make([][]float64, len(centers32))
	for i, row := range centers32 {
		center := make([]float64, len(row))
		for j, v := range row {
			center[j] = float64(v)
		}
		centers[i] = center
	}

	return &Result{
		Centers: centers,
		Labels:  labels,
		Inertia: Inertia(data, centers, labels),
	}, nil
}
