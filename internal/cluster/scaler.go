package cluster

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes each feature to zero mean and unit variance. Fit once
// on a reference batch; Transform reuses the training statistics unchanged.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// Fit computes per-column mean and population standard deviation.
// Zero-variance columns scale by 1 so constant features pass through
// centered instead of producing NaN.
func (s *Scaler) Fit(data [][]float64) error {
	if len(data) == 0 {
		return errors.New("cannot fit scaler on empty data")
	}

	width := len(data[0])
	s.Mean = make([]float64, width)
	s.Scale = make([]float64, width)

	col := make([]float64, len(data))
	for j := 0; j < width; j++ {
		for i, row := range data {
			if len(row) != width {
				return fmt.Errorf("row %d has %d columns, want %d", i, len(row), width)
			}
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Scale[j] = stat.PopStdDev(col, nil)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}

	return nil
}

// Transform standardizes data with the fitted statistics, returning a new
// table.
func (s *Scaler) Transform(data [][]float64) ([][]float64, error) {
	if len(s.Mean) == 0 {
		return nil, errors.New("scaler is not fitted")
	}

	out := make([][]float64, len(data))
	for i, row := range data {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("row %d has %d columns, scaler was fitted on %d", i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and standardizes the same batch.
func (s *Scaler) FitTransform(data [][]float64) ([][]float64, error) {
	if err := s.Fit(data); err != nil {
		return nil, err
	}
	return s.Transform(data)
}
