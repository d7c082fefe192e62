package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalerFitTransform(t *testing.T) {
	s := &Scaler{}
	scaled, err := s.FitTransform([][]float64{{1}, {3}})
	assert.NoError(t, err)

	assert.Equal(t, []float64{2}, s.Mean)
	assert.Equal(t, []float64{1}, s.Scale)
	assert.Equal(t, [][]float64{{-1}, {1}}, scaled)
}

func TestScalerTransformReusesTrainingStats(t *testing.T) {
	s := &Scaler{}
	err := s.Fit([][]float64{{0}, {2}})
	assert.NoError(t, err)

	scaled, err := s.Transform([][]float64{{4}})
	assert.NoError(t, err)
	assert.Equal(t, [][]float64{{3}}, scaled)
}

func TestScalerZeroVariance(t *testing.T) {
	s := &Scaler{}
	scaled, err := s.FitTransform([][]float64{{5, 1}, {5, 3}})
	assert.NoError(t, err)

	assert.Equal(t, 1.0, s.Scale[0])
	assert.Equal(t, 0.0, scaled[0][0])
	assert.Equal(t, 0.0, scaled[1][0])
}

func TestScalerErrors(t *testing.T) {
	s := &Scaler{}
	assert.Error(t, s.Fit(nil))

	_, err := s.Transform([][]float64{{1}})
	assert.Error(t, err)

	assert.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = s.Transform([][]float64{{1}})
	assert.Error(t, err)
}
