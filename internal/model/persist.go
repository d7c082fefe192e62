package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/edusegment/student-cohorts/internal/cluster"
	"github.com/edusegment/student-cohorts/pkg/core"
	"github.com/pkg/errors"
)

// artifactVersion tags the on-disk format so incompatible artifacts fail at
// load instead of mispredicting.
const artifactVersion = 1

// artifact is the persistence contract between SaveModel and LoadModel
// only; the format is opaque to every other component.
type artifact struct {
	Version      int         `json:"version"`
	Config       Config      `json:"config"`
	FeatureNames []string    `json:"feature_names"`
	ScalerMean   []float64   `json:"scaler_mean"`
	ScalerScale  []float64   `json:"scaler_scale"`
	Centers      [][]float64 `json:"centers"`
	SavedAt      string      `json:"saved_at"`
}

// SaveModel writes the fitted transform, centroids and configuration as a
// single self-contained file. Fails with ErrNotTrained before any fit.
func (f *Fitter) SaveModel(path string) error {
	if !f.Trained() {
		return ErrNotTrained
	}

	a := artifact{
		Version:      artifactVersion,
		Config:       f.config,
		FeatureNames: f.featureNames,
		ScalerMean:   f.scaler.Mean,
		ScalerScale:  f.scaler.Scale,
		Centers:      f.centers,
		SavedAt:      time.Now().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(&a, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding model artifact")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating model directory")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing model artifact")
	}

	f.logger.Printf("model saved to %s", path)
	return nil
}

// LoadModel reconstructs a fully usable Fitter from an artifact written by
// SaveModel. PredictGlobal on the result behaves identically to the saved
// instance.
func LoadModel(path string) (*Fitter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model artifact")
	}

	a := artifact{}
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.Wrap(err, "decoding model artifact")
	}

	if a.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported model artifact version %d, want %d", a.Version, artifactVersion)
	}
	if len(a.FeatureNames) != core.NumFeatures ||
		len(a.ScalerMean) != core.NumFeatures ||
		len(a.ScalerScale) != core.NumFeatures {
		return nil, fmt.Errorf("model artifact does not describe %d features", core.NumFeatures)
	}
	if len(a.Centers) == 0 {
		return nil, errors.New("model artifact has no centroids")
	}

	f := NewFitter(a.Config)
	f.scaler = &cluster.Scaler{Mean: a.ScalerMean, Scale: a.ScalerScale}
	f.centers = a.Centers
	f.featureNames = a.FeatureNames

	return f, nil
}
