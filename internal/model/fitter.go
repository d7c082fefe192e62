// Package model owns the fitted global partition: training, prediction,
// per-classroom partitioning and artifact persistence.
package model

import (
	"log"
	"os"
	"time"

	"github.com/edusegment/student-cohorts/internal/cluster"
	"github.com/edusegment/student-cohorts/internal/feature"
	"github.com/edusegment/student-cohorts/pkg/core"
	"github.com/pkg/errors"
)

const (
	DefaultNumClustersGlobal = 4
	DefaultNumClustersTurma  = 3

	// A classroom's effective cluster count is capped at one cluster per
	// turmaSizeDivisor students; below minTurmaClusters the classroom gets
	// no partition at all.
	turmaSizeDivisor = 5
	minTurmaClusters = 2
)

// ErrNotTrained signals a usage-order violation: predict, aggregate or save
// called before Train or LoadModel.
var ErrNotTrained = errors.New("model is not trained: call Train or LoadModel first")

// Config are the construction-time hyperparameters, kept separate from the
// fitted state. Zero values mean defaults.
type Config struct {
	NumClustersGlobal int                   `json:"n_clusters_global"`
	NumClustersTurma  int                   `json:"n_clusters_turma"`
	Seed              int64                 `json:"seed"`
	Algorithm         cluster.AlgorithmType `json:"algorithm"`
}

func DefaultConfig() Config {
	return Config{
		NumClustersGlobal: DefaultNumClustersGlobal,
		NumClustersTurma:  DefaultNumClustersTurma,
		Seed:              cluster.DefaultSeed,
		Algorithm:         cluster.KMeans,
	}
}

func (c Config) complete() Config {
	if c.NumClustersGlobal == 0 {
		c.NumClustersGlobal = DefaultNumClustersGlobal
	}
	if c.NumClustersTurma == 0 {
		c.NumClustersTurma = DefaultNumClustersTurma
	}
	if c.Seed == 0 {
		c.Seed = cluster.DefaultSeed
	}
	if c.Algorithm == "" {
		c.Algorithm = cluster.KMeans
	}
	return c
}

// TrainMetrics summarize a completed fit.
type TrainMetrics struct {
	NumClusters int      `json:"n_clusters"`
	Inertia     float64  `json:"inertia"`
	NumSamples  int      `json:"n_samples"`
	Features    []string `json:"features"`
	TrainedAt   string   `json:"trained_at"`
}

// Fitter fits and applies the global partition. Not safe for concurrent
// use; callers needing parallel scoring should load independent instances.
type Fitter struct {
	config       Config
	scaler       *cluster.Scaler
	centers      [][]float64
	featureNames []string
	logger       *log.Logger
}

func NewFitter(config Config) *Fitter {
	return &Fitter{
		config: config.complete(),
		logger: log.New(os.Stdout, "model: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}
}

func (f *Fitter) Config() Config {
	return f.config
}

// Trained reports whether a fitted partition is available.
func (f *Fitter) Trained() bool {
	return f.scaler != nil && len(f.centers) > 0
}

// Train fits the scaling transform and the global partition over the whole
// batch. Any previous fit is discarded.
func (f *Fitter) Train(records []core.StudentRecord) (*TrainMetrics, error) {
	data := feature.Matrix(records)

	scaler := &cluster.Scaler{}
	scaled, err := scaler.FitTransform(data)
	if err != nil {
		return nil, errors.Wrap(err, "fitting scaler")
	}

	alg := cluster.Get(f.config.Algorithm, &cluster.Options{Seed: f.config.Seed})
	if alg == nil {
		return nil, errors.Errorf("unknown clustering algorithm %q", f.config.Algorithm)
	}
	result, err := alg.Run(scaled, f.config.NumClustersGlobal)
	if err != nil {
		return nil, errors.Wrap(err, "fitting global partition")
	}

	f.scaler = scaler
	f.centers = result.Centers
	f.featureNames = append([]string(nil), core.FeatureNames...)

	f.logger.Printf("trained on %d students, %d clusters, inertia %.4f",
		len(records), f.config.NumClustersGlobal, result.Inertia)

	return &TrainMetrics{
		NumClusters: f.config.NumClustersGlobal,
		Inertia:     result.Inertia,
		NumSamples:  len(records),
		Features:    append([]string(nil), f.featureNames...),
		TrainedAt:   time.Now().Format(time.RFC3339),
	}, nil
}

// PredictGlobal assigns each record a global cluster index in
// [0, NumClustersGlobal) using the stored transform and centroids.
func (f *Fitter) PredictGlobal(records []core.StudentRecord) ([]int, error) {
	if !f.Trained() {
		return nil, ErrNotTrained
	}

	scaled, err := f.scaler.Transform(feature.Matrix(records))
	if err != nil {
		return nil, errors.Wrap(err, "scaling features")
	}

	return cluster.Assign(scaled, f.centers), nil
}

// TurmaPartition is an independently fitted per-classroom partition with
// its own local scaling transform.
type TurmaPartition struct {
	Turma       string
	NumClusters int
	Scaler      *cluster.Scaler
	Centers     [][]float64
}

// Predict assigns each record a cluster index in the classroom partition.
// Callers are expected to pass the same classroom's records the partition
// was fitted on.
func (p *TurmaPartition) Predict(records []core.StudentRecord) ([]int, error) {
	scaled, err := p.Scaler.Transform(feature.Matrix(records))
	if err != nil {
		return nil, errors.Wrap(err, "scaling features")
	}
	return cluster.Assign(scaled, p.Centers), nil
}

// TrainTurmaClusters fits a fresh partition restricted to one classroom.
// Classrooms with fewer than 2 students, or whose size-capped cluster count
// min(NumClustersTurma, n/5) falls below 2, yield a nil partition and no
// error. The global transform is never reused.
func (f *Fitter) TrainTurmaClusters(records []core.StudentRecord, turma string) (*TurmaPartition, error) {
	subset := filterTurma(records, turma)
	if len(subset) < 2 {
		return nil, nil
	}

	numClusters := f.config.NumClustersTurma
	if limit := len(subset) / turmaSizeDivisor; limit < numClusters {
		numClusters = limit
	}
	if numClusters < minTurmaClusters {
		return nil, nil
	}

	scaler := &cluster.Scaler{}
	scaled, err := scaler.FitTransform(feature.Matrix(subset))
	if err != nil {
		return nil, errors.Wrapf(err, "fitting scaler for turma %s", turma)
	}

	alg := cluster.Get(f.config.Algorithm, &cluster.Options{Seed: f.config.Seed})
	if alg == nil {
		return nil, errors.Errorf("unknown clustering algorithm %q", f.config.Algorithm)
	}
	result, err := alg.Run(scaled, numClusters)
	if err != nil {
		return nil, errors.Wrapf(err, "fitting partition for turma %s", turma)
	}

	return &TurmaPartition{
		Turma:       turma,
		NumClusters: numClusters,
		Scaler:      scaler,
		Centers:     result.Centers,
	}, nil
}

func filterTurma(records []core.StudentRecord, turma string) []core.StudentRecord {
	out := make([]core.StudentRecord, 0, len(records))
	for _, r := range records {
		if r.Turma == turma {
			out = append(out, r)
		}
	}
	return out
}
