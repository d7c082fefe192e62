package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveBeforeTrain(t *testing.T) {
	f := NewFitter(DefaultConfig())
	err := f.SaveModel(filepath.Join(t.TempDir(), "model.json"))
	assert.Equal(t, ErrNotTrained, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	batch := testBatch()
	path := filepath.Join(t.TempDir(), "models", "student_clustering_model.json")

	f := NewFitter(DefaultConfig())
	_, err := f.Train(batch)
	require.NoError(t, err)

	want, err := f.PredictGlobal(batch)
	require.NoError(t, err)

	require.NoError(t, f.SaveModel(path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.True(t, loaded.Trained())
	assert.Equal(t, f.Config(), loaded.Config())

	got, err := loaded.PredictGlobal(batch)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	_, err := LoadModel(path)
	assert.Error(t, err)
}

func TestLoadVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o644))

	_, err := LoadModel(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}
