package iwl

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeMixture(t *testing.T) {
	q1 := NewIndependentSource([]float64{0.2, 0.7})
	q2 := NewIndependentSource([]float64{0.9, 0.1})
	p, err := Mix(0.7, q1, q2)
	require.NoError(t, err)

	result, err := Search(p, SearchParams{})
	require.NoError(t, err)
	q, r, err := result.Decompose(p)
	require.NoError(t, err)
	require.NotNil(t, q)
	require.NotNil(t, r)
	require.NoError(t, r.Validate())

	recomposed, err := Mix(result.Weight, q, r)
	require.NoError(t, err)
	assert.InDeltaSlice(t, p, recomposed, 1e-4)
}

func TestDecomposeIndependent(t *testing.T) {
	p := Distribution{0.25, 0.25, 0.25, 0.25}
	result, err := Search(p, SearchParams{})
	require.NoError(t, err)

	q, r, err := result.Decompose(p)
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.InDeltaSlice(t, p, q, 1e-12)

	_, _, err = result.Decompose(Distribution{0.5, 0.5})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestDecomposeWithoutMaximizer(t *testing.T) {
	p := Distribution{0.5, 0, 0, 0.5}
	result, err := Search(p, SearchParams{SkipDegenerate: true})
	require.NoError(t, err)

	q, r, err := result.Decompose(p)
	require.NoError(t, err)
	assert.Nil(t, q)
	assert.Equal(t, p, r)
}

func TestSaveLoadResult(t *testing.T) {
	q1 := NewIndependentSource([]float64{0.3, 0.6})
	q2 := NewIndependentSource([]float64{0.8, 0.2})
	p, err := Mix(0.55, q1, q2)
	require.NoError(t, err)
	result, err := Search(p, SearchParams{})
	require.NoError(t, err)

	fileName := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, result.Save(fileName))
	loaded, err := LoadResult(fileName)
	require.NoError(t, err)

	assert.Equal(t, result.Dimension, loaded.Dimension)
	assert.Equal(t, result.Configuration, loaded.Configuration)
	assert.InDelta(t, result.Weight, loaded.Weight, 1e-15)
	assert.InDeltaSlice(t, result.Params, loaded.Params, 1e-15)
	assert.Len(t, loaded.Candidates, len(result.Candidates))

	_, err = LoadResult(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
