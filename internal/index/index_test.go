package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func entry(seq int, text string, vec []float32) Entry {
	return Entry{
		Chunk:  domain.Chunk{DocumentID: "doc-1", Text: text, SequenceIndex: seq},
		Vector: vec,
	}
}

func TestBuildRejectsMismatchedDimensions(t *testing.T) {
	_, err := Build([]Entry{
		entry(0, "a", []float32{1, 0}),
		entry(1, "b", []float32{1, 0, 0}),
	})
	assert.Error(t, err)
}

func TestBuildRejectsEmptyVector(t *testing.T) {
	_, err := Build([]Entry{entry(0, "a", nil)})
	assert.Error(t, err)
}

func TestSearchOrdersByDescendingSimilarity(t *testing.T) {
	ix, err := Build([]Entry{
		entry(0, "orthogonal", []float32{0, 1}),
		entry(1, "close", []float32{0.9, 0.1}),
		entry(2, "exact", []float32{1, 0}),
	})
	require.NoError(t, err)

	results := ix.Search([]float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "exact", results[0].Chunk.Text)
	assert.Equal(t, "close", results[1].Chunk.Text)
	assert.Equal(t, "orthogonal", results[2].Chunk.Text)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-5)
	assert.InDelta(t, 0.0, float64(results[2].Score), 1e-5)
}

func TestSearchTiesBreakOnSequenceIndex(t *testing.T) {
	ix, err := Build([]Entry{
		entry(2, "third", []float32{1, 0}),
		entry(0, "first", []float32{1, 0}),
		entry(1, "second", []float32{1, 0}),
	})
	require.NoError(t, err)

	results := ix.Search([]float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Chunk.Text)
	assert.Equal(t, "second", results[1].Chunk.Text)
	assert.Equal(t, "third", results[2].Chunk.Text)
}

func TestSearchReturnsAllWhenFewerThanK(t *testing.T) {
	ix, err := Build([]Entry{
		entry(0, "a", []float32{1, 0}),
		entry(1, "b", []float32{0, 1}),
	})
	require.NoError(t, err)

	results := ix.Search([]float32{1, 0}, 10)
	assert.Len(t, results, 2)
}

func TestSearchTruncatesToK(t *testing.T) {
	ix, err := Build([]Entry{
		entry(0, "a", []float32{1, 0}),
		entry(1, "b", []float32{0.5, 0.5}),
		entry(2, "c", []float32{0, 1}),
	})
	require.NoError(t, err)

	results := ix.Search([]float32{1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.Text)
	assert.Equal(t, "b", results[1].Chunk.Text)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.Search([]float32{1, 0}, 5))
}
