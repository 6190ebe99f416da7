package index

import (
	"errors"
	"math"
	"sort"

	"docchat/internal/domain"
)

// Entry binds one chunk to its embedding vector.
type Entry struct {
	Chunk  domain.Chunk
	Vector []float32
}

// VectorIndex is an immutable in-memory similarity index over one document's
// chunks. It is built atomically from the full entry set; replacing a
// document means building a new index, never mutating this one.
type VectorIndex struct {
	entries   []Entry
	dimension int
}

// Build validates the entry set and constructs an index. All vectors must
// share one dimension.
func Build(entries []Entry) (*VectorIndex, error) {
	ix := &VectorIndex{entries: entries}
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return nil, errors.New("index entry with empty vector")
		}
		if ix.dimension == 0 {
			ix.dimension = len(e.Vector)
		} else if len(e.Vector) != ix.dimension {
			return nil, errors.New("vector dimension mismatch")
		}
	}
	return ix, nil
}

// Len returns the number of indexed chunks.
func (ix *VectorIndex) Len() int { return len(ix.entries) }

// Search returns up to topK chunks in descending cosine similarity order.
// Ties are broken by ascending sequence index. Fewer than topK entries means
// all of them are returned; an empty index returns an empty result.
func (ix *VectorIndex) Search(query []float32, topK int) []domain.SearchResult {
	if topK <= 0 || len(ix.entries) == 0 {
		return nil
	}
	results := make([]domain.SearchResult, len(ix.entries))
	for i, e := range ix.entries {
		results[i] = domain.SearchResult{
			Chunk: e.Chunk,
			Score: cosineSimilarity(query, e.Vector),
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.SequenceIndex < results[j].Chunk.SequenceIndex
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
