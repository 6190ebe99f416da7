package domain

import "context"

// Segment is one structural unit of extracted document text (e.g. a page).
type Segment struct {
	Text string
	Page int
}

// Document represents a single uploaded document after text extraction.
type Document struct {
	ID       string
	Name     string
	Segments []Segment
}

// Chunk is a bounded contiguous span of a document's text used as the unit
// of retrieval.
type Chunk struct {
	DocumentID    string
	Text          string
	SourceOffset  int
	SequenceIndex int
}

// QAPair is one answered question, appended to a session's history in
// arrival order.
type QAPair struct {
	Question string
	Answer   string
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Embedder converts free text into a numeric vector representation.
// For a fixed model the mapping is deterministic; chunks and queries must
// share one embedding space.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator maps a fully assembled prompt to an answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chunker splits an extracted document into chunks suitable for indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Extractor turns raw document bytes of a supported media type into ordered
// text segments.
type Extractor interface {
	Supports(mediaType string) bool
	Extract(data []byte) ([]Segment, error)
}
