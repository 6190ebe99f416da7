package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func doc(text string) domain.Document {
	return domain.Document{ID: "doc-1", Segments: []domain.Segment{{Text: text, Page: 1}}}
}

func TestNewRecursiveChunkerValidation(t *testing.T) {
	_, err := NewRecursiveChunker(0, 0)
	assert.Error(t, err)

	_, err = NewRecursiveChunker(100, 100)
	assert.Error(t, err)

	_, err = NewRecursiveChunker(100, -1)
	assert.Error(t, err)

	_, err = NewRecursiveChunker(100, 20)
	assert.NoError(t, err)
}

func TestRawWindowExample(t *testing.T) {
	c, err := NewRecursiveChunker(1000, 200)
	require.NoError(t, err)

	text := strings.Repeat("a", 2400)
	chunks, err := c.Chunk(doc(text))
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, 0, chunks[0].SourceOffset)
	assert.Equal(t, 1000, len(chunks[0].Text))
	assert.Equal(t, 800, chunks[1].SourceOffset)
	assert.Equal(t, 1000, len(chunks[1].Text))
	assert.Equal(t, 1600, chunks[2].SourceOffset)
	assert.Equal(t, 800, len(chunks[2].Text))

	for i, ch := range chunks {
		assert.Equal(t, i, ch.SequenceIndex)
		assert.Equal(t, "doc-1", ch.DocumentID)
	}
}

func TestShortDocumentSingleChunk(t *testing.T) {
	c, err := NewRecursiveChunker(1000, 200)
	require.NoError(t, err)

	chunks, err := c.Chunk(doc("just a short note"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a short note", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].SourceOffset)
}

func TestEmptyDocumentYieldsNoChunks(t *testing.T) {
	c, err := NewRecursiveChunker(1000, 200)
	require.NoError(t, err)

	chunks, err := c.Chunk(doc(""))
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Chunk(doc("   \n\t  "))
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = c.Chunk(domain.Document{ID: "doc-1"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestCoverageHasNoGaps(t *testing.T) {
	c, err := NewRecursiveChunker(120, 30)
	require.NoError(t, err)

	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	chunks, err := c.Chunk(doc(text))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, 0, chunks[0].SourceOffset)
	for i, ch := range chunks {
		assert.NotEmpty(t, ch.Text)
		assert.LessOrEqual(t, len(ch.Text), 120)
		assert.Equal(t, text[ch.SourceOffset:ch.SourceOffset+len(ch.Text)], ch.Text)
		if i > 0 {
			prev := chunks[i-1]
			assert.Equal(t, prev.SourceOffset+len(prev.Text)-30, ch.SourceOffset,
				"chunk %d must start exactly overlap chars before the previous end", i)
		}
	}
	last := chunks[len(chunks)-1]
	assert.Equal(t, len(text), last.SourceOffset+len(last.Text))
}

func TestParagraphBoundaryPreferred(t *testing.T) {
	c, err := NewRecursiveChunker(100, 10)
	require.NoError(t, err)

	para := strings.Repeat("x", 60) + "\n\n"
	text := para + strings.Repeat("y", 200)
	chunks, err := c.Chunk(doc(text))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// The first cut lands right after the paragraph break, not at the limit.
	assert.Equal(t, para, chunks[0].Text)
}

func TestSentenceBoundaryPreferredOverWords(t *testing.T) {
	c, err := NewRecursiveChunker(100, 10)
	require.NoError(t, err)

	first := "This is the opening sentence of the document. "
	text := first + strings.Repeat("word ", 60)
	chunks, err := c.Chunk(doc(text))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	assert.Equal(t, first, chunks[0].Text)
}

func TestSegmentsAreConcatenatedInOrder(t *testing.T) {
	c, err := NewRecursiveChunker(1000, 100)
	require.NoError(t, err)

	chunks, err := c.Chunk(domain.Document{
		ID: "doc-1",
		Segments: []domain.Segment{
			{Text: "page one", Page: 1},
			{Text: "page two", Page: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "page one\npage two", chunks[0].Text)
}
