package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	s := NewFrequency(2)
	text := "The engine requires regular engine oil changes. " +
		"Weather conditions rarely matter here. " +
		"Engine maintenance extends the engine lifetime."

	out := s.Summarize(text)

	// Two sentences survive, in document order.
	assert.Contains(t, out, "engine")
	parts := strings.Split(out, ". ")
	assert.LessOrEqual(t, len(parts), 2)
	first := strings.Index(text, out[:20])
	assert.GreaterOrEqual(t, first, 0)
}

func TestSummarizeShortTextPassthrough(t *testing.T) {
	s := NewFrequency(3)
	assert.Equal(t, "no punctuation here", s.Summarize("no punctuation here"))
	assert.Equal(t, "", s.Summarize("   "))
}

func TestSummarizeBoundsSentenceCount(t *testing.T) {
	s := NewFrequency(2)
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("Sentence number with some repeated maintenance words here. ")
	}
	out := s.Summarize(b.String())
	assert.Equal(t, 2, strings.Count(out, "."))
}
