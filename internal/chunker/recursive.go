package chunker

import (
	"errors"
	"regexp"
	"strings"

	"docchat/internal/domain"
)

// RecursiveChunker splits extracted document text into overlapping chunks.
// Each cut prefers the coarsest natural boundary available inside the target
// window: paragraph break, then sentence end, then word end, then a raw
// character cut. Every chunk after the first starts `overlap` characters
// before the end of the previous chunk.
type RecursiveChunker struct {
	targetSize int
	overlap    int
}

func NewRecursiveChunker(targetSize, overlap int) (*RecursiveChunker, error) {
	if targetSize <= 0 {
		return nil, errors.New("chunk target size must be positive")
	}
	if overlap < 0 || overlap >= targetSize {
		return nil, errors.New("chunk overlap must be non-negative and smaller than target size")
	}
	return &RecursiveChunker{targetSize: targetSize, overlap: overlap}, nil
}

// Chunk concatenates the document segments in order and emits the sliding
// chunk window over the combined text. A document with no visible text
// yields zero chunks.
func (c *RecursiveChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	text := joinSegments(document.Segments)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var chunks []domain.Chunk
	pos := 0
	for seq := 0; pos < len(text); seq++ {
		end := c.cut(text, pos)
		chunks = append(chunks, domain.Chunk{
			DocumentID:    document.ID,
			Text:          text[pos:end],
			SourceOffset:  pos,
			SequenceIndex: seq,
		})
		if end == len(text) {
			break
		}
		pos = end - c.overlap
	}
	return chunks, nil
}

func joinSegments(segments []domain.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// cut returns the end offset of the chunk starting at pos. A boundary is only
// usable if it lies beyond the overlap region, otherwise the next chunk would
// not advance; when no boundary qualifies the window is cut at the raw limit.
func (c *RecursiveChunker) cut(text string, pos int) int {
	limit := pos + c.targetSize
	if limit >= len(text) {
		return len(text)
	}
	window := text[pos:limit]
	min := c.overlap + 1
	if end := lastParagraphEnd(window); end >= min {
		return pos + end
	}
	if end := lastSentenceEnd(window); end >= min {
		return pos + end
	}
	if end := lastWordEnd(window); end >= min {
		return pos + end
	}
	return limit
}

var sentenceEndRe = regexp.MustCompile(`[.!?][ \t\n]`)

func lastParagraphEnd(window string) int {
	i := strings.LastIndex(window, "\n\n")
	if i < 0 {
		return -1
	}
	return i + 2
}

func lastSentenceEnd(window string) int {
	locs := sentenceEndRe.FindAllStringIndex(window, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][1]
}

func lastWordEnd(window string) int {
	i := strings.LastIndexByte(window, ' ')
	if i < 0 {
		return -1
	}
	return i + 1
}
