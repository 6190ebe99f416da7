package embedding

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"
)

// HashingEmbedder maps text into a fixed-dimension vector by feature-hashing
// token counts. It is stateless, so queries and chunks land in the same
// space without a corpus-fitting phase, which makes it usable offline and
// in tests.
type HashingEmbedder struct {
	dimension    int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = 512
	}
	return &HashingEmbedder{
		dimension:    dimension,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

func (e *HashingEmbedder) Name() string { return "hashing" }

// Embed hashes each token into a bucket, using one hash bit as the sign to
// spread collisions, and L2-normalizes the result. Text with no usable
// tokens yields the zero vector.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimension)
	for _, tok := range e.tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		idx := int(sum>>1) % e.dimension
		if sum&1 == 1 {
			vec[idx]++
		} else {
			vec[idx]--
		}
	}
	l2normalize(vec)
	return vec, nil
}

func (e *HashingEmbedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
