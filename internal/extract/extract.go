package extract

import (
	"errors"
	"strings"
	"unicode/utf8"

	"docchat/internal/domain"
)

// ErrUnsupported is returned when no extractor accepts the declared media type.
var ErrUnsupported = errors.New("unsupported media type")

// ForMediaType picks the first extractor supporting the declared media type.
func ForMediaType(extractors []domain.Extractor, mediaType string) (domain.Extractor, error) {
	for _, e := range extractors {
		if e.Supports(mediaType) {
			return e, nil
		}
	}
	return nil, ErrUnsupported
}

// PlainText extracts UTF-8 text documents as a single segment.
type PlainText struct{}

func NewPlainText() *PlainText { return &PlainText{} }

func (*PlainText) Supports(mediaType string) bool {
	return mediaType == "text/plain" || strings.HasPrefix(mediaType, "text/")
}

func (*PlainText) Extract(data []byte) ([]domain.Segment, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("document is not valid UTF-8 text")
	}
	return []domain.Segment{{Text: string(data), Page: 1}}, nil
}
