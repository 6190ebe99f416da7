package extract

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"docchat/internal/domain"
)

// PDF extracts the plain text of a PDF document, one segment per page.
type PDF struct{}

func NewPDF() *PDF { return &PDF{} }

func (*PDF) Supports(mediaType string) bool {
	return mediaType == "application/pdf"
}

func (*PDF) Extract(data []byte) (segments []domain.Segment, err error) {
	// The pdf library panics on some malformed files; treat that as a
	// normal extraction failure.
	defer func() {
		if r := recover(); r != nil {
			segments = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages without extractable text (scans, fonts we cannot
			// decode) are skipped rather than failing the document.
			continue
		}
		segments = append(segments, domain.Segment{Text: text, Page: i})
	}
	if len(segments) == 0 {
		return nil, errors.New("no extractable text in pdf")
	}
	return segments, nil
}
