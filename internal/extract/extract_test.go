package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func TestForMediaType(t *testing.T) {
	extractors := []domain.Extractor{NewPDF(), NewPlainText()}

	e, err := ForMediaType(extractors, "application/pdf")
	require.NoError(t, err)
	assert.IsType(t, &PDF{}, e)

	e, err = ForMediaType(extractors, "text/plain")
	require.NoError(t, err)
	assert.IsType(t, &PlainText{}, e)

	_, err = ForMediaType(extractors, "application/zip")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPlainTextSupports(t *testing.T) {
	e := NewPlainText()
	assert.True(t, e.Supports("text/plain"))
	assert.True(t, e.Supports("text/markdown"))
	assert.False(t, e.Supports("application/pdf"))
}

func TestPlainTextExtract(t *testing.T) {
	e := NewPlainText()
	segments, err := e.Extract([]byte("hello world"))
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "hello world", segments[0].Text)
	assert.Equal(t, 1, segments[0].Page)
}

func TestPlainTextRejectsBinary(t *testing.T) {
	e := NewPlainText()
	_, err := e.Extract([]byte{0xff, 0xfe, 0x00, 0x80})
	assert.Error(t, err)
}

func TestPDFRejectsGarbage(t *testing.T) {
	e := NewPDF()
	_, err := e.Extract([]byte("this is not a pdf at all"))
	assert.Error(t, err)
}
