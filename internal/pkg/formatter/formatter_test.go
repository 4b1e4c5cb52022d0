package formatter

import (
	"bytes"
	"testing"

	"github.com/futig/assistant-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transcript = Document{
	Title: "Session 2024-03-01 10:00",
	Sections: []Section{
		{Heading: "Utilisateur", Body: "Quels smartphones avez-vous ?"},
		{Heading: "Assistant", Body: "Nous proposons l'iPhone 15 à 999 €."},
	},
}

func TestFactory_Create(t *testing.T) {
	f := NewFactory()

	md, err := f.Create(entity.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, ".md", md.FileExtension())

	pdf, err := f.Create(entity.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType())

	_, err = f.Create(entity.ResultFormat("html"))
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter_Format(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(transcript)
	require.NoError(t, err)

	expected := "# Session 2024-03-01 10:00\n" +
		"\n## Utilisateur\n\nQuels smartphones avez-vous ?\n" +
		"\n## Assistant\n\nNous proposons l'iPhone 15 à 999 €.\n"
	assert.Equal(t, expected, string(out))
}

func TestPDFFormatter_Format(t *testing.T) {
	out, err := NewPDFFormatter().Format(transcript)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
