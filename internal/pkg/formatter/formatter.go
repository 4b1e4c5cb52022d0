package formatter

import (
	"fmt"

	"github.com/futig/assistant-backend/internal/entity"
)

// Section is one titled block of an exported document
type Section struct {
	Heading string
	Body    string
}

// Document is the format-neutral input of every Formatter
type Document struct {
	Title    string
	Sections []Section
}

type Formatter interface {
	Format(doc Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}
