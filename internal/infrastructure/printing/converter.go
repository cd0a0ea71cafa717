package printing

import (
	"context"
	"errors"

	"github.com/safedocs/backend/internal/infrastructure/document"
	"go.uber.org/zap"
)

// DocxConverter turns .docx bytes into a PDF
type DocxConverter struct {
	renderer PDFRenderer
	logger   *zap.Logger
}

// NewDocxConverter creates a converter printing through renderer
func NewDocxConverter(renderer PDFRenderer, logger *zap.Logger) *DocxConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocxConverter{renderer: renderer, logger: logger}
}

// Convert extracts the document body as HTML and prints it
func (c *DocxConverter) Convert(ctx context.Context, docx []byte, title string) (*RenderResult, error) {
	if len(docx) == 0 {
		return nil, NewRenderError(ErrCodeInvalidDocument, "document body is empty", nil)
	}

	htmlDoc, err := document.ExtractHTML(docx, title)
	if err != nil {
		var re *document.RenderError
		if errors.As(err, &re) {
			return nil, NewRenderError(ErrCodeInvalidDocument, "input is not a readable .docx document", err)
		}
		return nil, err
	}

	result, err := c.renderer.Render(ctx, &RenderRequest{
		HTML:       htmlDoc,
		Title:      title,
		PaperSize:  PaperSizeLetter,
		FooterHTML: PageNumberFooter(title),
	})
	if err != nil {
		c.logger.Warn("docx to PDF conversion failed", zap.Error(err))
		return nil, err
	}
	return result, nil
}
