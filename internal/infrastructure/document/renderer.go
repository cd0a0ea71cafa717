package document

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/safedocs/backend/internal/domain/investment"
	"go.uber.org/zap"
)

const mainDocumentPart = "word/document.xml"

// Renderer produces SAFE documents from formatted terms
type Renderer interface {
	// RenderTerms selects the template for variant and fills it with terms
	RenderTerms(ctx context.Context, variant investment.Variant, terms investment.FormattedTerms) (*investment.RenderedDocument, error)
}

// TemplateSource resolves templates by variant
type TemplateSource interface {
	Get(variant investment.Variant) (*Template, error)
}

// DocxRenderer fills .docx templates
type DocxRenderer struct {
	templates TemplateSource
	logger    *zap.Logger
}

// DocxRendererOption configures a DocxRenderer
type DocxRendererOption func(*DocxRenderer)

// WithRendererLogger sets the logger
func WithRendererLogger(logger *zap.Logger) DocxRendererOption {
	return func(r *DocxRenderer) {
		r.logger = logger
	}
}

// NewDocxRenderer creates a renderer backed by templates
func NewDocxRenderer(templates TemplateSource, opts ...DocxRendererOption) *DocxRenderer {
	r := &DocxRenderer{
		templates: templates,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderTerms implements Renderer
func (r *DocxRenderer) RenderTerms(ctx context.Context, variant investment.Variant, terms investment.FormattedTerms) (*investment.RenderedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := r.templates.Get(variant)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := Render(tmpl.Content, terms)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Rendered SAFE document",
		zap.String("variant", string(variant)),
		zap.String("template_id", tmpl.ID),
		zap.Int("size", len(out)),
		zap.Duration("duration", time.Since(start)),
	)

	return investment.NewRenderedDocument(out, variant, terms.Get(investment.FieldCompanyName)), nil
}

// modifiedTime is stamped on every rewritten entry so output is reproducible
var modifiedTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Render fills every {placeholder} in the template parts with terms and returns a
// new container. The template bytes are never modified. Required fields are
// checked first; any container failure returns a PACKAGING_FAILED error and no
// bytes.
func Render(template []byte, terms investment.FormattedTerms) ([]byte, error) {
	if missing := terms.Missing(); len(missing) > 0 {
		return nil, &RenderError{
			Code:    ErrCodeMissingRequiredField,
			Message: "required document fields are missing",
			Fields:  missing,
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, NewRenderError(ErrCodePackagingFailed, "template is not a valid document container", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	foundMain := false

	for _, f := range zr.File {
		if !isTemplatePart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, NewRenderError(ErrCodePackagingFailed, "failed to copy "+f.Name, err)
			}
			continue
		}
		if f.Name == mainDocumentPart {
			foundMain = true
		}

		content, err := readEntry(f)
		if err != nil {
			return nil, NewRenderError(ErrCodePackagingFailed, "failed to read "+f.Name, err)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modifiedTime,
		})
		if err != nil {
			return nil, NewRenderError(ErrCodePackagingFailed, "failed to create "+f.Name, err)
		}
		if _, err := io.WriteString(w, substitute(string(content), terms)); err != nil {
			return nil, NewRenderError(ErrCodePackagingFailed, "failed to write "+f.Name, err)
		}
	}

	if !foundMain {
		return nil, NewRenderError(ErrCodePackagingFailed, "template has no "+mainDocumentPart, nil)
	}
	if err := zw.Close(); err != nil {
		return nil, NewRenderError(ErrCodePackagingFailed, "failed to finalize document", err)
	}

	out := buf.Bytes()
	if err := validateContainer(out); err != nil {
		return nil, NewRenderError(ErrCodePackagingFailed, "rendered document failed validation", err)
	}
	return out, nil
}

// isTemplatePart reports whether a container entry can hold placeholders
func isTemplatePart(name string) bool {
	if !strings.HasPrefix(name, "word/") || !strings.HasSuffix(name, ".xml") || strings.Contains(name, "/_rels/") {
		return false
	}
	base := strings.TrimSuffix(strings.TrimPrefix(name, "word/"), ".xml")
	switch {
	case base == "document", base == "footnotes", base == "endnotes":
		return true
	case strings.HasPrefix(base, "header"), strings.HasPrefix(base, "footer"):
		return true
	}
	return false
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Placeholders lists the distinct placeholder names in a template, in order of
// first appearance
func Placeholders(template []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, NewRenderError(ErrCodePackagingFailed, "template is not a valid document container", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, f := range zr.File {
		if !isTemplatePart(f.Name) {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, NewRenderError(ErrCodePackagingFailed, fmt.Sprintf("failed to read %s", f.Name), err)
		}
		for _, name := range placeholderNames(string(content)) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

var _ Renderer = (*DocxRenderer)(nil)
