package safe

import (
	"context"
	"iter"
	"time"

	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/printing"
	"github.com/safedocs/backend/internal/infrastructure/summarizer"
	"go.uber.org/zap"
)

// DocumentService formats, renders, summarizes and converts SAFE documents
type DocumentService struct {
	renderer   Renderer
	templates  TemplateCatalog
	summarizer summarizer.Summarizer
	converter  PDFConverter
	recorder   Recorder
	logger     *zap.Logger
}

// DocumentServiceOption configures a DocumentService
type DocumentServiceOption func(*DocumentService)

// WithRecorder reports pipeline outcomes to r
func WithRecorder(r Recorder) DocumentServiceOption {
	return func(s *DocumentService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewDocumentService creates a new DocumentService. A nil summarizer behaves as disabled.
func NewDocumentService(
	renderer Renderer,
	templates TemplateCatalog,
	sum summarizer.Summarizer,
	converter PDFConverter,
	logger *zap.Logger,
	opts ...DocumentServiceOption,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sum == nil {
		sum = summarizer.Disabled{}
	}
	s := &DocumentService{
		renderer:   renderer,
		templates:  templates,
		summarizer: sum,
		converter:  converter,
		recorder:   nopRecorder{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recorder returns the recorder shared with the other pipeline services
func (s *DocumentService) Recorder() Recorder {
	return s.recorder
}

// Generate formats terms and renders the variant's template. Format and render
// errors are returned unchanged.
func (s *DocumentService) Generate(ctx context.Context, terms investment.InvestmentTerms) (*investment.RenderedDocument, error) {
	start := time.Now()
	doc, err := s.generate(ctx, terms)
	s.recorder.DocumentGenerated(ctx, terms.Variant, time.Since(start), err)
	if err != nil {
		s.logger.Info("document generation failed",
			zap.String("variant", string(terms.Variant)),
			zap.Error(err))
		return nil, err
	}
	s.logger.Debug("document generated",
		zap.String("variant", string(terms.Variant)),
		zap.Int("size", doc.Size()))
	return doc, nil
}

func (s *DocumentService) generate(ctx context.Context, terms investment.InvestmentTerms) (*investment.RenderedDocument, error) {
	formatted, err := investment.Format(terms)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderTerms(ctx, terms.Variant, formatted)
}

// Summarize summarizes arbitrary document text. Errors are returned since the
// summary is the only product of the call.
func (s *DocumentService) Summarize(ctx context.Context, content string) (string, error) {
	out, err := s.summarizer.Summarize(ctx, summarizer.DocumentPrompt(content))
	s.recorder.SummaryCompleted(ctx, SummaryModeSingle, err)
	if err != nil {
		s.logger.Warn("document summary failed", zap.Error(err))
		return "", err
	}
	return out, nil
}

// StreamDealSummary streams a summary of the deal terms
func (s *DocumentService) StreamDealSummary(ctx context.Context, terms investment.InvestmentTerms) iter.Seq2[string, error] {
	inner := s.summarizer.Stream(ctx, summarizer.DealPrompt(terms))
	return func(yield func(string, error) bool) {
		var failed error
		defer func() {
			s.recorder.SummaryCompleted(ctx, SummaryModeStream, failed)
		}()
		for chunk, err := range inner {
			if err != nil {
				failed = err
				s.logger.Warn("streamed deal summary failed", zap.Error(err))
				yield("", err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// OptionalDealSummary summarizes the deal terms, returning "" on any failure.
// Summaries never block generation or delivery.
func (s *DocumentService) OptionalDealSummary(ctx context.Context, terms investment.InvestmentTerms) string {
	out, err := s.summarizer.Summarize(ctx, summarizer.DealPrompt(terms))
	s.recorder.SummaryCompleted(ctx, SummaryModeSingle, err)
	if err != nil {
		s.logger.Info("continuing without deal summary", zap.Error(err))
		return ""
	}
	return out
}

// ConvertToPDF prints a .docx document to PDF
func (s *DocumentService) ConvertToPDF(ctx context.Context, docx []byte, title string) (*printing.RenderResult, error) {
	if s.converter == nil {
		return nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF conversion is not configured")
	}
	if title == "" {
		title = "SAFE"
	}
	return s.converter.Convert(ctx, docx, title)
}

// Templates lists the loaded SAFE templates
func (s *DocumentService) Templates() []TemplateResponse {
	all := s.templates.All()
	out := make([]TemplateResponse, len(all))
	for i, t := range all {
		out[i] = TemplateResponse{
			ID:           t.ID,
			Variant:      string(t.Variant),
			Name:         t.Name,
			Description:  t.Description,
			Source:       t.Source,
			Size:         len(t.Content),
			Placeholders: t.Placeholders,
		}
	}
	return out
}
