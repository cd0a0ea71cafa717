package safe

import (
	"context"
	"time"

	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/document"
	"github.com/safedocs/backend/internal/infrastructure/email"
	"github.com/safedocs/backend/internal/infrastructure/esign"
	"github.com/safedocs/backend/internal/infrastructure/printing"
)

// Renderer merges formatted terms into the variant's template
type Renderer interface {
	RenderTerms(ctx context.Context, variant investment.Variant, terms investment.FormattedTerms) (*investment.RenderedDocument, error)
}

// TemplateCatalog lists the loaded templates
type TemplateCatalog interface {
	All() []document.Template
}

// PDFConverter prints a .docx document to PDF
type PDFConverter interface {
	Convert(ctx context.Context, docx []byte, title string) (*printing.RenderResult, error)
}

// SignatureClient runs the e-signature workflow
type SignatureClient interface {
	Run(ctx context.Context, req *esign.Request) (*esign.Result, error)
}

// Mailer delivers one email
type Mailer interface {
	Send(ctx context.Context, msg *email.Message) (*email.DeliveryReceipt, error)
}

// DocumentStorage keeps rendered documents in object storage
type DocumentStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Delete(ctx context.Context, key string) error
}

// Recorder receives pipeline outcomes for metrics
type Recorder interface {
	DocumentGenerated(ctx context.Context, variant investment.Variant, elapsed time.Duration, err error)
	SummaryCompleted(ctx context.Context, mode string, err error)
	SignatureSent(ctx context.Context, err error)
	EmailSent(ctx context.Context, kind string, err error)
}

// Summary and email kinds reported to the Recorder
const (
	SummaryModeSingle = "single"
	SummaryModeStream = "stream"

	EmailKindFounder      = "founder"
	EmailKindCounterparty = "counterparty"
)

type nopRecorder struct{}

func (nopRecorder) DocumentGenerated(context.Context, investment.Variant, time.Duration, error) {}
func (nopRecorder) SummaryCompleted(context.Context, string, error)                           {}
func (nopRecorder) SignatureSent(context.Context, error)                                      {}
func (nopRecorder) EmailSent(context.Context, string, error)                                  {}
