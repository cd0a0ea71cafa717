package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/infrastructure/esign"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// PipelineMetrics counts document generation, summaries, signature envelopes and
// emails. It satisfies the application's Recorder port.
type PipelineMetrics struct {
	documentsTotal *Counter
	renderDuration *Histogram
	summariesTotal *Counter
	envelopesTotal *Counter
	emailsTotal    *Counter
}

// NewPipelineMetrics registers the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	pm := &PipelineMetrics{}
	var err error

	if pm.documentsTotal, err = NewCounter(meter,
		"safe_documents_generated_total",
		"SAFE documents generated, by variant and outcome",
		"{documents}",
	); err != nil {
		return nil, err
	}
	if pm.renderDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "safe_document_render_duration_seconds",
		Description: "Time to format and render one SAFE document",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if pm.summariesTotal, err = NewCounter(meter,
		"safe_summaries_total",
		"LLM summaries requested, by mode and outcome",
		"{summaries}",
	); err != nil {
		return nil, err
	}
	if pm.envelopesTotal, err = NewCounter(meter,
		"safe_signature_envelopes_total",
		"Signature workflows run, by outcome and failed step",
		"{envelopes}",
	); err != nil {
		return nil, err
	}
	if pm.emailsTotal, err = NewCounter(meter,
		"safe_emails_total",
		"Notification emails sent, by kind and outcome",
		"{emails}",
	); err != nil {
		return nil, err
	}
	return pm, nil
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return AttrOutcome.String(OutcomeError)
	}
	return AttrOutcome.String(OutcomeSuccess)
}

// DocumentGenerated records one generation attempt
func (pm *PipelineMetrics) DocumentGenerated(ctx context.Context, variant investment.Variant, elapsed time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrVariant.String(string(variant)), outcome(err)}
	pm.documentsTotal.Inc(ctx, attrs...)
	if err == nil {
		pm.renderDuration.RecordDuration(ctx, elapsed, attrs[0])
	}
}

// SummaryCompleted records one summary request
func (pm *PipelineMetrics) SummaryCompleted(ctx context.Context, mode string, err error) {
	pm.summariesTotal.Inc(ctx, AttrSummaryMode.String(mode), outcome(err))
}

// SignatureSent records one workflow run, tagging the step that failed
func (pm *PipelineMetrics) SignatureSent(ctx context.Context, err error) {
	attrs := []attribute.KeyValue{outcome(err)}
	if step, ok := esign.FailedStep(err); ok {
		attrs = append(attrs, AttrESignStep.String(string(step)))
	}
	pm.envelopesTotal.Inc(ctx, attrs...)
}

// EmailSent records one delivery attempt
func (pm *PipelineMetrics) EmailSent(ctx context.Context, kind string, err error) {
	pm.emailsTotal.Inc(ctx, AttrEmailKind.String(kind), outcome(err))
}
