package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for spans started by this service
const TracerName = "safe-backend"

// Span attribute names for the document pipeline
const (
	SpanAttrInvestmentID = "safe.investment_id"
	SpanAttrVariant      = "safe.variant"
	SpanAttrEnvelopeID   = "esign.envelope_id"
	SpanAttrEmailKind    = "email.kind"
	SpanAttrDocumentSize = "safe.document_size"
)

// SpanOption configures StartSpan
type SpanOption func(*spanOptions)

type spanOptions struct {
	kind  trace.SpanKind
	attrs []attribute.KeyValue
}

// WithAttribute adds an attribute at span start
func WithAttribute(key string, value any) SpanOption {
	return func(o *spanOptions) {
		o.attrs = append(o.attrs, toAttribute(key, value))
	}
}

// WithSpanKind sets the span kind; the default is internal
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(o *spanOptions) {
		o.kind = kind
	}
}

// StartSpan starts a span on the global tracer provider
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, trace.Span) {
	o := &spanOptions{kind: trace.SpanKindInternal}
	for _, opt := range opts {
		opt(o)
	}
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(o.kind),
		trace.WithAttributes(o.attrs...),
	)
}

// StartClientSpan starts a span for a call to an external provider
func StartClientSpan(ctx context.Context, provider, operation string, opts ...SpanOption) (context.Context, trace.Span) {
	opts = append([]SpanOption{WithSpanKind(trace.SpanKindClient), WithAttribute("peer.service", provider)}, opts...)
	return StartSpan(ctx, provider+"."+operation, opts...)
}

// SetAttributes sets attributes from alternating key/value pairs
func SetAttributes(span trace.Span, keyValues ...any) {
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		span.SetAttributes(toAttribute(key, keyValues[i+1]))
	}
}

// RecordError marks the span failed. A nil error is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err, if any, and ends the span
func End(span trace.Span, err error) {
	if err != nil {
		RecordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// GetTraceID returns the current trace id, or "" when there is no sampled span
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the current span id, or ""
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasSpanID() {
		return ""
	}
	return sc.SpanID().String()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
