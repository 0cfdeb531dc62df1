// Package tracer wraps OpenTelemetry behind a minimal interface so domain
// packages can emit spans without depending on otel APIs directly.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute is a key/value pair attached to a span.
type Attribute struct {
	Key   string
	Value string
}

// Span is the subset of span behavior domain code needs.
type Span interface {
	End(err error)
}

// Tracer starts spans around units of work.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// OTelTracer adapts OpenTelemetry's tracer to the Tracer interface.
type OTelTracer struct {
	tracer trace.Tracer
}

// Option configures the OTelTracer.
type Option func(*OTelTracer)

// WithTracer injects a pre-configured OpenTelemetry tracer, useful for tests.
func WithTracer(t trace.Tracer) Option {
	return func(o *OTelTracer) {
		o.tracer = t
	}
}

// NewOTel creates a new OpenTelemetry-backed tracer. By default it uses the
// global tracer provider with "cookiegate" as the instrumentation name.
func NewOTel(opts ...Option) *OTelTracer {
	t := &OTelTracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer("cookiegate")
	}
	return t
}

// Start creates a new span with the given name and attributes.
func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(a.Key, a.Value))
	}
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(otelAttrs...))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

// End completes the span, recording any error.
func (s *otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

// Noop returns a tracer that records nothing. Used when tracing is disabled.
func Noop() Tracer {
	return noopTracer{}
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}
