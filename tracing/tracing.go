// Package tracing provides OpenTelemetry instrumentation for outgoing
// finance API calls. It is entirely optional: tracing is only active when a
// [Config] is wired into the transport, and a nil Config is a no-op.
package tracing

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the OpenTelemetry configuration used by the transport.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider

	// Propagators injects trace context into outgoing request headers.
	// When nil the global otel.GetTextMapPropagator() is used.
	Propagators propagation.TextMapPropagator
}

// tracer returns a configured [trace.Tracer].
func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer("github.com/finbook/finbook-go/tracing")
}

// propagators returns the configured propagator (or global default).
func (c *Config) propagators() propagation.TextMapPropagator {
	if c.Propagators != nil {
		return c.Propagators
	}
	return otel.GetTextMapPropagator()
}

// Start begins a client span for an outgoing call and returns the derived
// context plus a finish callback that records the outcome and ends the span.
// A nil Config returns ctx unchanged and a no-op finish.
func (c *Config) Start(ctx context.Context, method, path string) (context.Context, func(status int, err error)) {
	if c == nil {
		return ctx, func(int, error) {}
	}

	method = strings.ToUpper(method)
	ctx, span := c.tracer().Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	return ctx, func(status int, err error) {
		if status > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// Inject writes the trace context of ctx into the outgoing request headers so
// the API server can join the trace. A nil Config is a no-op.
func (c *Config) Inject(ctx context.Context, h http.Header) {
	if c == nil {
		return
	}
	c.propagators().Inject(ctx, propagation.HeaderCarrier(h))
}
