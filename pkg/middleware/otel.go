package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/routekit-go/routekit/pkg/route"
)

// Default tracer name for routekit navigations.
const defaultTracerName = "routekit"

// OTelConfig configures the OpenTelemetry navigation tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "routekit").
	TracerName string

	// Filter determines which navigations to trace. Return true to trace.
	// If nil, all navigations are traced.
	Filter func(path string) bool

	// AttributeExtractor extracts custom attributes per navigation.
	AttributeExtractor func(path string) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry navigation tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) { c.TracerName = name }
}

// WithFilter sets a filter function for navigations.
func WithFilter(filter func(path string) bool) OTelOption {
	return func(c *OTelConfig) { c.Filter = filter }
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(path string) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) { c.AttributeExtractor = extractor }
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{TracerName: defaultTracerName}
}

// Trace subscribes a tracing observer to the engine's navigation stream:
// one span per navigation, opened when the navigation starts and closed
// when its outcome resolves. A veto is recorded as the routekit.vetoed
// attribute; an error sets the span status.
//
// The tracer comes from the global OpenTelemetry tracer provider.
// Configure it in main() before routing:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
// The returned function unsubscribes from the engine.
func Trace(e *route.Engine, opts ...OTelOption) func() {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return e.OnRouteStart(func(ev route.StartEvent) {
		if config.Filter != nil && !config.Filter(ev.Path) {
			return
		}

		attrs := []attribute.KeyValue{
			attribute.String("routekit.path", ev.Path),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ev.Path)...)
		}

		_, span := config.tracer.Start(
			context.Background(),
			"routekit.route",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)

		go func() {
			<-ev.Outcome.Done()
			if err := ev.Outcome.Err(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetAttributes(attribute.Bool("routekit.vetoed", !ev.Outcome.Committed()))
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}()
	})
}
