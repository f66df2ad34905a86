package tracing

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InstrumentationName is the tracer name used for spans created by this service.
const InstrumentationName = "audition-api-instrumentation"

// Config holds tracer provider settings.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string

	// Version is reported as the service.version resource attribute.
	Version string

	// SampleRatio is the fraction of root traces that are sampled (0.0 to 1.0).
	// Unsampled spans still carry valid identifiers, so response headers are unaffected.
	SampleRatio float64
}

// NewProvider creates an SDK tracer provider. Extra options, such as span processors
// or exporters, are appended after the defaults.
// Callers own the provider and must Shutdown it.
func NewProvider(cfg Config, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	if cfg.ServiceName == "" {
		return nil, fmt.Errorf("tracing: service name is required")
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return nil, fmt.Errorf("tracing: sample ratio must be between 0 and 1, got %v", cfg.SampleRatio)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	base := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}
	return sdktrace.NewTracerProvider(append(base, opts...)...), nil
}
