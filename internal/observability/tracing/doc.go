// Package tracing provides OpenTelemetry tracing integration.
//
// It builds the SDK tracer provider used by the service and the inbound
// HeaderInjector middleware, which starts a span per request and exposes its
// identifiers to clients through the trace-id and span-id response headers.
//
// Example usage:
//
//	tp, err := tracing.NewProvider(tracing.Config{ServiceName: "audition-api", SampleRatio: 1})
//	if err != nil { ... }
//	defer func() { _ = tp.Shutdown(ctx) }()
//
//	tracer := tp.Tracer(tracing.InstrumentationName)
//	handler := tracing.HeaderInjector(tracer, propagation.TraceContext{}, logger)(mux)
package tracing
