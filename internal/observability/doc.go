// Package observability groups the logging and tracing infrastructure of the API.
//
// Subpackages:
//   - logging: structured slog logger carrying request and trace identifiers
//   - tracing: OpenTelemetry provider and the inbound trace header injector
//
// HTTP and upstream Prometheus metrics live next to the code that records them
// (internal/handler/http and internal/infra/upstream).
//
// Example usage:
//
//	import (
//	    "audition-api/internal/observability/logging"
//	    "audition-api/internal/observability/tracing"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    tp, _ := tracing.NewProvider(tracing.Config{ServiceName: "audition-api", SampleRatio: 1})
//	    defer tp.Shutdown(context.Background())
//
//	    handler := tracing.HeaderInjector(tp.Tracer(tracing.InstrumentationName),
//	        propagation.TraceContext{}, logger)(mux)
//	}
package observability
