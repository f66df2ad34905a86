package tracing

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Response header names carrying the identifiers of the request span.
const (
	TraceIDHeader = "trace-id"
	SpanIDHeader  = "span-id"
)

const spanName = "custom-span"

// HeaderInjector returns middleware that starts a span for every inbound request,
// writes its identifiers to the trace-id and span-id response headers, and ends the
// span before handing the request on. The span context stays in the request context
// so outbound calls and logs can refer to it.
//
// The middleware never blocks a request. If the tracer panics the panic is logged and
// swallowed, and the request proceeds without trace headers.
func HeaderInjector(tracer trace.Tracer, propagator propagation.TextMapPropagator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			spanCtx, ok := startSpan(ctx, tracer, r, logger)
			if ok {
				w.Header().Set(TraceIDHeader, spanCtx.TraceID().String())
				w.Header().Set(SpanIDHeader, spanCtx.SpanID().String())
				r = r.WithContext(trace.ContextWithSpanContext(r.Context(), spanCtx))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// startSpan starts and ends the request span, returning its span context.
// ok is false when the tracer panicked or produced an invalid span context.
func startSpan(ctx context.Context, tracer trace.Tracer, r *http.Request, logger *slog.Logger) (sc trace.SpanContext, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("tracer failure, continuing without trace headers",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("panic", rec))
			sc, ok = trace.SpanContext{}, false
		}
	}()

	_, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
		),
	)
	defer span.End()

	sc = span.SpanContext()
	return sc, sc.IsValid()
}
