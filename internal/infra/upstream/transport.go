package upstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"audition-api/internal/resilience/circuitbreaker"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Middleware decorates an http.RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base with the given middleware. The first middleware is the outermost,
// so Chain(base, a, b) sends a request through a, then b, then base.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// LoggingTransport logs every upstream exchange: method, URI, request body and the
// raw response body.
//
// The response body is read once into a buffer owned by this call and replaced with a
// reader over the same bytes, so the decoder downstream sees exactly what was logged.
// When the logger has Info disabled the exchange passes through untouched.
// At most maxBody+1 bytes are buffered; the client rejects anything larger.
func LoggingTransport(logger *slog.Logger, maxBody int64) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if !logger.Enabled(ctx, slog.LevelInfo) {
				return next.RoundTrip(req)
			}

			reqBody := requestBody(req)

			resp, err := next.RoundTrip(req)
			if err != nil {
				logger.WarnContext(ctx, "upstream request failed",
					slog.String("method", req.Method),
					slog.String("uri", req.URL.String()),
					slog.Any("error", err))
				return nil, err
			}

			buf, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read upstream response body: %w", err)
			}
			resp.Body = io.NopCloser(bytes.NewReader(buf))

			logger.InfoContext(ctx, "upstream exchange",
				slog.String("method", req.Method),
				slog.String("uri", req.URL.String()),
				slog.String("request_body", reqBody),
				slog.Int("status", resp.StatusCode),
				slog.String("response_body", string(buf)))

			return resp, nil
		})
	}
}

// requestBody returns a copy of the outbound body without consuming req.Body.
func requestBody(req *http.Request) string {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody == nil {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	if err != nil {
		return ""
	}
	return string(b)
}

// TracingTransport starts a client span for every upstream call and injects the
// span context into the outbound request headers.
func TracingTransport(tracer trace.Tracer, propagator propagation.TextMapPropagator) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx, span := tracer.Start(req.Context(), req.Method+" "+req.URL.Path,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.url", req.URL.String()),
				),
			)
			defer span.End()

			// RoundTrippers must not modify the caller's request.
			req = req.Clone(ctx)
			propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

			resp, err := next.RoundTrip(req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}

			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
			if resp.StatusCode >= 500 {
				span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
			}
			return resp, nil
		})
	}
}

// errServerStatus marks a 5xx response as a failure for the circuit breaker while
// the response itself is still returned to the caller.
var errServerStatus = errors.New("upstream server error")

// BreakerTransport routes calls through cb. Transport errors and 5xx responses count
// as failures; 4xx responses are the caller's problem and count as successes.
// While the circuit is open the call fails without reaching the upstream API.
func BreakerTransport(cb *circuitbreaker.CircuitBreaker) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			result, err := cb.Execute(func() (interface{}, error) {
				resp, err := next.RoundTrip(req)
				if err != nil {
					return nil, err
				}
				if resp.StatusCode >= 500 {
					return resp, errServerStatus
				}
				return resp, nil
			})
			if errors.Is(err, errServerStatus) {
				return result.(*http.Response), nil
			}
			if err != nil {
				return nil, err
			}
			return result.(*http.Response), nil
		})
	}
}
