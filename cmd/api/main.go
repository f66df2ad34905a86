package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"audition-api/internal/config"
	"audition-api/internal/infra/upstream"
	"audition-api/internal/observability/logging"
	"audition-api/internal/observability/tracing"
	"audition-api/internal/resilience/circuitbreaker"
	"audition-api/internal/usecase/audition"
	envconfig "audition-api/pkg/config"

	hhttp "audition-api/internal/handler/http"
	hcomment "audition-api/internal/handler/http/comment"
	hpost "audition-api/internal/handler/http/post"
	"audition-api/internal/handler/http/requestid"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load(envconfig.GetEnvString("CONFIG_FILE", ""))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger = reconfigureLogger(logger, cfg.Log.Level)

	tp, err := initTracing(cfg)
	if err != nil {
		logger.Error("failed to initialize tracing", slog.Any("error", err))
		os.Exit(1)
	}

	components, err := setupServer(logger, cfg, tp)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := runServer(logger, cfg, components.Handler); err != nil {
		logger.Error("server failed", slog.Any("error", err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracer provider shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

// initLogger creates the bootstrap logger from LOG_LEVEL and installs it as default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// reconfigureLogger applies the level from the loaded configuration, which may
// come from the YAML file rather than the environment.
func reconfigureLogger(current *slog.Logger, level string) *slog.Logger {
	if envconfig.GetEnvString("LOG_LEVEL", "") != "" {
		return current
	}
	logger := logging.New(os.Stdout, logging.ParseLevel(level))
	slog.SetDefault(logger)
	return logger
}

// initTracing builds the tracer provider and installs it, with the W3C trace
// context propagator, as the otel globals.
func initTracing(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	tp, err := tracing.NewProvider(tracing.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.Version,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// ServerComponents holds what the server needs to run.
type ServerComponents struct {
	Handler http.Handler
	Breaker *circuitbreaker.CircuitBreaker
}

// setupServer builds the upstream client, use cases, routes and middleware chain.
func setupServer(logger *slog.Logger, cfg *config.Config, tp *sdktrace.TracerProvider) (*ServerComponents, error) {
	tracer := tp.Tracer(tracing.InstrumentationName)
	propagator := otel.GetTextMapPropagator()

	// Outbound chain: tracing is outermost so the logged exchange carries traceparent.
	middlewares := []upstream.Middleware{
		upstream.TracingTransport(tracer, propagator),
		upstream.LoggingTransport(logger, cfg.Upstream.MaxBodySize),
	}
	var breaker *circuitbreaker.CircuitBreaker
	if cfg.Upstream.BreakerEnabled {
		cbCfg := circuitbreaker.UpstreamAPIConfig(cfg.Upstream.BaseURL)
		cbCfg.ConsecutiveFailures = uint32(cfg.Upstream.BreakerConsecutiveFailures) // #nosec G115 -- validated non-negative
		breaker = circuitbreaker.New(cbCfg)
		middlewares = append(middlewares, upstream.BreakerTransport(breaker))
		logger.Info("upstream circuit breaker enabled",
			slog.String("name", breaker.Name()),
			slog.String("upstream", breaker.Target()),
			slog.Uint64("consecutive_failures", uint64(cbCfg.ConsecutiveFailures)))
	}

	client, err := upstream.New(upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Timeout:        cfg.Upstream.Timeout,
		MaxBodySize:    cfg.Upstream.MaxBodySize,
		BreakerEnabled: cfg.Upstream.BreakerEnabled,
	},
		upstream.WithTransport(upstream.Chain(http.DefaultTransport, middlewares...)),
		upstream.WithMetrics(upstream.NewPrometheusMetrics()),
	)
	if err != nil {
		return nil, fmt.Errorf("create upstream client: %w", err)
	}

	svc := audition.Service{
		Posts:    upstream.NewPostClient(client),
		Comments: upstream.NewCommentClient(client),
	}

	mux := setupRoutes(cfg, svc, breaker)
	handler := applyMiddleware(logger, mux, tracer, propagator)

	return &ServerComponents{Handler: handler, Breaker: breaker}, nil
}

// setupRoutes registers the resource, health and metrics routes.
func setupRoutes(cfg *config.Config, svc audition.Service, breaker *circuitbreaker.CircuitBreaker) *http.ServeMux {
	mux := http.NewServeMux()

	health := &hhttp.HealthHandler{Version: cfg.Version, UpstreamURL: cfg.Upstream.BaseURL}
	if breaker != nil {
		health.Breaker = breaker
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hpost.Register(mux, svc)
	hcomment.Register(mux, svc)
	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Request ID → Trace headers → Logging → Recovery → Input validation → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler, tracer trace.Tracer, propagator propagation.TextMapPropagator) http.Handler {
	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.HeaderInjector(tracer, propagator, logger)(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer serves until SIGINT/SIGTERM, then drains in-flight requests within
// the configured shutdown timeout.
func runServer(logger *slog.Logger, cfg *config.Config, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", cfg.Version),
			slog.String("upstream", cfg.Upstream.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return eg.Wait()
}
