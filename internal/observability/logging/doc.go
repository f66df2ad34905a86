// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON output with configurable log levels
//   - Request ID and trace identifier propagation
//   - Context-aware logging
//
// Example usage:
//
//	logger := logging.NewLogger()
//	logger.Info("application started", slog.String("version", "1.0"))
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithTrace(ctx, logging.WithRequestID(ctx, slog.Default()))
//	    logger.Info("processing request")
//	}
package logging
