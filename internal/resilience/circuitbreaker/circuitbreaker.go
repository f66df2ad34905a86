// Package circuitbreaker guards the upstream API with github.com/sony/gobreaker.
// A tripped breaker fails calls immediately instead of sending them upstream.
package circuitbreaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging
	Name string

	// Target is the upstream base URL the breaker guards. It is logged on
	// every state change.
	Target string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear success/failure counts
	Interval time.Duration

	// Timeout is how long to wait in open state before trying again
	Timeout time.Duration

	// FailureThreshold is the failure ratio threshold to trip the circuit.
	// 0.6 means 60% failure rate
	FailureThreshold float64

	// MinRequests is the minimum number of requests before calculating failure ratio
	MinRequests uint32

	// ConsecutiveFailures trips the circuit after this many failures in a row,
	// even below MinRequests. Zero disables the rule.
	ConsecutiveFailures uint32
}

// DefaultConfig returns a default configuration for circuit breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// UpstreamAPIConfig returns the configuration used for the posts/comments upstream API
// at target. The open period is short: the API is read-only and a failed probe costs one GET.
func UpstreamAPIConfig(target string) Config {
	return Config{
		Name:                "upstream-api",
		Target:              target,
		MaxRequests:         3,
		Interval:            30 * time.Second,
		Timeout:             15 * time.Second,
		FailureThreshold:    0.6,
		MinRequests:         10,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	cfg     Config
}

// New creates a circuit breaker for the upstream described by cfg.
func New(cfg Config) *CircuitBreaker {
	cb := &CircuitBreaker{cfg: cfg}
	cb.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cb.readyToTrip,
		OnStateChange: cb.logStateChange,
	})
	return cb
}

// readyToTrip opens the circuit when the upstream is hard down (a run of
// consecutive failures) or degraded (failure ratio over enough requests).
func (cb *CircuitBreaker) readyToTrip(counts gobreaker.Counts) bool {
	if cb.cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cb.cfg.ConsecutiveFailures {
		return true
	}
	if counts.Requests < cb.cfg.MinRequests {
		return false
	}
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return failureRatio >= cb.cfg.FailureThreshold
}

func (cb *CircuitBreaker) logStateChange(name string, from, to gobreaker.State) {
	level := slog.LevelInfo
	msg := "upstream circuit recovered"
	switch to {
	case gobreaker.StateOpen:
		level = slog.LevelWarn
		msg = "upstream circuit opened, calls fail fast"
	case gobreaker.StateHalfOpen:
		msg = "upstream circuit half-open, probing upstream"
	}
	slog.Log(context.Background(), level, msg,
		slog.String("circuit", name),
		slog.String("upstream", cb.cfg.Target),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
		slog.Duration("open_timeout", cb.cfg.Timeout))
}

// Execute runs fn through the circuit breaker.
// If the circuit is open, it returns gobreaker.ErrOpenState without calling fn.
// The result of fn is returned even when fn reports an error.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.cfg.Name
}

// Target returns the upstream base URL guarded by the breaker.
func (cb *CircuitBreaker) Target() string {
	return cb.cfg.Target
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
