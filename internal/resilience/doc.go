// Package resilience holds fault tolerance helpers for calls to the upstream API.
//
// Only a circuit breaker is provided. Upstream calls are never retried: every
// inbound request maps to exactly one outbound GET.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.UpstreamAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return transport.RoundTrip(req)
//	})
package resilience
