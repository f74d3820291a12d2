// Package observability provides structured logging and metrics for the
// association hub API.
//
// This package implements:
//   - zap logger construction from configuration
//   - request metadata propagation through the context
//   - Prometheus metrics for HTTP traffic and authorization decisions
package observability
