// Package middleware provides the HTTP middleware the ripple server wraps
// its routes in.
//
// # Tracing
//
// Tracing starts a server span for each request. The span is named after
// the matched chi route pattern once the handler has returned, so
// /pages/home and /pages/about share the span name "GET /pages/{name}".
// Handlers reach the span through trace.SpanFromContext(r.Context()).
//
//	r.Use(middleware.Tracing(otel.Tracer("ripple")))
//
// # Metrics
//
// Metrics records the request count and duration per route pattern and
// status code:
//   - ripple_http_requests_total{route,code}
//   - ripple_http_request_duration_seconds{route}
//
// WebSocket upgrades are counted with code 101 when the handler hijacked the
// connection without writing a status.
package middleware
