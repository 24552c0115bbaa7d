package server

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ripple/pkg/coerce"
	"github.com/vango-dev/ripple/pkg/metrics"
	"github.com/vango-dev/ripple/pkg/render"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records renders, DOM writes and sessions into m, and serves
// m's registry on the metrics path when metrics are enabled.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for render and session spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithRenderer sets the string renderer used for /pages.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// WithCoercers sets the attribute coercers for live sessions and for the
// default string renderer.
func WithCoercers(reg *coerce.Registry) Option {
	return func(s *Server) {
		s.coercers = reg
	}
}

// WithPage registers a page under name.
func WithPage(name string, page Page) Option {
	return func(s *Server) {
		s.pages[name] = page
	}
}

// WithPages registers every page in pages.
func WithPages(pages map[string]Page) Option {
	return func(s *Server) {
		for name, page := range pages {
			s.pages[name] = page
		}
	}
}
