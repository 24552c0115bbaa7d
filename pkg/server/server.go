package server

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ripple/internal/config"
	"github.com/vango-dev/ripple/pkg/coerce"
	"github.com/vango-dev/ripple/pkg/metrics"
	ripplemw "github.com/vango-dev/ripple/pkg/middleware"
	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/render"
	"github.com/vango-dev/ripple/pkg/vdom"
)

//go:embed client.js
var clientJS []byte

// Server serves registered pages over HTTP and live WebSocket sessions.
type Server struct {
	config   config.Config
	pages    map[string]Page
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	renderer *render.Renderer
	coercers *coerce.Registry

	upgrader websocket.Upgrader
	router   chi.Router

	// Live sessions, for shutdown.
	mu       sync.Mutex
	sessions map[*session]struct{}
	wg       sync.WaitGroup

	httpServer *http.Server
}

// New creates a Server from configuration and options.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		config:   cfg,
		pages:    make(map[string]Page),
		sessions: make(map[*session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "server")
	if s.metrics == nil && cfg.Metrics.Enabled {
		s.metrics = metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace))
	}
	if s.tracer == nil {
		name := cfg.Tracing.TracerName
		if name == "" {
			name = "github.com/vango-dev/ripple"
		}
		s.tracer = otel.Tracer(name)
	}
	if s.coercers == nil {
		s.coercers = coerce.Default()
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(render.RendererConfig{
			Pretty:   cfg.Render.Pretty,
			Indent:   cfg.Render.Indent,
			Coercers: s.coercers,
			Logger:   s.logger,
			Metrics:  s.metrics,
		})
	}
	if s.config.Server.LiveWriteBuffer <= 0 {
		s.config.Server.LiveWriteBuffer = 16
	}
	if s.config.Server.WriteTimeout <= 0 {
		s.config.Server.WriteTimeout = 10 * time.Second
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		ripplemw.Tracing(s.tracer),
		ripplemw.Metrics(s.metrics),
	)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/client.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Write(clientJS)
	})
	r.Get("/pages/{name}", s.handlePage)
	r.Get("/view/{name}", s.handleView)
	r.Get("/live/{name}", s.handleLive)

	if s.config.Metrics.Enabled && s.metrics != nil {
		r.Handle(s.config.Metrics.Path, promhttp.HandlerFor(s.metrics.Gatherer(), promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler, for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Pages returns the registered page names in order.
func (s *Server) Pages() []string {
	names := make([]string, 0, len(s.pages))
	for name := range s.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics returns the server's metrics, or nil when disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	links := make([]any, 0, len(s.pages))
	for _, name := range s.Pages() {
		links = append(links, vdom.Li(
			vdom.A(vdom.Href("/pages/"+name), name),
			" ",
			vdom.A(vdom.Href("/view/"+name), "(live)"),
		))
	}
	s.writeDocument(w, r, render.PageData{
		Title: "Pages",
		Body:  vdom.Ul(links...),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	page, ok := s.pages[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx, span := s.tracer.Start(r.Context(), "ripple.render",
		trace.WithAttributes(attribute.String("ripple.page", name)))
	defer span.End()

	// Effects a page creates while building its tree belong to this render.
	owner := reactive.NewOwner(nil)
	defer owner.Dispose()

	var data render.PageData
	owner.Run(func() {
		data = pageData(name, page(&Scope{ctx: ctx}))
	})

	if err := s.writeDocument(w, r.WithContext(ctx), data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.pages[name]; !ok {
		http.NotFound(w, r)
		return
	}
	s.writeDocument(w, r, render.PageData{
		Title: name,
		Body: []any{
			vdom.Div(vdom.ID("ripple-root"), vdom.Data("page", name)),
			vdom.Script(vdom.Src("/client.js")),
		},
	})
}

// writeDocument renders data and writes it, or a 500 on failure.
func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, data render.PageData) error {
	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, data); err != nil {
		s.logger.Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

func pageData(name string, v any) render.PageData {
	if data, ok := v.(render.PageData); ok {
		if data.Title == "" {
			data.Title = name
		}
		return data
	}
	return render.PageData{Title: name, Body: v}
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: s.config.Server.ReadTimeout,
		ReadTimeout:       s.config.Server.ReadTimeout,
		// WriteTimeout is not set: it would cut live sessions. Live frames
		// carry their own write deadline.
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Server.Addr, "pages", len(s.pages))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown closes every live session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for sess := range s.sessions {
		sess.cancel()
	}
	s.mu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	if err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}
