package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"

	"github.com/vango-dev/ripple/pkg/dom"
	"github.com/vango-dev/ripple/pkg/protocol"
	"github.com/vango-dev/ripple/pkg/reactive"
)

// session is one live mount streamed to one WebSocket client.
type session struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	srv    *Server

	ctx    context.Context
	cancel context.CancelFunc

	// mu serializes updates. pending collects the patches of the update in
	// progress; the observer appends to it while mu is held.
	mu        sync.Mutex
	container *html.Node
	pending   []protocol.Patch
	owner     *reactive.Owner
	dispose   dom.Disposer
	closed    bool

	out chan []byte

	// workerMu guards stopping and additions to workers.
	workerMu sync.Mutex
	stopping bool
	workers  sync.WaitGroup
}

func newSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// handleLive upgrades to a WebSocket and runs a live session until the
// client disconnects or the server shuts down.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	page, ok := s.pages[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	sess := &session{
		id:        newSessionID(),
		conn:      conn,
		srv:       s,
		ctx:       ctx,
		cancel:    cancel,
		container: dom.NewContainer("div"),
		owner:     reactive.NewOwner(nil),
		out:       make(chan []byte, s.config.Server.LiveWriteBuffer),
	}
	sess.logger = s.logger.With("session", sess.id, "page", name)

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.wg.Done()
	}()

	s.metrics.SessionOpened()
	defer s.metrics.SessionClosed()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		sess.writeLoop()
	}()

	if err := sess.mount(name, page); err != nil {
		sess.logger.Error("mount failed", "error", err)
		payload := protocol.EncodeErrorMessage(protocol.NewFatalError(protocol.ErrRenderFailed, err.Error()))
		sess.enqueue(protocol.NewFrame(protocol.FrameError, payload).Encode())
		cancel()
	} else {
		sess.logger.Info("session started")
		go sess.readLoop()
		<-ctx.Done()
	}

	sess.close()
	close(sess.out)
	<-writerDone

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	conn.Close()
	sess.logger.Info("session closed")
}

// mount renders the page into the container and queues the initial
// snapshot.
func (sess *session) mount(name string, page Page) error {
	_, span := sess.srv.tracer.Start(sess.ctx, "ripple.live.mount",
		trace.WithAttributes(
			attribute.String("ripple.page", name),
			attribute.String("ripple.session", sess.id),
		))
	defer span.End()

	renderer := dom.New(dom.Config{
		Coercers: sess.srv.coercers,
		Logger:   sess.logger,
		Metrics:  sess.srv.metrics,
		Observer: dom.ObserverFunc(sess.observe),
	})

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var err error
	sess.owner.Run(func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("page %s panicked: %v\n%s", name, r, debug.Stack())
			}
		}()
		body := pageData(name, page(&Scope{ctx: sess.ctx, live: sess})).Body
		sess.dispose, err = renderer.Mount(body, sess.container)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")

	snapshot := dom.InnerHTML(sess.container)
	sess.enqueue(protocol.NewFrame(protocol.FrameHTML, []byte(snapshot)).Encode())
	return nil
}

// observe turns a DOM write into a patch. It runs inside an update, with
// mu held.
func (sess *session) observe(m dom.Mutation) {
	p, ok := patchFor(sess.container, m)
	if !ok {
		return
	}
	sess.pending = append(sess.pending, p)
}

// update runs fn and sends the resulting patches. It must not be called
// from the page function or from inside another update of the same session.
func (sess *session) update(fn func()) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return
	}

	reactive.Batch(fn)

	patches := sess.pending
	sess.pending = nil
	if len(patches) == 0 {
		return
	}
	// Enqueue before releasing mu so frames leave in update order.
	if sess.enqueue(protocol.NewFrame(protocol.FramePatches, protocol.EncodePatches(patches)).Encode()) {
		sess.srv.metrics.RecordPatches(len(patches))
	}
}

// enqueue queues a frame for the writer. It gives up when the session ends.
func (sess *session) enqueue(frame []byte) bool {
	select {
	case sess.out <- frame:
		return true
	case <-sess.ctx.Done():
		return false
	}
}

func (sess *session) goroutine(fn func(ctx context.Context)) {
	sess.workerMu.Lock()
	if sess.stopping {
		sess.workerMu.Unlock()
		return
	}
	sess.workers.Add(1)
	sess.workerMu.Unlock()

	go func() {
		defer sess.workers.Done()
		defer func() {
			if r := recover(); r != nil {
				sess.logger.Error("session goroutine panicked", "panic", r, "stack", string(debug.Stack()))
				sess.cancel()
			}
		}()
		fn(sess.ctx)
	}()
}

// close stops updates, waits for session goroutines and disposes the tree.
func (sess *session) close() {
	sess.workerMu.Lock()
	sess.stopping = true
	sess.workerMu.Unlock()

	sess.workers.Wait()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.closed = true
	if sess.dispose != nil {
		sess.dispose()
	}
	sess.owner.Dispose()
	sess.pending = nil
}

// writeLoop writes queued frames until out is closed. After a failed
// write it only drains.
func (sess *session) writeLoop() {
	failed := false
	for frame := range sess.out {
		if failed {
			continue
		}
		sess.conn.SetWriteDeadline(time.Now().Add(sess.srv.config.Server.WriteTimeout))
		if err := sess.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			sess.logger.Error("write error", "error", err)
			failed = true
			sess.cancel()
		}
	}
}

// readLoop discards client messages and ends the session when the
// connection closes.
func (sess *session) readLoop() {
	defer sess.cancel()
	sess.conn.SetReadLimit(4096)
	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			return
		}
	}
}
