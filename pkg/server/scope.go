package server

import (
	"context"

	"github.com/vango-dev/ripple/internal/tree"
	"github.com/vango-dev/ripple/pkg/reactive"
)

// Page builds the content of one page. It is called once per request or
// live session. It may return a render.PageData to set the document title
// and head; live sessions mount only its Body.
type Page func(sc *Scope) any

// Scope is what a Page sees of the request or session rendering it.
type Scope struct {
	ctx  context.Context
	live *session
}

// Context returns the request context, or for a live session a context
// canceled when the client disconnects.
func (sc *Scope) Context() context.Context {
	return sc.ctx
}

// Live reports whether the page is mounted in a live session.
func (sc *Scope) Live() bool {
	return sc.live != nil
}

// Update runs fn in a batch. In a live session updates are serialized and
// the DOM writes they cause are sent to the client when fn returns. Call it
// from a goroutine started with Go, never from the page function itself or
// from inside another Update.
func (sc *Scope) Update(fn func()) {
	if sc.live == nil {
		reactive.Batch(fn)
		return
	}
	sc.live.update(fn)
}

// Go runs fn on a new goroutine bound to the live session. The context
// passed to fn is canceled when the session ends, and the session waits
// for fn to return before disposing the tree. Outside a live session Go
// does nothing: a rendered document never changes.
func (sc *Scope) Go(fn func(ctx context.Context)) {
	if sc.live == nil {
		return
	}
	sc.live.goroutine(fn)
}

// PagesFromDir loads the YAML trees in dir as static pages named after
// their files.
func PagesFromDir(dir string) (map[string]Page, error) {
	trees, err := tree.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]Page, len(trees))
	for name, v := range trees {
		pages[name] = func(*Scope) any { return v }
	}
	return pages, nil
}
