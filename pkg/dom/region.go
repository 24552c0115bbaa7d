package dom

import (
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/ripple/pkg/metrics"
	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// region is the ordered content produced by one render: DOM nodes and the
// regions of nested dynamic children.
type region struct {
	items  []item
	stale  []*html.Node // previous content while an update is in flight
	anchor *html.Node
}

type item struct {
	node *html.Node
	sub  *region
}

// nodes appends the DOM nodes of r, in document order, to dst.
func (r *region) nodes(dst []*html.Node) []*html.Node {
	for _, it := range r.items {
		if it.sub != nil {
			dst = it.sub.nodes(dst)
		} else {
			dst = append(dst, it.node)
		}
	}
	dst = append(dst, r.stale...)
	if r.anchor != nil {
		dst = append(dst, r.anchor)
	}
	return dst
}

// content returns the nodes of r without its own anchor.
func (r *region) content() []*html.Node {
	var dst []*html.Node
	for _, it := range r.items {
		if it.sub != nil {
			dst = it.sub.nodes(dst)
		} else {
			dst = append(dst, it.node)
		}
	}
	return dst
}

func (r *region) addNode(n *html.Node) { r.items = append(r.items, item{node: n}) }

func (r *region) addRegion() *region {
	sub := &region{}
	r.items = append(r.items, item{sub: sub})
	return sub
}

// dynamic renders the value produced by read into sub, inside an effect.
// The first run inserts at (parent, before) and its error is returned.
// Later runs replace the region's content in place.
func (m *mount) dynamic(sub *region, parent, before *html.Node, name string, read func() (any, error)) error {
	var firstErr error
	first := true

	eff := reactive.NewEffect(func() reactive.Cleanup {
		v, err := read()
		if m.disposed {
			return nil
		}
		if first {
			first = false
			if err == nil {
				reactive.Untracked(func() {
					err = m.render(sub, parent, before, v)
				})
			}
			firstErr = err
			return nil
		}
		m.update(sub, name, v, err)
		return nil
	})

	if firstErr != nil || eff.Disposed() {
		return firstErr
	}
	if eff.SourceCount() > 0 {
		sub.anchor = &html.Node{Type: html.CommentNode}
		m.insert(parent, sub.anchor, before)
	}
	return nil
}

// update swaps the content of sub for v.
func (m *mount) update(sub *region, name string, v any, err error) {
	start := time.Now()
	sub.stale = sub.content()
	sub.items = nil

	if err == nil && sub.anchor != nil {
		reactive.Untracked(func() {
			err = m.render(sub, sub.anchor.Parent, sub.anchor, v)
		})
	}

	if err != nil {
		for _, n := range sub.content() {
			m.remove(n)
		}
		sub.items = nil
		m.config.Logger.Error("region update failed", "region", name, "error", err)
	}

	for _, n := range sub.stale {
		m.remove(n)
	}
	sub.stale = nil
	m.config.Metrics.ObserveRender(metrics.RendererDOM, start, err)
}

// readValue evaluates a dynamic child, turning a panic into an error.
func readValue(src any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &vdom.ComponentRenderError{Component: fmt.Sprintf("%T", src), Panic: r}
		}
	}()
	return reactive.Unwrap(src), nil
}
