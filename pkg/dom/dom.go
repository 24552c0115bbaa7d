package dom

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/ripple/pkg/coerce"
	"github.com/vango-dev/ripple/pkg/metrics"
	"github.com/vango-dev/ripple/pkg/reactive"
)

// Config configures a Renderer.
type Config struct {
	// Coercers converts attribute values. Default: coerce.Default().
	Coercers *coerce.Registry

	// Logger receives update failures and coercion errors.
	// Default: slog.Default().
	Logger *slog.Logger

	// Observer is notified of every DOM write made after Mount returns.
	Observer Observer

	// Metrics records renders and DOM writes. Optional.
	Metrics *metrics.Metrics
}

// Renderer mounts values into live DOM containers.
type Renderer struct {
	config Config
}

// New creates a Renderer.
func New(config Config) *Renderer {
	if config.Coercers == nil {
		config.Coercers = coerce.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Renderer{config: config}
}

var defaultRenderer = New(Config{})

// Mount mounts value into container using a default Renderer.
func Mount(value any, container *html.Node) (Disposer, error) {
	return defaultRenderer.Mount(value, container)
}

// Disposer unmounts a tree: it removes the nodes Mount appended and
// disposes every effect the tree created. It is idempotent and may be
// called from inside an update.
type Disposer func()

// Mount renders value and appends the resulting nodes to container.
//
// If building fails the nodes already inserted are removed, the partial
// reactive graph is disposed and the error is returned: a
// *vdom.ComponentRenderError or a *vdom.UnrenderableTypeError. Later
// failures inside a region empty that region and are logged; the rest of
// the tree keeps updating.
func (r *Renderer) Mount(value any, container *html.Node) (Disposer, error) {
	start := time.Now()
	m := &mount{
		config:    r.config,
		container: container,
		root:      reactive.NewOwner(reactive.CurrentOwner()),
		top:       &region{},
	}

	var err error
	m.root.Run(func() {
		reactive.Untracked(func() {
			err = m.render(m.top, container, nil, value)
		})
	})
	r.config.Metrics.ObserveRender(metrics.RendererDOM, start, err)

	if err != nil {
		for _, n := range m.top.nodes(nil) {
			m.remove(n)
		}
		m.top.items = nil
		m.root.Dispose()
		return nil, err
	}

	m.live = true
	var once sync.Once
	return func() {
		once.Do(m.dispose)
	}, nil
}

// mount is the state of one mounted tree.
type mount struct {
	config    Config
	container *html.Node
	root      *reactive.Owner
	top       *region

	live     bool
	disposed bool
}

func (m *mount) dispose() {
	for _, n := range m.top.nodes(nil) {
		m.remove(n)
	}
	m.top.items = nil
	m.disposed = true
	m.root.Dispose()
}

func (m *mount) insert(parent, n, before *html.Node) {
	if m.disposed {
		return
	}
	if before != nil && before.Parent != parent {
		before = nil
	}
	parent.InsertBefore(n, before)
	m.config.Metrics.RecordMutation(OpInsert.String())
	m.notify(Mutation{Op: OpInsert, Parent: parent, Node: n, Before: before})
}

func (m *mount) remove(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	m.config.Metrics.RecordMutation(OpRemove.String())
	m.notify(Mutation{Op: OpRemove, Parent: parent, Node: n})
	parent.RemoveChild(n)
}

func (m *mount) setAttr(el *html.Node, key, val string) {
	if cur, ok := GetAttr(el, key); ok && cur == val {
		return
	}
	setAttr(el, key, val)
	m.config.Metrics.RecordMutation(OpSetAttr.String())
	m.notify(Mutation{Op: OpSetAttr, Node: el, Key: key, Value: val})
}

func (m *mount) removeAttr(el *html.Node, key string) {
	if !removeAttr(el, key) {
		return
	}
	m.config.Metrics.RecordMutation(OpRemoveAttr.String())
	m.notify(Mutation{Op: OpRemoveAttr, Node: el, Key: key})
}

func (m *mount) notify(mu Mutation) {
	if !m.live || m.disposed || m.config.Observer == nil {
		return
	}
	target := mu.Node
	if mu.Op == OpInsert || mu.Op == OpRemove {
		target = mu.Parent
	}
	if !m.attached(target) {
		return
	}
	m.config.Observer.Mutated(mu)
}

// attached reports whether n is the container or one of its descendants.
func (m *mount) attached(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == m.container {
			return true
		}
	}
	return false
}
