// Package shadow wraps components as custom elements with declarative
// shadow DOM and shared stylesheets.
//
// Stylesheets are loaded through a StyleCache. A cache belongs to one root
// render context: create one per server, page or test, never per process,
// so invalidating one root's styles does not affect another.
package shadow

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// Loader returns the CSS text of a named stylesheet.
type Loader func(name string) (string, error)

// StyleCache memoizes loaded stylesheets. Reading through Get subscribes
// the caller to invalidations, so live style regions re-render after
// Invalidate.
type StyleCache struct {
	loader Loader

	mu      sync.Mutex
	entries map[string]string

	version *reactive.Cell[int]
}

// NewStyleCache creates an empty cache backed by loader.
func NewStyleCache(loader Loader) *StyleCache {
	return &StyleCache{
		loader:  loader,
		entries: make(map[string]string),
		version: reactive.NewCell(0),
	}
}

// Get returns the stylesheet, loading it on first use. Load errors are not
// cached.
func (c *StyleCache) Get(name string) (string, error) {
	c.version.Get()

	c.mu.Lock()
	css, ok := c.entries[name]
	c.mu.Unlock()
	if ok {
		return css, nil
	}

	css, err := c.loader(name)
	if err != nil {
		return "", fmt.Errorf("shadow: load stylesheet %q: %w", name, err)
	}

	c.mu.Lock()
	c.entries[name] = css
	c.mu.Unlock()
	return css, nil
}

// Invalidate drops the named entries, or every entry when called without
// names, and notifies readers.
func (c *StyleCache) Invalidate(names ...string) {
	c.mu.Lock()
	if len(names) == 0 {
		c.entries = make(map[string]string)
	} else {
		for _, name := range names {
			delete(c.entries, name)
		}
	}
	c.mu.Unlock()

	c.version.Update(func(v int) int { return v + 1 })
}

// Version counts invalidations.
func (c *StyleCache) Version() int {
	return c.version.Peek()
}

// Len returns the number of cached stylesheets.
func (c *StyleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Styles returns the concatenated stylesheets in order.
func (c *StyleCache) Styles(sheets []string) (string, error) {
	parts := make([]string, 0, len(sheets))
	for _, name := range sheets {
		css, err := c.Get(name)
		if err != nil {
			return "", err
		}
		parts = append(parts, css)
	}
	return strings.Join(parts, "\n"), nil
}

// hostAttrs are the global attributes that also land on the custom element
// itself. Any other prop only reaches the component.
var hostAttrs = map[string]bool{
	"id":       true,
	"class":    true,
	"style":    true,
	"slot":     true,
	"part":     true,
	"hidden":   true,
	"lang":     true,
	"dir":      true,
	"tabindex": true,
	"role":     true,
}

func isHostAttr(key string) bool {
	root, _, _ := strings.Cut(key, "$")
	if !vdom.IsAttribute(root) {
		return false
	}
	name := vdom.AttrName(root)
	return hostAttrs[name] || strings.HasPrefix(name, "data-") || strings.HasPrefix(name, "aria-")
}

// Element wraps component as the custom element tag. The component renders
// the shadow tree, inside a declarative shadow root that starts with the
// given stylesheets; the element's children stay in the light DOM, where a
// <slot> in the shadow tree projects them.
//
// The component receives every prop except children. Global attributes
// (id, class, style, slot, data-* and aria-* among them) are also set on
// the host element.
//
//	card := shadow.Element("x-card", cache, []string{"card.css"}, Card)
//	vdom.Build(card, vdom.Props{"id": "c1", "title": "Hi"}, vdom.P("body"))
//
// renders
//
//	<x-card id="c1"><template shadowrootmode="open"><style>…</style>…</template><p>body</p></x-card>
func Element(tag string, cache *StyleCache, sheets []string, component vdom.Component) vdom.Component {
	styles := vdom.Component(func(vdom.Props) any {
		css, err := cache.Styles(sheets)
		if err != nil {
			return err
		}
		if css == "" {
			return nil
		}
		return vdom.Style(css)
	})

	return func(props vdom.Props) any {
		inner := make(vdom.Props, len(props))
		host := vdom.Props{}
		for k, v := range props {
			if k == "children" {
				continue
			}
			inner[k] = v
			if isHostAttr(k) {
				host[k] = v
			}
		}

		return vdom.Build(tag, host,
			vdom.Template(vdom.Prop("shadowrootmode", "open"),
				vdom.Build(styles, nil),
				vdom.Build(component, inner),
			),
			props["children"],
		)
	}
}
