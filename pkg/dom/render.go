package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/ripple/pkg/children"
	"github.com/vango-dev/ripple/pkg/coerce"
	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// render resolves v and inserts its nodes into parent before before,
// recording them in reg.
func (m *mount) render(reg *region, parent, before *html.Node, v any) error {
	units, err := children.Resolve(v)
	if err != nil {
		return err
	}
	for _, u := range units {
		if m.disposed {
			return nil
		}
		switch u.Kind {
		case children.UnitText:
			n := &html.Node{Type: html.TextNode, Data: u.Text}
			m.insert(parent, n, before)
			reg.addNode(n)
		case children.UnitElement:
			if err := m.renderNode(reg, parent, before, u.Node); err != nil {
				return err
			}
		case children.UnitDynamic:
			src := u.Source
			sub := reg.addRegion()
			err := m.dynamic(sub, parent, before, "dynamic", func() (any, error) {
				return readValue(src)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mount) renderNode(reg *region, parent, before *html.Node, n *vdom.Node) error {
	switch n.Kind {
	case vdom.KindText:
		t := &html.Node{Type: html.TextNode, Data: n.Text}
		m.insert(parent, t, before)
		reg.addNode(t)
		return nil

	case vdom.KindRaw:
		nodes, err := parseFragment(n.Text, parent)
		if err != nil {
			return err
		}
		for _, c := range nodes {
			m.insert(parent, c, before)
			reg.addNode(c)
		}
		return nil

	case vdom.KindFragment:
		return m.render(reg, parent, before, n.Children())

	case vdom.KindComponent:
		sub := reg.addRegion()
		return m.dynamic(sub, parent, before, vdom.ComponentName(n.Render), func() (any, error) {
			return vdom.RenderComponent(n)
		})

	case vdom.KindElement:
		el, err := m.element(n)
		if err != nil {
			return err
		}
		m.insert(parent, el, before)
		reg.addNode(el)
		return nil
	}

	return &vdom.UnrenderableTypeError{Type: n.Type}
}

// element builds a detached element with its attributes and children.
func (m *mount) element(n *vdom.Node) (*html.Node, error) {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}

	for _, a := range vdom.Attributes(n.Props) {
		m.bindAttr(el, a.Key, a.Value)
	}

	if vdom.IsVoidElement(n.Tag) {
		return el, nil
	}

	raw, ok, err := innerHTML(n.Props)
	if err != nil {
		m.config.Logger.Warn("attribute omitted", "attr", "dangerouslySetInnerHTML", "error", err)
		m.config.Metrics.RecordCoercionError("dangerouslySetInnerHTML")
	}
	if ok {
		nodes, err := parseFragment(raw, el)
		if err != nil {
			return nil, err
		}
		for _, c := range nodes {
			el.AppendChild(c)
		}
		return el, nil
	}

	// Children belong to the element, not to the enclosing region; they
	// leave the DOM together with el.
	if err := m.render(&region{}, el, nil, n.Children()); err != nil {
		return nil, err
	}
	return el, nil
}

// innerHTML returns the dangerouslySetInnerHTML prop as a string. Both a
// plain string and the {"__html": s} form are accepted.
func innerHTML(props vdom.Props) (string, bool, error) {
	v, ok := props["dangerouslySetInnerHTML"]
	if !ok {
		return "", false, nil
	}
	var (
		raw any
		err error
	)
	reactive.Untracked(func() { raw, err = coerce.Read("dangerouslySetInnerHTML", v) })
	if err != nil {
		return "", false, err
	}
	switch x := raw.(type) {
	case string:
		return x, true, nil
	case map[string]any:
		s, ok := x["__html"].(string)
		return s, ok, nil
	}
	return "", false, nil
}

// bindAttr applies one attribute in its own effect. The effect is dropped
// right away when the value read no cells.
func (m *mount) bindAttr(el *html.Node, key string, value any) {
	var (
		prev     any
		prevText string
		prevOK   bool
		applied  bool
	)

	eff := reactive.NewEffect(func() reactive.Cleanup {
		var (
			s  string
			ok bool
		)
		v, err := coerce.Read(key, value)
		if err == nil {
			c := m.config.Coercers.Lookup(key, v)
			if applied && !nested(v) && c.Equal(prev, v) {
				return nil
			}
			s, ok, err = coerce.Coerce(m.config.Coercers, key, v)
		}
		if err != nil {
			m.config.Logger.Warn("attribute omitted", "attr", key, "error", err)
			m.config.Metrics.RecordCoercionError(key)
			ok = false
		}
		if applied && ok == prevOK && s == prevText {
			prev = v
			return nil
		}

		if m.disposed {
			return nil
		}
		if ok {
			m.setAttr(el, key, s)
		} else {
			m.removeAttr(el, key)
		}
		prev, prevText, prevOK, applied = v, s, ok, true
		return nil
	})

	if eff.SourceCount() == 0 {
		eff.Dispose()
	}
}

// nested reports whether v may hold readers whose values Equal would read
// again, so comparing v with itself would always succeed.
func nested(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
