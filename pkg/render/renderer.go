package render

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vango-dev/ripple/pkg/children"
	"github.com/vango-dev/ripple/pkg/coerce"
	"github.com/vango-dev/ripple/pkg/metrics"
	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it changes whitespace.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Coercers converts attribute values. Default: coerce.Default().
	Coercers *coerce.Registry

	// Logger receives omitted-attribute warnings. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records renders and coercion errors. Optional.
	Metrics *metrics.Metrics
}

// Renderer handles server-side rendering of descriptor trees to HTML.
// A Renderer holds no per-call state and may be shared between goroutines.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.Coercers == nil {
		config.Coercers = coerce.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Renderer{config: config}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// RenderToString renders value with the default renderer.
func RenderToString(value any) (string, error) {
	return defaultRenderer.RenderToString(value)
}

// RenderToString renders value to an HTML string.
func (r *Renderer) RenderToString(value any) (string, error) {
	var buf bytes.Buffer
	if err := r.render(&buf, value); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter renders value and writes the HTML to w. Nothing is
// written if rendering fails.
func (r *Renderer) RenderToWriter(w io.Writer, value any) error {
	var buf bytes.Buffer
	if err := r.render(&buf, value); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) render(buf *bytes.Buffer, value any) (err error) {
	start := time.Now()
	reactive.Untracked(func() {
		err = r.renderValue(buf, value, 0)
	})
	r.config.Metrics.ObserveRender(metrics.RendererString, start, err)
	return err
}

// renderValue resolves value and renders each unit.
func (r *Renderer) renderValue(w *bytes.Buffer, value any, depth int) error {
	units, err := children.Resolve(value)
	if err != nil {
		return err
	}
	for _, u := range units {
		switch u.Kind {
		case children.UnitText:
			w.WriteString(escapeHTML(u.Text))
		case children.UnitElement:
			if err := r.renderNode(w, u.Node, depth); err != nil {
				return err
			}
		case children.UnitDynamic:
			v, err := readValue(u)
			if err != nil {
				return err
			}
			if err := r.renderValue(w, v, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// readValue reads a dynamic unit once, turning a panic into an error.
func readValue(u children.Unit) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &vdom.ComponentRenderError{Component: fmt.Sprintf("%T", u.Source), Panic: p}
		}
	}()
	return u.Eval(), nil
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w *bytes.Buffer, node *vdom.Node, depth int) error {
	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		w.WriteString(escapeHTML(node.Text))
		return nil
	case vdom.KindRaw:
		w.WriteString(node.Text)
		return nil
	case vdom.KindFragment:
		return r.renderValue(w, node.Children(), depth)
	case vdom.KindComponent:
		out, err := vdom.RenderComponent(node)
		if err != nil {
			return err
		}
		return r.renderValue(w, out, depth)
	default:
		return &vdom.UnrenderableTypeError{Type: node.Type}
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w *bytes.Buffer, node *vdom.Node, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.WriteByte('<')
	w.WriteString(tag)
	r.renderAttributes(w, node)
	w.WriteByte('>')

	if vdom.IsVoidElement(tag) {
		if r.config.Pretty {
			w.WriteByte('\n')
		}
		return nil
	}

	raw, ok, err := innerHTML(node.Props)
	if err != nil {
		r.config.Logger.Warn("attribute omitted", "attr", "dangerouslySetInnerHTML", "error", err)
		r.config.Metrics.RecordCoercionError("dangerouslySetInnerHTML")
	}
	if ok {
		w.WriteString(raw)
	} else if vdom.IsRawTextElement(tag) {
		if err := r.renderRawText(w, node.Children()); err != nil {
			return err
		}
	} else {
		// Only the canonical slot is rendered; props["children"] has
		// already been folded into it by Build.
		kids := node.Children()
		block := r.config.Pretty && kids != nil && !isInlineElement(tag)
		if block {
			w.WriteByte('\n')
		}
		if err := r.renderValue(w, kids, depth+1); err != nil {
			return err
		}
		if block {
			r.writeIndent(w, depth)
		}
	}

	w.WriteString("</")
	w.WriteString(tag)
	w.WriteByte('>')
	if r.config.Pretty {
		w.WriteByte('\n')
	}
	return nil
}

// renderRawText writes the text children of script and style unescaped.
func (r *Renderer) renderRawText(w *bytes.Buffer, value any) error {
	units, err := children.Resolve(value)
	if err != nil {
		return err
	}
	for _, u := range units {
		switch u.Kind {
		case children.UnitText:
			w.WriteString(u.Text)
		case children.UnitElement:
			if u.Node.Kind == vdom.KindText || u.Node.Kind == vdom.KindRaw {
				w.WriteString(u.Node.Text)
				continue
			}
			if err := r.renderNode(w, u.Node, 0); err != nil {
				return err
			}
		case children.UnitDynamic:
			v, err := readValue(u)
			if err != nil {
				return err
			}
			if err := r.renderRawText(w, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderAttributes renders all attributes for an element in name order.
// Values that fail to coerce are logged and omitted.
func (r *Renderer) renderAttributes(w *bytes.Buffer, node *vdom.Node) {
	for _, a := range vdom.Attributes(node.Props) {
		s, ok, err := coerce.Coerce(r.config.Coercers, a.Key, a.Value)
		if err != nil {
			r.config.Logger.Warn("attribute omitted", "attr", a.Key, "error", err)
			r.config.Metrics.RecordCoercionError(a.Key)
			continue
		}
		if !ok {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(a.Key)
		if s == "" {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(escapeAttr(s))
		w.WriteByte('"')
	}
}

// innerHTML returns the dangerouslySetInnerHTML prop as a string. Both a
// plain string and the {"__html": s} form are accepted.
func innerHTML(props vdom.Props) (string, bool, error) {
	v, ok := props["dangerouslySetInnerHTML"]
	if !ok {
		return "", false, nil
	}
	raw, err := coerce.Read("dangerouslySetInnerHTML", v)
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

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}
