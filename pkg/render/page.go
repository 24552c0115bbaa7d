package render

import (
	"bytes"
	"io"

	"github.com/vango-dev/ripple/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the page content; any value the renderer accepts.
	Body any

	// Title is the page title
	Title string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.)
	Links []LinkTag

	// Styles contains inline CSS styles
	Styles []string

	// Head holds extra head content, rendered after the tags above.
	Head any

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name     string // name attribute
	Content  string // content attribute
	Property string // property attribute (for OpenGraph)
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel  string // rel attribute
	Href string // href attribute
	Type string // type attribute
}

// RenderPage renders a complete HTML document to the given writer. Like
// RenderToWriter it writes nothing if any part fails.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n")
	if err := r.render(&buf, pageTree(page)); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// pageTree builds the document as a descriptor so the page shell goes
// through the same attribute and escaping rules as the content.
func pageTree(page PageData) *vdom.Node {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	head := []any{
		vdom.Meta(vdom.Prop("charset", "utf-8")),
		vdom.Meta(vdom.Name("viewport"), vdom.Prop("content", "width=device-width, initial-scale=1")),
	}
	if page.Title != "" {
		head = append(head, vdom.Title(page.Title))
	}
	for _, m := range page.Meta {
		head = append(head, vdom.Meta(
			optional("name", m.Name),
			optional("property", m.Property),
			optional("content", m.Content),
		))
	}
	for _, l := range page.Links {
		head = append(head, vdom.Link(
			optional("rel", l.Rel),
			optional("href", l.Href),
			optional("type", l.Type),
		))
	}
	for _, css := range page.Styles {
		head = append(head, vdom.Style(css))
	}
	head = append(head, page.Head)

	return vdom.Html(vdom.Lang(lang),
		vdom.Head(head...),
		vdom.Body(page.Body),
	)
}

// optional returns an attribute, or nil when value is empty so H skips it.
func optional(key, value string) any {
	if value == "" {
		return nil
	}
	return vdom.Prop(key, value)
}
