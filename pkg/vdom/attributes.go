package vdom

import "strings"

// Attr is a single attribute passed to H. Value may be a literal, a
// reactive.Reader or a Thunk.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop creates an arbitrary attribute. Path-shaped keys ("style$color") are
// expanded by the renderers.
func Prop(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id any) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassMap sets the class attribute from a name → condition mapping. The
// conditions may be reactive.
func ClassMap(classes map[string]any) Attr { return attr("class", classes) }

// StyleAttr sets the style attribute from a string or a property mapping.
func StyleAttr(style any) Attr { return attr("style", style) }

// Data creates a data-* attribute.
func Data(key string, value any) Attr { return attr("data-"+key, value) }

// Accessibility attributes

func Role(role string) Attr          { return attr("role", role) }
func AriaLabel(label any) Attr       { return attr("aria-label", label) }
func AriaHidden(hidden any) Attr     { return attr("aria-hidden", hidden) }
func AriaExpanded(expanded any) Attr { return attr("aria-expanded", expanded) }

// Link and media attributes

func Href(url any) Attr   { return attr("href", url) }
func Target(t string) Attr { return attr("target", t) }
func Rel(rel string) Attr  { return attr("rel", rel) }
func Src(url any) Attr     { return attr("src", url) }
func Alt(text any) Attr    { return attr("alt", text) }
func Width(w any) Attr     { return attr("width", w) }
func Height(h any) Attr    { return attr("height", h) }

// Form attributes

func Name(name string) Attr    { return attr("name", name) }
func Type(t string) Attr       { return attr("type", t) }
func Value(value any) Attr     { return attr("value", value) }
func Placeholder(p any) Attr   { return attr("placeholder", p) }
func Disabled(on ...any) Attr  { return boolAttr("disabled", on) }
func Checked(on ...any) Attr   { return boolAttr("checked", on) }
func Selected(on ...any) Attr  { return boolAttr("selected", on) }
func Required(on ...any) Attr  { return boolAttr("required", on) }
func Readonly(on ...any) Attr  { return boolAttr("readonly", on) }
func Hidden(on ...any) Attr    { return boolAttr("hidden", on) }
func For(id string) Attr       { return attr("for", id) }
func TitleAttr(title any) Attr { return attr("title", title) }
func TabIndex(index any) Attr  { return attr("tabindex", index) }
func Lang(lang string) Attr    { return attr("lang", lang) }

// DangerouslySetInnerHTML replaces the element's children with raw HTML.
func DangerouslySetInnerHTML(html string) Attr {
	return attr("dangerouslySetInnerHTML", html)
}

// boolAttr creates a boolean attribute. Without an argument it is true;
// the argument may be a bool or a reactive value.
func boolAttr(key string, on []any) Attr {
	if len(on) == 0 {
		return attr(key, true)
	}
	return attr(key, on[0])
}

// On attaches an event handler. Handlers are never serialized to HTML.
func On(event string, handler any) Attr {
	if !strings.HasPrefix(event, "on") {
		event = "on" + event
	}
	return attr(event, handler)
}
