package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// rawTextElements hold text that is not HTML-escaped when serialized.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// IsRawTextElement returns true if text children of tag are emitted verbatim.
func IsRawTextElement(tag string) bool {
	return rawTextElements[tag]
}

// H creates a descriptor from a tag and a mix of attributes and children.
// Arguments can be: nil, Attr, []Attr, Props (merged) or any child value.
// Everything that is not an attribute becomes a variadic child, so the
// result obeys the same single-source children rule as Build.
func H(tag string, args ...any) *Node {
	var props Props
	var children []any

	setProp := func(key string, value any) {
		if key == "" {
			return
		}
		if props == nil {
			props = make(Props)
		}
		props[key] = value
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
		case Attr:
			setProp(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				setProp(a.Key, a.Value)
			}
		case Props:
			for k, val := range v {
				setProp(k, val)
			}
		default:
			children = append(children, arg)
		}
	}

	return Build(tag, props, children...)
}

// Document structure elements

func Html(args ...any) *Node  { return H("html", args...) }
func Head(args ...any) *Node  { return H("head", args...) }
func Body(args ...any) *Node  { return H("body", args...) }
func Title(args ...any) *Node { return H("title", args...) }
func Meta(args ...any) *Node  { return H("meta", args...) }
func Link(args ...any) *Node  { return H("link", args...) }

// Content sectioning elements

func Header(args ...any) *Node  { return H("header", args...) }
func Footer(args ...any) *Node  { return H("footer", args...) }
func Main(args ...any) *Node    { return H("main", args...) }
func Nav(args ...any) *Node     { return H("nav", args...) }
func Section(args ...any) *Node { return H("section", args...) }
func Article(args ...any) *Node { return H("article", args...) }
func Aside(args ...any) *Node   { return H("aside", args...) }
func H1(args ...any) *Node      { return H("h1", args...) }
func H2(args ...any) *Node      { return H("h2", args...) }
func H3(args ...any) *Node      { return H("h3", args...) }
func H4(args ...any) *Node      { return H("h4", args...) }

// Text content elements

func Div(args ...any) *Node        { return H("div", args...) }
func P(args ...any) *Node          { return H("p", args...) }
func Span(args ...any) *Node       { return H("span", args...) }
func Pre(args ...any) *Node        { return H("pre", args...) }
func Blockquote(args ...any) *Node { return H("blockquote", args...) }
func Ul(args ...any) *Node         { return H("ul", args...) }
func Ol(args ...any) *Node         { return H("ol", args...) }
func Li(args ...any) *Node         { return H("li", args...) }
func Hr(args ...any) *Node         { return H("hr", args...) }

// Inline text semantics

func A(args ...any) *Node      { return H("a", args...) }
func Strong(args ...any) *Node { return H("strong", args...) }
func Em(args ...any) *Node     { return H("em", args...) }
func B(args ...any) *Node      { return H("b", args...) }
func I(args ...any) *Node      { return H("i", args...) }
func Code(args ...any) *Node   { return H("code", args...) }
func Small(args ...any) *Node  { return H("small", args...) }
func Time_(args ...any) *Node  { return H("time", args...) }
func Br(args ...any) *Node     { return H("br", args...) }

// Form elements

func Form(args ...any) *Node     { return H("form", args...) }
func Input(args ...any) *Node    { return H("input", args...) }
func Textarea(args ...any) *Node { return H("textarea", args...) }
func Select(args ...any) *Node   { return H("select", args...) }
func Option(args ...any) *Node   { return H("option", args...) }
func Button(args ...any) *Node   { return H("button", args...) }
func Label(args ...any) *Node    { return H("label", args...) }
func Progress(args ...any) *Node { return H("progress", args...) }

// Table elements

func Table(args ...any) *Node { return H("table", args...) }
func Thead(args ...any) *Node { return H("thead", args...) }
func Tbody(args ...any) *Node { return H("tbody", args...) }
func Tr(args ...any) *Node    { return H("tr", args...) }
func Th(args ...any) *Node    { return H("th", args...) }
func Td(args ...any) *Node    { return H("td", args...) }

// Media and scripting elements

func Img(args ...any) *Node      { return H("img", args...) }
func Svg(args ...any) *Node      { return H("svg", args...) }
func Script(args ...any) *Node   { return H("script", args...) }
func Style(args ...any) *Node    { return H("style", args...) }
func Template(args ...any) *Node { return H("template", args...) }
func Slot(args ...any) *Node     { return H("slot", args...) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *Node {
	return H(tag, args...)
}
