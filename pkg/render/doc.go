// Package render provides server-side rendering (SSR) of descriptor trees.
//
// The render package converts a value (a descriptor, a list, text, or a
// reactive reader) into an HTML string. Rendering is a single synchronous
// pass: readers and thunks are read once, untracked, and components are
// invoked once, so nothing stays subscribed after the call returns.
//
// Output follows the same rules as the live DOM renderer in package dom:
//
//   - tag names are lower-case
//   - attributes are sorted by name and coerced with the same registry
//   - children, key, ref and dangerouslySetInnerHTML are never attributes
//   - void elements have no closing tag and no children
//   - text inside script and style is written verbatim; all other text is
//     escaped
//
// # Basic Usage
//
// To render a tree to a string:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// To write to a writer:
//
//	err := renderer.RenderToWriter(w, node)
//
// Both are all-or-nothing: on error nothing is returned or written.
//
// # Full Page Rendering
//
// To render a complete HTML document:
//
//	page := render.PageData{
//	    Body:  bodyNode,
//	    Title: "My Page",
//	}
//	err := renderer.RenderPage(w, page)
package render
