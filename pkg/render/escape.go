package render

import "golang.org/x/net/html"

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

// escapeAttr escapes text for safe inclusion in a double-quoted attribute
// value.
func escapeAttr(s string) string {
	return html.EscapeString(s)
}
