package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewContainer returns a detached element to mount into.
func NewContainer(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// GetAttr returns the value of attribute key on n.
func GetAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr sets key on n, keeping attributes sorted by name.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	i := 0
	for i < len(n.Attr) && n.Attr[i].Key < key {
		i++
	}
	n.Attr = append(n.Attr, html.Attribute{})
	copy(n.Attr[i+1:], n.Attr[i:])
	n.Attr[i] = html.Attribute{Key: key, Val: val}
}

// removeAttr removes key from n and reports whether it was present.
func removeAttr(n *html.Node, key string) bool {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// fragmentContext returns the element to parse raw HTML against.
func fragmentContext(parent *html.Node) *html.Node {
	if parent != nil && parent.Type == html.ElementNode {
		return parent
	}
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// parseFragment parses raw HTML in the context of parent.
func parseFragment(raw string, parent *html.Node) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(raw), fragmentContext(parent))
}
