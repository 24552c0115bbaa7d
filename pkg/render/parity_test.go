package render

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/ripple/pkg/dom"
	"github.com/vango-dev/ripple/pkg/vdom"
)

// normalize parses an HTML fragment and serializes it again, so that two
// equivalent fragments differing only in void-tag or attribute quoting
// notation compare equal.
func normalize(t *testing.T, fragment string) string {
	t.Helper()
	context := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		t.Fatalf("ParseFragment(%q) error: %v", fragment, err)
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			t.Fatalf("Render error: %v", err)
		}
	}
	return buf.String()
}

func TestLiveAndStringParity(t *testing.T) {
	item := func(p vdom.Props) any {
		return vdom.Li(vdom.Class("item"), p["children"])
	}

	trees := map[string]any{
		"document": vdom.Div(vdom.ID("app"), vdom.Data("n", 3),
			vdom.H1("Title & more"),
			vdom.Ul(vdom.Build(item, nil, "one"), vdom.Build(item, nil, "two")),
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(), vdom.Value(math.NaN())),
			vdom.Br(),
			vdom.Fragment("a", nil, false, 0, ""),
		),
		"attributes": vdom.Build("time", vdom.Props{
			"dateTime":  time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
			"className": []string{"b", "a"},
			"style":     map[string]any{"marginTop": 4, "color": "red"},
			"aria-live": true,
		}, "May"),
		"script": vdom.Fragment(vdom.Script("a < b && c"), vdom.Style("p > a {}")),
		"raw":    vdom.Div(vdom.Raw("<b>bold</b> text"), vdom.DangerouslySetInnerHTML("ignored?")),
		"text":   []any{"plain <text>", 1.5, []string{"x", "y"}},
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			ssr, err := RenderToString(tree)
			if err != nil {
				t.Fatalf("RenderToString error: %v", err)
			}

			container := dom.NewContainer("div")
			dispose, err := dom.Mount(tree, container)
			if err != nil {
				t.Fatalf("Mount error: %v", err)
			}
			defer dispose()

			live := dom.InnerHTML(container)
			if got, want := normalize(t, ssr), live; got != want {
				t.Errorf("parity mismatch\nssr:  %s\nlive: %s", got, want)
			}
		})
	}
}
