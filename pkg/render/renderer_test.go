package render

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/ripple/pkg/metrics"
	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

func quietRenderer(config RendererConfig) (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	config.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	return NewRenderer(config), &buf
}

func mustRender(t *testing.T, v any) string {
	t.Helper()
	out, err := RenderToString(v)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	return out
}

func TestRenderToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "variadic children",
			in:   vdom.Build("div", nil, vdom.Build("h1", nil, "Child 1"), vdom.Build("h2", nil, "Child 2")),
			want: "<div><h1>Child 1</h1><h2>Child 2</h2></div>",
		},
		{
			name: "children prop",
			in:   vdom.Build("div", vdom.Props{"children": []any{vdom.Build("h1", nil, "X"), vdom.Build("h2", nil, "Y")}}),
			want: "<div><h1>X</h1><h2>Y</h2></div>",
		},
		{
			name: "variadic wins over children prop",
			in:   vdom.Build("div", vdom.Props{"children": "prop"}, "arg"),
			want: "<div>arg</div>",
		},
		{
			name: "falsy elided",
			in:   vdom.Build("div", nil, false, "X", nil, "Y"),
			want: "<div>XY</div>",
		},
		{
			name: "falsy but meaningful",
			in:   vdom.Build("div", nil, 0, "", 0.0),
			want: "<div>00</div>",
		},
		{name: "upper-case tag", in: vdom.Build("SECTION", nil), want: "<section></section>"},
		{name: "void", in: vdom.Build("br", nil), want: "<br>"},
		{name: "void ignores children", in: vdom.Build("img", vdom.Props{"src": "a.png"}, "x"), want: `<img src="a.png">`},
		{name: "text escaped", in: vdom.P(`<a href="x">&`), want: "<p>&lt;a href=&#34;x&#34;&gt;&amp;</p>"},
		{name: "script raw", in: vdom.Script("if (a < b) {}"), want: "<script>if (a < b) {}</script>"},
		{name: "style raw", in: vdom.Style("a > b {}"), want: "<style>a > b {}</style>"},
		{name: "raw node", in: vdom.Raw("<em>x</em>"), want: "<em>x</em>"},
		{name: "inner html", in: vdom.Div(vdom.DangerouslySetInnerHTML("<b>x</b>"), "ignored"), want: "<div><b>x</b></div>"},
		{name: "inner html object", in: vdom.Build("div", vdom.Props{"dangerouslySetInnerHTML": map[string]any{"__html": "<i></i>"}}), want: "<div><i></i></div>"},
		{name: "fragment", in: vdom.Fragment("a", vdom.Span("b")), want: "a<span>b</span>"},
		{name: "nested arrays", in: []any{"a", []any{"b", []any{"c"}}}, want: "abc"},
		{
			name: "attributes sorted and mapped",
			in:   vdom.Build("label", vdom.Props{"htmlFor": "x", "className": "c", "id": "l", "key": "k", "ref": nil}),
			want: `<label class="c" for="x" id="l"></label>`,
		},
		{name: "attribute escaped", in: vdom.Div(vdom.TitleAttr(`"q" & <`)), want: `<div title="&#34;q&#34; &amp; &lt;"></div>`},
		{name: "bool attributes", in: vdom.Input(vdom.Disabled(), vdom.Checked(false)), want: "<input disabled>"},
		{name: "aria bool", in: vdom.Div(vdom.AriaHidden(false)), want: `<div aria-hidden="false"></div>`},
		{name: "handler omitted", in: vdom.Button(vdom.On("click", func() {}), "go"), want: "<button>go</button>"},
		{name: "style path", in: vdom.Div(vdom.Prop("style$background-color", "red")), want: `<div style="background-color: red;"></div>`},
		{name: "style path over inline style", in: vdom.Div(vdom.Prop("style", "margin: 0"), vdom.Prop("style$color", "red")), want: `<div style="color: red; margin: 0;"></div>`},
		{name: "class map", in: vdom.Div(vdom.ClassMap(map[string]any{"b": true, "a": 1, "z": false})), want: `<div class="a b"></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRender(t, tt.in); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRenderEachChildOnce(t *testing.T) {
	out := mustRender(t, vdom.Build("div", vdom.Props{"children": vdom.H1("dup")}, vdom.H1("dup")))
	if n := strings.Count(out, "<h1>"); n != 1 {
		t.Errorf("h1 rendered %d times in %q", n, out)
	}
}

func TestRenderComponent(t *testing.T) {
	var seen vdom.Props
	card := func(p vdom.Props) any {
		seen = p
		return vdom.Div(vdom.Class("card"), vdom.H2(p["title"]), p["children"])
	}

	out := mustRender(t, vdom.Build(card, vdom.Props{"title": "T", "children": "ignored"}, "body"))
	want := `<div class="card"><h2>T</h2>body</div>`
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if seen["children"] != "body" {
		t.Errorf("component saw children %v, want the canonical slot", seen["children"])
	}
}

func TestRenderReactiveSnapshot(t *testing.T) {
	count := reactive.NewCell(1)
	title := reactive.NewCell("a")
	tree := vdom.Div(vdom.TitleAttr(title), count, vdom.Thunk(func() any { return count.Get() * 10 }))

	first := mustRender(t, tree)
	if first != `<div title="a">110</div>` {
		t.Fatalf("got %q", first)
	}
	if count.Subscribers() != 0 || title.Subscribers() != 0 {
		t.Errorf("render left subscriptions: count=%d title=%d", count.Subscribers(), title.Subscribers())
	}

	// Idempotent while cells are unchanged.
	if second := mustRender(t, tree); second != first {
		t.Errorf("second render %q differs from %q", second, first)
	}

	count.Set(2)
	if got := mustRender(t, tree); got != `<div title="a">220</div>` {
		t.Errorf("after write got %q", got)
	}
}

func TestRenderInsideEffectDoesNotTrack(t *testing.T) {
	c := reactive.NewCell("x")
	runs := 0
	eff := reactive.NewEffect(func() reactive.Cleanup {
		runs++
		_, _ = RenderToString(vdom.P(c))
		return nil
	})
	defer eff.Dispose()

	c.Set("y")
	if runs != 1 {
		t.Errorf("effect ran %d times, want 1", runs)
	}
}

func TestRenderErrors(t *testing.T) {
	sentinel := errors.New("broken")

	tests := []struct {
		name  string
		in    any
		check func(error) bool
	}{
		{
			name: "component panic",
			in:   vdom.Div("before", vdom.Build(func(vdom.Props) any { panic("boom") }, nil)),
			check: func(err error) bool {
				var cre *vdom.ComponentRenderError
				return errors.As(err, &cre) && cre.Panic == "boom"
			},
		},
		{
			name:  "component error",
			in:    vdom.Build(func(vdom.Props) any { return sentinel }, nil),
			check: func(err error) bool { return errors.Is(err, sentinel) },
		},
		{
			name: "invalid type",
			in:   vdom.Div(vdom.Build(42, nil)),
			check: func(err error) bool {
				var ute *vdom.UnrenderableTypeError
				return errors.As(err, &ute) && ute.Type == 42
			},
		},
		{
			name: "unrenderable child",
			in:   vdom.Div(struct{}{}),
			check: func(err error) bool {
				var ute *vdom.UnrenderableTypeError
				return errors.As(err, &ute)
			},
		},
		{
			name: "panicking thunk",
			in:   vdom.Div(vdom.Thunk(func() any { panic("thunk") })),
			check: func(err error) bool {
				var cre *vdom.ComponentRenderError
				return errors.As(err, &cre)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(RendererConfig{})
			out, err := r.RenderToString(tt.in)
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if out != "" {
				t.Errorf("partial output %q", out)
			}

			var w bytes.Buffer
			if err := r.RenderToWriter(&w, tt.in); err == nil {
				t.Error("RenderToWriter returned nil error")
			}
			if w.Len() != 0 {
				t.Errorf("RenderToWriter wrote %q", w.String())
			}
		})
	}
}

func TestRenderCoercionErrorOmitsAttribute(t *testing.T) {
	failing := reactive.Thunk(func() any { panic("bad date") })
	tests := []struct {
		name string
		in   any
		want string
		attr string
	}{
		{
			"coercer panic",
			vdom.Div(vdom.Data("bad", map[string]any{"c": make(chan int)}), vdom.ID("ok"), "child"),
			`<div id="ok">child</div>`,
			"data-bad",
		},
		{
			"failing thunk",
			vdom.Build("div", vdom.Props{"title": failing, "id": "x"}, "child"),
			`<div id="x">child</div>`,
			"title",
		},
		{
			"failing inner html",
			vdom.Div(vdom.Prop("dangerouslySetInnerHTML", failing), "child"),
			`<div>child</div>`,
			"dangerouslySetInnerHTML",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			r, logs := quietRenderer(RendererConfig{Metrics: m})
			out, err := r.RenderToString(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
			if !strings.Contains(logs.String(), tt.attr) {
				t.Errorf("log %q does not name the attribute", logs.String())
			}
			if got := coercionErrors(t, m, tt.attr); got != 1 {
				t.Errorf("coercion_errors_total(%s) = %v, want 1", tt.attr, got)
			}
		})
	}
}

func coercionErrors(t *testing.T, m *metrics.Metrics, attr string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != "ripple_coercion_errors_total" {
			continue
		}
		for _, s := range f.GetMetric() {
			for _, l := range s.GetLabel() {
				if l.GetName() == "attr" && l.GetValue() == attr {
					return s.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRenderPretty(t *testing.T) {
	r := NewRenderer(RendererConfig{Pretty: true})
	out, err := r.RenderToString(vdom.Div(vdom.P("a"), vdom.Span("b")))
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n  <p>\na  </p>\n  <span>b</span>\n</div>\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
