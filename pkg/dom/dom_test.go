package dom

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/vdom"
)

func mountString(t *testing.T, r *Renderer, v any) (*html.Node, Disposer) {
	t.Helper()
	container := NewContainer("div")
	dispose, err := r.Mount(v, container)
	if err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	return container, dispose
}

func quietRenderer(cfg Config) (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	return New(cfg), &buf
}

func TestMountStatic(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"text", "hello", "hello"},
		{"escaped", "<b>&", "&lt;b&gt;&amp;"},
		{"element", vdom.Build("DIV", vdom.Props{"id": "a"}, "x"), `<div id="a">x</div>`},
		{"nested", vdom.Div(vdom.H1("Child 1"), vdom.H2("Child 2")), "<div><h1>Child 1</h1><h2>Child 2</h2></div>"},
		{"children prop", vdom.Build("div", vdom.Props{"children": []any{vdom.H1("X"), vdom.H2("Y")}}), "<div><h1>X</h1><h2>Y</h2></div>"},
		{"falsy elided", vdom.Build("div", nil, false, "X", nil, "Y"), "<div>XY</div>"},
		{"zero kept", vdom.Build("span", nil, 0), "<span>0</span>"},
		{"fragment", vdom.Fragment("a", vdom.Br(), "b"), "a<br/>b"},
		{"void drops children", vdom.Build("input", vdom.Props{"type": "text"}, "ignored"), `<input type="text"/>`},
		{"raw", vdom.Raw("<em>hi</em>"), "<em>hi</em>"},
		{"inner html", vdom.Div(vdom.DangerouslySetInnerHTML("<i>x</i>"), "ignored"), "<div><i>x</i></div>"},
		{"bool attr", vdom.Input(vdom.Disabled(), vdom.Checked(false)), `<input disabled=""/>`},
		{"style map", vdom.Div(vdom.StyleAttr(map[string]any{"fontSize": "2px"})), `<div style="font-size: 2px;"></div>`},
		{"path prop", vdom.Div(vdom.Prop("style$font-size", "3px")), `<div style="font-size: 3px;"></div>`},
		{"static component", vdom.Build(func(p vdom.Props) any { return vdom.P(p["children"]) }, nil, "c"), "<p>c</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := quietRenderer(Config{})
			container, _ := mountString(t, r, tt.in)
			if got := InnerHTML(container); got != tt.want {
				t.Errorf("InnerHTML = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMountCellUpdatesText(t *testing.T) {
	cell := reactive.NewCell(5)
	container, _ := mountString(t, New(Config{}), vdom.Build("p", nil, cell))

	p := container.FirstChild
	if got := OuterHTML(p); got != "<p>5<!----></p>" {
		t.Fatalf("initial = %q", got)
	}

	cell.Set(6)

	if container.FirstChild != p {
		t.Error("paragraph element was replaced")
	}
	if got := OuterHTML(p); got != "<p>6<!----></p>" {
		t.Errorf("after write = %q", got)
	}
}

func TestMountRegionGrowsWithoutTouchingSiblings(t *testing.T) {
	items := reactive.NewCell([]string{"a"})
	list := vdom.Each[string](items, func(s string, _ int) any { return vdom.Li(s) })

	container, _ := mountString(t, New(Config{}), vdom.Ul(vdom.Li("first"), list, vdom.Li("last")))
	ul := container.FirstChild
	first, last := ul.FirstChild, ul.LastChild

	items.Set([]string{"a", "b", "c"})
	if got := InnerHTML(ul); got != "<li>first</li><li>a</li><li>b</li><li>c</li><!----><li>last</li>" {
		t.Errorf("grown = %q", got)
	}

	items.Set(nil)
	if got := InnerHTML(ul); got != "<li>first</li><!----><li>last</li>" {
		t.Errorf("shrunk = %q", got)
	}
	if ul.FirstChild != first || ul.LastChild != last {
		t.Error("sibling nodes were replaced")
	}
}

func TestMountReactiveAttribute(t *testing.T) {
	id := reactive.NewCell("a")
	on := reactive.NewCell(true)

	var muts []Mutation
	r := New(Config{Observer: ObserverFunc(func(m Mutation) { muts = append(muts, m) })})
	container, _ := mountString(t, r, vdom.Div(vdom.ID(id), vdom.Hidden(on), vdom.Class("static")))
	div := container.FirstChild

	if got := OuterHTML(div); got != `<div class="static" hidden="" id="a"></div>` {
		t.Fatalf("initial = %q", got)
	}

	id.Set("b")
	on.Set(false)
	if got := OuterHTML(div); got != `<div class="static" id="b"></div>` {
		t.Errorf("updated = %q", got)
	}

	type write struct {
		Op         Op
		Key, Value string
	}
	var got []write
	for _, m := range muts {
		if m.Node != div {
			t.Errorf("mutation %v targets %v, want the div", m.Op, m.Node)
		}
		got = append(got, write{m.Op, m.Key, m.Value})
	}
	want := []write{
		{OpSetAttr, "id", "b"},
		{OpRemoveAttr, "hidden", ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestMountSkipsRedundantWrites(t *testing.T) {
	n := reactive.NewCell(1.0)
	count := 0
	r := New(Config{Observer: ObserverFunc(func(Mutation) { count++ })})
	mountString(t, r, vdom.Div(vdom.Data("n", n)))

	n.Set(1.0)
	n.Set(2.0)
	n.Set(2.0)
	if count != 1 {
		t.Errorf("observed %d writes, want 1", count)
	}
}

func TestMountNestedReaderInStyle(t *testing.T) {
	color := reactive.NewCell("red")
	container, _ := mountString(t, New(Config{}), vdom.Div(vdom.StyleAttr(map[string]any{"color": color})))

	color.Set("blue")
	if got := InnerHTML(container); got != `<div style="color: blue;"></div>` {
		t.Errorf("got %q", got)
	}
}

func TestMountComponentRerendersAsUnit(t *testing.T) {
	count := reactive.NewCell(0)
	renders := 0
	counter := func(vdom.Props) any {
		renders++
		return vdom.Span(vdom.Textf("%d", count.Get()))
	}

	container, _ := mountString(t, New(Config{}), vdom.Div(vdom.Build(counter, nil), "tail"))
	count.Set(1)

	if got := InnerHTML(container); got != "<div><span>1</span><!---->tail</div>" {
		t.Errorf("got %q", got)
	}
	if renders != 2 {
		t.Errorf("renders = %d, want 2", renders)
	}
}

func TestMountFailureRollsBack(t *testing.T) {
	boom := func(vdom.Props) any { panic("boom") }
	cell := reactive.NewCell("x")

	container := NewContainer("div")
	container.AppendChild(&html.Node{Type: html.TextNode, Data: "keep"})

	_, err := New(Config{}).Mount([]any{"a", vdom.P(cell), vdom.Build(boom, nil)}, container)

	var cre *vdom.ComponentRenderError
	if !errors.As(err, &cre) {
		t.Fatalf("err = %v, want ComponentRenderError", err)
	}
	if got := InnerHTML(container); got != "keep" {
		t.Errorf("container = %q, want only pre-existing content", got)
	}
	if cell.Subscribers() != 0 {
		t.Errorf("cell has %d subscribers after rollback", cell.Subscribers())
	}
}

func TestMountUnrenderable(t *testing.T) {
	container := NewContainer("div")
	_, err := New(Config{}).Mount(vdom.Div("ok", vdom.Build(3.5, nil)), container)

	var ute *vdom.UnrenderableTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("err = %v, want UnrenderableTypeError", err)
	}
	if container.FirstChild != nil {
		t.Errorf("container not empty: %q", InnerHTML(container))
	}
}

func TestUpdateFailureEmptiesRegion(t *testing.T) {
	fail := reactive.NewCell(false)
	r, logs := quietRenderer(Config{})
	content := vdom.Thunk(func() any {
		if fail.Get() {
			return struct{}{}
		}
		return "fine"
	})

	container, _ := mountString(t, r, vdom.Div(content, "sibling"))
	fail.Set(true)

	if got := InnerHTML(container); got != "<div><!---->sibling</div>" {
		t.Errorf("after failure = %q", got)
	}
	if logs.Len() == 0 {
		t.Error("update failure was not logged")
	}

	fail.Set(false)
	if got := InnerHTML(container); got != "<div>fine<!---->sibling</div>" {
		t.Errorf("after recovery = %q", got)
	}
}

func TestCoercionErrorOmitsAttribute(t *testing.T) {
	failing := reactive.Thunk(func() any { panic("bad date") })
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			"coercer panic",
			vdom.Div(vdom.Data("bad", map[string]any{"c": make(chan int)}), vdom.ID("ok"), "child"),
			`<div id="ok">child</div>`,
		},
		{
			"failing thunk",
			vdom.Build("div", vdom.Props{"title": failing, "id": "x"}, "child"),
			`<div id="x">child</div>`,
		},
		{
			"failing inner html",
			vdom.Div(vdom.Prop("dangerouslySetInnerHTML", failing), "child"),
			`<div>child</div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, logs := quietRenderer(Config{})
			container, _ := mountString(t, r, tt.in)

			if got := InnerHTML(container); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !bytes.Contains(logs.Bytes(), []byte("attribute omitted")) {
				t.Error("coercion error was not logged")
			}
		})
	}
}

func TestCoercionErrorOnUpdate(t *testing.T) {
	cell := reactive.NewCell(0)
	title := reactive.Thunk(func() any {
		if cell.Get() > 0 {
			panic("boom")
		}
		return "fine"
	})
	r, logs := quietRenderer(Config{})
	container, dispose := mountString(t, r, vdom.Div(vdom.TitleAttr(title), vdom.ID(cell)))
	defer dispose()

	div := container.FirstChild
	if got, _ := GetAttr(div, "title"); got != "fine" {
		t.Fatalf("title = %q at mount", got)
	}

	cell.Set(1)
	if _, ok := GetAttr(div, "title"); ok {
		t.Error("title kept after its value failed")
	}
	if got, _ := GetAttr(div, "id"); got != "1" {
		t.Errorf("id = %q, want 1", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("attribute omitted")) {
		t.Error("update failure was not logged")
	}

	cell.Set(0)
	if got, _ := GetAttr(div, "title"); got != "fine" {
		t.Errorf("title = %q after recovery", got)
	}
}

func TestDisposer(t *testing.T) {
	cell := reactive.NewCell("a")
	container := NewContainer("div")
	container.AppendChild(&html.Node{Type: html.TextNode, Data: "keep"})

	dispose, err := New(Config{}).Mount([]any{vdom.P(cell), vdom.Div(vdom.ID(cell))}, container)
	if err != nil {
		t.Fatal(err)
	}
	if cell.Subscribers() != 2 {
		t.Fatalf("subscribers = %d, want 2", cell.Subscribers())
	}

	dispose()
	dispose()

	if got := InnerHTML(container); got != "keep" {
		t.Errorf("container = %q", got)
	}
	if cell.Subscribers() != 0 {
		t.Errorf("subscribers = %d after dispose", cell.Subscribers())
	}
	cell.Set("b")
	if got := InnerHTML(container); got != "keep" {
		t.Errorf("container changed after dispose: %q", got)
	}
}

func TestDisposeDuringUpdate(t *testing.T) {
	trigger := reactive.NewCell(0)
	other := reactive.NewCell("x")
	var dispose Disposer

	content := vdom.Thunk(func() any {
		if trigger.Get() > 0 {
			dispose()
		}
		return vdom.P(other)
	})

	container := NewContainer("div")
	var err error
	dispose, err = New(Config{}).Mount(content, container)
	if err != nil {
		t.Fatal(err)
	}

	trigger.Set(1)

	if container.FirstChild != nil {
		t.Errorf("container not empty: %q", InnerHTML(container))
	}
	if trigger.Subscribers() != 0 || other.Subscribers() != 0 {
		t.Errorf("dangling subscriptions: trigger=%d other=%d", trigger.Subscribers(), other.Subscribers())
	}
}

func TestObserverSeesOnlyAttachedWrites(t *testing.T) {
	items := reactive.NewCell([]string{})
	var ops []Op
	r := New(Config{Observer: ObserverFunc(func(m Mutation) { ops = append(ops, m.Op) })})

	mountString(t, r, vdom.Ul(vdom.Each[string](items, func(s string, _ int) any {
		return vdom.Li(vdom.Span(s))
	})))
	if len(ops) != 0 {
		t.Fatalf("mount reported %v", ops)
	}

	items.Set([]string{"a", "b"})
	// Two li inserts; the span and text inside each li are part of its subtree.
	if diff := cmp.Diff([]Op{OpInsert, OpInsert}, ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestMountUnderOwner(t *testing.T) {
	cell := reactive.NewCell("a")
	owner := reactive.NewOwner(nil)
	container := NewContainer("div")

	owner.Run(func() {
		if _, err := Mount(vdom.P(cell), container); err != nil {
			t.Fatal(err)
		}
	})
	owner.Dispose()

	if cell.Subscribers() != 0 {
		t.Errorf("subscribers = %d after owner dispose", cell.Subscribers())
	}
}
