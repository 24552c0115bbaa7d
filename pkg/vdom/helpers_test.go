package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/ripple/pkg/reactive"
)

func TestText(t *testing.T) {
	node := Textf("Count: %d", 42)

	if node.Kind != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind)
	}
	if node.Text != "Count: 42" {
		t.Errorf("Text = %v, want 'Count: 42'", node.Text)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<strong>Bold</strong>")

	if node.Kind != KindRaw {
		t.Errorf("Kind = %v, want KindRaw", node.Kind)
	}
}

func TestFragment(t *testing.T) {
	node := Fragment(Div(), nil, Span())
	if node.Kind != KindFragment {
		t.Errorf("Kind = %v, want KindFragment", node.Kind)
	}
	kids, ok := node.Children().([]any)
	if !ok || len(kids) != 3 {
		t.Errorf("Children() = %#v, want 3 entries", node.Children())
	}
}

func TestShow(t *testing.T) {
	on := reactive.NewCell(false)
	th := Show(on, "yes", "no")

	if got := th(); got != "no" {
		t.Errorf("Show() = %v, want no", got)
	}
	on.Set(true)
	if got := th(); got != "yes" {
		t.Errorf("Show() = %v, want yes", got)
	}
}

func TestRangeAndEach(t *testing.T) {
	items := []string{"a", "b", "c"}
	got := Range(items, func(s string, i int) any {
		if i == 1 {
			return nil
		}
		return s
	})
	if diff := cmp.Diff([]any{"a", "c"}, got); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}

	list := reactive.NewCell([]int{1, 2})
	each := Each[int](list, func(n int, _ int) any { return n * 10 })
	if diff := cmp.Diff([]any{10, 20}, each()); diff != "" {
		t.Errorf("Each mismatch (-want +got):\n%s", diff)
	}
}

func TestIfElseWhen(t *testing.T) {
	if IfElse(true, 1, 2) != 1 || IfElse(false, 1, 2) != 2 {
		t.Error("IfElse returned wrong branch")
	}
	called := false
	When(false, func() any { called = true; return nil })
	if called {
		t.Error("When evaluated a false branch")
	}
}
