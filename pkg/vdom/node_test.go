package vdom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildKinds(t *testing.T) {
	comp := func(Props) any { return nil }

	tests := []struct {
		name string
		typ  any
		want Kind
	}{
		{"tag", "div", KindElement},
		{"empty tag", "", KindInvalid},
		{"component func", comp, KindComponent},
		{"component type", Component(comp), KindComponent},
		{"nil component", Component(nil), KindInvalid},
		{"fragment", FragmentMarker, KindFragment},
		{"number", 42, KindInvalid},
		{"nil", nil, KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build(tt.typ, nil)
			if n.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", n.Kind, tt.want)
			}
		})
	}
}

func TestBuildLowercasesTag(t *testing.T) {
	n := Build("DIV", nil)
	if n.Tag != "div" {
		t.Errorf("Tag = %q, want div", n.Tag)
	}
}

func TestBuildChildrenSlot(t *testing.T) {
	tests := []struct {
		name       string
		props      Props
		children   []any
		want       any
		wantSource ChildrenSource
	}{
		{
			name:       "variadic beats prop",
			props:      Props{"children": "x"},
			children:   []any{"y"},
			want:       "y",
			wantSource: ChildrenFromArgs,
		},
		{
			name:       "prop only",
			props:      Props{"children": "x"},
			want:       "x",
			wantSource: ChildrenFromProps,
		},
		{
			name:       "several variadic",
			children:   []any{"a", 1, nil},
			want:       []any{"a", 1, nil},
			wantSource: ChildrenFromArgs,
		},
		{
			name:       "single variadic slice stays as given",
			children:   []any{[]any{"a", "b"}},
			want:       []any{"a", "b"},
			wantSource: ChildrenFromArgs,
		},
		{
			name:       "explicit nil prop",
			props:      Props{"children": nil},
			want:       nil,
			wantSource: ChildrenFromProps,
		},
		{
			name:       "none",
			props:      Props{"id": "a"},
			want:       nil,
			wantSource: ChildrenNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build("div", tt.props, tt.children...)
			if diff := cmp.Diff(tt.want, n.Children()); diff != "" {
				t.Errorf("Children() mismatch (-want +got):\n%s", diff)
			}
			if n.ChildrenSource() != tt.wantSource {
				t.Errorf("ChildrenSource() = %v, want %v", n.ChildrenSource(), tt.wantSource)
			}
		})
	}
}

func TestBuildDoesNotMutateInputs(t *testing.T) {
	props := Props{"children": "x", "id": "a"}
	kids := []any{"a", "b"}

	n := Build("div", props, kids...)
	kids[0] = "changed"

	if diff := cmp.Diff(Props{"children": "x", "id": "a"}, props); diff != "" {
		t.Errorf("props mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a", "b"}, n.Children()); diff != "" {
		t.Errorf("slot aliases caller slice (-want +got):\n%s", diff)
	}
}

func TestComponentProps(t *testing.T) {
	t.Run("slot replaces prop", func(t *testing.T) {
		n := Build(func(Props) any { return nil }, Props{"children": "x", "title": "t"}, "y")
		got := n.ComponentProps()
		want := Props{"children": "y", "title": "t"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ComponentProps() mismatch (-want +got):\n%s", diff)
		}
		if n.Props["children"] != "x" {
			t.Error("original props modified")
		}
	})

	t.Run("empty slot drops key", func(t *testing.T) {
		n := Build(func(Props) any { return nil }, Props{"title": "t"})
		if _, ok := n.ComponentProps()["children"]; ok {
			t.Error("children key present for empty slot")
		}
	})
}

func TestKey(t *testing.T) {
	n := Div(Key(7))
	if n.Key() != "7" {
		t.Errorf("Key() = %q, want 7", n.Key())
	}
	var nilNode *Node
	if nilNode.Key() != "" {
		t.Error("nil node should have empty key")
	}
}

func TestRenderComponent(t *testing.T) {
	t.Run("value", func(t *testing.T) {
		n := Build(func(p Props) any { return p["children"] }, nil, "hi")
		out, err := RenderComponent(n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "hi" {
			t.Errorf("out = %v, want hi", out)
		}
	})

	t.Run("panic", func(t *testing.T) {
		n := Build(func(Props) any { panic("boom") }, nil)
		_, err := RenderComponent(n)
		var cre *ComponentRenderError
		if !errors.As(err, &cre) {
			t.Fatalf("err = %v, want ComponentRenderError", err)
		}
		if cre.Panic != "boom" {
			t.Errorf("Panic = %v, want boom", cre.Panic)
		}
	})

	t.Run("returned error", func(t *testing.T) {
		sentinel := errors.New("nope")
		n := Build(func(Props) any { return sentinel }, nil)
		_, err := RenderComponent(n)
		if !errors.Is(err, sentinel) {
			t.Errorf("err = %v, want wrapping %v", err, sentinel)
		}
	})
}
