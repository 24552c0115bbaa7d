package vdom

import (
	"fmt"

	"github.com/vango-dev/ripple/pkg/reactive"
)

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *Node {
	return &Node{Kind: KindRaw, Text: html}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	return Build(FragmentMarker, nil, children...)
}

// If returns v if condition is true, nil otherwise.
func If(condition bool, v any) any {
	if condition {
		return v
	}
	return nil
}

// IfElse returns the first value if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse any) any {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
func When(condition bool, fn func() any) any {
	if condition {
		return fn()
	}
	return nil
}

// Show is the reactive If: the returned thunk re-evaluates cond every time
// it is read, so the renderer swaps the region when cond changes.
func Show(cond reactive.Reader, then any, otherwise ...any) Thunk {
	return func() any {
		if truthy(cond.ReadAny()) {
			return then
		}
		if len(otherwise) > 0 {
			return otherwise[0]
		}
		return nil
	}
}

// Range maps a slice to child values.
func Range[T any](items []T, fn func(item T, index int) any) []any {
	result := make([]any, 0, len(items))
	for i, item := range items {
		if v := fn(item, i); v != nil {
			result = append(result, v)
		}
	}
	return result
}

// Each is the reactive Range over a cell or memo holding a slice.
func Each[T any](items interface{ Get() []T }, fn func(item T, index int) any) Thunk {
	return func() any {
		return Range(items.Get(), fn)
	}
}

// Key creates a key attribute for reconciliation.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	case int:
		return b != 0
	default:
		return true
	}
}
