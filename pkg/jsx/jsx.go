// Package jsx provides the automatic JSX runtime entry points a transpiler
// targets, plus the classic CreateElement form.
//
// All entry points build descriptors with vdom.Build, so a "children" prop
// and variadic children follow one rule in every call convention: the
// automatic runtime passes children only through props, the classic runtime
// only through arguments.
package jsx

import (
	"fmt"

	"github.com/vango-dev/ripple/pkg/vdom"
)

// Fragment is the type a transpiler passes for <>...</>.
var Fragment = vdom.FragmentMarker

// Source is the location a development build records for an element.
type Source struct {
	FileName     string
	LineNumber   int
	ColumnNumber int
}

func (s *Source) String() string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", s.FileName, s.LineNumber, s.ColumnNumber)
}

// JSX creates an element with zero or one child in props["children"].
func JSX(typ any, props vdom.Props, key ...any) *vdom.Node {
	return vdom.Build(typ, withKey(props, key))
}

// JSXs creates an element whose props["children"] is a static list.
func JSXs(typ any, props vdom.Props, key ...any) *vdom.Node {
	return vdom.Build(typ, withKey(props, key))
}

// JSXDEV is the development entry point. It builds the same descriptor as
// JSX and JSXs; source and self are accepted for tooling and not rendered.
func JSXDEV(typ any, props vdom.Props, key any, isStaticChildren bool, source *Source, self any) *vdom.Node {
	if key == nil {
		return vdom.Build(typ, props)
	}
	return vdom.Build(typ, withKey(props, []any{key}))
}

// CreateElement is the classic runtime: children are passed as arguments
// and take precedence over props["children"].
func CreateElement(typ any, props vdom.Props, children ...any) *vdom.Node {
	return vdom.Build(typ, props, children...)
}

// withKey returns props with "key" set, copying so the caller's map is
// never written.
func withKey(props vdom.Props, key []any) vdom.Props {
	if len(key) == 0 || key[0] == nil {
		return props
	}
	out := make(vdom.Props, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out["key"] = fmt.Sprint(key[0])
	return out
}
