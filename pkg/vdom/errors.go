package vdom

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// UnrenderableTypeError reports a descriptor type or child value that no
// renderer can handle. It is raised at render time, never by Build.
type UnrenderableTypeError struct {
	Type any
}

func (e *UnrenderableTypeError) Error() string {
	return fmt.Sprintf("vdom: unrenderable type %T", e.Type)
}

// ComponentRenderError wraps a failure inside a component's render
// function. Exactly one of Err and Panic is set.
type ComponentRenderError struct {
	Component string
	Err       error
	Panic     any
}

func (e *ComponentRenderError) Error() string {
	name := e.Component
	if name == "" {
		name = "component"
	}
	if e.Err != nil {
		return fmt.Sprintf("vdom: %s failed to render: %v", name, e.Err)
	}
	return fmt.Sprintf("vdom: %s panicked: %v", name, e.Panic)
}

func (e *ComponentRenderError) Unwrap() error {
	return e.Err
}

// CoercionError reports an attribute value that could not be converted to
// HTML. Renderers recover from it by omitting the attribute.
type CoercionError struct {
	Attr  string
	Value any
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("vdom: cannot coerce %T for attribute %q: %v", e.Value, e.Attr, e.Err)
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

// ComponentName returns a readable name for a component function.
func ComponentName(c Component) string {
	if c == nil {
		return ""
	}
	fn := runtime.FuncForPC(reflect.ValueOf(c).Pointer())
	if fn == nil {
		return "component"
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// RenderComponent invokes n's render function, converting a returned error
// value or a panic into a ComponentRenderError. A component may return an
// error as its child value to signal failure.
func RenderComponent(n *Node) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*ComponentRenderError); ok {
				err = re
				return
			}
			err = &ComponentRenderError{Component: ComponentName(n.Render), Panic: r}
		}
	}()

	out = n.Render(n.ComponentProps())
	if e, ok := out.(error); ok {
		var cre *ComponentRenderError
		if errors.As(e, &cre) {
			return nil, cre
		}
		return nil, &ComponentRenderError{Component: ComponentName(n.Render), Err: e}
	}
	return out, nil
}
